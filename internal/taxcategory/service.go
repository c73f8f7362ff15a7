package taxcategory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/core/common/validation"
	taxDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/taxcategory"
)

// RepositoryAPI.Save clears the default flag on other rows when t.IsDefault is set.
type RepositoryAPI interface {
	List(ctx context.Context, includeInactive bool) ([]*taxDatamodel.TaxCategory, error)
	GetByID(ctx context.Context, id int64) (*taxDatamodel.TaxCategory, error)
	Save(ctx context.Context, t *taxDatamodel.TaxCategory) error
	Deactivate(ctx context.Context, id int64) error
}

var (
	ErrTaxCategoryNotFound = internal.NewNotFoundError("tax category not found", internal.ErrCodeTaxCategoryNotFound)
	ErrTaxCategoryExists   = internal.NewConflictError("tax category name already exists", internal.ErrCodeDuplicateKey)
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]*TaxCategory, error) {
	rows, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, internal.NewInternalError("failed to list tax categories", err)
	}
	out := make([]*TaxCategory, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, dto TaxCategoryDTO) (*TaxCategory, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	row := &taxDatamodel.TaxCategory{
		Name:      dto.Name,
		Rate:      dto.Rate,
		IsDefault: dto.IsDefault,
		IsActive:  true,
	}
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, s.writeError(err)
	}
	s.logger.Info("tax category created", "tax_category_id", row.ID, "rate", row.Rate.String())
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto TaxCategoryDTO) (*TaxCategory, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load tax category", err)
	}
	if row == nil {
		return nil, ErrTaxCategoryNotFound
	}

	row.Name = dto.Name
	row.Rate = dto.Rate
	row.IsDefault = dto.IsDefault
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, s.writeError(err)
	}
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to load tax category", err)
	}
	if row == nil {
		return ErrTaxCategoryNotFound
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return internal.NewInternalError("failed to delete tax category", err)
	}
	return nil
}

func (s *Service) writeError(err error) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error("tax category write failed", "error", err)
	return internal.NewInternalError("failed to save tax category", err)
}
