package discount

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/core/common/validation"
	discountDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/discount"
)

type RepositoryAPI interface {
	List(ctx context.Context, includeInactive bool) ([]*discountDatamodel.Discount, error)
	GetByID(ctx context.Context, id int64) (*discountDatamodel.Discount, error)
	Create(ctx context.Context, d *discountDatamodel.Discount) error
	Update(ctx context.Context, d *discountDatamodel.Discount) error
	Deactivate(ctx context.Context, id int64) error
}

var (
	ErrDiscountNotFound = internal.NewNotFoundError("discount not found", internal.ErrCodeDiscountNotFound)
	ErrDiscountExists   = internal.NewConflictError("discount name already exists", internal.ErrCodeDuplicateKey)
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func validate(dto DiscountDTO) error {
	b := validation.NewValidator().Merge(validation.Struct(dto))
	b.Check(dto.Type != TypePercentage || dto.Value.LessThanOrEqual(hundred),
		"value", "percentage discounts cannot exceed 100", internal.ErrCodeInvalidAmount)
	if err := b.Validate(); err != nil {
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]*Discount, error) {
	rows, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, internal.NewInternalError("failed to list discounts", err)
	}
	out := make([]*Discount, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

// Get returns the discount even when inactive; callers decide whether that matters.
func (s *Service) Get(ctx context.Context, id int64) (*Discount, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load discount", err)
	}
	if row == nil {
		return nil, ErrDiscountNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto DiscountDTO) (*Discount, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validate(dto); err != nil {
		return nil, err
	}
	row := &discountDatamodel.Discount{
		Name:     dto.Name,
		Type:     dto.Type,
		Value:    dto.Value,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, s.writeError(err)
	}
	s.logger.Info("discount created", "discount_id", row.ID, "type", row.Type)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto DiscountDTO) (*Discount, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validate(dto); err != nil {
		return nil, err
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load discount", err)
	}
	if row == nil {
		return nil, ErrDiscountNotFound
	}

	row.Name = dto.Name
	row.Type = dto.Type
	row.Value = dto.Value
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, s.writeError(err)
	}
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return internal.NewInternalError("failed to delete discount", err)
	}
	return nil
}

func (s *Service) writeError(err error) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error("discount write failed", "error", err)
	return internal.NewInternalError("failed to save discount", err)
}
