package category

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/core/common/validation"
	categoryDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context, includeInactive bool) ([]*categoryDatamodel.Category, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	Update(ctx context.Context, category *categoryDatamodel.Category) error
	Delete(ctx context.Context, id int64) error
}

var (
	ErrCategoryNotFound = internal.NewNotFoundError("category not found", internal.ErrCodeCategoryNotFound)
	ErrCategoryExists   = internal.NewConflictError("category name already exists", internal.ErrCodeCategoryExists)
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAll(ctx context.Context, includeInactive bool) ([]*Category, error) {
	dataCategories, err := s.repo.GetAll(ctx, includeInactive)
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, internal.NewInternalError("failed to get categories", err)
	}

	categories := make([]*Category, 0, len(dataCategories))
	for _, dataCategory := range dataCategories {
		categories = append(categories, FromDataModel(dataCategory))
	}

	s.logger.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Category, error) {
	dataCategory, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get category", err)
	}
	if dataCategory == nil {
		return nil, ErrCategoryNotFound
	}
	return FromDataModel(dataCategory), nil
}

// IsValidCategory reports whether id names an active category.
func (s *Service) IsValidCategory(ctx context.Context, id int64) bool {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return false
	}
	return c.IsActiveCategory()
}

func (s *Service) Create(ctx context.Context, dto CategoryDTO) (*Category, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check category name", err)
	}
	if existing != nil {
		return nil, ErrCategoryExists
	}

	c := NewCategory(dto)
	row := ToDataModel(c)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, s.writeError(err)
	}

	s.logger.Info("category created", "category_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto CategoryDTO) (*Category, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get category", err)
	}
	if row == nil {
		return nil, ErrCategoryNotFound
	}

	if dto.Name != row.Name {
		existing, err := s.repo.GetByName(ctx, dto.Name)
		if err != nil {
			return nil, internal.NewInternalError("failed to check category name", err)
		}
		if existing != nil && existing.ID != id {
			return nil, ErrCategoryExists
		}
	}

	row.Name = dto.Name
	row.Description = dto.Description
	row.Color = dto.Color
	row.SortOrder = dto.SortOrder
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, s.writeError(err)
	}
	return FromDataModel(row), nil
}

// Delete deactivates the category; order items keep their category snapshot.
func (s *Service) Delete(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to get category", err)
	}
	if row == nil {
		return ErrCategoryNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internal.NewInternalError("failed to delete category", err)
	}
	s.logger.Info("category deactivated", "category_id", id)
	return nil
}

func (s *Service) writeError(err error) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error("category write failed", "error", err)
	return internal.NewInternalError("failed to save category", err)
}
