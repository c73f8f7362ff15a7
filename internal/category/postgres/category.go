package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/pos-backoffice/internal/category"
	"github.com/frahmantamala/pos-backoffice/internal/core/common/database"
	categoryDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/category"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAll(ctx context.Context, includeInactive bool) ([]*categoryDatamodel.Category, error) {
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var categories []*categoryDatamodel.Category
	err := q.Order("sort_order ASC, name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(ctx context.Context, cat *categoryDatamodel.Category) error {
	if err := r.db.WithContext(ctx).Create(cat).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return category.ErrCategoryExists
		}
		return err
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, cat *categoryDatamodel.Category) error {
	if err := r.db.WithContext(ctx).Save(cat).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return category.ErrCategoryExists
		}
		return err
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&categoryDatamodel.Category{}).Where("id = ?", id).Update("is_active", false).Error
}
