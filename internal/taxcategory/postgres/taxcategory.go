package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/pos-backoffice/internal/core/common/database"
	taxDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/taxcategory"
	"github.com/frahmantamala/pos-backoffice/internal/taxcategory"
	"gorm.io/gorm"
)

type TaxCategoryRepository struct {
	db *gorm.DB
}

func NewTaxCategoryRepository(db *gorm.DB) taxcategory.RepositoryAPI {
	return &TaxCategoryRepository{db: db}
}

func (r *TaxCategoryRepository) List(ctx context.Context, includeInactive bool) ([]*taxDatamodel.TaxCategory, error) {
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var rows []*taxDatamodel.TaxCategory
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *TaxCategoryRepository) GetByID(ctx context.Context, id int64) (*taxDatamodel.TaxCategory, error) {
	var t taxDatamodel.TaxCategory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaxCategoryRepository) Save(ctx context.Context, t *taxDatamodel.TaxCategory) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(t).Error; err != nil {
			return err
		}
		if !t.IsDefault {
			return nil
		}
		return tx.Model(&taxDatamodel.TaxCategory{}).
			Where("id <> ? AND is_default = ?", t.ID, true).
			Update("is_default", false).Error
	})
	if database.IsUniqueViolation(err) {
		return taxcategory.ErrTaxCategoryExists
	}
	return err
}

func (r *TaxCategoryRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&taxDatamodel.TaxCategory{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "is_default": false}).Error
}
