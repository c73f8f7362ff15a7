package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/pos-backoffice/internal/core/common/database"
	discountDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/discount"
	"github.com/frahmantamala/pos-backoffice/internal/discount"
	"gorm.io/gorm"
)

type DiscountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) discount.RepositoryAPI {
	return &DiscountRepository{db: db}
}

func (r *DiscountRepository) List(ctx context.Context, includeInactive bool) ([]*discountDatamodel.Discount, error) {
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var rows []*discountDatamodel.Discount
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *DiscountRepository) GetByID(ctx context.Context, id int64) (*discountDatamodel.Discount, error) {
	var d discountDatamodel.Discount
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DiscountRepository) Create(ctx context.Context, d *discountDatamodel.Discount) error {
	return mapWriteError(r.db.WithContext(ctx).Create(d).Error)
}

func (r *DiscountRepository) Update(ctx context.Context, d *discountDatamodel.Discount) error {
	return mapWriteError(r.db.WithContext(ctx).Save(d).Error)
}

func (r *DiscountRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&discountDatamodel.Discount{}).Where("id = ?", id).Update("is_active", false).Error
}

func mapWriteError(err error) error {
	if database.IsUniqueViolation(err) {
		return discount.ErrDiscountExists
	}
	return err
}
