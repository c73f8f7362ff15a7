package postgres

import (
	"context"
	"errors"

	orderDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/order"
	"github.com/frahmantamala/pos-backoffice/internal/order"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) order.RepositoryAPI {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) List(ctx context.Context, filter order.ListFilter) ([]*orderDatamodel.Order, error) {
	where, args := filter.Where("")
	q := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where(where, args...)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var rows []*orderDatamodel.Order
	err := q.Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	return rows, err
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*orderDatamodel.Order, error) {
	var o orderDatamodel.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

// Create writes the order and its items in one transaction.
func (r *OrderRepository) Create(ctx context.Context, o *orderDatamodel.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(o).Error; err != nil {
			return err
		}
		for i := range o.Items {
			o.Items[i].OrderID = o.ID
		}
		if len(o.Items) == 0 {
			return nil
		}
		return tx.Create(&o.Items).Error
	})
}

func (r *OrderRepository) Refund(ctx context.Context, id int64, previous, refunded decimal.Decimal, status, reason string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&orderDatamodel.Order{}).
		Where("id = ? AND refund_amount = ? AND status <> ?", id, previous, orderDatamodel.StatusRefunded).
		Updates(map[string]interface{}{
			"refund_amount": refunded,
			"status":        status,
			"refund_reason": reason,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
