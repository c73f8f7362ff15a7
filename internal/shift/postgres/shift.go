package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/pos-backoffice/internal/core/common/database"
	shiftDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/shift"
	"github.com/frahmantamala/pos-backoffice/internal/shift"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) shift.RepositoryAPI {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) List(ctx context.Context, filter shift.ListFilter) ([]*shiftDatamodel.Shift, error) {
	q := r.db.WithContext(ctx).Model(&shiftDatamodel.Shift{})
	if filter.StoreID != nil {
		q = q.Where("store_id = ?", *filter.StoreID)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}

	var shifts []*shiftDatamodel.Shift
	err := q.Order("opening_time DESC").Find(&shifts).Error
	return shifts, err
}

func (r *ShiftRepository) GetByID(ctx context.Context, id int64) (*shiftDatamodel.Shift, error) {
	var s shiftDatamodel.Shift
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *ShiftRepository) GetActiveByUser(ctx context.Context, userID int64) (*shiftDatamodel.Shift, error) {
	var s shiftDatamodel.Shift
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("opening_time DESC").
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Create relies on the partial unique index shifts(user_id) WHERE is_active to settle races.
func (r *ShiftRepository) Create(ctx context.Context, s *shiftDatamodel.Shift) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return shift.ErrShiftAlreadyActive
		}
		return err
	}
	return nil
}

func (r *ShiftRepository) Close(ctx context.Context, id int64, closedAt time.Time, actual decimal.Decimal, notes string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&shiftDatamodel.Shift{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"is_active":          false,
			"closing_time":       closedAt,
			"actual_cash_amount": decimal.NewNullDecimal(actual),
			"notes":              notes,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
