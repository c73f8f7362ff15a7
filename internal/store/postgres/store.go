package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/pos-backoffice/internal/core/common/database"
	storeDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/store"
	"github.com/frahmantamala/pos-backoffice/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StoreRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) store.RepositoryAPI {
	return &StoreRepository{db: db}
}

func mapWriteError(err error) error {
	if database.IsUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

// first loads one row into dst, translating not-found to (false, nil).
func (r *StoreRepository) first(ctx context.Context, dst interface{}, query string, args ...interface{}) (bool, error) {
	err := r.db.WithContext(ctx).Where(query, args...).First(dst).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *StoreRepository) scoped(ctx context.Context, storeID *int64) *gorm.DB {
	q := r.db.WithContext(ctx)
	if storeID != nil {
		q = q.Where("store_id = ?", *storeID)
	}
	return q
}

func (r *StoreRepository) ListStores(ctx context.Context) ([]*storeDatamodel.Store, error) {
	var rows []*storeDatamodel.Store
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *StoreRepository) GetStore(ctx context.Context, id int64) (*storeDatamodel.Store, error) {
	var s storeDatamodel.Store
	found, err := r.first(ctx, &s, "id = ?", id)
	if !found {
		return nil, err
	}
	return &s, nil
}

func (r *StoreRepository) SaveStore(ctx context.Context, s *storeDatamodel.Store) error {
	return mapWriteError(r.db.WithContext(ctx).Save(s).Error)
}

func (r *StoreRepository) GetSettings(ctx context.Context, storeID int64) (*storeDatamodel.Settings, error) {
	var s storeDatamodel.Settings
	found, err := r.first(ctx, &s, "store_id = ?", storeID)
	if !found {
		return nil, err
	}
	return &s, nil
}

func (r *StoreRepository) UpsertSettings(ctx context.Context, s *storeDatamodel.Settings) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_id"}},
		UpdateAll: true,
	}).Create(s).Error
}

func (r *StoreRepository) ListDevices(ctx context.Context, storeID *int64) ([]*storeDatamodel.PosDevice, error) {
	var rows []*storeDatamodel.PosDevice
	err := r.scoped(ctx, storeID).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *StoreRepository) GetDevice(ctx context.Context, id int64) (*storeDatamodel.PosDevice, error) {
	var d storeDatamodel.PosDevice
	found, err := r.first(ctx, &d, "id = ?", id)
	if !found {
		return nil, err
	}
	return &d, nil
}

func (r *StoreRepository) SaveDevice(ctx context.Context, d *storeDatamodel.PosDevice) error {
	return mapWriteError(r.db.WithContext(ctx).Save(d).Error)
}

func (r *StoreRepository) DeactivateDevice(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&storeDatamodel.PosDevice{}).Where("id = ?", id).Update("is_active", false).Error
}

func (r *StoreRepository) ListDiningOptions(ctx context.Context, storeID *int64) ([]*storeDatamodel.DiningOption, error) {
	var rows []*storeDatamodel.DiningOption
	err := r.scoped(ctx, storeID).Order("is_default DESC, name ASC").Find(&rows).Error
	return rows, err
}

func (r *StoreRepository) GetDiningOption(ctx context.Context, id int64) (*storeDatamodel.DiningOption, error) {
	var d storeDatamodel.DiningOption
	found, err := r.first(ctx, &d, "id = ?", id)
	if !found {
		return nil, err
	}
	return &d, nil
}

// SaveDiningOption keeps at most one default option per store.
func (r *StoreRepository) SaveDiningOption(ctx context.Context, d *storeDatamodel.DiningOption) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(d).Error; err != nil {
			return err
		}
		if !d.IsDefault {
			return nil
		}
		return tx.Model(&storeDatamodel.DiningOption{}).
			Where("store_id = ? AND id <> ? AND is_default = ?", d.StoreID, d.ID, true).
			Update("is_default", false).Error
	})
	return mapWriteError(err)
}

func (r *StoreRepository) DeactivateDiningOption(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&storeDatamodel.DiningOption{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "is_default": false}).Error
}

func (r *StoreRepository) ListKitchenQueues(ctx context.Context, storeID *int64) ([]*storeDatamodel.KitchenQueue, error) {
	var rows []*storeDatamodel.KitchenQueue
	err := r.scoped(ctx, storeID).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *StoreRepository) GetKitchenQueue(ctx context.Context, id int64) (*storeDatamodel.KitchenQueue, error) {
	var q storeDatamodel.KitchenQueue
	found, err := r.first(ctx, &q, "id = ?", id)
	if !found {
		return nil, err
	}
	return &q, nil
}

func (r *StoreRepository) SaveKitchenQueue(ctx context.Context, q *storeDatamodel.KitchenQueue) error {
	return mapWriteError(r.db.WithContext(ctx).Save(q).Error)
}

func (r *StoreRepository) DeactivateKitchenQueue(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&storeDatamodel.KitchenQueue{}).Where("id = ?", id).Update("is_active", false).Error
}
