package store

import (
	"time"

	storeDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/store"
)

const DefaultCurrency = "USD"

type Store struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Settings is the per-store configuration row; a store without a row reports defaults.
type Settings struct {
	StoreID       int64     `json:"storeId"`
	Currency      string    `json:"currency"`
	Timezone      string    `json:"timezone"`
	ReceiptHeader string    `json:"receiptHeader"`
	ReceiptFooter string    `json:"receiptFooter"`
	LogoURL       string    `json:"logoUrl"`
	TaxInclusive  bool      `json:"taxInclusive"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func DefaultSettings(storeID int64) *Settings {
	return &Settings{StoreID: storeID, Currency: DefaultCurrency, Timezone: "UTC"}
}

type PosDevice struct {
	ID         int64     `json:"id"`
	StoreID    int64     `json:"storeId"`
	Name       string    `json:"name"`
	DeviceCode string    `json:"deviceCode"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type DiningOption struct {
	ID        int64     `json:"id"`
	StoreID   int64     `json:"storeId"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"isDefault"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type KitchenQueue struct {
	ID          int64     `json:"id"`
	StoreID     int64     `json:"storeId"`
	Name        string    `json:"name"`
	CategoryIDs []int64   `json:"categoryIds"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func StoreFromDataModel(s *storeDatamodel.Store) *Store {
	return &Store{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func SettingsFromDataModel(s *storeDatamodel.Settings) *Settings {
	return &Settings{
		StoreID:       s.StoreID,
		Currency:      s.Currency,
		Timezone:      s.Timezone,
		ReceiptHeader: s.ReceiptHeader,
		ReceiptFooter: s.ReceiptFooter,
		LogoURL:       s.LogoURL,
		TaxInclusive:  s.TaxInclusive,
		UpdatedAt:     s.UpdatedAt,
	}
}

func DeviceFromDataModel(d *storeDatamodel.PosDevice) *PosDevice {
	return &PosDevice{
		ID:         d.ID,
		StoreID:    d.StoreID,
		Name:       d.Name,
		DeviceCode: d.DeviceCode,
		IsActive:   d.IsActive,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func DiningOptionFromDataModel(d *storeDatamodel.DiningOption) *DiningOption {
	return &DiningOption{
		ID:        d.ID,
		StoreID:   d.StoreID,
		Name:      d.Name,
		IsDefault: d.IsDefault,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func KitchenQueueFromDataModel(q *storeDatamodel.KitchenQueue) *KitchenQueue {
	ids := q.CategoryIDs
	if ids == nil {
		ids = []int64{}
	}
	return &KitchenQueue{
		ID:          q.ID,
		StoreID:     q.StoreID,
		Name:        q.Name,
		CategoryIDs: ids,
		IsActive:    q.IsActive,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}
