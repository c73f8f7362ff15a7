package store

import "time"

type Store struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	Address   string    `gorm:"column:address"`
	Phone     string    `gorm:"column:phone"`
	IsActive  bool      `gorm:"column:is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Store) TableName() string {
	return "stores"
}

type Settings struct {
	StoreID       int64     `gorm:"primaryKey;column:store_id;autoIncrement:false"`
	Currency      string    `gorm:"column:currency;not null"`
	Timezone      string    `gorm:"column:timezone"`
	ReceiptHeader string    `gorm:"column:receipt_header"`
	ReceiptFooter string    `gorm:"column:receipt_footer"`
	LogoURL       string    `gorm:"column:logo_url"`
	TaxInclusive  bool      `gorm:"column:tax_inclusive"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Settings) TableName() string {
	return "store_settings"
}

type PosDevice struct {
	ID         int64     `gorm:"primaryKey"`
	StoreID    int64     `gorm:"column:store_id;not null;index"`
	Name       string    `gorm:"column:name;not null"`
	DeviceCode string    `gorm:"column:device_code;uniqueIndex;not null"`
	IsActive   bool      `gorm:"column:is_active"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PosDevice) TableName() string {
	return "pos_devices"
}

type DiningOption struct {
	ID        int64     `gorm:"primaryKey"`
	StoreID   int64     `gorm:"column:store_id;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	IsDefault bool      `gorm:"column:is_default"`
	IsActive  bool      `gorm:"column:is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (DiningOption) TableName() string {
	return "dining_options"
}

type KitchenQueue struct {
	ID          int64     `gorm:"primaryKey"`
	StoreID     int64     `gorm:"column:store_id;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	CategoryIDs []int64   `gorm:"column:category_ids;serializer:json"`
	IsActive    bool      `gorm:"column:is_active"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (KitchenQueue) TableName() string {
	return "kitchen_queues"
}
