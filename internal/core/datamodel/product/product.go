package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64             `gorm:"primaryKey"`
	Name          string            `gorm:"column:name;not null"`
	SKU           *string           `gorm:"column:sku;uniqueIndex"`
	Description   string            `gorm:"column:description"`
	CategoryID    *int64            `gorm:"column:category_id;index"`
	TaxCategoryID *int64            `gorm:"column:tax_category_id"`
	Price         decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null"`
	Cost          decimal.Decimal   `gorm:"column:cost;type:numeric(12,2);not null"`
	ImageURL      string            `gorm:"column:image_url"`
	IsActive      bool              `gorm:"column:is_active"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
	Variants      []Variant         `gorm:"foreignKey:ProductID"`
	Stores        []ProductStore    `gorm:"foreignKey:ProductID"`
	Modifiers     []ProductModifier `gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "products"
}

type Variant struct {
	ID        int64           `gorm:"primaryKey"`
	ProductID int64           `gorm:"column:product_id;not null;index"`
	Name      string          `gorm:"column:name;not null"`
	SKU       *string         `gorm:"column:sku;uniqueIndex"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Cost      decimal.Decimal `gorm:"column:cost;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Variant) TableName() string {
	return "product_variants"
}

type ProductStore struct {
	ProductID     int64               `gorm:"primaryKey;column:product_id"`
	StoreID       int64               `gorm:"primaryKey;column:store_id"`
	IsAvailable   bool                `gorm:"column:is_available"`
	PriceOverride decimal.NullDecimal `gorm:"column:price_override;type:numeric(12,2)"`
}

func (ProductStore) TableName() string {
	return "product_stores"
}

type ProductModifier struct {
	ProductID  int64 `gorm:"primaryKey;column:product_id"`
	ModifierID int64 `gorm:"primaryKey;column:modifier_id"`
}

func (ProductModifier) TableName() string {
	return "product_modifiers"
}

type Modifier struct {
	ID        int64           `gorm:"primaryKey"`
	Name      string          `gorm:"column:name;uniqueIndex;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	IsActive  bool            `gorm:"column:is_active"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Modifier) TableName() string {
	return "modifiers"
}
