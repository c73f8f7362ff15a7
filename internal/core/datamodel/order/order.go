package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusCompleted         = "completed"
	StatusPartiallyRefunded = "partially_refunded"
	StatusRefunded          = "refunded"
)

type Order struct {
	ID             int64           `gorm:"primaryKey"`
	OrderNumber    string          `gorm:"column:order_number;uniqueIndex;not null"`
	StoreID        int64           `gorm:"column:store_id;not null;index"`
	UserID         int64           `gorm:"column:user_id;not null;index"`
	ShiftID        *int64          `gorm:"column:shift_id"`
	DiningOptionID *int64          `gorm:"column:dining_option_id"`
	Status         string          `gorm:"column:status;not null"`
	PaymentMethod  string          `gorm:"column:payment_method;not null"`
	DiscountID     *int64          `gorm:"column:discount_id"`
	DiscountName   string          `gorm:"column:discount_name"`
	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:numeric(12,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"column:tax_amount;type:numeric(12,2);not null"`
	Total          decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	RefundAmount   decimal.Decimal `gorm:"column:refund_amount;type:numeric(12,2);not null"`
	RefundReason   string          `gorm:"column:refund_reason"`
	Notes          string          `gorm:"column:notes"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots catalog data at sale time so reports survive later edits.
type OrderItem struct {
	ID             int64           `gorm:"primaryKey"`
	OrderID        int64           `gorm:"column:order_id;not null;index"`
	ProductID      int64           `gorm:"column:product_id;not null;index"`
	VariantID      *int64          `gorm:"column:variant_id"`
	ProductName    string          `gorm:"column:product_name;not null"`
	CategoryID     *int64          `gorm:"column:category_id"`
	CategoryName   string          `gorm:"column:category_name"`
	TaxCategoryID  *int64          `gorm:"column:tax_category_id"`
	TaxName        string          `gorm:"column:tax_name"`
	TaxRate        decimal.Decimal `gorm:"column:tax_rate;type:numeric(6,3);not null"`
	Quantity       int             `gorm:"column:quantity;not null"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	UnitCost       decimal.Decimal `gorm:"column:unit_cost;type:numeric(12,2);not null"`
	GrossAmount    decimal.Decimal `gorm:"column:gross_amount;type:numeric(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:numeric(12,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"column:tax_amount;type:numeric(12,2);not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
