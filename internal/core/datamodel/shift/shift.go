package shift

import (
	"time"

	"github.com/shopspring/decimal"
)

type Shift struct {
	ID                 int64               `gorm:"primaryKey"`
	StoreID            int64               `gorm:"column:store_id;not null;index"`
	UserID             int64               `gorm:"column:user_id;not null;index"`
	OpeningTime        time.Time           `gorm:"column:opening_time;not null"`
	ClosingTime        *time.Time          `gorm:"column:closing_time"`
	ExpectedCashAmount decimal.Decimal     `gorm:"column:expected_cash_amount;type:numeric(12,2);not null"`
	ActualCashAmount   decimal.NullDecimal `gorm:"column:actual_cash_amount;type:numeric(12,2)"`
	IsActive           bool                `gorm:"column:is_active;index"`
	Notes              string              `gorm:"column:notes"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Shift) TableName() string {
	return "shifts"
}
