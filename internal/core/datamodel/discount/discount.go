package discount

import (
	"time"

	"github.com/shopspring/decimal"
)

type Discount struct {
	ID        int64           `gorm:"primaryKey"`
	Name      string          `gorm:"column:name;uniqueIndex;not null"`
	Type      string          `gorm:"column:type;not null"`
	Value     decimal.Decimal `gorm:"column:value;type:numeric(12,2);not null"`
	IsActive  bool            `gorm:"column:is_active"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Discount) TableName() string {
	return "discounts"
}
