package taxcategory

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxCategory.Rate is a percentage, e.g. 11.00 for 11%.
type TaxCategory struct {
	ID        int64           `gorm:"primaryKey"`
	Name      string          `gorm:"column:name;uniqueIndex;not null"`
	Rate      decimal.Decimal `gorm:"column:rate;type:numeric(6,3);not null"`
	IsDefault bool            `gorm:"column:is_default"`
	IsActive  bool            `gorm:"column:is_active"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (TaxCategory) TableName() string {
	return "tax_categories"
}
