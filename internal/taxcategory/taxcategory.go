package taxcategory

import (
	"time"

	taxDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/taxcategory"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TaxCategory.Rate is a percentage: 11 means 11%.
type TaxCategory struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	IsDefault bool            `json:"isDefault"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// TaxOn returns the tax owed on amount, rounded to cents.
func TaxOn(rate, amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred).Round(2)
}

func FromDataModel(t *taxDatamodel.TaxCategory) *TaxCategory {
	return &TaxCategory{
		ID:        t.ID,
		Name:      t.Name,
		Rate:      t.Rate,
		IsDefault: t.IsDefault,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
