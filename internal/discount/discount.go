package discount

import (
	"time"

	discountDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/discount"
	"github.com/shopspring/decimal"
)

const (
	TypePercentage = "percentage"
	TypeFixed      = "fixed"
)

var hundred = decimal.NewFromInt(100)

type Discount struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Value     decimal.Decimal `json:"value"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// AmountFor returns the discount taken off subtotal, never more than subtotal.
func (d *Discount) AmountFor(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	var amount decimal.Decimal
	switch d.Type {
	case TypePercentage:
		amount = subtotal.Mul(d.Value).Div(hundred).Round(2)
	case TypeFixed:
		amount = d.Value
	}
	if amount.GreaterThan(subtotal) {
		return subtotal
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

func FromDataModel(d *discountDatamodel.Discount) *Discount {
	return &Discount{
		ID:        d.ID,
		Name:      d.Name,
		Type:      d.Type,
		Value:     d.Value,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
