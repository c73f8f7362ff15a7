package discount

import "github.com/shopspring/decimal"

type DiscountDTO struct {
	Name     string          `json:"name" validate:"required,max=100"`
	Type     string          `json:"type" validate:"required,oneof=percentage fixed"`
	Value    decimal.Decimal `json:"value" validate:"gt=0"`
	IsActive *bool           `json:"isActive"`
}
