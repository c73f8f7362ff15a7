package taxcategory

import "github.com/shopspring/decimal"

type TaxCategoryDTO struct {
	Name      string          `json:"name" validate:"required,max=100"`
	Rate      decimal.Decimal `json:"rate" validate:"gte=0,lte=100"`
	IsDefault bool            `json:"isDefault"`
	IsActive  *bool           `json:"isActive"`
}
