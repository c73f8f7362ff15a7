package shift

import "github.com/shopspring/decimal"

type StartShiftDTO struct {
	StoreID            int64           `json:"storeId" validate:"required,gt=0"`
	ExpectedCashAmount decimal.Decimal `json:"expectedCashAmount" validate:"gte=0"`
	Notes              string          `json:"notes" validate:"max=500"`
}

type EndShiftDTO struct {
	ActualCashAmount decimal.Decimal `json:"actualCashAmount" validate:"gte=0"`
	Notes            string          `json:"notes" validate:"max=500"`
}
