package order

import "github.com/shopspring/decimal"

type CreateOrderDTO struct {
	StoreID        int64          `json:"storeId" validate:"required,gt=0"`
	ShiftID        *int64         `json:"shiftId" validate:"omitempty,gt=0"`
	DiningOptionID *int64         `json:"diningOptionId" validate:"omitempty,gt=0"`
	PaymentMethod  string         `json:"paymentMethod" validate:"required,oneof=cash card mobile other"`
	DiscountID     *int64         `json:"discountId" validate:"omitempty,gt=0"`
	Notes          string         `json:"notes" validate:"max=500"`
	Items          []OrderItemDTO `json:"items" validate:"required,min=1,max=200,dive"`
}

type OrderItemDTO struct {
	ProductID int64  `json:"productId" validate:"required,gt=0"`
	VariantID *int64 `json:"variantId" validate:"omitempty,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,gt=0,lte=1000"`
}

// RefundDTO with a zero Amount refunds whatever is left on the order.
type RefundDTO struct {
	Amount decimal.Decimal `json:"amount" validate:"gte=0"`
	Reason string          `json:"reason" validate:"max=255"`
}
