package order

import (
	"time"

	orderDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/order"
	"github.com/frahmantamala/pos-backoffice/internal/report"
	"github.com/shopspring/decimal"
)

const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentMobile = "mobile"
	PaymentOther  = "other"
)

type Order struct {
	ID             int64           `json:"id"`
	OrderNumber    string          `json:"orderNumber"`
	StoreID        int64           `json:"storeId"`
	UserID         int64           `json:"userId"`
	ShiftID        *int64          `json:"shiftId"`
	DiningOptionID *int64          `json:"diningOptionId"`
	Status         string          `json:"status"`
	PaymentMethod  string          `json:"paymentMethod"`
	DiscountID     *int64          `json:"discountId"`
	DiscountName   string          `json:"discountName"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	Total          decimal.Decimal `json:"total"`
	RefundAmount   decimal.Decimal `json:"refundAmount"`
	RefundReason   string          `json:"refundReason"`
	Notes          string          `json:"notes"`
	Items          []Item          `json:"items"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type Item struct {
	ID             int64           `json:"id"`
	ProductID      int64           `json:"productId"`
	VariantID      *int64          `json:"variantId"`
	ProductName    string          `json:"productName"`
	CategoryID     *int64          `json:"categoryId"`
	CategoryName   string          `json:"categoryName"`
	TaxCategoryID  *int64          `json:"taxCategoryId"`
	TaxName        string          `json:"taxName"`
	TaxRate        decimal.Decimal `json:"taxRate"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	UnitCost       decimal.Decimal `json:"unitCost"`
	GrossAmount    decimal.Decimal `json:"grossAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
}

// ListFilter reuses the report date/store/employee filter so order lists and reports agree.
type ListFilter struct {
	report.Filter
	Status string
	Limit  int
	Offset int
}

// Refundable is what can still be returned to the customer.
func (o *Order) Refundable() decimal.Decimal {
	return o.Total.Sub(o.RefundAmount)
}

func FromDataModel(o *orderDatamodel.Order) *Order {
	out := &Order{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		StoreID:        o.StoreID,
		UserID:         o.UserID,
		ShiftID:        o.ShiftID,
		DiningOptionID: o.DiningOptionID,
		Status:         o.Status,
		PaymentMethod:  o.PaymentMethod,
		DiscountID:     o.DiscountID,
		DiscountName:   o.DiscountName,
		Subtotal:       o.Subtotal,
		DiscountAmount: o.DiscountAmount,
		TaxAmount:      o.TaxAmount,
		Total:          o.Total,
		RefundAmount:   o.RefundAmount,
		RefundReason:   o.RefundReason,
		Notes:          o.Notes,
		Items:          make([]Item, 0, len(o.Items)),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, Item{
			ID:             it.ID,
			ProductID:      it.ProductID,
			VariantID:      it.VariantID,
			ProductName:    it.ProductName,
			CategoryID:     it.CategoryID,
			CategoryName:   it.CategoryName,
			TaxCategoryID:  it.TaxCategoryID,
			TaxName:        it.TaxName,
			TaxRate:        it.TaxRate,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			UnitCost:       it.UnitCost,
			GrossAmount:    it.GrossAmount,
			DiscountAmount: it.DiscountAmount,
			TaxAmount:      it.TaxAmount,
		})
	}
	return out
}
