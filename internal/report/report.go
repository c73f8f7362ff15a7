package report

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindSalesSummary    Kind = "sales-summary"
	KindSalesByItem     Kind = "sales-by-item"
	KindSalesByCategory Kind = "sales-by-category"
	KindSalesByEmployee Kind = "sales-by-employee"
	KindSalesByPayment  Kind = "sales-by-payment-type"
	KindDiscounts       Kind = "discounts"
	KindTaxes           Kind = "taxes"
	KindShifts          Kind = "shifts"
)

const (
	uncategorizedName = "Uncategorized"
	noTaxName         = "No tax"
)

// Report is the envelope every report endpoint returns. Items is always a non-nil slice;
// Series is only set by the sales summary.
type Report struct {
	Filters Filter      `json:"filters"`
	Summary interface{} `json:"summary"`
	Items   interface{} `json:"items"`
	Series  interface{} `json:"series,omitempty"`
}

// Point is one chart bucket: a calendar day, or an hour ("15:00") for single-day ranges.
type Point struct {
	Bucket   string          `json:"bucket"`
	NetSales decimal.Decimal `json:"netSales"`
	Orders   int64           `json:"orders"`
}

type SalesSummary struct {
	Metrics
	Orders       int64           `json:"orders"`
	Taxes        decimal.Decimal `json:"taxes"`
	AverageOrder decimal.Decimal `json:"averageOrder"`
}

type PeriodRow struct {
	Bucket string `json:"bucket"`
	Orders int64  `json:"orders"`
	Metrics
}

type ItemRow struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Metrics
}

type CategoryRow struct {
	CategoryID *int64 `json:"categoryId"`
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
	Metrics
}

type QuantitySummary struct {
	Quantity int64 `json:"quantity"`
	Metrics
}

type EmployeeRow struct {
	UserID       int64           `json:"userId"`
	Name         string          `json:"name"`
	Orders       int64           `json:"orders"`
	AverageOrder decimal.Decimal `json:"averageOrder"`
	Metrics
}

type PaymentRow struct {
	PaymentMethod string          `json:"paymentMethod"`
	Orders        int64           `json:"orders"`
	Amount        decimal.Decimal `json:"amount"`
	Refunds       decimal.Decimal `json:"refunds"`
	Net           decimal.Decimal `json:"net"`
}

type PaymentSummary struct {
	Orders  int64           `json:"orders"`
	Amount  decimal.Decimal `json:"amount"`
	Refunds decimal.Decimal `json:"refunds"`
	Net     decimal.Decimal `json:"net"`
}

type DiscountRow struct {
	DiscountID int64           `json:"discountId"`
	Name       string          `json:"name"`
	Uses       int64           `json:"uses"`
	Amount     decimal.Decimal `json:"amount"`
	GrossSales decimal.Decimal `json:"grossSales"`
}

type DiscountSummary struct {
	Uses   int64           `json:"uses"`
	Amount decimal.Decimal `json:"amount"`
}

type TaxRow struct {
	TaxCategoryID *int64          `json:"taxCategoryId"`
	Name          string          `json:"name"`
	Rate          decimal.Decimal `json:"rate"`
	Orders        int64           `json:"orders"`
	Taxable       decimal.Decimal `json:"taxable"`
	Tax           decimal.Decimal `json:"tax"`
}

type TaxSummary struct {
	Taxable decimal.Decimal `json:"taxable"`
	Tax     decimal.Decimal `json:"tax"`
}

type ShiftRow struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"userId"`
	Username    string           `json:"username"`
	StoreID     int64            `json:"storeId"`
	OpeningTime time.Time        `json:"openingTime"`
	ClosingTime *time.Time       `json:"closingTime"`
	IsActive    bool             `json:"isActive"`
	Expected    decimal.Decimal  `json:"expectedCashAmount"`
	Actual      *decimal.Decimal `json:"actualCashAmount"`
	Difference  *decimal.Decimal `json:"cashDifference"`
	Orders      int64            `json:"orders"`
	Sales       decimal.Decimal  `json:"sales"`
}

type ShiftSummary struct {
	Shifts     int64           `json:"shifts"`
	Open       int64           `json:"open"`
	Expected   decimal.Decimal `json:"expectedCashAmount"`
	Actual     decimal.Decimal `json:"actualCashAmount"`
	Difference decimal.Decimal `json:"cashDifference"`
	Sales      decimal.Decimal `json:"sales"`
}

// Group is the repository's raw aggregate for one group-by key.
type Group struct {
	ID       *int64
	Name     string
	Orders   int64
	Quantity int64
	Taxes    decimal.Decimal
	Rate     decimal.Decimal
	Totals
}

func averageOf(amount decimal.Decimal, count int64) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return amount.Div(decimal.NewFromInt(count)).Round(2)
}

// Empty is the zeroed shape of kind, used when a report cannot be computed.
func Empty(kind Kind, f Filter) *Report {
	r := &Report{Filters: f}
	switch kind {
	case KindSalesSummary:
		r.Summary = SalesSummary{Metrics: Derive(Totals{})}
		r.Items = []PeriodRow{}
		r.Series = []Point{}
	case KindSalesByItem:
		r.Summary = QuantitySummary{Metrics: Derive(Totals{})}
		r.Items = []ItemRow{}
	case KindSalesByCategory:
		r.Summary = QuantitySummary{Metrics: Derive(Totals{})}
		r.Items = []CategoryRow{}
	case KindSalesByEmployee:
		r.Summary = SalesSummary{Metrics: Derive(Totals{})}
		r.Items = []EmployeeRow{}
	case KindSalesByPayment:
		r.Summary = PaymentSummary{}
		r.Items = []PaymentRow{}
	case KindDiscounts:
		r.Summary = DiscountSummary{}
		r.Items = []DiscountRow{}
	case KindTaxes:
		r.Summary = TaxSummary{}
		r.Items = []TaxRow{}
	case KindShifts:
		r.Summary = ShiftSummary{}
		r.Items = []ShiftRow{}
	default:
		r.Summary = struct{}{}
		r.Items = []struct{}{}
	}
	return r
}
