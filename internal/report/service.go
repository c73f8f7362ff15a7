package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// RepositoryAPI returns raw aggregates; derived metrics are computed here so every report agrees.
type RepositoryAPI interface {
	Totals(ctx context.Context, f Filter) (Group, error)
	Periods(ctx context.Context, f Filter, hourly bool) ([]Group, error)
	ByItem(ctx context.Context, f Filter) ([]Group, error)
	ByCategory(ctx context.Context, f Filter) ([]Group, error)
	ByEmployee(ctx context.Context, f Filter) ([]Group, error)
	ByPaymentType(ctx context.Context, f Filter) ([]Group, error)
	Discounts(ctx context.Context, f Filter) ([]Group, error)
	Taxes(ctx context.Context, f Filter) ([]Group, error)
	Shifts(ctx context.Context, f Filter) ([]ShiftRow, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Build computes kind over f.
func (s *Service) Build(ctx context.Context, kind Kind, f Filter) (*Report, error) {
	switch kind {
	case KindSalesSummary:
		return s.salesSummary(ctx, f)
	case KindSalesByItem:
		return s.salesByItem(ctx, f)
	case KindSalesByCategory:
		return s.salesByCategory(ctx, f)
	case KindSalesByEmployee:
		return s.salesByEmployee(ctx, f)
	case KindSalesByPayment:
		return s.salesByPayment(ctx, f)
	case KindDiscounts:
		return s.discounts(ctx, f)
	case KindTaxes:
		return s.taxes(ctx, f)
	case KindShifts:
		return s.shifts(ctx, f)
	}
	return nil, fmt.Errorf("unknown report %q", kind)
}

func (s *Service) salesSummary(ctx context.Context, f Filter) (*Report, error) {
	totals, err := s.repo.Totals(ctx, f)
	if err != nil {
		return nil, err
	}
	periods, err := s.repo.Periods(ctx, f, f.SameDay)
	if err != nil {
		return nil, err
	}

	summary := SalesSummary{
		Metrics: Derive(totals.Totals),
		Orders:  totals.Orders,
		Taxes:   totals.Taxes,
	}
	summary.AverageOrder = averageOf(summary.NetSales, summary.Orders)

	items := make([]PeriodRow, 0, len(periods))
	series := make([]Point, 0, len(periods))
	for _, p := range periods {
		label := p.Name
		if f.SameDay {
			label += ":00"
		}
		row := PeriodRow{Bucket: label, Orders: p.Orders, Metrics: Derive(p.Totals)}
		items = append(items, row)
		series = append(series, Point{Bucket: label, NetSales: row.NetSales, Orders: row.Orders})
	}

	return &Report{Filters: f, Summary: summary, Items: items, Series: series}, nil
}

func (s *Service) salesByItem(ctx context.Context, f Filter) (*Report, error) {
	groups, err := s.repo.ByItem(ctx, f)
	if err != nil {
		return nil, err
	}

	var sum Totals
	var qty int64
	items := make([]ItemRow, 0, len(groups))
	for _, g := range groups {
		row := ItemRow{Name: g.Name, Quantity: g.Quantity, Metrics: Derive(g.Totals)}
		if g.ID != nil {
			row.ProductID = *g.ID
		}
		items = append(items, row)
		sum = sum.add(g.Totals)
		qty += g.Quantity
	}

	return &Report{
		Filters: f,
		Summary: QuantitySummary{Quantity: qty, Metrics: Derive(sum)},
		Items:   items,
	}, nil
}

func (s *Service) salesByCategory(ctx context.Context, f Filter) (*Report, error) {
	groups, err := s.repo.ByCategory(ctx, f)
	if err != nil {
		return nil, err
	}

	var sum Totals
	var qty int64
	items := make([]CategoryRow, 0, len(groups))
	for _, g := range groups {
		name := g.Name
		if g.ID == nil || name == "" {
			name = uncategorizedName
		}
		items = append(items, CategoryRow{CategoryID: g.ID, Name: name, Quantity: g.Quantity, Metrics: Derive(g.Totals)})
		sum = sum.add(g.Totals)
		qty += g.Quantity
	}

	return &Report{
		Filters: f,
		Summary: QuantitySummary{Quantity: qty, Metrics: Derive(sum)},
		Items:   items,
	}, nil
}

func (s *Service) salesByEmployee(ctx context.Context, f Filter) (*Report, error) {
	groups, err := s.repo.ByEmployee(ctx, f)
	if err != nil {
		return nil, err
	}

	var (
		sum    Totals
		orders int64
		taxes  = decimal.Zero
	)
	items := make([]EmployeeRow, 0, len(groups))
	for _, g := range groups {
		row := EmployeeRow{Name: g.Name, Orders: g.Orders, Metrics: Derive(g.Totals)}
		if g.ID != nil {
			row.UserID = *g.ID
		}
		row.AverageOrder = averageOf(row.NetSales, row.Orders)
		items = append(items, row)
		sum = sum.add(g.Totals)
		orders += g.Orders
		taxes = taxes.Add(g.Taxes)
	}

	summary := SalesSummary{Metrics: Derive(sum), Orders: orders, Taxes: taxes}
	summary.AverageOrder = averageOf(summary.NetSales, orders)
	return &Report{Filters: f, Summary: summary, Items: items}, nil
}

func (s *Service) salesByPayment(ctx context.Context, f Filter) (*Report, error) {
	groups, err := s.repo.ByPaymentType(ctx, f)
	if err != nil {
		return nil, err
	}

	summary := PaymentSummary{Amount: decimal.Zero, Refunds: decimal.Zero, Net: decimal.Zero}
	items := make([]PaymentRow, 0, len(groups))
	for _, g := range groups {
		row := PaymentRow{
			PaymentMethod: g.Name,
			Orders:        g.Orders,
			Amount:        g.Gross,
			Refunds:       g.Refunds,
			Net:           g.Gross.Sub(g.Refunds),
		}
		items = append(items, row)
		summary.Orders += row.Orders
		summary.Amount = summary.Amount.Add(row.Amount)
		summary.Refunds = summary.Refunds.Add(row.Refunds)
		summary.Net = summary.Net.Add(row.Net)
	}
	return &Report{Filters: f, Summary: summary, Items: items}, nil
}

func (s *Service) discounts(ctx context.Context, f Filter) (*Report, error) {
	groups, err := s.repo.Discounts(ctx, f)
	if err != nil {
		return nil, err
	}

	summary := DiscountSummary{Amount: decimal.Zero}
	items := make([]DiscountRow, 0, len(groups))
	for _, g := range groups {
		row := DiscountRow{Name: g.Name, Uses: g.Orders, Amount: g.Discounts, GrossSales: g.Gross}
		if g.ID != nil {
			row.DiscountID = *g.ID
		}
		items = append(items, row)
		summary.Uses += row.Uses
		summary.Amount = summary.Amount.Add(row.Amount)
	}
	return &Report{Filters: f, Summary: summary, Items: items}, nil
}

func (s *Service) taxes(ctx context.Context, f Filter) (*Report, error) {
	groups, err := s.repo.Taxes(ctx, f)
	if err != nil {
		return nil, err
	}

	summary := TaxSummary{Taxable: decimal.Zero, Tax: decimal.Zero}
	items := make([]TaxRow, 0, len(groups))
	for _, g := range groups {
		name := g.Name
		if name == "" {
			name = noTaxName
		}
		row := TaxRow{TaxCategoryID: g.ID, Name: name, Rate: g.Rate, Orders: g.Orders, Taxable: g.Gross, Tax: g.Taxes}
		items = append(items, row)
		summary.Taxable = summary.Taxable.Add(row.Taxable)
		summary.Tax = summary.Tax.Add(row.Tax)
	}
	return &Report{Filters: f, Summary: summary, Items: items}, nil
}

func (s *Service) shifts(ctx context.Context, f Filter) (*Report, error) {
	rows, err := s.repo.Shifts(ctx, f)
	if err != nil {
		return nil, err
	}

	summary := ShiftSummary{Expected: decimal.Zero, Actual: decimal.Zero, Difference: decimal.Zero, Sales: decimal.Zero}
	for _, row := range rows {
		summary.Shifts++
		if row.IsActive {
			summary.Open++
		}
		summary.Expected = summary.Expected.Add(row.Expected)
		if row.Actual != nil {
			summary.Actual = summary.Actual.Add(*row.Actual)
			summary.Difference = summary.Difference.Add(*row.Difference)
		}
		summary.Sales = summary.Sales.Add(row.Sales)
	}
	if rows == nil {
		rows = []ShiftRow{}
	}
	return &Report{Filters: f, Summary: summary, Items: rows}, nil
}
