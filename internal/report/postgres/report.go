package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/pos-backoffice/internal/report"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const orderCostJoin = `LEFT JOIN (
	SELECT order_id, SUM(unit_cost * quantity) AS cost FROM order_items GROUP BY order_id
) c ON c.order_id = o.id`

const orderSums = `COUNT(o.id) AS orders,
	COALESCE(SUM(o.subtotal), 0) AS gross,
	COALESCE(SUM(o.discount_amount), 0) AS discounts,
	COALESCE(SUM(o.refund_amount), 0) AS refunds,
	COALESCE(SUM(o.tax_amount), 0) AS taxes,
	COALESCE(SUM(c.cost), 0) AS cost`

// item refunds are the order refund spread by the line's share of the subtotal
const itemSums = `COUNT(DISTINCT o.id) AS orders,
	COALESCE(SUM(i.quantity), 0) AS quantity,
	COALESCE(SUM(i.gross_amount), 0) AS gross,
	COALESCE(SUM(i.discount_amount), 0) AS discounts,
	COALESCE(SUM(CASE WHEN o.subtotal > 0 THEN o.refund_amount * 1.0 * i.gross_amount / o.subtotal ELSE 0 END), 0) AS refunds,
	COALESCE(SUM(i.tax_amount), 0) AS taxes,
	COALESCE(SUM(i.unit_cost * i.quantity), 0) AS cost`

// aggRow scans loosely typed aggregates; drivers disagree on numeric result types.
type aggRow struct {
	Key       interface{} `db:"group_id"`
	Name      interface{} `db:"name"`
	Orders    interface{} `db:"orders"`
	Quantity  interface{} `db:"quantity"`
	Gross     interface{} `db:"gross"`
	Discounts interface{} `db:"discounts"`
	Refunds   interface{} `db:"refunds"`
	Taxes     interface{} `db:"taxes"`
	Cost      interface{} `db:"cost"`
	Rate      interface{} `db:"rate"`
}

func (r aggRow) group() report.Group {
	g := report.Group{
		Name:     text(r.Name),
		Orders:   report.Num(r.Orders).IntPart(),
		Quantity: report.Num(r.Quantity).IntPart(),
		Taxes:    money(r.Taxes),
		Rate:     report.Num(r.Rate),
		Totals: report.Totals{
			Gross:     money(r.Gross),
			Discounts: money(r.Discounts),
			Refunds:   money(r.Refunds),
			Cost:      money(r.Cost),
		},
	}
	if r.Key != nil {
		id := report.Num(r.Key).IntPart()
		g.ID = &id
	}
	return g
}

func money(v interface{}) decimal.Decimal {
	return report.Num(v).Round(2)
}

func text(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) sqlite() bool {
	return strings.HasPrefix(r.db.DriverName(), "sqlite")
}

// bucket renders the day (or hour of day) of o.created_at as text in the filter's location.
// The returned args bind placeholders inside the expression and precede the WHERE args.
func (r *ReportRepository) bucket(hourly bool, f report.Filter) (string, []interface{}) {
	switch {
	case r.sqlite() && hourly:
		return "substr(o.created_at, 12, 2)", nil
	case r.sqlite():
		return "substr(o.created_at, 1, 10)", nil
	}

	zone, arg := zoneClause(f.Start)
	layout := "YYYY-MM-DD"
	if hourly {
		layout = "HH24"
	}
	return "to_char(o.created_at AT TIME ZONE " + zone + ", '" + layout + "')", []interface{}{arg}
}

// zoneClause names the location of t for AT TIME ZONE. IANA zones pass through by name;
// Local and fixed zones fall back to t's UTC offset as an interval.
func zoneClause(t time.Time) (string, interface{}) {
	if name := t.Location().String(); name != "Local" {
		if _, err := time.LoadLocation(name); err == nil {
			return "?", name
		}
	}
	_, offset := t.Zone()
	return "CAST(? AS INTERVAL)", fmt.Sprintf("%d seconds", offset)
}

func (r *ReportRepository) groups(ctx context.Context, query string, args []interface{}) ([]report.Group, error) {
	var rows []aggRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	out := make([]report.Group, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.group())
	}
	return out, nil
}

func (r *ReportRepository) Totals(ctx context.Context, f report.Filter) (report.Group, error) {
	where, args := f.Where("o")
	query := `SELECT ` + orderSums + ` FROM orders o ` + orderCostJoin + ` WHERE ` + where

	var row aggRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), args...); err != nil {
		return report.Group{}, fmt.Errorf("order totals: %w", err)
	}
	return row.group(), nil
}

// Periods groups orders by day, or by hour when hourly is set. Name holds the bucket label.
func (r *ReportRepository) Periods(ctx context.Context, f report.Filter, hourly bool) ([]report.Group, error) {
	where, args := f.Where("o")
	label, labelArgs := r.bucket(hourly, f)
	query := `SELECT ` + label + ` AS name, ` + orderSums +
		` FROM orders o ` + orderCostJoin + ` WHERE ` + where + ` GROUP BY 1 ORDER BY 1`

	groups, err := r.groups(ctx, query, append(labelArgs, args...))
	if err != nil {
		return nil, fmt.Errorf("sales periods: %w", err)
	}
	return groups, nil
}

func (r *ReportRepository) ByItem(ctx context.Context, f report.Filter) ([]report.Group, error) {
	where, args := f.Where("o")
	query := `SELECT i.product_id AS group_id, MAX(i.product_name) AS name, ` + itemSums +
		` FROM order_items i JOIN orders o ON o.id = i.order_id WHERE ` + where +
		` GROUP BY i.product_id ORDER BY gross DESC`

	groups, err := r.groups(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("sales by item: %w", err)
	}
	return groups, nil
}

func (r *ReportRepository) ByCategory(ctx context.Context, f report.Filter) ([]report.Group, error) {
	where, args := f.Where("o")
	query := `SELECT i.category_id AS group_id, MAX(i.category_name) AS name, ` + itemSums +
		` FROM order_items i JOIN orders o ON o.id = i.order_id WHERE ` + where +
		` GROUP BY i.category_id ORDER BY gross DESC`

	groups, err := r.groups(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("sales by category: %w", err)
	}
	return groups, nil
}

func (r *ReportRepository) ByEmployee(ctx context.Context, f report.Filter) ([]report.Group, error) {
	where, args := f.Where("o")
	query := `SELECT o.user_id AS group_id, MAX(COALESCE(NULLIF(u.display_name, ''), u.username)) AS name, ` + orderSums +
		` FROM orders o LEFT JOIN users u ON u.id = o.user_id ` + orderCostJoin + ` WHERE ` + where +
		` GROUP BY o.user_id ORDER BY gross DESC`

	groups, err := r.groups(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("sales by employee: %w", err)
	}
	return groups, nil
}

// ByPaymentType reports order totals in Gross, since tenders are collected on the total.
func (r *ReportRepository) ByPaymentType(ctx context.Context, f report.Filter) ([]report.Group, error) {
	where, args := f.Where("o")
	query := `SELECT o.payment_method AS name, COUNT(o.id) AS orders,
		COALESCE(SUM(o.total), 0) AS gross,
		COALESCE(SUM(o.refund_amount), 0) AS refunds
		FROM orders o WHERE ` + where + ` GROUP BY o.payment_method ORDER BY gross DESC`

	groups, err := r.groups(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("sales by payment type: %w", err)
	}
	return groups, nil
}

func (r *ReportRepository) Discounts(ctx context.Context, f report.Filter) ([]report.Group, error) {
	where, args := f.Where("o")
	query := `SELECT o.discount_id AS group_id, MAX(o.discount_name) AS name, COUNT(o.id) AS orders,
		COALESCE(SUM(o.discount_amount), 0) AS discounts,
		COALESCE(SUM(o.subtotal), 0) AS gross
		FROM orders o WHERE ` + where + ` AND o.discount_id IS NOT NULL
		GROUP BY o.discount_id ORDER BY discounts DESC`

	groups, err := r.groups(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("discount report: %w", err)
	}
	return groups, nil
}

// Taxes puts the taxable base (line gross less discount) in Gross.
func (r *ReportRepository) Taxes(ctx context.Context, f report.Filter) ([]report.Group, error) {
	where, args := f.Where("o")
	query := `SELECT i.tax_category_id AS group_id, MAX(i.tax_name) AS name, MAX(i.tax_rate) AS rate,
		COUNT(DISTINCT o.id) AS orders,
		COALESCE(SUM(i.gross_amount - i.discount_amount), 0) AS gross,
		COALESCE(SUM(i.tax_amount), 0) AS taxes
		FROM order_items i JOIN orders o ON o.id = i.order_id WHERE ` + where + `
		GROUP BY i.tax_category_id ORDER BY taxes DESC`

	groups, err := r.groups(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("tax report: %w", err)
	}
	return groups, nil
}

type shiftRow struct {
	ID          int64          `db:"id"`
	UserID      int64          `db:"user_id"`
	Username    sql.NullString `db:"username"`
	StoreID     int64          `db:"store_id"`
	OpeningTime sql.NullTime   `db:"opening_time"`
	ClosingTime sql.NullTime   `db:"closing_time"`
	IsActive    bool           `db:"is_active"`
	Expected    interface{}    `db:"expected"`
	Actual      interface{}    `db:"actual"`
	Orders      interface{}    `db:"orders"`
	Sales       interface{}    `db:"sales"`
}

// Shifts filters on opening_time; the employee filter matches the shift owner.
func (r *ReportRepository) Shifts(ctx context.Context, f report.Filter) ([]report.ShiftRow, error) {
	where, args := f.WhereOn("s", "opening_time")
	query := `SELECT s.id, s.user_id, u.username, s.store_id, s.opening_time, s.closing_time, s.is_active,
		s.expected_cash_amount AS expected, s.actual_cash_amount AS actual,
		COALESCE(os.orders, 0) AS orders, COALESCE(os.sales, 0) AS sales
		FROM shifts s
		LEFT JOIN users u ON u.id = s.user_id
		LEFT JOIN (
			SELECT shift_id, COUNT(id) AS orders, SUM(total - refund_amount) AS sales
			FROM orders WHERE shift_id IS NOT NULL GROUP BY shift_id
		) os ON os.shift_id = s.id
		WHERE ` + where + ` ORDER BY s.opening_time DESC`

	var rows []shiftRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("shift report: %w", err)
	}

	out := make([]report.ShiftRow, 0, len(rows))
	for _, row := range rows {
		item := report.ShiftRow{
			ID:          row.ID,
			UserID:      row.UserID,
			Username:    row.Username.String,
			StoreID:     row.StoreID,
			OpeningTime: row.OpeningTime.Time,
			IsActive:    row.IsActive,
			Expected:    money(row.Expected),
			Orders:      report.Num(row.Orders).IntPart(),
			Sales:       money(row.Sales),
		}
		if row.ClosingTime.Valid {
			t := row.ClosingTime.Time
			item.ClosingTime = &t
		}
		if row.Actual != nil {
			actual := money(row.Actual)
			diff := actual.Sub(item.Expected)
			item.Actual = &actual
			item.Difference = &diff
		}
		out = append(out, item)
	}
	return out, nil
}
