package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Num coerces a scanned aggregate into a decimal. nil, non-finite and unparsable values are 0.
func Num(v interface{}) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero
		}
		return *n
	case decimal.NullDecimal:
		if !n.Valid {
			return decimal.Zero
		}
		return n.Decimal
	case int64:
		return decimal.NewFromInt(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt32(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(n)
	case float32:
		return Num(float64(n))
	case []byte:
		return parse(string(n))
	case string:
		return parse(n)
	case fmt.Stringer:
		return parse(n.String())
	}
	return decimal.Zero
}

func parse(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Totals are the base figures every summary is derived from.
type Totals struct {
	Gross     decimal.Decimal
	Refunds   decimal.Decimal
	Discounts decimal.Decimal
	Cost      decimal.Decimal
}

type Metrics struct {
	GrossSales  decimal.Decimal `json:"grossSales"`
	Refunds     decimal.Decimal `json:"refunds"`
	Discounts   decimal.Decimal `json:"discounts"`
	NetSales    decimal.Decimal `json:"netSales"`
	CostOfGoods decimal.Decimal `json:"costOfGoods"`
	GrossProfit decimal.Decimal `json:"grossProfit"`
	Margin      decimal.Decimal `json:"margin"`
}

// Derive computes net = gross - refunds - discounts, grossProfit = net - cost and
// margin = grossProfit / net (0 unless net > 0), rounded to 4 places.
func Derive(t Totals) Metrics {
	net := t.Gross.Sub(t.Refunds).Sub(t.Discounts)
	profit := net.Sub(t.Cost)
	margin := decimal.Zero
	if net.IsPositive() {
		margin = profit.Div(net).Round(4)
	}
	return Metrics{
		GrossSales:  t.Gross,
		Refunds:     t.Refunds,
		Discounts:   t.Discounts,
		NetSales:    net,
		CostOfGoods: t.Cost,
		GrossProfit: profit,
		Margin:      margin,
	}
}

func (t Totals) add(o Totals) Totals {
	return Totals{
		Gross:     t.Gross.Add(o.Gross),
		Refunds:   t.Refunds.Add(o.Refunds),
		Discounts: t.Discounts.Add(o.Discounts),
		Cost:      t.Cost.Add(o.Cost),
	}
}
