package report_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"os"
	"time"

	orderDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/order"
	shiftDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/shift"
	userDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/user"
	"github.com/frahmantamala/pos-backoffice/internal/report"
	reportPostgres "github.com/frahmantamala/pos-backoffice/internal/report/postgres"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func at(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

func int64Ptr(v int64) *int64 {
	return &v
}

var _ = Describe("Report Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		service *report.Service
		now     time.Time
	)

	d := decimal.RequireFromString

	filter := func(kv ...string) report.Filter {
		q := url.Values{}
		for i := 0; i+1 < len(kv); i += 2 {
			q.Set(kv[i], kv[i+1])
		}
		return report.ParseFilter(q, now)
	}
	marchFirst := func(kv ...string) report.Filter {
		return filter(append([]string{"startDate", "2024-03-01", "endDate", "2024-03-01"}, kv...)...)
	}

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(
			&userDatamodel.User{},
			&shiftDatamodel.Shift{},
			&orderDatamodel.Order{},
			&orderDatamodel.OrderItem{},
		)).To(Succeed())

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = report.NewService(reportPostgres.NewReportRepository(sqlx.NewDb(sqlDB, "sqlite3")), slogger)
	})

	build := func(kind report.Kind, f report.Filter) *report.Report {
		rep, err := service.Build(ctx, kind, f)
		Expect(err).NotTo(HaveOccurred())
		return rep
	}

	Context("with no orders", func() {
		It("returns zeros and empty lists", func() {
			rep := build(report.KindSalesSummary, marchFirst())

			summary := rep.Summary.(report.SalesSummary)
			Expect(summary.Orders).To(BeZero())
			Expect(summary.GrossSales.String()).To(Equal("0"))
			Expect(summary.Margin.String()).To(Equal("0"))

			body, err := json.Marshal(rep)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(`"items":[]`))
			Expect(string(body)).To(ContainSubstring(`"series":[]`))
			Expect(string(body)).NotTo(ContainSubstring(`"items":null`))
		})

		It("returns empty lists for every report", func() {
			for _, kind := range []report.Kind{
				report.KindSalesByItem, report.KindSalesByCategory, report.KindSalesByEmployee,
				report.KindSalesByPayment, report.KindDiscounts, report.KindTaxes, report.KindShifts,
			} {
				body, err := json.Marshal(build(kind, marchFirst()))
				Expect(err).NotTo(HaveOccurred())
				Expect(string(body)).To(ContainSubstring(`"items":[]`), string(kind))
			}
		})
	})

	Context("with orders around 2024-03-01", func() {
		BeforeEach(func() {
			Expect(db.Create([]userDatamodel.User{
				{ID: 1, Username: "alice", DisplayName: "Alice", PasswordHash: "x", Role: "cashier", IsActive: true},
				{ID: 2, Username: "bob", PasswordHash: "x", Role: "cashier", IsActive: true},
			}).Error).To(Succeed())

			closed := at(1, 16)
			Expect(db.Create([]shiftDatamodel.Shift{
				{
					ID: 1, StoreID: 1, UserID: 1, OpeningTime: at(1, 8), ClosingTime: &closed,
					ExpectedCashAmount: d("100"),
					ActualCashAmount:   decimal.NewNullDecimal(d("95")),
				},
				{ID: 2, StoreID: 2, UserID: 2, OpeningTime: at(1, 14), ExpectedCashAmount: d("50"), IsActive: true},
			}).Error).To(Succeed())

			orders := []orderDatamodel.Order{
				{
					ID: 1, OrderNumber: "ORD-1", StoreID: 1, UserID: 1, ShiftID: int64Ptr(1),
					Status: orderDatamodel.StatusCompleted, PaymentMethod: "cash",
					DiscountID: int64Ptr(1), DiscountName: "Happy hour",
					Subtotal: d("100"), DiscountAmount: d("10"), TaxAmount: d("9"), Total: d("99"), RefundAmount: d("0"),
					CreatedAt: at(1, 10),
					Items: []orderDatamodel.OrderItem{
						{
							ProductID: 1, ProductName: "Latte", CategoryID: int64Ptr(1), CategoryName: "Coffee",
							TaxCategoryID: int64Ptr(1), TaxName: "VAT", TaxRate: d("10"),
							Quantity: 2, UnitPrice: d("30"), UnitCost: d("10"),
							GrossAmount: d("60"), DiscountAmount: d("6"), TaxAmount: d("5.4"),
						},
						{
							ProductID: 2, ProductName: "Bagel",
							TaxCategoryID: int64Ptr(1), TaxName: "VAT", TaxRate: d("10"),
							Quantity: 1, UnitPrice: d("40"), UnitCost: d("15"),
							GrossAmount: d("40"), DiscountAmount: d("4"), TaxAmount: d("3.6"),
						},
					},
				},
				{
					ID: 2, OrderNumber: "ORD-2", StoreID: 2, UserID: 2, ShiftID: int64Ptr(2),
					Status: orderDatamodel.StatusRefunded, PaymentMethod: "card",
					Subtotal: d("30"), DiscountAmount: d("0"), TaxAmount: d("0"), Total: d("30"), RefundAmount: d("30"),
					CreatedAt: at(1, 15),
					Items: []orderDatamodel.OrderItem{{
						ProductID: 1, ProductName: "Latte", CategoryID: int64Ptr(1), CategoryName: "Coffee",
						TaxRate: d("0"), Quantity: 1, UnitPrice: d("30"), UnitCost: d("10"),
						GrossAmount: d("30"), DiscountAmount: d("0"), TaxAmount: d("0"),
					}},
				},
				{
					ID: 3, OrderNumber: "ORD-3", StoreID: 1, UserID: 1,
					Status: orderDatamodel.StatusCompleted, PaymentMethod: "cash",
					Subtotal: d("500"), DiscountAmount: d("0"), TaxAmount: d("0"), Total: d("500"), RefundAmount: d("0"),
					CreatedAt: at(2, 0),
				},
				{
					ID: 4, OrderNumber: "ORD-4", StoreID: 1, UserID: 1,
					Status: orderDatamodel.StatusCompleted, PaymentMethod: "cash",
					Subtotal: d("700"), DiscountAmount: d("0"), TaxAmount: d("0"), Total: d("700"), RefundAmount: d("0"),
					CreatedAt: time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
				},
			}
			Expect(db.Create(&orders).Error).To(Succeed())
		})

		It("only counts orders on the requested day", func() {
			rep := build(report.KindSalesSummary, marchFirst())

			summary := rep.Summary.(report.SalesSummary)
			Expect(summary.Orders).To(Equal(int64(2)))
			Expect(summary.GrossSales.String()).To(Equal("130"))
			Expect(summary.Discounts.String()).To(Equal("10"))
			Expect(summary.Refunds.String()).To(Equal("30"))
			Expect(summary.NetSales.String()).To(Equal("90"))
			Expect(summary.CostOfGoods.String()).To(Equal("45"))
			Expect(summary.GrossProfit.String()).To(Equal("45"))
			Expect(summary.Margin.String()).To(Equal("0.5"))
			Expect(summary.Taxes.String()).To(Equal("9"))
			Expect(summary.AverageOrder.String()).To(Equal("45"))
		})

		It("buckets a single day by hour", func() {
			rep := build(report.KindSalesSummary, marchFirst())

			series := rep.Series.([]report.Point)
			Expect(series).To(HaveLen(2))
			Expect(series[0].Bucket).To(Equal("10:00"))
			Expect(series[0].NetSales.String()).To(Equal("90"))
			Expect(series[1].Bucket).To(Equal("15:00"))
			Expect(series[1].NetSales.String()).To(Equal("0"))
		})

		It("buckets a range by day", func() {
			rep := build(report.KindSalesSummary, filter("startDate", "2024-02-29", "endDate", "2024-03-02"))

			series := rep.Series.([]report.Point)
			Expect(series).To(HaveLen(3))
			Expect(series[0].Bucket).To(Equal("2024-02-29"))
			Expect(series[1].Bucket).To(Equal("2024-03-01"))
			Expect(series[1].Orders).To(Equal(int64(2)))
			Expect(series[2].Bucket).To(Equal("2024-03-02"))
		})

		It("scopes by store and employee", func() {
			byStore := build(report.KindSalesSummary, marchFirst("store", "1")).Summary.(report.SalesSummary)
			Expect(byStore.Orders).To(Equal(int64(1)))
			Expect(byStore.GrossSales.String()).To(Equal("100"))

			byEmployee := build(report.KindSalesSummary, marchFirst("employee", "2")).Summary.(report.SalesSummary)
			Expect(byEmployee.Orders).To(Equal(int64(1)))
			Expect(byEmployee.NetSales.String()).To(Equal("0"))

			unscoped := build(report.KindSalesSummary, marchFirst("store", "abc")).Summary.(report.SalesSummary)
			Expect(unscoped.Orders).To(Equal(int64(2)))
		})

		It("groups by item with refunds spread across lines", func() {
			rep := build(report.KindSalesByItem, marchFirst())

			items := rep.Items.([]report.ItemRow)
			Expect(items).To(HaveLen(2))
			Expect(items[0].Name).To(Equal("Latte"))
			Expect(items[0].Quantity).To(Equal(int64(3)))
			Expect(items[0].GrossSales.String()).To(Equal("90"))
			Expect(items[0].Refunds.String()).To(Equal("30"))
			Expect(items[0].NetSales.String()).To(Equal("54"))
			Expect(items[0].CostOfGoods.String()).To(Equal("30"))
			Expect(items[1].Name).To(Equal("Bagel"))
			Expect(items[1].NetSales.String()).To(Equal("36"))

			summary := rep.Summary.(report.QuantitySummary)
			Expect(summary.Quantity).To(Equal(int64(4)))
			Expect(summary.NetSales.String()).To(Equal("90"))
		})

		It("groups by category and names missing categories", func() {
			items := build(report.KindSalesByCategory, marchFirst()).Items.([]report.CategoryRow)

			Expect(items).To(HaveLen(2))
			Expect(items[0].Name).To(Equal("Coffee"))
			Expect(*items[0].CategoryID).To(Equal(int64(1)))
			Expect(items[1].Name).To(Equal("Uncategorized"))
			Expect(items[1].CategoryID).To(BeNil())
		})

		It("groups by employee using display names when set", func() {
			items := build(report.KindSalesByEmployee, marchFirst()).Items.([]report.EmployeeRow)

			Expect(items).To(HaveLen(2))
			Expect(items[0].Name).To(Equal("Alice"))
			Expect(items[0].NetSales.String()).To(Equal("90"))
			Expect(items[1].Name).To(Equal("bob"))
			Expect(items[1].Orders).To(Equal(int64(1)))
		})

		It("groups by payment type", func() {
			rep := build(report.KindSalesByPayment, marchFirst())

			items := rep.Items.([]report.PaymentRow)
			Expect(items).To(HaveLen(2))
			Expect(items[0].PaymentMethod).To(Equal("cash"))
			Expect(items[0].Amount.String()).To(Equal("99"))
			Expect(items[1].PaymentMethod).To(Equal("card"))
			Expect(items[1].Net.String()).To(Equal("0"))

			summary := rep.Summary.(report.PaymentSummary)
			Expect(summary.Orders).To(Equal(int64(2)))
			Expect(summary.Net.String()).To(Equal("99"))
		})

		It("lists applied discounts", func() {
			rep := build(report.KindDiscounts, marchFirst())

			items := rep.Items.([]report.DiscountRow)
			Expect(items).To(HaveLen(1))
			Expect(items[0].Name).To(Equal("Happy hour"))
			Expect(items[0].Uses).To(Equal(int64(1)))
			Expect(items[0].Amount.String()).To(Equal("10"))
		})

		It("summarizes tax by category", func() {
			rep := build(report.KindTaxes, marchFirst())

			items := rep.Items.([]report.TaxRow)
			Expect(items).To(HaveLen(2))
			Expect(items[0].Name).To(Equal("VAT"))
			Expect(items[0].Taxable.String()).To(Equal("90"))
			Expect(items[0].Tax.String()).To(Equal("9"))
			Expect(items[1].Name).To(Equal("No tax"))
			Expect(items[1].Taxable.String()).To(Equal("30"))

			summary := rep.Summary.(report.TaxSummary)
			Expect(summary.Taxable.String()).To(Equal("120"))
		})

		It("reports shifts with cash differences and sales", func() {
			rep := build(report.KindShifts, marchFirst())

			items := rep.Items.([]report.ShiftRow)
			Expect(items).To(HaveLen(2))
			Expect(items[0].ID).To(Equal(int64(2)))
			Expect(items[0].IsActive).To(BeTrue())
			Expect(items[0].Actual).To(BeNil())
			Expect(items[1].Username).To(Equal("alice"))
			Expect(items[1].Difference.String()).To(Equal("-5"))
			Expect(items[1].Sales.String()).To(Equal("99"))
			Expect(items[1].ClosingTime).NotTo(BeNil())

			summary := rep.Summary.(report.ShiftSummary)
			Expect(summary.Shifts).To(Equal(int64(2)))
			Expect(summary.Open).To(Equal(int64(1)))
			Expect(summary.Difference.String()).To(Equal("-5"))
		})
	})
})
