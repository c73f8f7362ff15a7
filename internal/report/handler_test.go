package report_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/pos-backoffice/internal/report"
	"github.com/frahmantamala/pos-backoffice/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubService struct {
	rep  *report.Report
	err  error
	kind report.Kind
	f    report.Filter
}

func (s *stubService) Build(_ context.Context, kind report.Kind, f report.Filter) (*report.Report, error) {
	s.kind = kind
	s.f = f
	return s.rep, s.err
}

var _ = Describe("Report Handler", func() {
	var (
		stub    *stubService
		handler *report.Handler
	)

	BeforeEach(func() {
		stub = &stubService{}
		handler = report.NewHandler(transport.NewBaseHandler(nil), stub)
		handler.Now = func() time.Time { return time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC) }
	})

	It("passes the parsed filter to the service", func() {
		stub.rep = report.Empty(report.KindTaxes, report.Filter{})
		req := httptest.NewRequest(http.MethodGet, "/api/reports/taxes?startDate=2024-03-01&endDate=2024-03-01&store=all&employee=3", nil)
		rec := httptest.NewRecorder()

		handler.Taxes(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(stub.kind).To(Equal(report.KindTaxes))
		Expect(stub.f.SameDay).To(BeTrue())
		Expect(stub.f.StoreID).To(BeNil())
		Expect(*stub.f.EmployeeID).To(Equal(int64(3)))
	})

	It("degrades to a zeroed report when aggregation fails", func() {
		stub.err = errors.New("relation \"orders\" does not exist")
		req := httptest.NewRequest(http.MethodGet, "/api/reports/sales-summary?startDate=2024-03-01", nil)
		rec := httptest.NewRecorder()

		handler.SalesSummary(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		var body struct {
			Filters map[string]interface{} `json:"filters"`
			Summary map[string]interface{} `json:"summary"`
			Items   []interface{}          `json:"items"`
			Series  []interface{}          `json:"series"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Filters["startDate"]).To(Equal("2024-03-01"))
		Expect(body.Filters["endDate"]).To(Equal("2024-03-31"))
		Expect(body.Summary["grossSales"]).To(Equal("0"))
		Expect(body.Summary["netSales"]).To(Equal("0"))
		Expect(body.Summary["orders"]).To(BeNumerically("==", 0))
		Expect(body.Items).NotTo(BeNil())
		Expect(body.Items).To(BeEmpty())
		Expect(body.Series).NotTo(BeNil())
	})

	DescribeTable("every report answers 200 with list fields on failure",
		func(serve func(*report.Handler, http.ResponseWriter, *http.Request)) {
			stub.err = errors.New("boom")
			rec := httptest.NewRecorder()

			serve(handler, rec, httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"items":[]`))
		},
		Entry("sales by item", (*report.Handler).SalesByItem),
		Entry("sales by category", (*report.Handler).SalesByCategory),
		Entry("sales by employee", (*report.Handler).SalesByEmployee),
		Entry("sales by payment type", (*report.Handler).SalesByPaymentType),
		Entry("discounts", (*report.Handler).Discounts),
		Entry("taxes", (*report.Handler).Taxes),
		Entry("shifts", (*report.Handler).Shifts),
	)
})
