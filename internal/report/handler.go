package report

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/pos-backoffice/internal/transport"
	"github.com/frahmantamala/pos-backoffice/pkg/logger"
)

type ServiceAPI interface {
	Build(ctx context.Context, kind Kind, f Filter) (*Report, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Now     func() time.Time
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service, Now: time.Now}
}

// serve never fails the request: a broken aggregation is logged and answered with the zeroed shape.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, kind Kind) {
	f := ParseFilter(r.URL.Query(), h.Now())

	rep, err := h.Service.Build(r.Context(), kind, f)
	if err != nil || rep == nil {
		logger.From(r.Context()).Error("report failed, returning empty report",
			"report", kind,
			"startDate", f.StartDate,
			"endDate", f.EndDate,
			"error", err)
		rep = Empty(kind, f)
	}
	h.WriteJSON(w, http.StatusOK, rep)
}

func (h *Handler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, KindSalesSummary)
}

func (h *Handler) SalesByItem(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, KindSalesByItem)
}

func (h *Handler) SalesByCategory(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, KindSalesByCategory)
}

func (h *Handler) SalesByEmployee(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, KindSalesByEmployee)
}

func (h *Handler) SalesByPaymentType(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, KindSalesByPayment)
}

func (h *Handler) Discounts(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, KindDiscounts)
}

func (h *Handler) Taxes(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, KindTaxes)
}

func (h *Handler) Shifts(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, KindShifts)
}
