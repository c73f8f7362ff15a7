package order_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/order"
	"github.com/frahmantamala/pos-backoffice/internal/permission"
	"github.com/frahmantamala/pos-backoffice/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Order Handler", func() {
	var (
		router chi.Router
		fx     *fixture
	)

	cashier := internal.Principal{UserID: 7, Username: "bob", Role: permission.RoleCashier}

	send := func(method, path string, body interface{}, withPrincipal bool) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		if withPrincipal {
			req = req.WithContext(internal.ContextWithPrincipal(req.Context(), cashier))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		fx = newFixture(context.Background())
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler := order.NewHandler(&transport.BaseHandler{Logger: slogger}, fx.service)

		router = chi.NewRouter()
		router.Get("/orders", handler.ListOrders)
		router.Post("/orders", handler.CreateOrder)
		router.Get("/orders/{id}", handler.GetOrder)
		router.Post("/orders/{id}/refund", handler.RefundOrder)
	})

	payload := func() map[string]interface{} {
		return map[string]interface{}{
			"storeId":       1,
			"paymentMethod": "card",
			"items": []map[string]interface{}{
				{"productId": fx.muffin.ID, "quantity": 2},
			},
		}
	}

	It("creates an order for the caller and serves it back", func() {
		w := send(http.MethodPost, "/orders", payload(), true)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created order.Order
		Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
		Expect(created.UserID).To(Equal(int64(7)))
		Expect(created.Total.String()).To(Equal("4.4"))

		w = send(http.MethodGet, "/orders/"+strconv.FormatInt(created.ID, 10), nil, true)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"paymentMethod":"card"`))

		w = send(http.MethodGet, "/orders?status=completed", nil, true)
		Expect(w.Code).To(Equal(http.StatusOK))
		var list []order.Order
		Expect(json.Unmarshal(w.Body.Bytes(), &list)).To(Succeed())
		Expect(list).To(HaveLen(1))
	})

	It("requires an authenticated caller to create orders", func() {
		w := send(http.MethodPost, "/orders", payload(), false)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects unknown fields", func() {
		body := payload()
		body["customerId"] = 3
		w := send(http.MethodPost, "/orders", body, true)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("maps refund failures to their status codes", func() {
		w := send(http.MethodPost, "/orders", payload(), true)
		Expect(w.Code).To(Equal(http.StatusCreated))
		var created order.Order
		Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
		path := "/orders/" + strconv.FormatInt(created.ID, 10) + "/refund"

		Expect(send(http.MethodPost, path, map[string]interface{}{"amount": "100"}, true).Code).To(Equal(http.StatusBadRequest))
		Expect(send(http.MethodPost, path, map[string]interface{}{}, true).Code).To(Equal(http.StatusOK))

		w = send(http.MethodPost, path, map[string]interface{}{}, true)
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("ORDER_NOT_REFUNDABLE"))

		Expect(send(http.MethodPost, "/orders/404/refund", map[string]interface{}{}, true).Code).To(Equal(http.StatusNotFound))
		Expect(send(http.MethodPost, "/orders/abc/refund", map[string]interface{}{}, true).Code).To(Equal(http.StatusBadRequest))
	})
})
