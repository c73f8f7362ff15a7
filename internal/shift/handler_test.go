package shift_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/permission"
	"github.com/frahmantamala/pos-backoffice/internal/shift"
	shiftPostgres "github.com/frahmantamala/pos-backoffice/internal/shift/postgres"
	"github.com/frahmantamala/pos-backoffice/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Shift Handler Integration", func() {
	var router chi.Router

	send := func(p internal.Principal, method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req = req.WithContext(internal.ContextWithPrincipal(req.Context(), p))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	cashier := internal.Principal{UserID: 7, Username: "bob", Role: permission.RoleCashier}
	otherCashier := internal.Principal{UserID: 8, Username: "eve", Role: permission.RoleCashier}
	admin := internal.Principal{UserID: 1, Username: "alice", Role: permission.RoleAdmin}

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := shift.NewService(shiftPostgres.NewShiftRepository(newTestDB()), slogger)
		evaluator := permission.NewEvaluator(nil, slogger)
		handler := shift.NewHandler(&transport.BaseHandler{Logger: slogger}, service, evaluator)

		router = chi.NewRouter()
		router.Get("/shifts", handler.ListShifts)
		router.Get("/shifts/current", handler.CurrentShift)
		router.Post("/shifts/start", handler.StartShift)
		router.Post("/shifts/{id}/end", handler.EndShift)
	})

	startShift := func(p internal.Principal) int64 {
		w := send(p, http.MethodPost, "/shifts/start", map[string]interface{}{"storeId": 1, "expectedCashAmount": "150.00"})
		Expect(w.Code).To(Equal(http.StatusCreated))
		var s shift.Shift
		Expect(json.Unmarshal(w.Body.Bytes(), &s)).To(Succeed())
		return s.ID
	}

	It("starts, reads and ends the caller's own shift", func() {
		id := startShift(cashier)

		Expect(send(cashier, http.MethodGet, "/shifts/current", nil).Code).To(Equal(http.StatusOK))

		w := send(cashier, http.MethodPost, "/shifts/"+strconv.FormatInt(id, 10)+"/end", map[string]interface{}{"actualCashAmount": "160.00"})
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"cashDifference":"10"`))

		Expect(send(cashier, http.MethodGet, "/shifts/current", nil).Code).To(Equal(http.StatusNotFound))
	})

	It("returns 409 for a second start", func() {
		startShift(cashier)
		w := send(cashier, http.MethodPost, "/shifts/start", map[string]interface{}{"storeId": 1})
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("resolves the caller's role when ending another user's shift", func() {
		id := startShift(cashier)
		path := "/shifts/" + strconv.FormatInt(id, 10) + "/end"

		Expect(send(otherCashier, http.MethodPost, path, map[string]interface{}{}).Code).To(Equal(http.StatusForbidden))
		Expect(send(admin, http.MethodPost, path, map[string]interface{}{}).Code).To(Equal(http.StatusOK))
		Expect(send(admin, http.MethodPost, path, map[string]interface{}{}).Code).To(Equal(http.StatusConflict))
	})

	It("lists shifts filtered by employee", func() {
		startShift(cashier)
		startShift(otherCashier)

		var listed []shift.Shift
		Expect(json.Unmarshal(send(admin, http.MethodGet, "/shifts?employee=8", nil).Body.Bytes(), &listed)).To(Succeed())
		Expect(listed).To(HaveLen(1))
		Expect(listed[0].UserID).To(Equal(int64(8)))
	})
})
