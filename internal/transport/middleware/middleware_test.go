package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/auth"
	roleDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/role"
	"github.com/frahmantamala/pos-backoffice/internal/permission"
	"github.com/frahmantamala/pos-backoffice/internal/role"
	"github.com/frahmantamala/pos-backoffice/internal/role/memory"
	"github.com/frahmantamala/pos-backoffice/internal/transport/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

// scriptedChecker answers from a table and records every query.
type scriptedChecker struct {
	answers map[permission.Permission]error
	grants  map[permission.Permission]bool
	asked   []permission.Permission
}

func (s *scriptedChecker) Check(_ context.Context, _ string, p permission.Permission) (bool, error) {
	s.asked = append(s.asked, p)
	if err := s.answers[p]; err != nil {
		return false, err
	}
	return s.grants[p], nil
}

func decodeError(rec *httptest.ResponseRecorder) internal.Response {
	var body internal.Response
	Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
	return body
}

var _ = Describe("Guard", func() {
	var (
		issuer    *auth.TokenIssuer
		evaluator *permission.Evaluator
		guard     *middleware.Guard
		calls     int
		handler   http.Handler
		logger    *slog.Logger
	)

	tokenFor := func(roleName string) string {
		token, _, err := issuer.Issue(internal.Principal{UserID: 7, Username: "sam", Role: roleName})
		Expect(err).NotTo(HaveOccurred())
		return token
	}

	do := func(h http.Handler, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/reports/sales-summary", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		var err error
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		issuer, err = auth.NewTokenIssuer("guard-secret", "1h")
		Expect(err).NotTo(HaveOccurred())

		repo := memory.NewRepository()
		repo.Seed(&roleDatamodel.Role{Name: "reporter", Permissions: permission.Set{CanViewReports: true}})
		evaluator = permission.NewEvaluator(role.NewService(repo, logger), logger)
		guard = middleware.NewGuard(issuer, evaluator)

		calls = 0
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			p, ok := internal.PrincipalFromContext(r.Context())
			Expect(ok).To(BeTrue())
			Expect(p.UserID).To(Equal(int64(7)))
			w.WriteHeader(http.StatusNoContent)
		})
	})

	Describe("authentication", func() {
		It("rejects a missing token with 401 before any permission logic", func() {
			checker := &scriptedChecker{}
			g := middleware.NewGuard(issuer, checker)

			rec := do(g.RequirePermission(permission.CanViewReports)(handler), "")
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(decodeError(rec).Code).To(Equal(internal.ErrCodeMissingToken))
			Expect(checker.asked).To(BeEmpty())
			Expect(calls).To(BeZero())
		})

		It("rejects a tampered token with 401", func() {
			token := tokenFor("admin")
			rec := do(guard.Authenticated()(handler), token[:len(token)-2]+"xx")
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(decodeError(rec).Code).To(Equal(internal.ErrCodeInvalidToken))
		})

		It("passes a valid token through", func() {
			rec := do(guard.Authenticated()(handler), tokenFor("cashier"))
			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(calls).To(Equal(1))
		})
	})

	Describe("RequirePermission", func() {
		It("admits system roles by their fixed set", func() {
			rec := do(guard.RequirePermission(permission.CanViewReports)(handler), tokenFor("manager"))
			Expect(rec.Code).To(Equal(http.StatusNoContent))
		})

		It("denies with a structured 403", func() {
			rec := do(guard.RequirePermission(permission.CanViewReports)(handler), tokenFor("cashier"))
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			body := decodeError(rec)
			Expect(body.Error).To(Equal("Insufficient permissions"))
			Expect(body.Code).To(Equal(internal.ErrCodeInsufficientPermission))
			Expect(calls).To(BeZero())
		})

		It("always denies roles that are not stored", func() {
			for _, p := range permission.All() {
				rec := do(guard.RequirePermission(p)(handler), tokenFor("ghost"))
				Expect(rec.Code).To(Equal(http.StatusForbidden))
			}
		})

		It("admits custom roles from the store", func() {
			rec := do(guard.RequirePermission(permission.CanViewReports)(handler), tokenFor("reporter"))
			Expect(rec.Code).To(Equal(http.StatusNoContent))
		})
	})

	Describe("RequireAnyPermission", func() {
		It("grants on the second permission and invokes the handler once", func() {
			checker := &scriptedChecker{grants: map[permission.Permission]bool{permission.CanViewReports: true}}
			g := middleware.NewGuard(issuer, checker)

			rec := do(g.RequireAnyPermission(permission.CanManageUsers, permission.CanViewReports, permission.CanManageSettings)(handler), tokenFor("x"))
			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(calls).To(Equal(1))
			Expect(checker.asked).To(Equal([]permission.Permission{permission.CanManageUsers, permission.CanViewReports}))
		})

		It("keeps evaluating after a failing check", func() {
			checker := &scriptedChecker{
				answers: map[permission.Permission]error{permission.CanManageUsers: errors.New("lookup failed")},
				grants:  map[permission.Permission]bool{permission.CanViewReports: true},
			}
			g := middleware.NewGuard(issuer, checker)

			rec := do(g.RequireAnyPermission(permission.CanManageUsers, permission.CanViewReports)(handler), tokenFor("x"))
			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(calls).To(Equal(1))
		})

		It("denies on exhaustion", func() {
			rec := do(guard.RequireAnyPermission(permission.CanManageUsers, permission.CanViewReports)(handler), tokenFor("cashier"))
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(calls).To(BeZero())
		})
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("returns a generic 500 without the panic value", func() {
		h := middleware.RecoveryMiddleware(slog.Default())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("db password is hunter2")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).NotTo(ContainSubstring("hunter2"))
	})
})

var _ = Describe("RequestID", func() {
	It("echoes an incoming trace id and generates one otherwise", func() {
		h := middleware.RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.TraceHeader, "abc-123")
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get(middleware.TraceHeader)).To(Equal("abc-123"))

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Header().Get(middleware.TraceHeader)).To(HaveLen(36))
	})

	It("accepts X-Request-ID and replaces malformed ids", func() {
		h := middleware.RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "pos-7")
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get(middleware.TraceHeader)).To(Equal("pos-7"))

		rec = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.TraceHeader, "evil id\nlevel=ERROR")
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get(middleware.TraceHeader)).To(HaveLen(36))
	})
})

var _ = Describe("CORS", func() {
	It("answers preflight for allowed origins", func() {
		h := middleware.CORS("https://backoffice.example.com")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
		req.Header.Set("Origin", "https://backoffice.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://backoffice.example.com"))
	})

	It("does not set headers for unknown origins", func() {
		h := middleware.CORS("https://backoffice.example.com")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})
})

var _ = Describe("RateLimit", func() {
	It("returns 429 once the budget is spent", func() {
		limit, err := middleware.RateLimit("2-M")
		Expect(err).NotTo(HaveOccurred())
		h := limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
			req.RemoteAddr = "10.0.0.1:5555"
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}
		Expect(codes).To(Equal([]int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}))
	})

	It("rejects malformed rates", func() {
		_, err := middleware.RateLimit("lots")
		Expect(err).To(HaveOccurred())
	})
})
