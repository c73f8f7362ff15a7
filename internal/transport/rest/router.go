package rest

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/frahmantamala/pos-backoffice/internal/auth"
	"github.com/frahmantamala/pos-backoffice/internal/category"
	"github.com/frahmantamala/pos-backoffice/internal/discount"
	"github.com/frahmantamala/pos-backoffice/internal/metrics"
	"github.com/frahmantamala/pos-backoffice/internal/order"
	"github.com/frahmantamala/pos-backoffice/internal/permission"
	"github.com/frahmantamala/pos-backoffice/internal/product"
	"github.com/frahmantamala/pos-backoffice/internal/report"
	"github.com/frahmantamala/pos-backoffice/internal/role"
	"github.com/frahmantamala/pos-backoffice/internal/shift"
	"github.com/frahmantamala/pos-backoffice/internal/store"
	"github.com/frahmantamala/pos-backoffice/internal/taxcategory"
	"github.com/frahmantamala/pos-backoffice/internal/transport/middleware"
	"github.com/frahmantamala/pos-backoffice/internal/transport/swagger"
	"github.com/frahmantamala/pos-backoffice/internal/user"
	"github.com/go-chi/chi"
)

// Handlers carries one HTTP handler per resource.
type Handlers struct {
	Health      *HealthHandler
	Auth        *auth.Handler
	User        *user.Handler
	Role        *role.Handler
	Category    *category.Handler
	Product     *product.Handler
	Order       *order.Handler
	Shift       *shift.Handler
	Discount    *discount.Handler
	TaxCategory *taxcategory.Handler
	Store       *store.Handler
	Report      *report.Handler
}

type Options struct {
	Guard          *middleware.Guard
	Metrics        *metrics.Metrics
	MetricsPath    string
	AllowedOrigins string
	LoginLimiter   func(http.Handler) http.Handler
	OpenAPIPath    string
	UploadsDir     string
	Logger         *slog.Logger
}

func RegisterAllRoutes(router chi.Router, h Handlers, opts Options) {
	lg := opts.Logger
	if lg == nil {
		lg = slog.Default()
	}
	guard := opts.Guard

	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(lg))
	router.Use(middleware.LoggingMiddleware(lg))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
		router.Method(http.MethodGet, opts.MetricsPath, opts.Metrics.Handler())
	}

	if opts.OpenAPIPath != "" {
		if err := swagger.Mount(context.Background(), router, opts.OpenAPIPath); err != nil {
			lg.Warn("api docs disabled", "error", err)
		}
	}
	if opts.UploadsDir != "" {
		if info, err := os.Stat(opts.UploadsDir); err == nil && info.IsDir() {
			router.Handle("/uploads/*", UploadsHandler(opts.UploadsDir))
		}
	}

	requireAny := guard.RequireAnyPermission
	require := guard.RequirePermission

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.Health)
		r.Get("/ping", h.Health.Ping)

		r.Route("/auth", func(ar chi.Router) {
			ar.Group(func(lr chi.Router) {
				if opts.LoginLimiter != nil {
					lr.Use(opts.LoginLimiter)
				}
				lr.Post("/login", h.Auth.Login)
				lr.Post("/refresh", h.Auth.RefreshToken)
			})
			ar.Post("/logout", h.Auth.Logout)
			ar.With(guard.Authenticated()).Get("/me", h.Auth.Me)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(guard.Authenticated())

			pr.Get("/permissions", h.Role.ListPermissions)
			pr.Get("/permissions/me", h.Role.MyPermissions)

			pr.Get("/categories", h.Category.GetCategories)
			pr.Get("/products", h.Product.ListProducts)
			pr.Get("/products/{id}", h.Product.GetProduct)
			pr.Get("/modifiers", h.Product.ListModifiers)
			pr.Get("/discounts", h.Discount.ListDiscounts)
			pr.Get("/tax-categories", h.TaxCategory.ListTaxCategories)
			pr.Get("/stores", h.Store.ListStores)
			pr.Get("/stores/{id}", h.Store.GetStore)
			pr.Get("/stores/{id}/settings", h.Store.GetSettings)
			pr.Get("/pos-devices", h.Store.ListDevices)
			pr.Get("/dining-options", h.Store.ListDiningOptions)
			pr.Get("/kitchen-queues", h.Store.ListKitchenQueues)

			pr.Post("/shifts/start", h.Shift.StartShift)
			pr.Post("/shifts/{id}/end", h.Shift.EndShift)
			pr.Get("/shifts/current", h.Shift.CurrentShift)
		})

		r.With(requireAny(permission.CanManageUsers, permission.CanViewReports)).Get("/shifts", h.Shift.ListShifts)

		r.Group(func(ur chi.Router) {
			ur.Use(require(permission.CanManageUsers))
			ur.Get("/users", h.User.ListUsers)
			ur.Post("/users", h.User.CreateUser)
			ur.Get("/users/{id}", h.User.GetUser)
			ur.Put("/users/{id}", h.User.UpdateUser)
			ur.Delete("/users/{id}", h.User.DeleteUser)

			ur.Get("/roles", h.Role.ListRoles)
			ur.Post("/roles", h.Role.CreateRole)
			ur.Get("/roles/{id}", h.Role.GetRole)
			ur.Put("/roles/{id}", h.Role.UpdateRole)
			ur.Delete("/roles/{id}", h.Role.DeleteRole)
		})

		r.Group(func(cr chi.Router) {
			cr.Use(require(permission.CanManageCategories))
			cr.Post("/categories", h.Category.CreateCategory)
			cr.Put("/categories/{id}", h.Category.UpdateCategory)
			cr.Delete("/categories/{id}", h.Category.DeleteCategory)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(require(permission.CanManageProducts))
			pr.Post("/products", h.Product.CreateProduct)
			pr.Put("/products/{id}", h.Product.UpdateProduct)
			pr.Delete("/products/{id}", h.Product.DeleteProduct)
			pr.Post("/modifiers", h.Product.CreateModifier)
			pr.Delete("/modifiers/{id}", h.Product.DeleteModifier)
		})

		r.Group(func(or chi.Router) {
			or.Use(require(permission.CanManageOrders))
			or.Get("/orders", h.Order.ListOrders)
			or.Post("/orders", h.Order.CreateOrder)
			or.Get("/orders/{id}", h.Order.GetOrder)
			or.Post("/orders/{id}/refund", h.Order.RefundOrder)
		})

		r.Group(func(sr chi.Router) {
			sr.Use(require(permission.CanManageSettings))
			sr.Post("/discounts", h.Discount.CreateDiscount)
			sr.Put("/discounts/{id}", h.Discount.UpdateDiscount)
			sr.Delete("/discounts/{id}", h.Discount.DeleteDiscount)

			sr.Post("/tax-categories", h.TaxCategory.CreateTaxCategory)
			sr.Put("/tax-categories/{id}", h.TaxCategory.UpdateTaxCategory)
			sr.Delete("/tax-categories/{id}", h.TaxCategory.DeleteTaxCategory)

			sr.Post("/stores", h.Store.CreateStore)
			sr.Put("/stores/{id}", h.Store.UpdateStore)
			sr.Put("/stores/{id}/settings", h.Store.UpdateSettings)

			sr.Post("/pos-devices", h.Store.SaveDevice)
			sr.Put("/pos-devices/{id}", h.Store.SaveDevice)
			sr.Delete("/pos-devices/{id}", h.Store.DeleteDevice)
			sr.Post("/dining-options", h.Store.SaveDiningOption)
			sr.Put("/dining-options/{id}", h.Store.SaveDiningOption)
			sr.Delete("/dining-options/{id}", h.Store.DeleteDiningOption)
			sr.Post("/kitchen-queues", h.Store.SaveKitchenQueue)
			sr.Put("/kitchen-queues/{id}", h.Store.SaveKitchenQueue)
			sr.Delete("/kitchen-queues/{id}", h.Store.DeleteKitchenQueue)
		})

		r.Route("/reports", func(rr chi.Router) {
			rr.Use(require(permission.CanViewReports))
			rr.Get("/sales-summary", h.Report.SalesSummary)
			rr.Get("/sales-by-item", h.Report.SalesByItem)
			rr.Get("/sales-by-category", h.Report.SalesByCategory)
			rr.Get("/sales-by-employee", h.Report.SalesByEmployee)
			rr.Get("/sales-by-payment-type", h.Report.SalesByPaymentType)
			rr.Get("/discounts", h.Report.Discounts)
			rr.Get("/taxes", h.Report.Taxes)
			rr.Get("/shifts", h.Report.Shifts)
		})
	})
}
