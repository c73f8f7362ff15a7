package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/auth"
	authPostgres "github.com/frahmantamala/pos-backoffice/internal/auth/postgres"
	authRedis "github.com/frahmantamala/pos-backoffice/internal/auth/redis"
	"github.com/frahmantamala/pos-backoffice/internal/category"
	categoryPostgres "github.com/frahmantamala/pos-backoffice/internal/category/postgres"
	"github.com/frahmantamala/pos-backoffice/internal/core/events"
	"github.com/frahmantamala/pos-backoffice/internal/discount"
	discountPostgres "github.com/frahmantamala/pos-backoffice/internal/discount/postgres"
	"github.com/frahmantamala/pos-backoffice/internal/metrics"
	"github.com/frahmantamala/pos-backoffice/internal/order"
	orderPostgres "github.com/frahmantamala/pos-backoffice/internal/order/postgres"
	"github.com/frahmantamala/pos-backoffice/internal/permission"
	"github.com/frahmantamala/pos-backoffice/internal/product"
	productPostgres "github.com/frahmantamala/pos-backoffice/internal/product/postgres"
	"github.com/frahmantamala/pos-backoffice/internal/report"
	reportPostgres "github.com/frahmantamala/pos-backoffice/internal/report/postgres"
	"github.com/frahmantamala/pos-backoffice/internal/role"
	rolePostgres "github.com/frahmantamala/pos-backoffice/internal/role/postgres"
	"github.com/frahmantamala/pos-backoffice/internal/shift"
	shiftPostgres "github.com/frahmantamala/pos-backoffice/internal/shift/postgres"
	"github.com/frahmantamala/pos-backoffice/internal/store"
	storePostgres "github.com/frahmantamala/pos-backoffice/internal/store/postgres"
	"github.com/frahmantamala/pos-backoffice/internal/taxcategory"
	taxPostgres "github.com/frahmantamala/pos-backoffice/internal/taxcategory/postgres"
	"github.com/frahmantamala/pos-backoffice/internal/transport"
	"github.com/frahmantamala/pos-backoffice/internal/transport/middleware"
	"github.com/frahmantamala/pos-backoffice/internal/transport/rest"
	"github.com/frahmantamala/pos-backoffice/internal/user"
	userPostgres "github.com/frahmantamala/pos-backoffice/internal/user/postgres"
	"github.com/frahmantamala/pos-backoffice/pkg/logger"

	"github.com/go-chi/chi"
	goredis "github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *Database
	Redis    *goredis.Client
	EventBus *events.EventBus
	Router   *chi.Mux
	Logger   *slog.Logger
}

func (d *Dependencies) Close() {
	d.EventBus.Wait()
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("redis close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr, "environment", deps.Config.Environment)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("server failed to start", "error", err)
			deps.Close()
			os.Exit(1)
		}
	}

	deps.Close()
	deps.Logger.Info("server stopped")
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	if config.UsesDefaultJWTSecret() {
		lg.Warn("jwt secret not configured, signing tokens with the development default", "environment", config.Environment)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps := &Dependencies{
		Config:   config,
		DB:       db,
		EventBus: events.NewEventBus(lg),
		Router:   chi.NewRouter(),
		Logger:   lg,
	}

	if config.Redis.Enabled {
		client, err := authRedis.NewClient(ctx, config.Redis.Addr, config.Redis.Password, config.Redis.DB)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		deps.Redis = client
	}

	return deps, nil
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger
	gdb := deps.DB.Gorm
	base := transport.NewBaseHandler(lg)

	tokens, err := auth.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)
	if err != nil {
		return fmt.Errorf("token issuer: %w", err)
	}

	authRepo := authPostgres.NewRepository(gdb)
	var refreshStore auth.RefreshStore = authRepo
	if deps.Redis != nil {
		refreshStore = authRedis.NewRefreshStore(deps.Redis, cfg.Redis.KeyPrefix)
	} else if purged, err := authRepo.PurgeExpired(context.Background(), time.Now()); err != nil {
		lg.Warn("failed to purge expired refresh tokens", "error", err)
	} else if purged > 0 {
		lg.Info("purged expired refresh tokens", "count", purged)
	}

	roleService := role.NewService(rolePostgres.NewRoleRepository(gdb), lg)
	evaluator := permission.NewEvaluator(roleService, lg)
	guard := middleware.NewGuard(tokens, evaluator)

	authService := auth.NewService(authRepo, tokens, refreshStore, cfg.Security.RefreshTokenDuration, lg).
		WithEvents(deps.EventBus)
	userService := user.NewService(userPostgres.NewUserRepository(gdb), roleService, cfg.Security.BCryptCost, lg)
	categoryService := category.NewService(categoryPostgres.NewCategoryRepository(gdb), lg)
	productService := product.NewService(productPostgres.NewProductRepository(gdb), categoryService, lg)
	taxService := taxcategory.NewService(taxPostgres.NewTaxCategoryRepository(gdb), lg)
	discountService := discount.NewService(discountPostgres.NewDiscountRepository(gdb), lg)
	shiftService := shift.NewService(shiftPostgres.NewShiftRepository(gdb), lg).WithEvents(deps.EventBus)
	storeService := store.NewService(storePostgres.NewStoreRepository(gdb), lg)
	orderService := order.NewService(orderPostgres.NewOrderRepository(gdb), order.Catalog{
		Products:   productService,
		Categories: categoryService,
		Taxes:      taxService,
		Discounts:  discountService,
		Shifts:     shiftService,
	}, lg).WithEvents(deps.EventBus)
	reportService := report.NewService(reportPostgres.NewReportRepository(deps.DB.SQLX), lg)

	checks := map[string]rest.CheckFunc{
		"database": deps.DB.SQLX.PingContext,
	}
	if deps.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		}
	}

	var m *metrics.Metrics
	if cfg.Observability.Metrics.Enabled {
		m = metrics.New("pos-backoffice")
		m.Subscribe(deps.EventBus)
	}

	loginLimiter, err := middleware.RateLimit(cfg.RateLimit.Login)
	if err != nil {
		return fmt.Errorf("login rate limit: %w", err)
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:      rest.NewHealthHandler(base, checks),
		Auth:        auth.NewHandler(authService),
		User:        user.NewHandler(base, userService),
		Role:        role.NewHandler(base, roleService, evaluator),
		Category:    category.NewHandler(base, categoryService),
		Product:     product.NewHandler(base, productService),
		Order:       order.NewHandler(base, orderService),
		Shift:       shift.NewHandler(base, shiftService, evaluator),
		Discount:    discount.NewHandler(base, discountService),
		TaxCategory: taxcategory.NewHandler(base, taxService),
		Store:       store.NewHandler(base, storeService),
		Report:      report.NewHandler(base, reportService),
	}, rest.Options{
		Guard:          guard,
		Metrics:        m,
		MetricsPath:    cfg.Observability.Metrics.Path,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		LoginLimiter:   loginLimiter,
		OpenAPIPath:    cfg.Server.OpenAPIPath,
		UploadsDir:     cfg.Server.UploadsDir,
		Logger:         lg,
	})
	return nil
}
