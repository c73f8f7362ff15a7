package middleware

import (
	"fmt"
	"net/http"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/transport"
	"github.com/frahmantamala/pos-backoffice/pkg/logger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit throttles per client IP using a formatted rate such as "20-M".
func RateLimit(formatted string) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", formatted, err)
	}

	store := memory.NewStore()
	instance := limiter.New(store, rate)
	base := transport.NewBaseHandler(logger.LoggerWrapper())

	limiterMiddleware := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.From(r.Context()).Warn("rate limit reached", "path", r.URL.Path)
			base.WriteAppError(w, internal.NewTooManyRequestsError("Too many requests, try again later"))
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.From(r.Context()).Error("rate limiter failed", "error", err)
			base.WriteAppError(w, internal.NewInternalError("Internal server error", err))
		}),
	)

	return limiterMiddleware.Handler, nil
}
