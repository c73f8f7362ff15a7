package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/pos-backoffice/internal/core/events"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Metrics owns a private registry so tests can build as many instances as they like.
type Metrics struct {
	ServiceName string

	registry *prometheus.Registry

	requestCounter   *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	statusCategories *prometheus.CounterVec

	loginAttempts  *prometheus.CounterVec
	ordersCreated  *prometheus.CounterVec
	salesAmount    *prometheus.CounterVec
	refundedAmount *prometheus.CounterVec
	shiftsStarted  prometheus.Counter
	shiftsEnded    prometheus.Counter
	activeShifts   prometheus.Gauge
}

func New(serviceName string) *Metrics {
	m := &Metrics{
		ServiceName: serviceName,
		registry:    prometheus.NewRegistry(),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
		statusCategories: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"service", "category"},
		),
		loginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_login_attempts_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		ordersCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_orders_created_total",
				Help: "Orders created by payment method",
			},
			[]string{"payment_method"},
		),
		salesAmount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_sales_amount_total",
				Help: "Sum of order totals by payment method",
			},
			[]string{"payment_method"},
		),
		refundedAmount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_refunded_amount_total",
				Help: "Sum of refunded amounts by payment method",
			},
			[]string{"payment_method"},
		),
		shiftsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_shifts_started_total",
			Help: "Shifts opened",
		}),
		shiftsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_shifts_ended_total",
			Help: "Shifts closed",
		}),
		activeShifts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pos_active_shifts",
			Help: "Shifts opened minus shifts closed since process start",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestCounter,
		m.requestDuration,
		m.statusCategories,
		m.loginAttempts,
		m.ordersCreated,
		m.salesAmount,
		m.refundedAmount,
		m.shiftsStarted,
		m.shiftsEnded,
		m.activeShifts,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Middleware records request count and latency labelled by the chi route pattern,
// which keeps ids out of the label space.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		path := routePattern(r)
		statusStr := strconv.Itoa(status)

		m.requestCounter.WithLabelValues(m.ServiceName, r.Method, path, statusStr).Inc()
		m.requestDuration.WithLabelValues(m.ServiceName, r.Method, path, statusStr).Observe(time.Since(start).Seconds())
		m.statusCategories.WithLabelValues(m.ServiceName, category(status)).Inc()
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func category(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// Subscribe wires the domain counters to the event bus.
func (m *Metrics) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeLoginSucceeded, func(_ context.Context, _ events.Event) error {
		m.loginAttempts.WithLabelValues("success").Inc()
		return nil
	})
	bus.Subscribe(events.EventTypeLoginFailed, func(_ context.Context, e events.Event) error {
		result := "failure"
		if le, ok := e.(*events.LoginEvent); ok && le.Reason == "inactive" {
			result = "inactive"
		}
		m.loginAttempts.WithLabelValues(result).Inc()
		return nil
	})
	bus.Subscribe(events.EventTypeOrderCreated, func(_ context.Context, e events.Event) error {
		oe, ok := e.(*events.OrderEvent)
		if !ok {
			return nil
		}
		m.ordersCreated.WithLabelValues(oe.PaymentMethod).Inc()
		m.salesAmount.WithLabelValues(oe.PaymentMethod).Add(amount(oe.Amount))
		return nil
	})
	bus.Subscribe(events.EventTypeOrderRefunded, func(_ context.Context, e events.Event) error {
		oe, ok := e.(*events.OrderEvent)
		if !ok {
			return nil
		}
		m.refundedAmount.WithLabelValues(oe.PaymentMethod).Add(amount(oe.Amount))
		return nil
	})
	bus.Subscribe(events.EventTypeShiftStarted, func(_ context.Context, _ events.Event) error {
		m.shiftsStarted.Inc()
		m.activeShifts.Inc()
		return nil
	})
	bus.Subscribe(events.EventTypeShiftEnded, func(_ context.Context, _ events.Event) error {
		m.shiftsEnded.Inc()
		m.activeShifts.Dec()
		return nil
	})
}

// amount converts for Prometheus only; counters are float64 and must not go negative.
func amount(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0
	}
	f, _ := d.Float64()
	return f
}
