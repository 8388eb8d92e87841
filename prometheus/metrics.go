package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"inventory-service/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Entity CRUD metrics
	EntityOperationsCounter prometheus.CounterVec

	// Stock ledger metrics
	StockIssuesCounter        prometheus.Counter
	InsufficientStockCounter  prometheus.Counter
	ItemsLowStockGauge        prometheus.Gauge
	ItemsOutOfStockGauge      prometheus.Gauge

	// Payment metrics
	PaymentsCounter      prometheus.CounterVec
	GatewayFaultsCounter prometheus.Counter
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful authentications",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Entity CRUD metrics
	EntityOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_operations_total",
			Help: "Total number of entity operations",
		},
		[]string{"entity", "operation"},
	)

	// Stock ledger metrics
	StockIssuesCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_stock_issues_total",
			Help: "Total number of stock issues recorded",
		},
	)

	InsufficientStockCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_insufficient_stock_total",
			Help: "Total number of stock issues rejected for insufficient stock",
		},
	)

	ItemsLowStockGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_items_low_stock",
			Help: "Number of items at or below their reorder level",
		},
	)

	ItemsOutOfStockGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_items_out_of_stock",
			Help: "Number of items with zero quantity",
		},
	)

	// Payment metrics
	PaymentsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_payments_total",
			Help: "Total number of payment attempts",
		},
		[]string{"method", "status"},
	)

	GatewayFaultsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_gateway_faults_total",
			Help: "Total number of payment gateway faults",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordEntityOperation increments the counter for CRUD operations on an entity
func RecordEntityOperation(entity, operation string) {
	EntityOperationsCounter.WithLabelValues(entity, operation).Inc()
}

// RecordPayment increments the payment counter for a method/status pair
func RecordPayment(method, status string) {
	PaymentsCounter.WithLabelValues(method, status).Inc()
}

// UpdateStockGauges updates the low/out-of-stock gauges
func UpdateStockGauges(lowStock, outOfStock int64) {
	ItemsLowStockGauge.Set(float64(lowStock))
	ItemsOutOfStockGauge.Set(float64(outOfStock))
}

// Middleware returns an Echo middleware that records HTTP request metrics
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			// Record metrics after the request is processed
			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method
			path := c.Path()

			HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
			HttpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler returns an HTTP handler for exposing Prometheus metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
