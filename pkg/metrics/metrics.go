package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics контейнер prometheus-метрик сервиса
type Metrics struct {
	service string

	// HTTP метрики
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Метрики БД
	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec

	// Метрики connection pool
	DBConnectionsOpen  *prometheus.GaugeVec
	DBConnectionsInUse *prometheus.GaugeVec
	DBConnectionsIdle  *prometheus.GaugeVec

	// Бизнес-метрики бронирований
	HoldsPlacedTotal    *prometheus.CounterVec
	HoldConflictsTotal  *prometheus.CounterVec
	BookingsTotal       *prometheus.CounterVec
}

// New создает и регистрирует метрики в default registry
func New(service string) *Metrics {
	return &Metrics{
		service: service,

		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries",
		}, []string{"service", "operation", "status"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "operation"}),

		DBConnectionsOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections_open",
			Help: "Number of open database connections",
		}, []string{"service"}),

		DBConnectionsInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "Number of database connections in use",
		}, []string{"service"}),

		DBConnectionsIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		}, []string{"service"}),

		HoldsPlacedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_holds_placed_total",
			Help: "Total number of slot holds successfully placed",
		}, []string{"service"}),

		HoldConflictsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_hold_conflicts_total",
			Help: "Total number of hold attempts rejected due to slot conflicts",
		}, []string{"service"}),

		BookingsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Total number of booking lifecycle transitions",
		}, []string{"service", "status"}),
	}
}

// ObserveHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, path, status string, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(m.service, method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.service, method, path).Observe(seconds)
}

// ObserveDBQuery записывает метрики запроса к БД
func (m *Metrics) ObserveDBQuery(operation, status string, seconds float64) {
	m.DBQueriesTotal.WithLabelValues(m.service, operation, status).Inc()
	m.DBQueryDuration.WithLabelValues(m.service, operation).Observe(seconds)
}

// SetDBPoolStats записывает состояние connection pool
func (m *Metrics) SetDBPoolStats(open, inUse, idle int) {
	m.DBConnectionsOpen.WithLabelValues(m.service).Set(float64(open))
	m.DBConnectionsInUse.WithLabelValues(m.service).Set(float64(inUse))
	m.DBConnectionsIdle.WithLabelValues(m.service).Set(float64(idle))
}

// IncHoldPlaced увеличивает счетчик успешно размещенных холдов
func (m *Metrics) IncHoldPlaced() {
	m.HoldsPlacedTotal.WithLabelValues(m.service).Inc()
}

// IncHoldConflict увеличивает счетчик конфликтов при размещении холда
func (m *Metrics) IncHoldConflict() {
	m.HoldConflictsTotal.WithLabelValues(m.service).Inc()
}

// IncBooking увеличивает счетчик переходов бронирования в указанный статус
func (m *Metrics) IncBooking(status string) {
	m.BookingsTotal.WithLabelValues(m.service, status).Inc()
}
