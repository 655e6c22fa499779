// Package metrics 课程库服务的Prometheus指标
//
// 指标分三组：
//   - HTTP：请求总数、耗时、处理中的请求数（由Metrics中间件记录）
//   - 业务：作者/课程的变更次数、仓储Save的结果
//   - 基础设施：熔断器状态、事件发布结果
//
// 使用方式：
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// HTTPRequestsTotal HTTP请求总数，标签：method、path（路由模板）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（秒），标签：method、path
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// ResourceChangesTotal 资源变更总数
	// 标签：resource（author/course）、action（created/updated/deleted）
	ResourceChangesTotal *prometheus.CounterVec

	// RepositorySavesTotal 仓储Save调用次数
	// 标签：result（success/no_effect/error）
	RepositorySavesTotal *prometheus.CounterVec

	// RepositorySaveDuration 仓储Save耗时（秒）
	RepositorySaveDuration prometheus.Histogram

	// ValidationFailuresTotal 422校验失败次数，标签：path
	ValidationFailuresTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数，标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// EventsPublishedTotal 领域事件发布总数，标签：routing_key、result（success/failure）
	EventsPublishedTotal *prometheus.CounterVec

	// RateLimitedTotal 被限流拒绝的请求数，标签：backend（redis/memory）
	RateLimitedTotal *prometheus.CounterVec
)

// 资源与动作标签值
const (
	ResourceAuthor = "author"
	ResourceCourse = "course"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// InitMetrics 注册全部指标到默认Registry，可重复调用
func InitMetrics() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	ResourceChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_resource_changes_total",
			Help: "作者/课程变更总数",
		},
		[]string{"resource", "action"},
	)

	RepositorySavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_repository_saves_total",
			Help: "仓储Save调用总数",
		},
		[]string{"result"},
	)

	RepositorySaveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "library_repository_save_duration_seconds",
			Help:    "仓储Save耗时（秒）",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	ValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_validation_failures_total",
			Help: "模型校验失败（422）总数",
		},
		[]string{"path"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_events_published_total",
			Help: "领域事件发布总数",
		},
		[]string{"routing_key", "result"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "被限流拒绝的请求数",
		},
		[]string{"backend"},
	)
}

// RecordChange 记录一次资源变更
func RecordChange(resource, action string) {
	InitMetrics()
	ResourceChangesTotal.With(prometheus.Labels{"resource": resource, "action": action}).Inc()
}

// RecordSave 记录一次仓储Save
func RecordSave(result string, seconds float64) {
	InitMetrics()
	RepositorySavesTotal.With(prometheus.Labels{"result": result}).Inc()
	RepositorySaveDuration.Observe(seconds)
}

// RecordEvent 记录一次事件发布
func RecordEvent(routingKey string, err error) {
	InitMetrics()
	result := "success"
	if err != nil {
		result = "failure"
	}
	EventsPublishedTotal.With(prometheus.Labels{"routing_key": routingKey, "result": result}).Inc()
}

// RecordValidationFailure 记录一次模型校验失败，path为路由模板
func RecordValidationFailure(path string) {
	InitMetrics()
	ValidationFailuresTotal.With(prometheus.Labels{"path": path}).Inc()
}

// RecordRateLimited 记录一次被限流的请求，backend为redis或memory
func RecordRateLimited(backend string) {
	InitMetrics()
	RateLimitedTotal.With(prometheus.Labels{"backend": backend}).Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
