package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics() // 重复调用不应panic（重复注册）

	if HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal未初始化")
	}
	if HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration未初始化")
	}
	if ResourceChangesTotal == nil {
		t.Error("ResourceChangesTotal未初始化")
	}
	if CircuitBreakerState == nil {
		t.Error("CircuitBreakerState未初始化")
	}
}

// TestRecordChange 测试资源变更计数
func TestRecordChange(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"resource": ResourceCourse, "action": ActionCreated}
	before := getCounterVecValue(t, ResourceChangesTotal, labels)

	RecordChange(ResourceCourse, ActionCreated)
	RecordChange(ResourceCourse, ActionCreated)
	RecordChange(ResourceAuthor, ActionCreated)

	if got := getCounterVecValue(t, ResourceChangesTotal, labels) - before; got != 2 {
		t.Errorf("课程创建计数错误: expected=2, got=%f", got)
	}
}

// TestRecordSave 测试Save结果与耗时
func TestRecordSave(t *testing.T) {
	InitMetrics()

	before := getCounterVecValue(t, RepositorySavesTotal, map[string]string{"result": "no_effect"})
	countBefore := getHistogramCount(t, RepositorySaveDuration)

	RecordSave("no_effect", 0.002)
	RecordSave("success", 0.004)

	if got := getCounterVecValue(t, RepositorySavesTotal, map[string]string{"result": "no_effect"}) - before; got != 1 {
		t.Errorf("no_effect计数错误: expected=1, got=%f", got)
	}
	if got := getHistogramCount(t, RepositorySaveDuration) - countBefore; got != 2 {
		t.Errorf("Save耗时观测次数错误: expected=2, got=%d", got)
	}
}

// TestRecordEvent 测试事件发布结果标签
func TestRecordEvent(t *testing.T) {
	InitMetrics()

	ok := map[string]string{"routing_key": "course.created", "result": "success"}
	fail := map[string]string{"routing_key": "course.created", "result": "failure"}
	okBefore := getCounterVecValue(t, EventsPublishedTotal, ok)
	failBefore := getCounterVecValue(t, EventsPublishedTotal, fail)

	RecordEvent("course.created", nil)
	RecordEvent("course.created", errors.New("连接断开"))

	if got := getCounterVecValue(t, EventsPublishedTotal, ok) - okBefore; got != 1 {
		t.Errorf("成功计数错误: expected=1, got=%f", got)
	}
	if got := getCounterVecValue(t, EventsPublishedTotal, fail) - failBefore; got != 1 {
		t.Errorf("失败计数错误: expected=1, got=%f", got)
	}
}

// TestRecordValidationFailureAndRateLimited 测试校验失败与限流计数
func TestRecordValidationFailureAndRateLimited(t *testing.T) {
	InitMetrics()

	path := map[string]string{"path": "/api/authors/:authorId/courses"}
	before := getCounterVecValue(t, ValidationFailuresTotal, path)
	RecordValidationFailure("/api/authors/:authorId/courses")
	if got := getCounterVecValue(t, ValidationFailuresTotal, path) - before; got != 1 {
		t.Errorf("校验失败计数错误: expected=1, got=%f", got)
	}

	backend := map[string]string{"backend": "memory"}
	before = getCounterVecValue(t, RateLimitedTotal, backend)
	RecordRateLimited("memory")
	RecordRateLimited("memory")
	if got := getCounterVecValue(t, RateLimitedTotal, backend) - before; got != 2 {
		t.Errorf("限流计数错误: expected=2, got=%f", got)
	}
}

// TestGaugeVec 测试熔断器状态
func TestGaugeVec(t *testing.T) {
	InitMetrics()

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "event-publisher"}, 1)
	if v := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "event-publisher"}); v != 1 {
		t.Errorf("GaugeVec值错误: expected=1, got=%f", v)
	}
	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "event-publisher"}, 0)
}

// TestRealWorldScenario 模拟HTTP请求处理
func TestRealWorldScenario(t *testing.T) {
	InitMetrics()
	SetGauge(HTTPRequestsInProgress, 0)

	labels := map[string]string{"method": "GET", "path": "/api/authors/:authorId/courses"}
	countBefore := getHistogramVecCount(t, HTTPRequestDuration, labels)

	for i := 0; i < 5; i++ {
		IncGauge(HTTPRequestsInProgress)
		start := time.Now()
		time.Sleep(time.Millisecond)
		ObserveHistogramVec(HTTPRequestDuration, labels, time.Since(start).Seconds())
		IncCounterVec(HTTPRequestsTotal, map[string]string{
			"method": "GET",
			"path":   "/api/authors/:authorId/courses",
			"status": "200",
		})
		DecGauge(HTTPRequestsInProgress)
	}

	if v := getGaugeValue(t, HTTPRequestsInProgress); v != 0 {
		t.Errorf("正在处理的请求数错误: expected=0, got=%f", v)
	}
	if got := getHistogramVecCount(t, HTTPRequestDuration, labels) - countBefore; got != 5 {
		t.Errorf("HistogramVec观测次数错误: expected=5, got=%d", got)
	}
}

// 辅助函数：获取CounterVec值
func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	var metric dto.Metric
	if err := counterVec.With(labels).Write(&metric); err != nil {
		t.Fatalf("读取CounterVec值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：获取Gauge值
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		t.Fatalf("读取Gauge值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：获取GaugeVec值
func getGaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels map[string]string) float64 {
	var metric dto.Metric
	if err := gaugeVec.With(labels).Write(&metric); err != nil {
		t.Fatalf("读取GaugeVec值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：获取Histogram观测次数
func getHistogramCount(t *testing.T, histogram prometheus.Histogram) uint64 {
	var metric dto.Metric
	if err := histogram.Write(&metric); err != nil {
		t.Fatalf("读取Histogram值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}

// 辅助函数：获取HistogramVec观测次数
func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	var metric dto.Metric
	if err := histogramVec.With(labels).(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("读取HistogramVec值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}
