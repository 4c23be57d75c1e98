package interceptor

import (
	"fmt"
	"sync"
	"time"
)

// MetricsInterceptor accumulates per-key resolve timing, keyed by
// "component/key".
type MetricsInterceptor struct {
	mu      sync.RWMutex
	metrics map[string]*KeyMetrics
}

// KeyMetrics holds resolve timing for one component/key pair.
type KeyMetrics struct {
	TotalResolves   int64
	TotalTimeNs     int64
	AverageTimeNs   int64
	LastResolveTime time.Time
}

// NewMetricsInterceptor creates a new metrics interceptor.
func NewMetricsInterceptor() *MetricsInterceptor {
	return &MetricsInterceptor{
		metrics: make(map[string]*KeyMetrics),
	}
}

// Before implements Interceptor.
func (i *MetricsInterceptor) Before(ctx *ResolveContext) error {
	ctx.Data["metricsStartTime"] = time.Now()

	i.mu.Lock()
	defer i.mu.Unlock()

	routeKey := fmt.Sprintf("%s/%s", ctx.Component, ctx.RequestKey)
	metrics, ok := i.metrics[routeKey]
	if !ok {
		metrics = &KeyMetrics{}
		i.metrics[routeKey] = metrics
	}

	metrics.TotalResolves++
	metrics.LastResolveTime = time.Now()

	return nil
}

// After implements Interceptor.
func (i *MetricsInterceptor) After(ctx *ResolveContext) error {
	startTime, ok := ctx.Data["metricsStartTime"].(time.Time)
	if !ok {
		startTime = time.Now()
	}

	duration := time.Since(startTime)

	i.mu.Lock()
	defer i.mu.Unlock()

	routeKey := fmt.Sprintf("%s/%s", ctx.Component, ctx.RequestKey)
	metrics := i.metrics[routeKey]
	if metrics == nil {
		return nil
	}

	metrics.TotalTimeNs += duration.Nanoseconds()
	metrics.AverageTimeNs = metrics.TotalTimeNs / metrics.TotalResolves

	return nil
}

// Metrics returns a copy of the current per-key metrics.
func (i *MetricsInterceptor) Metrics() map[string]KeyMetrics {
	i.mu.RLock()
	defer i.mu.RUnlock()

	result := make(map[string]KeyMetrics)
	for k, v := range i.metrics {
		result[k] = *v
	}

	return result
}
