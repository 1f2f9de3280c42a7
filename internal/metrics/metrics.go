// Package metrics exposes Prometheus instrumentation for the inference
// engine, worker pool, and dynamic batcher.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InferenceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "titaninfer_inference_duration_seconds",
		Help:    "Duration of a single predict() call",
		Buckets: prometheus.DefBuckets,
	})

	InferenceTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "titaninfer_inference_total",
		Help: "Total number of predict() calls completed",
	})

	InferenceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "titaninfer_inference_errors_total",
		Help: "Total number of predict() calls that returned an error",
	}, []string{"kind"})

	LayerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "titaninfer_layer_duration_seconds",
		Help:    "Per-layer forward pass duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"layer"})

	PoolQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "titaninfer_pool_queue_depth",
		Help: "Current number of tasks waiting in the worker pool queue",
	})

	PoolTasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "titaninfer_pool_tasks_completed_total",
		Help: "Total number of worker pool tasks completed",
	})

	BatcherBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "titaninfer_batcher_batch_size",
		Help:    "Size of batches assembled by the dynamic batcher",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
	})

	BatcherWaitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "titaninfer_batcher_wait_duration_seconds",
		Help:    "Time a request spent waiting in the batcher queue before being dispatched",
		Buckets: prometheus.DefBuckets,
	})
)

// RecordInference records one predict() call's latency and outcome.
func RecordInference(d time.Duration, err error) {
	InferenceDuration.Observe(d.Seconds())
	InferenceTotal.Inc()
	if err != nil {
		InferenceErrors.WithLabelValues("inference").Inc()
	}
}

// RecordLayerDuration records one layer's forward pass latency.
func RecordLayerDuration(name string, d time.Duration) {
	LayerDuration.WithLabelValues(name).Observe(d.Seconds())
}

// RecordBatch records a dispatched batch's size and the longest wait any
// request in it experienced.
func RecordBatch(size int, maxWait time.Duration) {
	BatcherBatchSize.Observe(float64(size))
	BatcherWaitDuration.Observe(maxWait.Seconds())
}
