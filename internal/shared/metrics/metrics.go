package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	batchesStartedTotal   atomic.Uint64
	batchesCompletedTotal atomic.Uint64

	resumesProcessedTotal atomic.Uint64
	resumesFailedTotal    atomic.Uint64

	augmentationFallbackTotal atomic.Uint64

	queueJobsReceivedTotal  atomic.Uint64
	queueJobsCompletedTotal atomic.Uint64
	queueJobsFailedTotal    atomic.Uint64
	queueJobsDroppedTotal   atomic.Uint64

	batchDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncBatchesStarted increments the started-batches counter.
func IncBatchesStarted() {
	batchesStartedTotal.Add(1)
}

// IncBatchesCompleted increments the completed-batches counter.
func IncBatchesCompleted() {
	batchesCompletedTotal.Add(1)
}

// IncResumesProcessed increments the processed-resumes counter.
func IncResumesProcessed() {
	resumesProcessedTotal.Add(1)
}

// IncResumesFailed increments the failed-resumes counter.
func IncResumesFailed() {
	resumesFailedTotal.Add(1)
}

// IncAugmentationFallback increments the counter of remote-augmentation degradations.
func IncAugmentationFallback() {
	augmentationFallbackTotal.Add(1)
}

// IncQueueJobsReceived increments the counter of queue messages picked up.
func IncQueueJobsReceived() {
	queueJobsReceivedTotal.Add(1)
}

// IncQueueJobsCompleted increments the counter of queue messages fully processed.
func IncQueueJobsCompleted() {
	queueJobsCompletedTotal.Add(1)
}

// IncQueueJobsFailed increments the counter of queue messages whose processing failed.
func IncQueueJobsFailed() {
	queueJobsFailedTotal.Add(1)
}

// IncQueueJobsDropped increments the counter of unrecoverable messages deleted without processing.
func IncQueueJobsDropped() {
	queueJobsDroppedTotal.Add(1)
}

// ObserveBatchDurationMs records a batch processing duration in milliseconds.
func ObserveBatchDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	batchDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "ranking_batches_started_total", "Total ranking batches started", batchesStartedTotal.Load())
	writeCounter(&buf, "ranking_batches_completed_total", "Total ranking batches completed", batchesCompletedTotal.Load())
	writeCounter(&buf, "ranking_resumes_processed_total", "Total resumes scored", resumesProcessedTotal.Load())
	writeCounter(&buf, "ranking_resumes_failed_total", "Total resumes that failed processing", resumesFailedTotal.Load())
	writeCounter(&buf, "augmentation_fallback_total", "Total remote augmentation calls that degraded to heuristics", augmentationFallbackTotal.Load())
	writeCounter(&buf, "queue_jobs_received_total", "Total queue messages received by the worker", queueJobsReceivedTotal.Load())
	writeCounter(&buf, "queue_jobs_completed_total", "Total queue messages processed and deleted", queueJobsCompletedTotal.Load())
	writeCounter(&buf, "queue_jobs_failed_total", "Total queue messages whose batch processing failed", queueJobsFailedTotal.Load())
	writeCounter(&buf, "queue_jobs_dropped_total", "Total malformed queue messages deleted without processing", queueJobsDroppedTotal.Load())
	writeHistogram(&buf, "ranking_batch_duration_ms", "Batch processing duration in milliseconds", batchDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
