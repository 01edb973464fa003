package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	interviewsCreatedTotal   atomic.Uint64
	interviewsCompletedTotal atomic.Uint64
	interviewCreateFailed    atomic.Uint64
	answersEvaluatedTotal    atomic.Uint64

	evaluations = newLabeledCounter()
	generations = newLabeledCounter()
	fallbacks   = newLabeledCounter()
	analyses    = newLabeledCounter()

	llmDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 20000, 30000})
)

// IncInterviewCreated counts a persisted interview with its question set.
func IncInterviewCreated() {
	interviewsCreatedTotal.Add(1)
}

// IncInterviewCreateFailed counts a creation attempt that was rolled back or rejected after validation.
func IncInterviewCreateFailed() {
	interviewCreateFailed.Add(1)
}

// IncInterviewCompleted counts a pending->completed transition.
func IncInterviewCompleted() {
	interviewsCompletedTotal.Add(1)
}

// IncAnswerEvaluated counts a persisted answer.
func IncAnswerEvaluated() {
	answersEvaluatedTotal.Add(1)
}

// IncEvaluation counts an evaluation result by source (llm|heuristic).
func IncEvaluation(source string) {
	evaluations.Inc(source)
}

// IncQuestionGeneration counts a generated question set by source (llm|llm_lines|template).
func IncQuestionGeneration(source string) {
	generations.Inc(source)
}

// IncLLMFallback counts an external call demoted to the local fallback, by operation.
func IncLLMFallback(operation string) {
	fallbacks.Inc(operation)
}

// IncCVAnalysis counts a résumé analysis request by outcome
// (llm|unavailable|provider_error|malformed_output).
func IncCVAnalysis(outcome string) {
	analyses.Inc(outcome)
}

// ObserveLLMDurationMs records an external LLM call duration in milliseconds.
func ObserveLLMDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	llmDuration.Observe(value)
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
	writeCounter(&buf, "interviews_created_total", "Total interviews created", interviewsCreatedTotal.Load())
	writeCounter(&buf, "interviews_create_failed_total", "Total interview creations that failed", interviewCreateFailed.Load())
	writeCounter(&buf, "interviews_completed_total", "Total interviews completed", interviewsCompletedTotal.Load())
	writeCounter(&buf, "answers_evaluated_total", "Total answers recorded", answersEvaluatedTotal.Load())
	writeLabeledCounter(&buf, "evaluations_total", "Evaluations by source", "source", evaluations.Snapshot())
	writeLabeledCounter(&buf, "question_generations_total", "Question sets by source", "source", generations.Snapshot())
	writeLabeledCounter(&buf, "llm_fallbacks_total", "External LLM calls demoted to fallback", "operation", fallbacks.Snapshot())
	writeLabeledCounter(&buf, "cv_analyses_total", "Résumé analyses by outcome", "outcome", analyses.Snapshot())
	writeHistogram(&buf, "llm_duration_ms", "External LLM call duration in milliseconds", llmDuration.Snapshot())
	return buf.String()
}

type labeledCounter struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newLabeledCounter() *labeledCounter {
	return &labeledCounter{values: make(map[string]uint64)}
}

func (l *labeledCounter) Inc(label string) {
	if label == "" {
		label = "unknown"
	}
	l.mu.Lock()
	l.values[label]++
	l.mu.Unlock()
}

func (l *labeledCounter) Snapshot() map[string]uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]uint64, len(l.values))
	for k, v := range l.values {
		out[k] = v
	}
	return out
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
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
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

// SinceMillis returns the elapsed milliseconds since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
