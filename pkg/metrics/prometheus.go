package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	chatRequests   *prometheus.CounterVec
	llmCalls       *prometheus.CounterVec
	upstreamErrors *prometheus.CounterVec
	biasRefreshes  *prometheus.CounterVec
	bias           *prometheus.GaugeVec
	confidence     *prometheus.GaugeVec
	topProbability *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		chatRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biasdesk_chat_requests_total",
				Help: "Total number of chat requests handled",
			},
			[]string{"asset", "outcome"},
		),
		llmCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biasdesk_llm_calls_total",
				Help: "Total number of LLM completion calls",
			},
			[]string{"outcome"},
		),
		upstreamErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biasdesk_upstream_errors_total",
				Help: "Total number of market source fetch/parse failures",
			},
			[]string{"source"},
		),
		biasRefreshes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biasdesk_bias_refreshes_total",
				Help: "Total number of periodic bias refresh ticks",
			},
			[]string{"outcome"},
		),
		bias: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "biasdesk_bias",
				Help: "Current bias per asset (-1 bearish, 0 neutral, 1 bullish)",
			},
			[]string{"asset", "bias"},
		),
		confidence: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "biasdesk_confidence_score",
				Help: "Last computed confidence score per asset",
			},
			[]string{"asset"},
		),
		topProbability: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "biasdesk_top_probability",
				Help: "Last computed top probability per asset",
			},
			[]string{"asset"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "biasdesk_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordChatRequest records a handled chat request and its outcome.
func (r *Recorder) RecordChatRequest(asset, outcome string) {
	r.chatRequests.WithLabelValues(asset, outcome).Inc()
}

// RecordLLMCall records an LLM completion call outcome.
func (r *Recorder) RecordLLMCall(outcome string) {
	r.llmCalls.WithLabelValues(outcome).Inc()
}

// RecordUpstreamError records a market source failure.
func (r *Recorder) RecordUpstreamError(source string) {
	r.upstreamErrors.WithLabelValues(source).Inc()
}

// RecordBiasRefresh records a refresh tick outcome.
func (r *Recorder) RecordBiasRefresh(outcome string) {
	r.biasRefreshes.WithLabelValues(outcome).Inc()
}

// RecordBias records the current bias for an asset.
func (r *Recorder) RecordBias(asset, bias string) {
	var v float64
	switch bias {
	case "bullish":
		v = 1
	case "bearish":
		v = -1
	}
	r.bias.WithLabelValues(asset, bias).Set(v)
}

// RecordScores records the last computed scores for an asset.
func (r *Recorder) RecordScores(asset string, confidence, topProbability int) {
	r.confidence.WithLabelValues(asset).Set(float64(confidence))
	r.topProbability.WithLabelValues(asset).Set(float64(topProbability))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
