package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	extractionReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esquelas",
			Name:      "extraction_requests_total",
			Help:      "Total extraction requests by document type and result",
		},
		[]string{"doctype", "result"},
	)

	modelReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esquelas",
			Name:      "model_requests_total",
			Help:      "Total vision model requests by provider, model and result",
		},
		[]string{"provider", "model", "result"},
	)

	modelLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "esquelas",
			Name:      "model_request_duration_seconds",
			Help:      "Duration of vision model requests by provider and model",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider", "model"},
	)

	pagesRendered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "esquelas",
			Name:      "pages_rendered_total",
			Help:      "Total PDF pages rasterized for model input",
		},
	)
)

// Init registers collectors.
func Init() {
	prometheus.MustRegister(extractionReqs, modelReqs, modelLatency, pagesRendered)
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func IncExtraction(doctype, result string) {
	extractionReqs.WithLabelValues(doctype, result).Inc()
}

func ObserveModel(provider, model, result string, dur time.Duration) {
	modelReqs.WithLabelValues(provider, model, result).Inc()
	modelLatency.WithLabelValues(provider, model).Observe(dur.Seconds())
}

func AddPagesRendered(n int) { pagesRendered.Add(float64(n)) }
