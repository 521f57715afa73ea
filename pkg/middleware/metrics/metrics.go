// middleware/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

var (
	invocationTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "invocation_time",
			Help:    "function invocation time.",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60},
		},
	)

	totalInvocationsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_invocations_to_uri", Help: "invocations by code, uri and method"},
		[]string{"code", "uri", "method"},
	)

	totalInvocationOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_invocation_outcomes", Help: "invocations by outcome (ok, crash, error)"},
		[]string{"outcome"},
	)
)

// Collect counts every non-/metrics request. The outcome label comes
// from the X-Google-Status response header the invoker sets on failure.
func Collect() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			startTime := time.Now()

			defer func() {
				endTime := time.Since(startTime)
				if r.URL.Path != "/metrics" {
					code := strconv.Itoa(ww.Status())
					uri := r.URL.Path // path only; avoid cardinality explosion

					outcome := ww.Header().Get("X-Google-Status")
					if outcome == "" {
						outcome = "ok"
					}

					totalInvocationsToUri.WithLabelValues(code, uri, r.Method).Inc()
					totalInvocationOutcomes.WithLabelValues(outcome).Inc()
					invocationTime.Observe(endTime.Seconds())
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func NewPromHttpHandler() http.Handler { return promhttp.Handler() }
func ProvideMetrics() http.Handler     { return NewPromHttpHandler() }

func init() {
	prometheus.MustRegister(
		invocationTime,
		totalInvocationsToUri,
		totalInvocationOutcomes,
	)
}

var Module = fx.Options(
	fx.Provide(ProvideMetrics),
)
