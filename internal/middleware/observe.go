package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aseed/a-seed/backend/internal/service/stats"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "aseed_http_requests_total",
	Help: "HTTP requests by method, route pattern and status code.",
}, []string{"method", "path", "code"})

// Observe feeds both telemetry sinks: the prometheus counter (labelled
// with the chi route pattern so sid values do not explode cardinality)
// and the bounded recent-request ring shown on the admin dashboard.
func Observe(recorder *stats.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			pattern := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					pattern = p
				}
			}
			requestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(ww.Status())).Inc()

			recorder.Observe(stats.RequestEntry{
				TS:         start.Unix(),
				Method:     r.Method,
				Path:       r.URL.Path,
				Status:     ww.Status(),
				DurationMS: time.Since(start).Milliseconds(),
			})
		})
	}
}
