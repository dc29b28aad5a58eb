package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Metrics records a counter and a latency observation per request, labelled
// by the chi route pattern so path parameters do not explode cardinality.
func Metrics(m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
			m.HTTPRequestLatency.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
