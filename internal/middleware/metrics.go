package middleware

import (
	"net/http"

	"storefront-web/internal/metrics"

	"github.com/gorilla/mux"
)

// MetricsMiddleware records request count, errors and latency keyed by the
// mux route template.
func MetricsMiddleware(m *metrics.AppMetrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			timer := metrics.StartTimer()

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			m.RecordHTTPRequest(r.Context(), r.Method, routePattern(r), rec.statusCode, timer.Millis())
		})
	}
}

func routePattern(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unknown"
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return "unknown"
	}
	return tpl
}
