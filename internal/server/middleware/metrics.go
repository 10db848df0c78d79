package middleware

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/felixge/httpsnoop"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/faciam-dev/gridbase/pkg/metrics"
)

// Metrics records request count and latency per method/path/status.
func Metrics(ctx huma.Context, next func(huma.Context)) {
	r, w := humachi.Unwrap(ctx)
	m := httpsnoop.CaptureMetricsFn(w, func(w http.ResponseWriter) {
		next(humachi.NewContext(ctx.Operation(), r, w))
	})
	path := normalizePath(r.URL.Path)
	labels := prometheus.Labels{"method": r.Method, "path": path, "status": strconv.Itoa(m.Code)}
	metrics.APIRequests.With(labels).Inc()
	metrics.APILatency.WithLabelValues(r.Method, path).Observe(m.Duration.Seconds())
}

var idRe = regexp.MustCompile(`[0-9a-f]{24}`)

func normalizePath(path string) string {
	return idRe.ReplaceAllString(path, ":id")
}
