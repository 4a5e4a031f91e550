package preview

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dgallion1/roadmapdocs/internal/metrics"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs each request at debug level and records it in m.
func RequestLogger(log *slog.Logger, m *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			m.RecordPreviewRequest(r.Method, status, elapsed)
			log.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"request_id", middleware.GetReqID(r.Context()),
				"duration_ms", elapsed.Milliseconds(),
			)
		})
	}
}
