package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Middleware returns HTTP middleware for request metrics.
func Middleware(next http.Handler) http.Handler {
	if !enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			duration := time.Since(start).Seconds()
			path := normalizePath(r.URL.Path)

			httpRequestsTotal.WithLabelValues(
				r.Method,
				path,
				strconv.Itoa(rw.status),
			).Inc()

			httpDuration.WithLabelValues(
				r.Method,
				path,
			).Observe(duration)
		}()

		next.ServeHTTP(rw, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

// normalizePath collapses dynamic path segments so the metrics labels stay
// low cardinality:
//
//	/balance-proof/wallet/0x1234... -> /balance-proof/wallet/{address}
//	/balance-proof/4f3c...-uuid     -> /balance-proof/{shareId}
func normalizePath(path string) string {
	if path == "/balance-proof/generate" {
		return path
	}
	if strings.HasPrefix(path, "/balance-proof/wallet/") {
		return "/balance-proof/wallet/{address}"
	}
	if strings.HasPrefix(path, "/balance-proof/") && len(path) > len("/balance-proof/") {
		return "/balance-proof/{shareId}"
	}
	return path
}
