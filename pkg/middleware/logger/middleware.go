package logger

import (
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Middleware struct{}

// Middleware emits one access-log line per request: request id, method,
// path, status, latency, response size. Function payloads are never
// logged here.
func (m *Middleware) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := httpAccessLogger

			ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)

			scheme := "http"
			if r.TLS != nil {
				scheme = "https"
			}

			start := time.Now()
			defer func() {
				lat := time.Since(start)
				l.With(
					zap.String("dateTime", start.UTC().Format(time.RFC1123)),
					zap.String("requestId", chimd.GetReqID(r.Context())),
					zap.String("httpScheme", scheme),
					zap.String("httpProto", r.Proto),
					zap.String("httpMethod", r.Method),
					zap.String("remoteAddr", r.RemoteAddr),
					zap.String("uri", r.URL.Path),
					zap.Duration("lat", lat),
					zap.Int("responseSize", ww.BytesWritten()),
					zap.Int("status", ww.Status()),
				).Info("")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
