package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/signalcraft/signalcraft/pkg/logger"
	"github.com/signalcraft/signalcraft/pkg/metrics"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

const maxRequestIDLen = 128

// requestID reuses a sane inbound X-Request-Id or mints a UUID, echoes it on
// the response and stores it in the request context for log lines.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		return r > unicode.MaxASCII || !unicode.IsPrint(r) || unicode.IsSpace(r)
	}) < 0
}

// accessLog emits one structured line per request through gorilla's logging
// handler. The formatter ignores the writer and logs via l instead.
func accessLog(l logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return handlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, p handlers.LogFormatterParams) {
			ctx := p.Request.Context()
			fields := []logger.Field{
				logger.String("method", p.Request.Method),
				logger.String("path", p.URL.Path),
				logger.Int("status", p.StatusCode),
				logger.Int("size", p.Size),
				logger.String("remote", p.Request.RemoteAddr),
			}
			if p.StatusCode >= http.StatusInternalServerError {
				l.Error(ctx, "request", fields...)
				return
			}
			l.Debug(ctx, "request", fields...)
		})
	}
}

// recoveryLogger feeds gorilla's recovery handler into the structured logger.
type recoveryLogger struct {
	log logger.Logger
}

func (r recoveryLogger) Println(v ...interface{}) {
	metrics.RecordPanicRecovered()
	r.log.Error(context.Background(), "panic recovered", logger.String("panic", strings.TrimSpace(fmt.Sprintln(v...))))
}
