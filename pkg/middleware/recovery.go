package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/doudou-app/doudou/pkg/httputil"
	"github.com/doudou-app/doudou/pkg/logger"
)

// Recovery turns a handler panic into the backend's 500 detail body.
// http.ErrAbortHandler is re-raised so the server drops the connection.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				log := logger.WithContext(r.Context(), l)
				if id := r.Header.Get(CorrelationHeader); id != "" {
					log = log.With(slog.String("correlation_id", id))
				}
				log.ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", rec),
					slog.String("route", r.Method+" "+r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)
				httputil.WriteDetail(w, http.StatusInternalServerError, "Internal Server Error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
