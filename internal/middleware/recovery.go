package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"vetusrex/internal/logger"
	"vetusrex/internal/metrics"
	helpers "vetusrex/internal/utils/helpres"
)

// Recoverer превращает панику хендлера в 500 с конвертом {error}.
// http.ErrAbortHandler пробрасывается дальше.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			route := routeTemplate(r)
			metrics.Panics.WithLabelValues(route).Inc()
			logger.WithCtx(r.Context()).Error("panic recovered",
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
				zap.String("route", route),
				zap.String("method", r.Method),
			)

			helpers.Error(w, http.StatusInternalServerError, "внутренняя ошибка")
		}()
		next.ServeHTTP(w, r)
	})
}
