package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vetusrex/internal/logger"
	"vetusrex/internal/metrics"
	"vetusrex/internal/models"
	"vetusrex/internal/reqctx"
)

// Logging пишет access-лог и метрики запросов. Метка route — шаблон маршрута
// mux, чтобы id в пути не раздували кардинальность.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)
		elapsed := time.Since(start)

		metrics.RecordRequest(r.Method, routeTemplate(r), lrw.statusCode, elapsed.Seconds())

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", lrw.statusCode),
			zap.Duration("duration", elapsed),
		}
		if rid, ok := reqctx.GetRequestID(r.Context()); ok {
			fields = append(fields, zap.String("request_id", rid))
		}
		if lrw.session != nil {
			fields = append(fields, zap.String("user_id", lrw.session.UserID), zap.String("role", lrw.session.Role))
		}

		logger.Log.Info("HTTP-запрос", fields...)
	})
}

func routeTemplate(r *http.Request) string {
	if cur := mux.CurrentRoute(r); cur != nil {
		if tpl, err := cur.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	session    *models.Session
}

// sessionRecorder — сессия, разрешённая глубже по цепочке, попадает в access-лог.
type sessionRecorder interface {
	recordSession(models.Session)
}

func (lrw *loggingResponseWriter) recordSession(s models.Session) { lrw.session = &s }

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}
