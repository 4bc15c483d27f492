package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/gophtodo/internal/server/handlers"
)

// anonymousCaller значение поля caller для запросов без сессии
const anonymousCaller = "anonymous"

// statusRecorder запоминает статус и размер ответа
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += int64(n)
	return n, err
}

func (rec *statusRecorder) statusCode() int {
	if rec.status == 0 {
		return http.StatusOK
	}
	return rec.status
}

// AccessLog пишет одну запись на запрос: кто вызывал (user id или anonymous),
// состояние session cookie, статус и вид ошибки API, если ответ с ошибкой.
// Должен стоять снаружи Identify, чтобы тот успел заполнить RequestInfo.
// Query string, тело и значения cookie не логируются; пути из skip пропускаются
func AccessLog(logger *slog.Logger, skip ...string) func(http.Handler) http.Handler {
	skipped := make(map[string]struct{}, len(skip))
	for _, path := range skip {
		skipped[path] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skipped[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ctx, info := handlers.WithRequestInfo(r.Context())
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.statusCode()
			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.String("caller", callerName(info)),
				slog.String("session", string(info.Session)),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.Int64("bytes", rec.bytes),
			}
			if info.ErrorKind != "" {
				attrs = append(attrs, slog.String("error_kind", info.ErrorKind))
			}

			logger.LogAttrs(ctx, levelFor(status), "request", attrs...)
		})
	}
}

func callerName(info *handlers.RequestInfo) string {
	if info.UserID == "" {
		return anonymousCaller
	}
	return info.UserID
}

// levelFor: 5xx ошибка, 4xx предупреждение
func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
