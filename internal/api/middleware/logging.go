package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	applogger "github.com/seoyeonhwng/snoop/internal/pkg/logger"
)

// SlowRequestThreshold 이 시간을 넘는 요청은 WARN
const SlowRequestThreshold = time.Second

// LoggingConfig holds configuration for logging middleware
type LoggingConfig struct {
	AccessLogger *zerolog.Logger // Optional separate access logger
	SkipPaths    []string        // Paths to skip logging (e.g., /health)
}

// Logging middleware logs HTTP requests and responses
func Logging(cfg LoggingConfig) func(http.Handler) http.Handler {
	logger := log.Logger
	if cfg.AccessLogger != nil {
		logger = *cfg.AccessLogger
	}

	skipMap := make(map[string]bool)
	for _, path := range cfg.SkipPaths {
		skipMap[path] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipMap[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			path := r.URL.Path
			if r.URL.RawQuery != "" {
				path = path + "?" + r.URL.RawQuery
			}
			requestID := applogger.RequestID(r.Context())

			m := httpsnoop.CaptureMetrics(next, w, r)

			event := logger.Info()
			if m.Code >= 500 {
				event = logger.Error()
			} else if m.Code >= 400 {
				event = logger.Warn()
			}

			event.
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", path).
				Int("status", m.Code).
				Int64("duration_ms", m.Duration.Milliseconds()).
				Int64("response_size", m.Written).
				Str("ip", r.RemoteAddr).
				Str("user_agent", r.UserAgent()).
				Msg("Request completed")

			if m.Duration > SlowRequestThreshold {
				log.Warn().
					Str("request_id", requestID).
					Str("method", r.Method).
					Str("path", path).
					Int64("duration_ms", m.Duration.Milliseconds()).
					Msg("Slow request detected")
			}
		})
	}
}

// recoveryLogger gorilla RecoveryHandler 로그를 zerolog로
type recoveryLogger struct{}

func (recoveryLogger) Println(args ...interface{}) {
	log.Error().Str("panic", fmt.Sprint(args...)).Msg("Panic recovered")
}

// Recovery middleware with logging (panic → 500)
func Recovery() func(http.Handler) http.Handler {
	return gorillaHandlers.RecoveryHandler(
		gorillaHandlers.RecoveryLogger(recoveryLogger{}),
		gorillaHandlers.PrintRecoveryStack(false),
	)
}
