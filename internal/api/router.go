package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/seoyeonhwng/snoop/internal/api/middleware"
	"github.com/seoyeonhwng/snoop/internal/api/routes"
	"github.com/seoyeonhwng/snoop/internal/pkg/config"
	"github.com/seoyeonhwng/snoop/internal/pkg/logger"
)

// NewRouter creates the HTTP handler with all routes and global middlewares
//
// 미들웨어 순서: Recovery → RequestID → Logging → CORS
func NewRouter(cfg *config.Config, h routes.Handlers) http.Handler {
	router := mux.NewRouter()
	routes.Register(router, h)

	var handler http.Handler = router
	handler = middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.AllowedOrigins))(handler)

	loggingCfg := middleware.LoggingConfig{
		SkipPaths: []string{"/health", "/health/ready"}, // Skip health checks to reduce noise
	}
	if cfg.Logging.FileEnabled {
		accessLogger := logger.NewAccessLogger(
			cfg.Logging.FilePath,
			cfg.Logging.RotationSize,
			cfg.Logging.RetentionDays,
		)
		loggingCfg.AccessLogger = &accessLogger
	}
	handler = middleware.Logging(loggingCfg)(handler)

	handler = middleware.RequestID(handler)

	// Recovery middleware (must be outermost)
	return middleware.Recovery()(handler)
}
