package routes

import (
	"github.com/gorilla/mux"

	"github.com/seoyeonhwng/snoop/internal/api/handlers"
	collectHandlers "github.com/seoyeonhwng/snoop/internal/api/handlers/collect"
	"github.com/seoyeonhwng/snoop/internal/api/handlers/metasync"
	signalsHandlers "github.com/seoyeonhwng/snoop/internal/api/handlers/signals"
)

// Handlers 라우트에 연결할 핸들러 묶음
type Handlers struct {
	Health  *handlers.HealthHandler
	Signals *signalsHandlers.Handler
	Collect *collectHandlers.Handler
	Sync    *metasync.Handler // nil이면 /api/v1/sync 미등록
}

// Register 전체 라우트 등록
func Register(router *mux.Router, h Handlers) {
	router.HandleFunc("/health", h.Health.Health).Methods("GET")
	router.HandleFunc("/health/ready", h.Health.Ready).Methods("GET")
	router.HandleFunc("/api/v1/health/detailed", h.Health.Detailed).Methods("GET")

	RegisterSignalsRoutes(router, h.Signals)
	RegisterCollectRoutes(router, h.Collect, h.Sync)
}
