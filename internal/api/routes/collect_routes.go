package routes

import (
	"github.com/gorilla/mux"

	collectHandlers "github.com/seoyeonhwng/snoop/internal/api/handlers/collect"
	"github.com/seoyeonhwng/snoop/internal/api/handlers/metasync"
)

// RegisterCollectRoutes registers collection and metadata sync routes (admin)
func RegisterCollectRoutes(
	router *mux.Router,
	collectHandler *collectHandlers.Handler,
	syncHandler *metasync.Handler,
) {
	router.HandleFunc("/api/v1/collect", collectHandler.Collect).Methods("POST")
	router.HandleFunc("/api/v1/collect/logs", collectHandler.GetLogs).Methods("GET")

	if syncHandler != nil {
		router.HandleFunc("/api/v1/sync/{job}", syncHandler.Sync).Methods("POST")
	}
}
