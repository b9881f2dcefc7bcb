package routes

import (
	"github.com/gorilla/mux"

	signalsHandlers "github.com/seoyeonhwng/snoop/internal/api/handlers/signals"
)

// RegisterSignalsRoutes Signals API 라우트 등록
func RegisterSignalsRoutes(router *mux.Router, signalsHandler *signalsHandlers.Handler) {
	router.HandleFunc("/api/v1/signals", signalsHandler.GetReport).Methods("GET")
	router.HandleFunc("/api/v1/signals/companies/{stock_code}", signalsHandler.GetCompanyHistory).Methods("GET")
}
