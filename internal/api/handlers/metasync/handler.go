package metasync

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/seoyeonhwng/snoop/internal/api/response"
	"github.com/seoyeonhwng/snoop/internal/service/corpsync"
)

// Job names
const (
	JobCompanies  = "companies"
	JobIndustries = "industries"
	JobMarket     = "market"
)

// Syncer 메타데이터 동기화 (corpsync.Service)
type Syncer interface {
	SyncCompanies(ctx context.Context) (*corpsync.Result, error)
	SyncIndustries(ctx context.Context) (*corpsync.Result, error)
	SyncMarketData(ctx context.Context) (*corpsync.Result, error)
}

// Handler 회사/업종/시가총액 동기화 핸들러
type Handler struct {
	syncer Syncer
	mu     sync.Mutex
}

// NewHandler 핸들러 생성
func NewHandler(syncer Syncer) *Handler {
	return &Handler{syncer: syncer}
}

// Sync handles POST /api/v1/sync/{job}
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	job := mux.Vars(r)["job"]

	var run func(context.Context) (*corpsync.Result, error)
	switch job {
	case JobCompanies:
		run = h.syncer.SyncCompanies
	case JobIndustries:
		run = h.syncer.SyncIndustries
	case JobMarket:
		run = h.syncer.SyncMarketData
	default:
		response.NotFound(w, r, "unknown sync job: "+job)
		return
	}

	if !h.mu.TryLock() {
		response.Error(w, r, http.StatusConflict, response.ErrCodeConflict, "sync already running")
		return
	}
	defer h.mu.Unlock()

	result, err := run(r.Context())
	if err != nil {
		log.Error().Err(err).Str("job", job).Msg("Sync failed")
		if errors.Is(err, corpsync.ErrEmptySource) {
			response.Error(w, r, http.StatusBadGateway, response.ErrCodeExternalAPIError, err.Error())
			return
		}
		response.InternalError(w, r, "sync failed")
		return
	}

	response.Success(w, r, result, result.Updated)
}
