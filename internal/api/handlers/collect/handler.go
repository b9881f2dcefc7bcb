package collect

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/seoyeonhwng/snoop/internal/api/response"
	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
	applogger "github.com/seoyeonhwng/snoop/internal/pkg/logger"
	"github.com/seoyeonhwng/snoop/internal/service/collector"
)

const (
	defaultLogLimit = 20
	maxLogLimit     = 200
)

// Runner 수집 실행 (collector.Service)
type Runner interface {
	Run(ctx context.Context, start, end time.Time) (*collector.Summary, error)
}

// Handler Collect API 핸들러
type Handler struct {
	runner  Runner
	logRepo disclosure.FetchLogRepository
	now     func() time.Time

	running atomic.Bool
}

// NewHandler 핸들러 생성 (logRepo는 nil 가능)
func NewHandler(runner Runner, logRepo disclosure.FetchLogRepository) *Handler {
	return &Handler{
		runner:  runner,
		logRepo: logRepo,
		now:     time.Now,
	}
}

type failedRunResponse struct {
	Error response.ErrorDetail `json:"error"`
	Data  *collector.Summary   `json:"data"`
}

// CollectRequest 수집 요청 (YYYYMMDD, 생략 시 전날)
type CollectRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Collect handles POST /api/v1/collect
//
// 한 번에 하나의 실행만 허용한다 (진행 중이면 409).
func (h *Handler) Collect(w http.ResponseWriter, r *http.Request) {
	var req CollectRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, r, "invalid request body")
			return
		}
	}

	from, to, err := h.parseRange(req)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	if !h.running.CompareAndSwap(false, true) {
		response.Error(w, r, http.StatusConflict, response.ErrCodeConflict, "collection already running")
		return
	}
	defer h.running.Store(false)

	summary, err := h.runner.Run(r.Context(), from, to)
	if err != nil {
		if summary == nil {
			log.Error().Err(err).Msg("Collection run failed")
			response.InternalError(w, r, "collection failed")
			return
		}
		// 실패한 실행도 요약을 돌려준다
		response.JSON(w, http.StatusBadGateway, failedRunResponse{
			Error: response.ErrorDetail{
				Code:      response.ErrCodeExternalAPIError,
				Message:   summary.Error,
				RequestID: applogger.RequestID(r.Context()),
				Timestamp: time.Now(),
			},
			Data: summary,
		})
		return
	}

	response.Success(w, r, summary, summary.RecordsInserted)
}

// GetLogs handles GET /api/v1/collect/logs?limit=N
func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	if h.logRepo == nil {
		response.Success(w, r, []*disclosure.FetchLog{}, 0)
		return
	}

	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxLogLimit {
			response.BadRequest(w, r, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	logs, err := h.logRepo.GetRecent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get fetch logs")
		response.InternalError(w, r, "Failed to get fetch logs")
		return
	}

	response.Success(w, r, logs, len(logs))
}

func (h *Handler) parseRange(req CollectRequest) (time.Time, time.Time, error) {
	if req.From == "" && req.To == "" {
		day := disclosure.PreviousDay(h.now())
		return day, day, nil
	}
	if req.From == "" {
		req.From = req.To
	}
	if req.To == "" {
		req.To = req.From
	}

	from, err := disclosure.ParseDate(req.From)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := disclosure.ParseDate(req.To)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("from must not be after to")
	}
	return from, to, nil
}
