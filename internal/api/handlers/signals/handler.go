package signals

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/seoyeonhwng/snoop/internal/api/response"
	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
	"github.com/seoyeonhwng/snoop/internal/service/signal"
)

// maxHistoryLimit 회사별 최근 공시 조회 상한
const maxHistoryLimit = 50

// ReportService 시그널 리포트 서비스 인터페이스
type ReportService interface {
	Report(ctx context.Context, from, to time.Time) (*signal.Report, error)
	CompanyHistory(ctx context.Context, stockCode string, limit int) (*signal.CompanyHistory, error)
}

// Handler Signals API 핸들러
type Handler struct {
	service ReportService
	now     func() time.Time
}

// NewHandler 핸들러 생성
func NewHandler(service ReportService) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
	}
}

// GetReport handles GET /api/v1/signals?from=YYYYMMDD&to=YYYYMMDD
//
// from/to가 없으면 한국 시간 기준 전날 하루.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	from, to, err := ParseRange(r, h.now())
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	report, err := h.service.Report(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, disclosure.ErrInvalidDateRange) {
			response.BadRequest(w, r, err.Error())
			return
		}
		log.Error().Err(err).Msg("Failed to build signal report")
		response.InternalError(w, r, "Failed to build signal report")
		return
	}

	response.Success(w, r, report, report.CompanyCount)
}

// GetCompanyHistory handles GET /api/v1/signals/companies/{stock_code}?limit=N
func (h *Handler) GetCompanyHistory(w http.ResponseWriter, r *http.Request) {
	stockCode := mux.Vars(r)["stock_code"]

	limit := signal.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxHistoryLimit {
			response.BadRequest(w, r, "limit must be between 1 and 50")
			return
		}
		limit = n
	}

	history, err := h.service.CompanyHistory(r.Context(), stockCode, limit)
	if err != nil {
		if errors.Is(err, disclosure.ErrCompanyNotFound) {
			response.NotFound(w, r, "company not found: "+stockCode)
			return
		}
		log.Error().Err(err).Str("stock_code", stockCode).Msg("Failed to get company history")
		response.InternalError(w, r, "Failed to get company history")
		return
	}

	response.Success(w, r, history, len(history.Filings))
}

// ParseRange from/to 쿼리 파싱 (to가 없으면 from과 같은 날, 둘 다 없으면 전날)
func ParseRange(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	q := r.URL.Query()
	rawFrom, rawTo := q.Get("from"), q.Get("to")

	if rawFrom == "" && rawTo == "" {
		day := disclosure.PreviousDay(now)
		return day, day, nil
	}
	if rawFrom == "" {
		rawFrom = rawTo
	}
	if rawTo == "" {
		rawTo = rawFrom
	}

	from, err := disclosure.ParseDate(rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := disclosure.ParseDate(rawTo)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
