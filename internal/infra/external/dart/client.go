package dart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

const (
	DefaultAPIBaseURL = "https://opendart.fss.or.kr/api"
	DefaultPageCount  = 100
	defaultTimeout    = 30 * time.Second
)

// Client DART OpenAPI 클라이언트
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

// ClientOption Client 설정
type ClientOption func(*Client)

// WithBaseURL API 주소 지정 (테스트용)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient HTTP 클라이언트 지정
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout 타임아웃 지정
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithRateLimit 요청 간 최소 간격 지정 (0이면 제한 없음)
func WithRateLimit(interval time.Duration) ClientOption {
	return func(c *Client) {
		c.limiter = newLimiter(interval)
	}
}

// NewClient 클라이언트 생성
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: DefaultAPIBaseURL,
		apiKey:  apiKey,
		limiter: newLimiter(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// =============================================================================
// API Response Types
// =============================================================================

// ListResponse 공시 목록 API 응답
type ListResponse struct {
	Status      string                     `json:"status"`
	Message     string                     `json:"message"`
	PageNo      int                        `json:"page_no"`
	PageCount   int                        `json:"page_count"`
	TotalCount  int                        `json:"total_count"`
	TotalPage   int                        `json:"total_page"`
	Disclosures []disclosure.FilingSummary `json:"list"`
}

// ListQuery 공시 목록 조회 조건
type ListQuery struct {
	From      time.Time
	To        time.Time
	PageNo    int
	PageCount int
}

// ListPage 공시 목록 한 페이지
//
// Status 해석(000/013/기타)은 호출자가 한다.
type ListPage struct {
	Status     string
	Message    string
	PageNo     int
	TotalCount int
	TotalPage  int
	Filings    []disclosure.FilingSummary
}

// =============================================================================
// Disclosure List
// =============================================================================

// FetchListPage 공시 목록 한 페이지 조회
func (c *Client) FetchListPage(ctx context.Context, q ListQuery) (*ListPage, error) {
	pageNo := q.PageNo
	if pageNo <= 0 {
		pageNo = 1
	}
	pageCount := q.PageCount
	if pageCount <= 0 {
		pageCount = DefaultPageCount
	}

	params := url.Values{}
	params.Set("crtfc_key", c.apiKey)
	params.Set("bgn_de", q.From.Format(disclosure.DateLayout))
	params.Set("end_de", q.To.Format(disclosure.DateLayout))
	params.Set("page_no", strconv.Itoa(pageNo))
	params.Set("page_count", strconv.Itoa(pageCount))

	var listResp ListResponse
	if err := c.getJSON(ctx, "/list.json", params, &listResp); err != nil {
		return nil, err
	}

	log.Debug().
		Str("status", listResp.Status).
		Int("page_no", pageNo).
		Int("total_page", listResp.TotalPage).
		Int("total_count", listResp.TotalCount).
		Int("fetched", len(listResp.Disclosures)).
		Msg("Fetched disclosure list page from DART")

	return &ListPage{
		Status:     listResp.Status,
		Message:    listResp.Message,
		PageNo:     pageNo,
		TotalCount: listResp.TotalCount,
		TotalPage:  listResp.TotalPage,
		Filings:    listResp.Disclosures,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// =============================================================================
// Health Check
// =============================================================================

// HealthCheck API 상태 확인
func (c *Client) HealthCheck(ctx context.Context) error {
	now := time.Now()
	page, err := c.FetchListPage(ctx, ListQuery{
		From:      now.AddDate(0, 0, -1),
		To:        now,
		PageNo:    1,
		PageCount: 1,
	})
	if err != nil {
		return err
	}

	// 000: 정상, 013: 조회 결과 없음 (둘 다 정상)
	if IsDARTError(page.Status) {
		return &disclosure.UpstreamStatusError{Status: page.Status, Message: page.Message}
	}
	return nil
}

// =============================================================================
// DART Error Codes
// =============================================================================

// DART API 상태 코드
const (
	StatusOK              = "000" // 정상
	StatusNoData          = "013" // 조회 결과 없음
	StatusInvalidAPIKey   = "010" // API 키 오류
	StatusNoCorpCode      = "011" // 고유번호 오류
	StatusRateLimitExceed = "020" // 요청 제한 초과
	StatusInternalError   = "800" // 시스템 점검 중
)

// IsDARTError DART API 오류 여부 확인
func IsDARTError(status string) bool {
	return status != StatusOK && status != StatusNoData
}

var statusMessages = map[string]string{
	"000": "정상",
	"010": "등록되지 않은 키입니다",
	"011": "사용할 수 없는 키입니다",
	"013": "조회된 데이터가 없습니다",
	"020": "요청 제한을 초과하였습니다",
	"100": "필수 파라미터가 누락되었습니다",
	"800": "시스템 점검 중입니다",
	"900": "알 수 없는 오류",
}

// GetDARTErrorMessage DART 에러 메시지 반환
func GetDARTErrorMessage(status string) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return "알 수 없는 오류"
}
