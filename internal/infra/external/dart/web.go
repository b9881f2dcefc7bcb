package dart

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

const (
	DefaultWebBaseURL = "https://dart.fss.or.kr"

	// DefaultViewerInterval 상세/뷰어 페이지 요청 간격
	DefaultViewerInterval = time.Second

	mainPath   = "/dsaf001/main.do"
	viewerPath = "/report/viewer.do"
)

// WebClient dart.fss.or.kr 공시 페이지 스크래퍼
//
// 상세 페이지와 뷰어 페이지 요청은 하나의 limiter를 공유한다.
type WebClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// WebOption WebClient 설정
type WebOption func(*WebClient)

// WithWebBaseURL 웹 주소 지정 (테스트용)
func WithWebBaseURL(baseURL string) WebOption {
	return func(c *WebClient) {
		c.baseURL = baseURL
	}
}

// WithWebHTTPClient HTTP 클라이언트 지정
func WithWebHTTPClient(httpClient *http.Client) WebOption {
	return func(c *WebClient) {
		c.httpClient = httpClient
	}
}

// WithViewerInterval 페이지 요청 간격 지정 (0이면 제한 없음)
func WithViewerInterval(interval time.Duration) WebOption {
	return func(c *WebClient) {
		c.limiter = newLimiter(interval)
	}
}

// NewWebClient 웹 클라이언트 생성
func NewWebClient(opts ...WebOption) *WebClient {
	c := &WebClient{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: DefaultWebBaseURL,
		limiter: newLimiter(DefaultViewerInterval),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FilingURL 공시 상세 페이지 링크
func FilingURL(filingID string) string {
	return fmt.Sprintf("%s%s?rcpNo=%s", DefaultWebBaseURL, mainPath, url.QueryEscape(filingID))
}

// FetchDocumentRef 상세 페이지에서 첫 하위 문서의 dcmNo 추출
func (c *WebClient) FetchDocumentRef(ctx context.Context, filingID string) (string, error) {
	params := url.Values{}
	params.Set("rcpNo", filingID)

	doc, err := c.getDocument(ctx, mainPath, params)
	if err != nil {
		return "", err
	}

	onclick, ok := doc.Find("div.view_search li").First().Find("a").First().Attr("onclick")
	if !ok {
		return "", fmt.Errorf("%w: rcept_no %s", disclosure.ErrDocumentRefNotFound, filingID)
	}

	docRef := ParseDocumentRef(onclick)
	if docRef == "" {
		return "", fmt.Errorf("%w: rcept_no %s onclick %q", disclosure.ErrDocumentRefNotFound, filingID, onclick)
	}
	return docRef, nil
}

// ParseDocumentRef onclick 속성에서 dcmNo 추출
//
//	openPdfDownload('20210305000123', '7890123'); → 7890123
func ParseDocumentRef(onclick string) string {
	fields := strings.Fields(onclick)
	if len(fields) < 2 {
		return ""
	}
	ref, _, _ := strings.Cut(fields[1], ")")
	return strings.Trim(ref, "'\"; ")
}

// FetchViewer 공시 뷰어 페이지 조회
func (c *WebClient) FetchViewer(ctx context.Context, filingID, documentRef string) (*goquery.Document, error) {
	params := url.Values{}
	params.Set("rcpNo", filingID)
	params.Set("dcmNo", documentRef)
	params.Set("eleId", "4")
	params.Set("offset", "1")
	params.Set("length", "1")
	params.Set("dtd", "dart3.xsd")

	return c.getDocument(ctx, viewerPath, params)
}

func (c *WebClient) getDocument(ctx context.Context, path string, params url.Values) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; snoop/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	log.Debug().
		Str("path", path).
		Str("rcept_no", params.Get("rcpNo")).
		Msg("Fetched DART page")

	return doc, nil
}
