package naver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
	"golang.org/x/time/rate"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

const (
	DefaultBaseURL  = "https://finance.naver.com"
	DefaultInterval = 300 * time.Millisecond

	defaultTimeout = 30 * time.Second
	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

	industryListPath   = "/sise/sise_group.naver"
	industryDetailPath = "/sise/sise_group_detail.naver"
	marketSumPath      = "/sise/sise_market_sum.naver"

	// 시가총액 표시 단위 (억원)
	marketCapUnit = 100_000_000
	maxPages      = 100
)

// 시장 구분 → sosok 파라미터
var marketSosok = map[string]string{
	"KOSPI":  "0",
	"KOSDAQ": "1",
}

var stockCodePattern = regexp.MustCompile(`^[0-9A-Z]{6}$`)

// Client 네이버 금융 클라이언트 (업종/시가총액)
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// Option Client 설정
type Option func(*Client)

// WithBaseURL 주소 지정 (테스트용)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient HTTP 클라이언트 지정
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithInterval 요청 간격 지정 (0이면 제한 없음)
func WithInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// NewClient 클라이언트 생성
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: DefaultBaseURL,
		limiter: rate.NewLimiter(rate.Every(DefaultInterval), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// Industries
// =============================================================================

// FetchIndustries 업종 목록 (페이지 표시 순서가 OrderID)
func (c *Client) FetchIndustries(ctx context.Context) ([]disclosure.Industry, error) {
	doc, err := c.getDocument(ctx, industryListPath, url.Values{"type": {"upjong"}})
	if err != nil {
		return nil, fmt.Errorf("fetch industries: %w", err)
	}

	now := time.Now()
	seen := make(map[string]bool)
	var industries []disclosure.Industry

	doc.Find(`a[href*="sise_group_detail"]`).Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		code := queryParam(href, "no")
		name := strings.TrimSpace(s.Text())
		if code == "" || name == "" || seen[code] {
			return
		}
		seen[code] = true

		industries = append(industries, disclosure.Industry{
			IndustryCode: code,
			IndustryName: name,
			OrderID:      len(industries) + 1,
			CreatedAt:    now,
		})
	})

	log.Debug().Int("count", len(industries)).Msg("Fetched industries from Naver")
	return industries, nil
}

// FetchIndustryMembers 업종 소속 종목코드
func (c *Client) FetchIndustryMembers(ctx context.Context, industryCode string) ([]string, error) {
	doc, err := c.getDocument(ctx, industryDetailPath, url.Values{
		"type": {"upjong"},
		"no":   {industryCode},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch industry %s members: %w", industryCode, err)
	}

	codes := stockCodesIn(doc.Selection)

	log.Debug().
		Str("industry_code", industryCode).
		Int("count", len(codes)).
		Msg("Fetched industry members from Naver")

	return codes, nil
}

// =============================================================================
// Market Capitalization
// =============================================================================

// FetchMarketQuotes 시장별 시가총액 순위 (전체 페이지)
func (c *Client) FetchMarketQuotes(ctx context.Context, market string) ([]disclosure.MarketQuote, error) {
	sosok, ok := marketSosok[market]
	if !ok {
		return nil, fmt.Errorf("unknown market: %s", market)
	}

	var quotes []disclosure.MarketQuote
	lastPage := 1
	for page := 1; page <= lastPage && page <= maxPages; page++ {
		doc, err := c.getDocument(ctx, marketSumPath, url.Values{
			"sosok": {sosok},
			"page":  {strconv.Itoa(page)},
		})
		if err != nil {
			return nil, fmt.Errorf("fetch %s market sum page %d: %w", market, page, err)
		}

		if page == 1 {
			lastPage = lastPageOf(doc)
		}

		rows := parseMarketSum(doc, market)
		if len(rows) == 0 {
			break
		}
		quotes = append(quotes, rows...)
	}

	log.Debug().
		Str("market", market).
		Int("count", len(quotes)).
		Msg("Fetched market quotes from Naver")

	return quotes, nil
}

// parseMarketSum table.type_2: N, 종목명, 현재가, 전일비, 등락률, 액면가, 시가총액(억), ...
func parseMarketSum(doc *goquery.Document, market string) []disclosure.MarketQuote {
	var quotes []disclosure.MarketQuote

	doc.Find("table.type_2 tr").Each(func(i int, s *goquery.Selection) {
		tds := s.Find("td")
		if tds.Length() < 7 {
			return
		}

		rank := int(parseNumber(tds.Eq(0).Text()))
		codes := stockCodesIn(tds.Eq(1))
		if rank == 0 || len(codes) == 0 {
			return
		}

		quotes = append(quotes, disclosure.MarketQuote{
			StockCode:  codes[0],
			Market:     market,
			MarketCap:  parseNumber(tds.Eq(6).Text()) * marketCapUnit,
			MarketRank: rank,
		})
	})

	return quotes
}

// lastPageOf 맨뒤 링크의 page 값 (없으면 1)
func lastPageOf(doc *goquery.Document) int {
	href, ok := doc.Find("td.pgRR a").First().Attr("href")
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(queryParam(href, "page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// =============================================================================
// Helpers
// =============================================================================

// getDocument EUC-KR 페이지를 UTF-8로 디코딩해 파싱
func (c *Client) getDocument(ctx context.Context, path string, params url.Values) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body := transform.NewReader(resp.Body, korean.EUCKR.NewDecoder())
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// stockCodesIn /item/main.naver?code=XXXXXX 링크의 종목코드 (중복 제거, 순서 유지)
func stockCodesIn(s *goquery.Selection) []string {
	seen := make(map[string]bool)
	var codes []string

	s.Find(`a[href*="/item/main"]`).Each(func(i int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		code := queryParam(href, "code")
		if !stockCodePattern.MatchString(code) || seen[code] {
			return
		}
		seen[code] = true
		codes = append(codes, code)
	})

	return codes
}

func queryParam(href, key string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get(key)
}

// parseNumber 숫자 파싱 (콤마 제거)
func parseNumber(s string) int64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
