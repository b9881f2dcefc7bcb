package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
	"github.com/seoyeonhwng/snoop/internal/infra/external/dart"
)

// ListFetcher 공시 목록 API (dart.Client)
type ListFetcher interface {
	FetchListPage(ctx context.Context, q dart.ListQuery) (*dart.ListPage, error)
}

// FilingParser 공시 한 건 파서 (parser.Parser)
type FilingParser interface {
	ParseFiling(ctx context.Context, ref disclosure.FilingRef) ([]disclosure.TradeChange, error)
}

// ExecutiveReportName 임원ㆍ주요주주 특정증권등 소유상황보고서
const ExecutiveReportName = "임원ㆍ주요주주특정증권등소유상황보고서"

// Filter 수집 대상 공시 조건
type Filter struct {
	ReportName string
	Markets    []string // corp_cls
}

// DefaultFilter 임원 보고서, 유가증권(Y)/코스닥(K)
func DefaultFilter() Filter {
	return Filter{
		ReportName: ExecutiveReportName,
		Markets:    []string{"Y", "K"},
	}
}

// Match reports whether the filing should be parsed.
func (f Filter) Match(s disclosure.FilingSummary) bool {
	if s.ReportName != f.ReportName {
		return false
	}
	for _, m := range f.Markets {
		if s.MarketClass == m {
			return true
		}
	}
	return false
}

// Config 수집기 설정
type Config struct {
	PageCount int
	PageDelay time.Duration
	Filter    Filter
}

// DefaultConfig 기본 설정
func DefaultConfig() *Config {
	return &Config{
		PageCount: dart.DefaultPageCount,
		PageDelay: 500 * time.Millisecond,
		Filter:    DefaultFilter(),
	}
}

// Collector 공시 목록 수집 + 공시별 파싱
//
// 페이지와 공시는 순차적으로 처리한다. 취소는 페이지/공시 사이에서만 확인한다.
type Collector struct {
	lister  ListFetcher
	parser  FilingParser
	config  *Config
	limiter *rate.Limiter
}

// New 수집기 생성
func New(lister ListFetcher, parser FilingParser, config *Config) *Collector {
	if config == nil {
		config = DefaultConfig()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if config.PageDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(config.PageDelay), 1)
	}

	return &Collector{
		lister:  lister,
		parser:  parser,
		config:  config,
		limiter: limiter,
	}
}

// Collect 기간 내 공시를 수집하고 파싱
//
// 반환 규칙:
//   - 첫 페이지 013: Outcome no_data, 에러 없음 (Result.Err = ErrNoData)
//   - 첫 페이지 기타 상태/전송 오류: Outcome failed, 에러 반환
//   - 이후 페이지 오류: 해당 페이지만 제외 (재시도 없음)
//   - 공시 파싱 오류: 해당 공시만 제외
func (c *Collector) Collect(ctx context.Context, start, end time.Time) (*Result, error) {
	result := &Result{
		RunID:     uuid.New(),
		From:      start,
		To:        end,
		StartedAt: time.Now(),
	}

	if end.Before(start) {
		return result.fail(fmt.Errorf("%w: %s > %s", disclosure.ErrInvalidDateRange,
			start.Format(disclosure.DateLayout), end.Format(disclosure.DateLayout)))
	}

	logger := log.With().
		Str("run_id", result.RunID.String()).
		Str("from", start.Format(disclosure.DateLayout)).
		Str("to", end.Format(disclosure.DateLayout)).
		Logger()

	// ===== 1. 첫 페이지 =====
	first, err := c.fetchPage(ctx, start, end, 1)
	if err != nil {
		result.Pages = append(result.Pages, PageOutcome{Page: 1, Err: err})
		return result.fail(fmt.Errorf("fetch page 1: %w", err))
	}
	result.Pages = append(result.Pages, PageOutcome{Page: 1, Status: first.Status, Filings: len(first.Filings)})

	switch first.Status {
	case dart.StatusOK:
	case dart.StatusNoData:
		logger.Info().Msg("No disclosures in range")
		result.Outcome = OutcomeNoData
		result.Err = disclosure.ErrNoData
		result.FinishedAt = time.Now()
		return result, nil
	default:
		return result.fail(&disclosure.UpstreamStatusError{Status: first.Status, Message: first.Message})
	}

	result.TotalPage = first.TotalPage
	listing := append([]disclosure.FilingSummary(nil), first.Filings...)

	// ===== 2. 나머지 페이지 (실패 페이지는 건너뜀) =====
	for page := 2; page <= first.TotalPage; page++ {
		if err := ctx.Err(); err != nil {
			return result.fail(err)
		}
		resp, err := c.fetchPage(ctx, start, end, page)
		if err == nil && resp.Status != dart.StatusOK {
			err = &disclosure.PartialPageError{Page: page, Status: resp.Status}
		} else if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result.fail(ctxErr)
			}
			err = &disclosure.PartialPageError{Page: page, Err: err}
		}
		if err != nil {
			logger.Warn().Err(err).Int("page", page).Msg("Skipping disclosure list page")
			result.Pages = append(result.Pages, PageOutcome{Page: page, Status: statusOf(resp), Err: err})
			continue
		}

		result.Pages = append(result.Pages, PageOutcome{Page: page, Status: resp.Status, Filings: len(resp.Filings)})
		listing = append(listing, resp.Filings...)
	}

	// ===== 3. 필터 =====
	targets := make([]disclosure.FilingSummary, 0, len(listing))
	for _, s := range listing {
		if c.config.Filter.Match(s) {
			targets = append(targets, s)
		}
	}
	result.Listed = len(listing)

	logger.Info().
		Int("listed", len(listing)).
		Int("targets", len(targets)).
		Int("pages_skipped", result.PagesSkipped()).
		Msg("Filtered executive filings")

	// ===== 4. 공시별 파싱 (실패 공시는 건너뜀) =====
	for i, s := range targets {
		if err := ctx.Err(); err != nil {
			return result.fail(err)
		}

		outcome := FilingOutcome{Filing: s}
		records, err := c.parse(ctx, s)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result.fail(ctxErr)
			}
			outcome.Err = err
			logger.Warn().
				Err(err).
				Str("rcept_no", s.FilingID).
				Str("corp_name", s.CorpName).
				Msg("Skipping filing")
		} else {
			outcome.Records = records
			logger.Debug().
				Str("rcept_no", s.FilingID).
				Int("rows", len(records)).
				Msgf("Parsed filing %d/%d", i+1, len(targets))
		}
		result.Filings = append(result.Filings, outcome)
	}

	result.Outcome = OutcomeCompleted
	result.FinishedAt = time.Now()

	logger.Info().
		Int("filings", len(result.Filings)).
		Int("filings_skipped", result.FilingsSkipped()).
		Int("records", result.RecordCount()).
		Dur("elapsed", result.FinishedAt.Sub(result.StartedAt)).
		Msg("Collection completed")

	return result, nil
}

func (c *Collector) fetchPage(ctx context.Context, start, end time.Time, page int) (*dart.ListPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.lister.FetchListPage(ctx, dart.ListQuery{
		From:      start,
		To:        end,
		PageNo:    page,
		PageCount: c.config.PageCount,
	})
}

func (c *Collector) parse(ctx context.Context, s disclosure.FilingSummary) ([]disclosure.TradeChange, error) {
	ref, err := s.Ref()
	if err != nil {
		return nil, &disclosure.FormatError{
			FilingID: s.FilingID,
			Column:   "rcept_dt",
			Kind:     "date",
			Raw:      s.FiledOn,
			Err:      err,
		}
	}
	return c.parser.ParseFiling(ctx, ref)
}

func statusOf(p *dart.ListPage) string {
	if p == nil {
		return ""
	}
	return p.Status
}
