package corpsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

// ErrEmptySource 원천 목록이 비어 있음 (기존 데이터를 지우지 않는다)
var ErrEmptySource = errors.New("empty source listing")

// DefaultMarkets 시가총액 동기화 대상 시장
var DefaultMarkets = []string{"KOSPI", "KOSDAQ"}

// CorpCodeSource DART 고유번호 목록
type CorpCodeSource interface {
	FetchCorpCodes(ctx context.Context) ([]disclosure.Company, error)
}

// MarketSource 업종/시가총액 목록
type MarketSource interface {
	FetchIndustries(ctx context.Context) ([]disclosure.Industry, error)
	FetchIndustryMembers(ctx context.Context, industryCode string) ([]string, error)
	FetchMarketQuotes(ctx context.Context, market string) ([]disclosure.MarketQuote, error)
}

// Result 동기화 결과
type Result struct {
	Job      string        `json:"job"`
	Fetched  int           `json:"fetched"`
	Updated  int           `json:"updated"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}

// Service 회사/업종 메타데이터 동기화
type Service struct {
	corpCodes    CorpCodeSource
	market       MarketSource
	companyRepo  disclosure.CompanyRepository
	industryRepo disclosure.IndustryRepository
	markets      []string
}

// NewService 동기화 서비스 생성
func NewService(
	corpCodes CorpCodeSource,
	market MarketSource,
	companyRepo disclosure.CompanyRepository,
	industryRepo disclosure.IndustryRepository,
) *Service {
	return &Service{
		corpCodes:    corpCodes,
		market:       market,
		companyRepo:  companyRepo,
		industryRepo: industryRepo,
		markets:      DefaultMarkets,
	}
}

// SyncCompanies DART 고유번호 → snoop.companies (상장사만)
func (s *Service) SyncCompanies(ctx context.Context) (*Result, error) {
	start := time.Now()
	log.Info().Msg("Syncing companies from DART")

	companies, err := s.corpCodes.FetchCorpCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch corp codes: %w", err)
	}
	if len(companies) == 0 {
		return nil, fmt.Errorf("corp codes: %w", ErrEmptySource)
	}

	count, err := s.companyRepo.UpsertBatch(ctx, companies)
	if err != nil {
		return nil, fmt.Errorf("upsert companies: %w", err)
	}

	result := &Result{
		Job:      "companies",
		Fetched:  len(companies),
		Updated:  count,
		Duration: time.Since(start),
	}

	log.Info().
		Int("fetched", result.Fetched).
		Int("updated", result.Updated).
		Dur("duration", result.Duration).
		Msg("Companies synced")

	return result, nil
}

// SyncIndustries 네이버 업종 → snoop.industries, 소속 종목의 industry_code 갱신
//
// 업종 하나의 소속 종목 조회가 실패하면 건너뛰고 계속한다.
func (s *Service) SyncIndustries(ctx context.Context) (*Result, error) {
	start := time.Now()
	log.Info().Msg("Syncing industries from Naver")

	industries, err := s.market.FetchIndustries(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch industries: %w", err)
	}
	if len(industries) == 0 {
		return nil, fmt.Errorf("industries: %w", ErrEmptySource)
	}

	if err := s.industryRepo.Replace(ctx, industries); err != nil {
		return nil, fmt.Errorf("replace industries: %w", err)
	}

	result := &Result{Job: "industries"}
	for _, ind := range industries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		codes, err := s.market.FetchIndustryMembers(ctx, ind.IndustryCode)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Str("industry_code", ind.IndustryCode).Msg("Failed to fetch industry members")
			result.Skipped++
			continue
		}
		result.Fetched += len(codes)

		if len(codes) == 0 {
			continue
		}

		count, err := s.companyRepo.SetIndustry(ctx, ind.IndustryCode, codes)
		if err != nil {
			return nil, fmt.Errorf("set industry %s: %w", ind.IndustryCode, err)
		}
		result.Updated += count
	}
	result.Duration = time.Since(start)

	log.Info().
		Int("industries", len(industries)).
		Int("members", result.Fetched).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Dur("duration", result.Duration).
		Msg("Industries synced")

	return result, nil
}

// SyncMarketData 시장별 시가총액/순위 갱신
func (s *Service) SyncMarketData(ctx context.Context) (*Result, error) {
	start := time.Now()
	log.Info().Strs("markets", s.markets).Msg("Syncing market data from Naver")

	result := &Result{Job: "market"}
	for _, market := range s.markets {
		quotes, err := s.market.FetchMarketQuotes(ctx, market)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Str("market", market).Msg("Failed to fetch market quotes")
			result.Skipped++
			continue
		}
		result.Fetched += len(quotes)

		count, err := s.companyRepo.UpdateMarketData(ctx, quotes)
		if err != nil {
			return nil, fmt.Errorf("update %s market data: %w", market, err)
		}
		result.Updated += count

		log.Info().
			Str("market", market).
			Int("count", count).
			Msg("Market data updated")
	}
	result.Duration = time.Since(start)

	if result.Skipped == len(s.markets) {
		return nil, fmt.Errorf("market quotes: %w", ErrEmptySource)
	}

	return result, nil
}
