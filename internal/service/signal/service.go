package signal

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
	"github.com/seoyeonhwng/snoop/internal/infra/external/dart"
)

// DefaultHistoryLimit 회사별 최근 공시 조회 기본 건수
const DefaultHistoryLimit = 5

// Report 기간 시그널 리포트
type Report struct {
	From         string                       `json:"from"`
	To           string                       `json:"to"`
	Industries   []disclosure.IndustrySignals `json:"industries"`
	CompanyCount int                          `json:"company_count"`
	Empty        bool                         `json:"empty"`
	Thresholds   disclosure.Thresholds        `json:"thresholds"`
	GeneratedAt  time.Time                    `json:"generated_at"`
}

// FilingHistory 회사의 공시 한 건
type FilingHistory struct {
	FilingID    string                   `json:"rcept_no"`
	DisclosedOn time.Time                `json:"disclosed_on"`
	URL         string                   `json:"url"`
	NetAmount   decimal.Decimal          `json:"net_amount"`
	Changes     []disclosure.TradeChange `json:"changes"`
}

// CompanyHistory 회사별 최근 공시
type CompanyHistory struct {
	Company *disclosure.Company `json:"company"`
	Filings []FilingHistory     `json:"filings"`
}

// Service 시그널 리포트 서비스
type Service struct {
	tradeRepo    disclosure.TradeRepository
	industryRepo disclosure.IndustryRepository
	companyRepo  disclosure.CompanyRepository
	thresholds   disclosure.Thresholds
	filter       disclosure.SignalFilter

	sf singleflight.Group
}

// NewService 서비스 생성
func NewService(
	tradeRepo disclosure.TradeRepository,
	industryRepo disclosure.IndustryRepository,
	companyRepo disclosure.CompanyRepository,
	thresholds disclosure.Thresholds,
	filter disclosure.SignalFilter,
) (*Service, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		tradeRepo:    tradeRepo,
		industryRepo: industryRepo,
		companyRepo:  companyRepo,
		thresholds:   thresholds,
		filter:       filter,
	}, nil
}

// Thresholds 현재 집계 기준
func (s *Service) Thresholds() disclosure.Thresholds {
	return s.thresholds
}

// Report 기간 내 저장된 변동 내역으로 업종별 시그널 리포트 생성
//
// 같은 기간에 대한 동시 요청은 한 번만 조회한다.
func (s *Service) Report(ctx context.Context, from, to time.Time) (*Report, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s > %s", disclosure.ErrInvalidDateRange,
			from.Format(disclosure.DateLayout), to.Format(disclosure.DateLayout))
	}

	key := from.Format(disclosure.DateLayout) + ":" + to.Format(disclosure.DateLayout)
	v, err, shared := s.sf.Do(key, func() (interface{}, error) {
		return s.buildReport(ctx, from, to)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Str("range", key).Msg("Shared signal report")
	}
	return v.(*Report), nil
}

func (s *Service) buildReport(ctx context.Context, from, to time.Time) (*Report, error) {
	records, err := s.tradeRepo.QuerySignalRecords(ctx, from, to, s.filter)
	if err != nil {
		return nil, fmt.Errorf("query signal records: %w", err)
	}

	industries, err := s.industryRepo.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("list industries: %w", err)
	}
	order := make([]string, 0, len(industries))
	for _, ind := range industries {
		order = append(order, ind.IndustryName)
	}

	signals := Aggregate(records, s.thresholds)
	grouped := GroupByIndustry(signals, order)

	report := &Report{
		From:         from.Format(disclosure.DateLayout),
		To:           to.Format(disclosure.DateLayout),
		Industries:   grouped,
		CompanyCount: len(signals),
		Empty:        len(signals) == 0,
		Thresholds:   s.thresholds,
		GeneratedAt:  time.Now(),
	}

	log.Info().
		Str("from", report.From).
		Str("to", report.To).
		Int("records", len(records)).
		Int("companies", report.CompanyCount).
		Int("industries", len(grouped)).
		Msg("Built signal report")

	return report, nil
}

// CompanyHistory 회사의 최근 공시 limit건
func (s *Service) CompanyHistory(ctx context.Context, stockCode string, limit int) (*CompanyHistory, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	company, err := s.companyRepo.GetByStockCode(ctx, stockCode)
	if err != nil {
		return nil, err
	}

	changes, err := s.tradeRepo.QueryCompanyHistory(ctx, stockCode, limit, s.filter)
	if err != nil {
		return nil, fmt.Errorf("query company history: %w", err)
	}

	history := &CompanyHistory{Company: company, Filings: []FilingHistory{}}
	index := make(map[string]int)
	for _, c := range changes {
		i, ok := index[c.FilingID]
		if !ok {
			i = len(history.Filings)
			index[c.FilingID] = i
			history.Filings = append(history.Filings, FilingHistory{
				FilingID:    c.FilingID,
				DisclosedOn: c.DisclosedOn,
				URL:         dart.FilingURL(c.FilingID),
				NetAmount:   decimal.Zero,
			})
		}
		f := &history.Filings[i]
		f.Changes = append(f.Changes, c)
		f.NetAmount = f.NetAmount.Add(c.Amount())
	}

	return history, nil
}
