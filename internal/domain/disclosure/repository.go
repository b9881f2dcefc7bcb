package disclosure

import (
	"context"
	"time"
)

// =============================================================================
// Trade Repository
// =============================================================================

// SignalFilter 시그널 집계 대상 필터
type SignalFilter struct {
	ReasonCodes   []string // 기본: 장내매수, 장내매도
	SecurityTypes []string // 기본: 보통주
}

// DefaultSignalFilter 순수 장내매수/장내매도, 보통주 한정
func DefaultSignalFilter() SignalFilter {
	return SignalFilter{
		ReasonCodes:   []string{ReasonOnMarketBuy, ReasonOnMarketSell},
		SecurityTypes: []string{SecurityCommon},
	}
}

// TradeRepository 변동 내역 저장소 (snoop.trade_changes)
type TradeRepository interface {
	// InsertBatch 저장 (이미 저장된 접수번호는 건너뜀)
	InsertBatch(ctx context.Context, records []TradeChange) (int, error)

	// Query
	QueryRange(ctx context.Context, from, to time.Time) ([]TradeChange, error)
	QuerySignalRecords(ctx context.Context, from, to time.Time, filter SignalFilter) ([]SignalRecord, error)
	QueryCompanyHistory(ctx context.Context, stockCode string, filings int, filter SignalFilter) ([]TradeChange, error)
	ExistsByFilingID(ctx context.Context, filingID string) (bool, error)
}

// =============================================================================
// Reference Repositories
// =============================================================================

// CompanyRepository 회사 메타데이터 저장소 (snoop.companies)
type CompanyRepository interface {
	GetByStockCode(ctx context.Context, stockCode string) (*Company, error)
	UpsertBatch(ctx context.Context, companies []Company) (int, error)
	SetIndustry(ctx context.Context, industryCode string, stockCodes []string) (int, error)
	UpdateMarketData(ctx context.Context, quotes []MarketQuote) (int, error)
}

// IndustryRepository 업종 저장소 (snoop.industries)
type IndustryRepository interface {
	// ListOrdered 보고서 표시 순서(order_id)대로 업종 조회
	ListOrdered(ctx context.Context) ([]Industry, error)
	Replace(ctx context.Context, industries []Industry) error
}

// FetchLogRepository 수집 실행 로그 저장소 (snoop.fetch_logs)
type FetchLogRepository interface {
	Create(ctx context.Context, log *FetchLog) (*FetchLog, error)
	GetRecent(ctx context.Context, limit int) ([]*FetchLog, error)
}

// =============================================================================
// Notification
// =============================================================================

// Notifier 알림 전송 (텔레그램/메일 등 외부 구현)
type Notifier interface {
	Notify(ctx context.Context, notice Notice) error
}
