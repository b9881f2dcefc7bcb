package disclosure

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// Trade Change (snoop.trade_changes)
// =============================================================================

// TradeChange 임원ㆍ주요주주 특정증권등 소유상황 보고서의 변동 내역 한 행
//
// VolumeAfter == VolumeBefore + VolumeDelta 관계는 검증하지 않는다.
// 원문 표에 불일치가 있으면 그대로 보존한다.
type TradeChange struct {
	FilingID      string          `json:"rcept_no" db:"rcept_no"`
	DisclosedOn   time.Time       `json:"disclosed_on" db:"disclosed_on"`
	StockCode     string          `json:"stock_code" db:"stock_code"`
	ExecutiveName string          `json:"executive_name,omitempty" db:"executive_name"` // 회사 단위 조회에서는 비어 있음
	Reason        Code            `json:"reason_code" db:"reason_code"`
	TradedOn      time.Time       `json:"traded_on" db:"traded_on"`
	SecurityType  Code            `json:"stock_type" db:"stock_type"`
	VolumeBefore  int64           `json:"before_volume" db:"before_volume"`
	VolumeDelta   int64           `json:"delta_volume" db:"delta_volume"`
	VolumeAfter   int64           `json:"after_volume" db:"after_volume"`
	UnitPrice     decimal.Decimal `json:"unit_price" db:"unit_price"`
	Remark        string          `json:"remark" db:"remark"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Amount 변동 금액 (VolumeDelta × UnitPrice, 부호 유지)
func (t *TradeChange) Amount() decimal.Decimal {
	return decimal.NewFromInt(t.VolumeDelta).Mul(t.UnitPrice)
}

// =============================================================================
// Filing (DART list.json row)
// =============================================================================

// FilingSummary 공시 목록 API의 공시 한 건
type FilingSummary struct {
	FilingID     string `json:"rcept_no"`
	FiledOn      string `json:"rcept_dt"` // YYYYMMDD
	CorpCode     string `json:"corp_code"`
	CorpName     string `json:"corp_name"`
	StockCode    string `json:"stock_code"`
	ReporterName string `json:"flr_nm"`
	ReportName   string `json:"report_nm"`
	MarketClass  string `json:"corp_cls"` // Y: 유가, K: 코스닥, N: 코넥스, E: 기타
	Remark       string `json:"rm"`
}

// Ref 공시 상세 파싱에 필요한 참조 정보로 변환
func (f *FilingSummary) Ref() (FilingRef, error) {
	filedOn, err := time.Parse(DateLayout, f.FiledOn)
	if err != nil {
		return FilingRef{}, fmt.Errorf("parse rcept_dt %q: %w", f.FiledOn, err)
	}

	return FilingRef{
		FilingID:      f.FilingID,
		DisclosedOn:   filedOn,
		StockCode:     f.StockCode,
		ExecutiveName: f.ReporterName,
	}, nil
}

// FilingRef 공시 한 건의 상세 페이지 참조
type FilingRef struct {
	FilingID      string
	DocumentRef   string // dcmNo, 비어 있으면 상세 페이지에서 조회
	DisclosedOn   time.Time
	StockCode     string
	ExecutiveName string
}

// DateLayout 외부 인터페이스 전반의 날짜 형식
const DateLayout = "20060102"

// KST 공시일 기준 시간대
var KST = time.FixedZone("KST", 9*60*60)

// ParseDate YYYYMMDD → 해당 날짜 00:00 UTC (저장된 DATE 값과 같은 표현)
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateRange, s)
	}
	return d, nil
}

// PreviousDay now 기준 한국 시간 전날
func PreviousDay(now time.Time) time.Time {
	y := now.In(KST).AddDate(0, 0, -1)
	return time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// Signal Models
// =============================================================================

// SignalRecord 저장된 변동 내역 + 회사 + 업종 조인 결과 한 행
type SignalRecord struct {
	FilingID     string          `json:"rcept_no"`
	DisclosedOn  time.Time       `json:"disclosed_on"`
	StockCode    string          `json:"stock_code"`
	VolumeDelta  int64           `json:"delta_volume"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CorpCode     string          `json:"corp_code"`
	CorpName     string          `json:"corp_name"`
	IndustryName string          `json:"industry_name"`
	Market       string          `json:"market"`
	MarketCap    int64           `json:"market_capitalization"`
	MarketRank   int             `json:"market_rank"`
}

// FilingGroup 같은 접수번호를 공유하는 레코드 묶음
type FilingGroup struct {
	FilingID  string
	Records   []SignalRecord
	NetAmount decimal.Decimal
}

// Tier 순매매 금액 크기 등급
type Tier int

const (
	TierWeak Tier = iota + 1
	TierMedium
	TierStrong
)

func (t Tier) String() string {
	switch t {
	case TierWeak:
		return "weak"
	case TierMedium:
		return "medium"
	case TierStrong:
		return "strong"
	default:
		return "unknown"
	}
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Direction 순매수/순매도 방향
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// DirectionOf 금액 부호로 방향 결정 (0은 매수로 취급)
func DirectionOf(amount decimal.Decimal) Direction {
	if amount.IsNegative() {
		return DirectionSell
	}
	return DirectionBuy
}

// CompanySignal 보고 기간 내 회사별 집계
type CompanySignal struct {
	CompanyCode  string          `json:"corp_code"`
	CompanyName  string          `json:"corp_name"`
	StockCode    string          `json:"stock_code"`
	IndustryName string          `json:"industry_name"`
	Market       string          `json:"market"`
	MarketCap    int64           `json:"market_capitalization"`
	MarketRank   int             `json:"market_rank"`
	Count        int             `json:"count"`
	PeakAmount   decimal.Decimal `json:"peak_amount"`
	Tier         Tier            `json:"tier"`
	Direction    Direction       `json:"direction"`
}

// IndustrySignals 업종별 보기 (별도 엔티티가 아닌 CompanySignal 묶음)
type IndustrySignals struct {
	IndustryName string          `json:"industry_name"`
	Companies    []CompanySignal `json:"companies"`
}

// Thresholds 집계 기준 금액
type Thresholds struct {
	MinAmount decimal.Decimal `json:"min_amount" yaml:"min_amount"`
	Weak      decimal.Decimal `json:"weak" yaml:"weak"`
	Strong    decimal.Decimal `json:"strong" yaml:"strong"`
}

// DefaultThresholds 1천만원 / 1억원 / 5억원
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinAmount: decimal.NewFromInt(10_000_000),
		Weak:      decimal.NewFromInt(100_000_000),
		Strong:    decimal.NewFromInt(500_000_000),
	}
}

// Validate checks that the thresholds are non-negative and ascending.
func (t Thresholds) Validate() error {
	if t.MinAmount.IsNegative() || t.Weak.IsNegative() || t.Strong.IsNegative() {
		return fmt.Errorf("%w: negative amount", ErrInvalidThresholds)
	}
	if t.Weak.GreaterThan(t.Strong) {
		return fmt.Errorf("%w: weak %s > strong %s", ErrInvalidThresholds, t.Weak, t.Strong)
	}
	return nil
}

// =============================================================================
// Reference Data (snoop.companies, snoop.industries)
// =============================================================================

// Company 회사 메타데이터
type Company struct {
	StockCode    string    `json:"stock_code" db:"stock_code"`
	CorpCode     string    `json:"corp_code" db:"corp_code"`
	CorpName     string    `json:"corp_name" db:"corp_name"`
	IndustryCode *string   `json:"industry_code" db:"industry_code"`
	Market       *string   `json:"market" db:"market"`
	MarketCap    *int64    `json:"market_capitalization" db:"market_capitalization"`
	MarketRank   *int      `json:"market_rank" db:"market_rank"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// MarketQuote 시가총액 순위 (시장별)
type MarketQuote struct {
	StockCode  string
	Market     string // KOSPI, KOSDAQ
	MarketCap  int64  // 원
	MarketRank int
}

// Industry 업종 (OrderID 순서가 보고서 표시 순서)
type Industry struct {
	IndustryCode string    `json:"industry_code" db:"industry_code"`
	IndustryName string    `json:"industry_name" db:"industry_name"`
	OrderID      int       `json:"order_id" db:"order_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// =============================================================================
// Fetch Log (snoop.fetch_logs)
// =============================================================================

// FetchLog 수집 실행 로그
type FetchLog struct {
	ID              int        `json:"id" db:"id"`
	RunID           string     `json:"run_id" db:"run_id"`
	JobType         string     `json:"job_type" db:"job_type"`
	Source          string     `json:"source" db:"source"`
	RangeFrom       time.Time  `json:"range_from" db:"range_from"`
	RangeTo         time.Time  `json:"range_to" db:"range_to"`
	RecordsFetched  int        `json:"records_fetched" db:"records_fetched"`
	RecordsInserted int        `json:"records_inserted" db:"records_inserted"`
	FilingsSkipped  int        `json:"filings_skipped" db:"filings_skipped"`
	PagesSkipped    int        `json:"pages_skipped" db:"pages_skipped"`
	Status          string     `json:"status" db:"status"` // completed, no_data, failed
	ErrorMessage    *string    `json:"error_message" db:"error_message"`
	StartedAt       time.Time  `json:"started_at" db:"started_at"`
	FinishedAt      *time.Time `json:"finished_at" db:"finished_at"`
	DurationMs      *int       `json:"duration_ms" db:"duration_ms"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// =============================================================================
// Notification
// =============================================================================

// NoticeKind 알림 종류 ("데이터 없음"과 "실패"는 구분된다)
type NoticeKind string

const (
	NoticeCompleted NoticeKind = "completed"
	NoticeNoData    NoticeKind = "no_data"
	NoticeFailed    NoticeKind = "failed"
)

// Notice 수집/리포트 결과 알림
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
	Fields  map[string]any
}
