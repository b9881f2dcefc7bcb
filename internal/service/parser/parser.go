package parser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

// DocumentFetcher 공시 상세/뷰어 페이지 조회 (dart.WebClient)
type DocumentFetcher interface {
	// FetchDocumentRef 상세 페이지의 첫 하위 문서 번호(dcmNo)
	FetchDocumentRef(ctx context.Context, filingID string) (string, error)
	// FetchViewer 뷰어 페이지 문서
	FetchViewer(ctx context.Context, filingID, documentRef string) (*goquery.Document, error)
}

// Parser 공시 한 건의 변동 내역 파서
type Parser struct {
	fetcher DocumentFetcher
	now     func() time.Time
}

// Option Parser 설정
type Option func(*Parser)

// WithClock CreatedAt 시각 함수 지정
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

// New 파서 생성
func New(fetcher DocumentFetcher, opts ...Option) *Parser {
	p := &Parser{
		fetcher: fetcher,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFiling 공시 한 건을 파싱
//
// 날짜 형식 오류가 한 행이라도 있으면 해당 공시 전체가 실패한다 (부분 결과 없음).
func (p *Parser) ParseFiling(ctx context.Context, ref disclosure.FilingRef) ([]disclosure.TradeChange, error) {
	docRef := ref.DocumentRef
	if docRef == "" {
		resolved, err := p.fetcher.FetchDocumentRef(ctx, ref.FilingID)
		if err != nil {
			return nil, fmt.Errorf("resolve document ref %s: %w", ref.FilingID, err)
		}
		docRef = resolved
	}

	doc, err := p.fetcher.FetchViewer(ctx, ref.FilingID, docRef)
	if err != nil {
		return nil, fmt.Errorf("fetch viewer %s: %w", ref.FilingID, err)
	}

	records, err := ParseTable(doc)
	if err != nil {
		var fe *disclosure.FormatError
		if errors.As(err, &fe) {
			fe.FilingID = ref.FilingID
		}
		return nil, err
	}

	createdAt := p.now()
	for i := range records {
		records[i].FilingID = ref.FilingID
		records[i].DisclosedOn = ref.DisclosedOn
		records[i].StockCode = ref.StockCode
		records[i].ExecutiveName = ref.ExecutiveName
		records[i].CreatedAt = createdAt
	}

	log.Debug().
		Str("rcept_no", ref.FilingID).
		Str("dcm_no", docRef).
		Int("rows", len(records)).
		Msg("Parsed filing")

	return records, nil
}
