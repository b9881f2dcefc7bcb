package disclosure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
	"github.com/seoyeonhwng/snoop/internal/infra/database/postgres"
)

// CompanyRepository PostgreSQL 회사 저장소 (snoop.companies)
type CompanyRepository struct {
	pool *postgres.Pool
}

// NewCompanyRepository 저장소 생성
func NewCompanyRepository(pool *postgres.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// GetByStockCode 종목코드로 회사 조회
func (r *CompanyRepository) GetByStockCode(ctx context.Context, stockCode string) (*disclosure.Company, error) {
	query := `
		SELECT stock_code, corp_code, corp_name, industry_code, market,
		       market_capitalization, market_rank, updated_at
		FROM snoop.companies
		WHERE stock_code = $1
	`

	var c disclosure.Company
	err := r.pool.QueryRow(ctx, query, stockCode).Scan(
		&c.StockCode, &c.CorpCode, &c.CorpName, &c.IndustryCode, &c.Market,
		&c.MarketCap, &c.MarketRank, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, disclosure.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}

	return &c, nil
}

// UpsertBatch 회사 일괄 저장 (업종/시가총액은 유지하고 이름/고유번호만 갱신)
func (r *CompanyRepository) UpsertBatch(ctx context.Context, companies []disclosure.Company) (int, error) {
	if len(companies) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO snoop.companies (stock_code, corp_code, corp_name, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (stock_code) DO UPDATE SET
			corp_code = EXCLUDED.corp_code,
			corp_name = EXCLUDED.corp_name,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now()
	for _, c := range companies {
		updatedAt := c.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = now
		}
		batch.Queue(query, c.StockCode, c.CorpCode, c.CorpName, updatedAt)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	count := 0
	for range companies {
		if _, err := br.Exec(); err != nil {
			return count, fmt.Errorf("batch upsert company: %w", err)
		}
		count++
	}

	return count, nil
}

// SetIndustry 종목들의 업종 코드 갱신 (등록되지 않은 종목은 무시)
func (r *CompanyRepository) SetIndustry(ctx context.Context, industryCode string, stockCodes []string) (int, error) {
	if len(stockCodes) == 0 {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE snoop.companies
		SET industry_code = $1, updated_at = NOW()
		WHERE stock_code = ANY($2)
	`, industryCode, stockCodes)
	if err != nil {
		return 0, fmt.Errorf("set industry %s: %w", industryCode, err)
	}

	return int(tag.RowsAffected()), nil
}

// UpdateMarketData 시장/시가총액/순위 갱신
func (r *CompanyRepository) UpdateMarketData(ctx context.Context, quotes []disclosure.MarketQuote) (int, error) {
	if len(quotes) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	query := `
		UPDATE snoop.companies
		SET market = $2, market_capitalization = $3, market_rank = $4, updated_at = NOW()
		WHERE stock_code = $1
	`
	for _, q := range quotes {
		batch.Queue(query, q.StockCode, q.Market, q.MarketCap, q.MarketRank)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	count := 0
	for range quotes {
		tag, err := br.Exec()
		if err != nil {
			return count, fmt.Errorf("batch update market data: %w", err)
		}
		count += int(tag.RowsAffected())
	}

	return count, nil
}
