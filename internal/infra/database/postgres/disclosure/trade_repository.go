package disclosure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
	"github.com/seoyeonhwng/snoop/internal/infra/database/postgres"
)

// TradeRepository PostgreSQL 변동 내역 저장소 (snoop.trade_changes)
type TradeRepository struct {
	pool *postgres.Pool
}

// NewTradeRepository 저장소 생성
func NewTradeRepository(pool *postgres.Pool) *TradeRepository {
	return &TradeRepository{pool: pool}
}

const tradeColumns = `
	rcept_no, disclosed_on, stock_code, executive_name, reason_code, traded_on,
	stock_type, before_volume, delta_volume, after_volume, unit_price, remark, created_at`

// InsertBatch 변동 내역 일괄 저장
//
// 이미 저장된 접수번호의 레코드는 건너뛰므로 같은 기간을 다시 수집해도 중복되지 않는다.
func (r *TradeRepository) InsertBatch(ctx context.Context, records []disclosure.TradeChange) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	stored, err := storedFilingIDs(ctx, tx, records)
	if err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO snoop.trade_changes (` + tradeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	queued := 0
	for _, rec := range records {
		if stored[rec.FilingID] {
			continue
		}
		createdAt := rec.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		batch.Queue(query,
			rec.FilingID, rec.DisclosedOn, rec.StockCode, rec.ExecutiveName,
			rec.Reason.Value(), rec.TradedOn, rec.SecurityType.Value(),
			rec.VolumeBefore, rec.VolumeDelta, rec.VolumeAfter,
			rec.UnitPrice, rec.Remark, createdAt,
		)
		queued++
	}

	if queued == 0 {
		return 0, nil
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < queued; i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("batch insert trade change: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	return queued, nil
}

func storedFilingIDs(ctx context.Context, tx pgx.Tx, records []disclosure.TradeChange) (map[string]bool, error) {
	ids := make([]string, 0, len(records))
	seen := make(map[string]bool)
	for _, rec := range records {
		if !seen[rec.FilingID] {
			seen[rec.FilingID] = true
			ids = append(ids, rec.FilingID)
		}
	}

	rows, err := tx.Query(ctx,
		`SELECT DISTINCT rcept_no FROM snoop.trade_changes WHERE rcept_no = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query stored filings: %w", err)
	}

	stored, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan stored filings: %w", err)
	}

	out := make(map[string]bool, len(stored))
	for _, id := range stored {
		out[id] = true
	}
	return out, nil
}

// QueryRange 공시일 기준 기간 조회 (양 끝 포함)
func (r *TradeRepository) QueryRange(ctx context.Context, from, to time.Time) ([]disclosure.TradeChange, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM snoop.trade_changes
		WHERE disclosed_on BETWEEN $1 AND $2
		ORDER BY disclosed_on, rcept_no, id
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query trade changes: %w", err)
	}
	defer rows.Close()

	return scanTradeChanges(rows)
}

// QuerySignalRecords 변동 내역 + 회사 + 업종 조인 (업종이 없는 회사는 제외)
func (r *TradeRepository) QuerySignalRecords(ctx context.Context, from, to time.Time, filter disclosure.SignalFilter) ([]disclosure.SignalRecord, error) {
	query := `
		SELECT t.rcept_no, t.disclosed_on, t.stock_code, t.delta_volume, t.unit_price,
		       c.corp_code, c.corp_name, i.industry_name,
		       COALESCE(c.market, ''), COALESCE(c.market_capitalization, 0), COALESCE(c.market_rank, 0)
		FROM snoop.trade_changes t
		JOIN snoop.companies c ON c.stock_code = t.stock_code
		JOIN snoop.industries i ON i.industry_code = c.industry_code
		WHERE t.disclosed_on BETWEEN $1 AND $2
		  AND t.reason_code = ANY($3)
		  AND t.stock_type = ANY($4)
		ORDER BY t.disclosed_on, t.rcept_no, t.id
	`

	rows, err := r.pool.Query(ctx, query, from, to, filter.ReasonCodes, filter.SecurityTypes)
	if err != nil {
		return nil, fmt.Errorf("query signal records: %w", err)
	}
	defer rows.Close()

	var records []disclosure.SignalRecord
	for rows.Next() {
		var rec disclosure.SignalRecord
		if err := rows.Scan(
			&rec.FilingID, &rec.DisclosedOn, &rec.StockCode, &rec.VolumeDelta, &rec.UnitPrice,
			&rec.CorpCode, &rec.CorpName, &rec.IndustryName,
			&rec.Market, &rec.MarketCap, &rec.MarketRank,
		); err != nil {
			return nil, fmt.Errorf("scan signal record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signal records: %w", err)
	}

	return records, nil
}

// QueryCompanyHistory 회사의 최근 N개 공시에 속한 변동 내역 (최신 공시 먼저)
func (r *TradeRepository) QueryCompanyHistory(ctx context.Context, stockCode string, filings int, filter disclosure.SignalFilter) ([]disclosure.TradeChange, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM snoop.trade_changes
		WHERE rcept_no IN (
			SELECT rcept_no
			FROM snoop.trade_changes
			WHERE stock_code = $1
			  AND reason_code = ANY($2)
			  AND stock_type = ANY($3)
			GROUP BY rcept_no
			ORDER BY rcept_no DESC
			LIMIT $4
		)
		  AND reason_code = ANY($2)
		  AND stock_type = ANY($3)
		ORDER BY rcept_no DESC, id
	`

	rows, err := r.pool.Query(ctx, query, stockCode, filter.ReasonCodes, filter.SecurityTypes, filings)
	if err != nil {
		return nil, fmt.Errorf("query company history: %w", err)
	}
	defer rows.Close()

	return scanTradeChanges(rows)
}

// ExistsByFilingID 접수번호 저장 여부
func (r *TradeRepository) ExistsByFilingID(ctx context.Context, filingID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM snoop.trade_changes WHERE rcept_no = $1)`, filingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check filing %s: %w", filingID, err)
	}
	return exists, nil
}

func scanTradeChanges(rows pgx.Rows) ([]disclosure.TradeChange, error) {
	var records []disclosure.TradeChange
	for rows.Next() {
		var (
			rec          disclosure.TradeChange
			reason, kind string
		)
		if err := rows.Scan(
			&rec.FilingID, &rec.DisclosedOn, &rec.StockCode, &rec.ExecutiveName,
			&reason, &rec.TradedOn, &kind,
			&rec.VolumeBefore, &rec.VolumeDelta, &rec.VolumeAfter,
			&rec.UnitPrice, &rec.Remark, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan trade change: %w", err)
		}
		rec.Reason = disclosure.ParseReasonCode(reason)
		rec.SecurityType = disclosure.ParseSecurityTypeCode(kind)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade changes: %w", err)
	}
	return records, nil
}
