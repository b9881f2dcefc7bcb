package disclosure

import (
	"context"
	"fmt"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
	"github.com/seoyeonhwng/snoop/internal/infra/database/postgres"
)

// FetchLogRepository PostgreSQL 수집 로그 저장소 (snoop.fetch_logs)
type FetchLogRepository struct {
	pool *postgres.Pool
}

// NewFetchLogRepository 생성자
func NewFetchLogRepository(pool *postgres.Pool) *FetchLogRepository {
	return &FetchLogRepository{pool: pool}
}

// Create 로그 저장 (실행 종료 시 한 번)
func (r *FetchLogRepository) Create(ctx context.Context, log *disclosure.FetchLog) (*disclosure.FetchLog, error) {
	query := `
		INSERT INTO snoop.fetch_logs (
			run_id, job_type, source, range_from, range_to,
			records_fetched, records_inserted, filings_skipped, pages_skipped,
			status, error_message, started_at, finished_at, duration_ms
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		log.RunID,
		log.JobType,
		log.Source,
		log.RangeFrom,
		log.RangeTo,
		log.RecordsFetched,
		log.RecordsInserted,
		log.FilingsSkipped,
		log.PagesSkipped,
		log.Status,
		log.ErrorMessage,
		log.StartedAt,
		log.FinishedAt,
		log.DurationMs,
	).Scan(&log.ID, &log.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("create fetch log: %w", err)
	}

	return log, nil
}

// GetRecent 최근 로그 조회
func (r *FetchLogRepository) GetRecent(ctx context.Context, limit int) ([]*disclosure.FetchLog, error) {
	query := `
		SELECT id, run_id::text, job_type, source, range_from, range_to,
		       records_fetched, records_inserted, filings_skipped, pages_skipped,
		       status, error_message, started_at, finished_at, duration_ms, created_at
		FROM snoop.fetch_logs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent fetch logs: %w", err)
	}
	defer rows.Close()

	var logs []*disclosure.FetchLog
	for rows.Next() {
		var log disclosure.FetchLog
		err := rows.Scan(
			&log.ID,
			&log.RunID,
			&log.JobType,
			&log.Source,
			&log.RangeFrom,
			&log.RangeTo,
			&log.RecordsFetched,
			&log.RecordsInserted,
			&log.FilingsSkipped,
			&log.PagesSkipped,
			&log.Status,
			&log.ErrorMessage,
			&log.StartedAt,
			&log.FinishedAt,
			&log.DurationMs,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan fetch log: %w", err)
		}
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fetch logs: %w", err)
	}

	return logs, nil
}
