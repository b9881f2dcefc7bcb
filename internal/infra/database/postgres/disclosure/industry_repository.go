package disclosure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
	"github.com/seoyeonhwng/snoop/internal/infra/database/postgres"
)

// IndustryRepository PostgreSQL 업종 저장소 (snoop.industries)
type IndustryRepository struct {
	pool *postgres.Pool
}

// NewIndustryRepository 저장소 생성
func NewIndustryRepository(pool *postgres.Pool) *IndustryRepository {
	return &IndustryRepository{pool: pool}
}

// ListOrdered order_id 순서로 업종 조회
func (r *IndustryRepository) ListOrdered(ctx context.Context) ([]disclosure.Industry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT industry_code, industry_name, order_id, created_at
		FROM snoop.industries
		ORDER BY order_id, industry_code
	`)
	if err != nil {
		return nil, fmt.Errorf("list industries: %w", err)
	}

	industries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[disclosure.Industry])
	if err != nil {
		return nil, fmt.Errorf("scan industry: %w", err)
	}
	return industries, nil
}

// Replace 업종 목록 전체 교체 (한 트랜잭션)
func (r *IndustryRepository) Replace(ctx context.Context, industries []disclosure.Industry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM snoop.industries`); err != nil {
		return fmt.Errorf("delete industries: %w", err)
	}

	now := time.Now()
	rows := make([][]any, 0, len(industries))
	for _, ind := range industries {
		createdAt := ind.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		rows = append(rows, []any{ind.IndustryCode, ind.IndustryName, ind.OrderID, createdAt})
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"snoop", "industries"},
		[]string{"industry_code", "industry_name", "order_id", "created_at"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("copy industries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
