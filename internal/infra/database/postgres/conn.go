package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog/log"

	"github.com/seoyeonhwng/snoop/internal/pkg/config"
	applogger "github.com/seoyeonhwng/snoop/internal/pkg/logger"
)

// Schema 모든 테이블이 위치하는 스키마
const Schema = "snoop"

// 권한 체크 대상 테이블
var requiredTables = []string{"trade_changes", "companies", "industries", "fetch_logs"}

// Pool wraps pgxpool.Pool
type Pool struct {
	*pgxpool.Pool
}

// NewPool creates a new PostgreSQL connection pool
// SSOT: config.Database.URL에서만 연결 정보를 가져옴
func NewPool(ctx context.Context, cfg *config.Config) (*Pool, error) {
	// Parse config from DATABASE_URL (SSOT)
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	log.Info().
		Str("host", poolConfig.ConnConfig.Host).
		Uint16("port", poolConfig.ConnConfig.Port).
		Str("database", poolConfig.ConnConfig.Database).
		Str("user", poolConfig.ConnConfig.User).
		Msg("Connecting to PostgreSQL...")

	// Set pool configuration
	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	// Setup query logger (if file logging enabled)
	if cfg.Logging.FileEnabled {
		queryLogger := applogger.NewQueryLogger(
			cfg.Logging.FilePath,
			cfg.Logging.RotationSize,
			cfg.Logging.RetentionDays,
		)
		poolConfig.ConnConfig.Tracer = NewQueryLogger(queryLogger)
	} else if cfg.Logging.Level == "trace" {
		// 파일 로깅 없이 trace 레벨이면 pgx 내부 로그를 전역 로거로
		poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   NewPgxZerologAdapter(log.Logger),
			LogLevel: tracelog.LogLevelTrace,
		}
	}

	// Connect
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Ping to verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("PostgreSQL connected")

	// 권한 자동 체크
	if err := checkPermissions(ctx, pool); err != nil {
		log.Warn().Err(err).Msg("Permission check failed, but continuing...")
	}

	return &Pool{Pool: pool}, nil
}

// checkPermissions snoop 스키마/테이블 존재 여부 확인 (없으면 경고만)
func checkPermissions(ctx context.Context, pool *pgxpool.Pool) error {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM pg_namespace WHERE nspname = $1)`
	if err := pool.QueryRow(ctx, query, Schema).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check schema %s: %w", Schema, err)
	}
	if !exists {
		log.Warn().
			Str("schema", Schema).
			Msg("Schema does not exist (run migrations/0001_init.sql)")
		return nil
	}

	for _, table := range requiredTables {
		var allowed bool
		query := `SELECT has_table_privilege($1, 'SELECT, INSERT')`
		if err := pool.QueryRow(ctx, query, Schema+"."+table).Scan(&allowed); err != nil {
			log.Warn().Err(err).Str("table", table).Msg("Table missing")
			continue
		}
		if !allowed {
			log.Warn().Str("table", table).Msg("Missing SELECT/INSERT privilege")
		}
	}

	log.Debug().Msg("Database permission check done")
	return nil
}

// Close closes the connection pool
func (p *Pool) Close() {
	log.Info().Msg("Closing PostgreSQL connection pool...")
	p.Pool.Close()
}
