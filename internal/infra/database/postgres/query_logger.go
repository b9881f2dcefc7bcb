package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	applogger "github.com/seoyeonhwng/snoop/internal/pkg/logger"
)

// SlowQueryThreshold 이 시간을 넘는 쿼리는 WARN
const SlowQueryThreshold = 100 * time.Millisecond

type queryTraceKey struct{}

type queryTrace struct {
	start time.Time
	sql   string
}

// QueryLogger implements pgx.QueryTracer and pgx.BatchTracer for query.log
type QueryLogger struct {
	logger zerolog.Logger
}

// NewQueryLogger creates a new query logger
func NewQueryLogger(logger zerolog.Logger) *QueryLogger {
	return &QueryLogger{
		logger: logger,
	}
}

// TraceQueryStart is called at the beginning of Query, QueryRow, and Exec calls
func (ql *QueryLogger) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryTraceKey{}, queryTrace{start: time.Now(), sql: data.SQL})
}

// TraceQueryEnd is called at the end of Query, QueryRow, and Exec calls
func (ql *QueryLogger) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	ql.log(ctx, data.CommandTag.String(), data.Err)
}

// TraceBatchStart is called at the beginning of SendBatch calls
func (ql *QueryLogger) TraceBatchStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceBatchStartData) context.Context {
	return context.WithValue(ctx, queryTraceKey{}, queryTrace{start: time.Now(), sql: "batch"})
}

// TraceBatchQuery is called for each query in a batch
func (ql *QueryLogger) TraceBatchQuery(ctx context.Context, conn *pgx.Conn, data pgx.TraceBatchQueryData) {
	if data.Err != nil {
		ql.logger.Error().
			Str("request_id", applogger.RequestID(ctx)).
			Str("sql", data.SQL).
			Err(data.Err).
			Msg("Batch query failed")
	}
}

// TraceBatchEnd is called at the end of SendBatch calls
func (ql *QueryLogger) TraceBatchEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceBatchEndData) {
	ql.log(ctx, "", data.Err)
}

func (ql *QueryLogger) log(ctx context.Context, commandTag string, err error) {
	trace, ok := ctx.Value(queryTraceKey{}).(queryTrace)
	if !ok {
		trace.start = time.Now()
	}
	duration := time.Since(trace.start)

	var event *zerolog.Event
	switch {
	case err != nil:
		event = ql.logger.Error().Err(err)
	case duration > SlowQueryThreshold:
		event = ql.logger.Warn().Bool("slow", true)
	default:
		event = ql.logger.Debug()
	}

	if rid := applogger.RequestID(ctx); rid != "" {
		event = event.Str("request_id", rid)
	}
	if trace.sql != "" {
		event = event.Str("sql", trace.sql)
	}

	event.
		Int64("duration_ms", duration.Milliseconds()).
		Str("command_tag", commandTag).
		Msg("Query executed")
}

// PgxZerologAdapter adapts zerolog.Logger to pgx's Logger interface
type PgxZerologAdapter struct {
	logger zerolog.Logger
}

// NewPgxZerologAdapter creates a new adapter
func NewPgxZerologAdapter(logger zerolog.Logger) *PgxZerologAdapter {
	return &PgxZerologAdapter{logger: logger}
}

// Log implements pgx Logger interface
func (l *PgxZerologAdapter) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]interface{}) {
	var event *zerolog.Event

	switch level {
	case tracelog.LogLevelTrace:
		event = l.logger.Trace()
	case tracelog.LogLevelDebug:
		event = l.logger.Debug()
	case tracelog.LogLevelInfo:
		event = l.logger.Info()
	case tracelog.LogLevelWarn:
		event = l.logger.Warn()
	case tracelog.LogLevelError:
		event = l.logger.Error()
	default:
		event = l.logger.Info()
	}

	event.Fields(data).Msg(msg)
}
