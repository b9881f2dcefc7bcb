package postgres

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	applogger "github.com/seoyeonhwng/snoop/internal/pkg/logger"
)

func TestQueryLogger_LogsSQLAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	ql := NewQueryLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	ctx := applogger.WithRequestID(context.Background(), "req-42")
	ctx = ql.TraceQueryStart(ctx, nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	ql.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	out := buf.String()
	assert.Contains(t, out, `"sql":"SELECT 1"`)
	assert.Contains(t, out, `"request_id":"req-42"`)
	assert.Contains(t, out, `"level":"debug"`)
}

func TestQueryLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	ql := NewQueryLogger(zerolog.New(&buf))

	ctx := ql.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "INSERT"})
	ql.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("duplicate key")})

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "duplicate key")
}

func TestPgxZerologAdapter_Level(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewPgxZerologAdapter(zerolog.New(&buf))

	adapter.Log(context.Background(), tracelog.LogLevelWarn, "conn slow", map[string]interface{}{"pid": 7})

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"pid":7`)
	assert.Contains(t, buf.String(), "conn slow")
}
