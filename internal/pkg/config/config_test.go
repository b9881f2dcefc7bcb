package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRules = `
thresholds:
  min_amount: 5000000
  strong: "1000000000"
filings:
  markets: [Y]
signal:
  reason_codes: ["01"]
`

func TestParseRules_Apply(t *testing.T) {
	rules, err := ParseRules([]byte(sampleRules))
	require.NoError(t, err)

	cfg := SignalConfig{
		MinAmount:     decimal.NewFromInt(10_000_000),
		WeakAmount:    decimal.NewFromInt(100_000_000),
		StrongAmount:  decimal.NewFromInt(500_000_000),
		ReportName:    "보고서",
		Markets:       []string{"Y", "K"},
		ReasonCodes:   []string{"01", "02"},
		SecurityTypes: []string{"01"},
	}
	rules.Apply(&cfg)

	assert.True(t, decimal.NewFromInt(5_000_000).Equal(cfg.MinAmount))
	assert.True(t, decimal.NewFromInt(100_000_000).Equal(cfg.WeakAmount), "unset weak keeps env value")
	assert.True(t, decimal.NewFromInt(1_000_000_000).Equal(cfg.StrongAmount))
	assert.Equal(t, "보고서", cfg.ReportName)
	assert.Equal(t, []string{"Y"}, cfg.Markets)
	assert.Equal(t, []string{"01"}, cfg.ReasonCodes)
	assert.Equal(t, []string{"01"}, cfg.SecurityTypes)
}

func TestParseRules_InvalidAmount(t *testing.T) {
	_, err := ParseRules([]byte("thresholds:\n  weak: lots\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "thresholds.weak")
}

func TestParseRules_InvalidYAML(t *testing.T) {
	_, err := ParseRules([]byte("thresholds: [\n"))
	assert.Error(t, err)
}

func TestLoadRules_MissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SIGNAL_RULES_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.DART.PageCount)
	assert.Equal(t, 500*time.Millisecond, cfg.DART.PageDelay)
	assert.Equal(t, time.Second, cfg.DART.ViewerInterval)
	assert.Equal(t, "0 8 * * *", cfg.Scheduler.CronSpec)
	assert.Equal(t, "Asia/Seoul", cfg.Scheduler.Timezone)
	assert.NoError(t, cfg.Signal.Thresholds().Validate())
	assert.Equal(t, []string{"01", "02"}, cfg.Signal.Filter().ReasonCodes)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DART_PAGE_COUNT", "50")
	t.Setenv("DART_PAGE_DELAY", "2s")
	t.Setenv("SIGNAL_MARKETS", " Y , K ,N ")
	t.Setenv("SIGNAL_WEAK_AMOUNT", "200000000")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.DART.PageCount)
	assert.Equal(t, 2*time.Second, cfg.DART.PageDelay)
	assert.Equal(t, []string{"Y", "K", "N"}, cfg.Signal.Markets)
	assert.True(t, decimal.NewFromInt(200_000_000).Equal(cfg.Signal.Thresholds().Weak))
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
}

func TestLoad_RulesFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRules), 0o600))
	t.Setenv("SIGNAL_RULES_FILE", path)
	t.Setenv("SIGNAL_MIN_AMOUNT", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5_000_000).Equal(cfg.Signal.MinAmount), "rules file wins over env")
	assert.Equal(t, []string{"Y"}, cfg.Signal.Markets)
}

func TestLoad_BadRulesFile(t *testing.T) {
	t.Setenv("SIGNAL_RULES_FILE", "/nonexistent/rules.yaml")

	_, err := Load()
	assert.Error(t, err)
}
