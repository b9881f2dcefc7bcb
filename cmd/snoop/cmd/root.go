// Package cmd - snoop CLI commands
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/seoyeonhwng/snoop/internal/app"
	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
	"github.com/seoyeonhwng/snoop/internal/pkg/config"
)

const (
	serviceName    = "snoop-cli"
	serviceVersion = "1.0.0"
)

var (
	// 공통 플래그
	verbose bool

	cfg *config.Config
)

// rootCmd 루트 커맨드
var rootCmd = &cobra.Command{
	Use:   "snoop",
	Short: "Snoop - DART 임원 매매 공시 수집/시그널 CLI",
	Long: `Snoop - DART 임원 매매 공시 수집/시그널 CLI

Usage:
    go run ./cmd/snoop [command]

Commands:
    collect     --from --to     - 기간 내 임원 공시 수집/저장
    signals     --from --to     - 업종별 순매매 시그널 리포트
    sync        companies|industries|market - 회사/업종/시가총액 동기화
    migrate                     - DB 스키마 생성
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute 루트 커맨드 실행
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(signalsCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(migrateCmd)
}

// initConfig .env/환경 변수 로드 후 로거 초기화
func initConfig() error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		loaded.Logging.Level = "debug"
	}
	if err := app.InitLogger(loaded, serviceName, serviceVersion); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	loc, err := time.LoadLocation(loaded.Scheduler.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}
	time.Local = loc

	cfg = loaded
	return nil
}

// withApp Ctrl+C로 취소되는 context와 App으로 fn 실행
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		a.Close(closeCtx)
	}()

	if err := fn(ctx, a); err != nil {
		log.Error().Err(err).Msg("Command failed")
		return err
	}
	return nil
}

// parseRange --from/--to (YYYYMMDD). to가 없으면 from과 같은 날, 둘 다 없으면 전날.
func parseRange(rawFrom, rawTo string, now time.Time) (time.Time, time.Time, error) {
	if rawFrom == "" && rawTo == "" {
		day := disclosure.PreviousDay(now)
		return day, day, nil
	}
	if rawFrom == "" {
		rawFrom = rawTo
	}
	if rawTo == "" {
		rawTo = rawFrom
	}

	from, err := disclosure.ParseDate(rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := disclosure.ParseDate(rawTo)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: --from %s is after --to %s",
			disclosure.ErrInvalidDateRange, rawFrom, rawTo)
	}
	return from, to, nil
}
