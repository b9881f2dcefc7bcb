package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/seoyeonhwng/snoop/internal/app"
	"github.com/seoyeonhwng/snoop/internal/service/signal"
)

var (
	signalsFrom, signalsTo string
	signalsJSON            bool
	signalsNotify          bool
)

// signalsCmd 업종별 시그널 리포트
var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "업종별 순매매 시그널 리포트",
	Long: `저장된 변동 내역으로 업종별 회사 순매매 시그널을 출력합니다.

Examples:
  go run ./cmd/snoop signals                               # 전날 (KST)
  go run ./cmd/snoop signals --from 20210301 --to 20210305 --json`,
	RunE: runSignals,
}

func init() {
	signalsCmd.Flags().StringVar(&signalsFrom, "from", "", "start date (YYYYMMDD)")
	signalsCmd.Flags().StringVar(&signalsTo, "to", "", "end date (YYYYMMDD)")
	signalsCmd.Flags().BoolVar(&signalsJSON, "json", false, "print report as JSON")
	signalsCmd.Flags().BoolVar(&signalsNotify, "notify", false, "send the report notice")
}

func runSignals(cmd *cobra.Command, args []string) error {
	from, to, err := parseRange(signalsFrom, signalsTo, time.Now())
	if err != nil {
		return err
	}

	return withApp(func(ctx context.Context, a *app.App) error {
		report, err := a.Signals.Report(ctx, from, to)
		if err != nil {
			return err
		}

		if signalsNotify {
			if err := a.Notifier.Notify(ctx, report.Notice()); err != nil {
				return err
			}
		}
		return printReport(os.Stdout, report, signalsJSON)
	})
}

func printReport(w io.Writer, report *signal.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	notice := report.Notice()
	_, err := fmt.Fprintf(w, "%s\n\n%s\n", notice.Title, notice.Message)
	return err
}
