package cmd

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/seoyeonhwng/snoop/internal/app"
)

var collectFrom, collectTo string

// collectCmd 기간 내 임원 공시 수집
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "임원 공시 수집/저장",
	Long: `DART 공시 목록에서 임원ㆍ주요주주 소유상황보고서를 찾아 변동 내역을 저장합니다.

Examples:
  go run ./cmd/snoop collect                              # 전날 (KST)
  go run ./cmd/snoop collect --from 20210305
  go run ./cmd/snoop collect --from 20210301 --to 20210305`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().StringVar(&collectFrom, "from", "", "start date (YYYYMMDD)")
	collectCmd.Flags().StringVar(&collectTo, "to", "", "end date (YYYYMMDD)")
}

func runCollect(cmd *cobra.Command, args []string) error {
	from, to, err := parseRange(collectFrom, collectTo, time.Now())
	if err != nil {
		return err
	}

	return withApp(func(ctx context.Context, a *app.App) error {
		summary, err := a.Collector.Run(ctx, from, to)
		if summary != nil {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(summary); encErr != nil {
				return encErr
			}
		}
		return err
	})
}
