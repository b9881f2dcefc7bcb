package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seoyeonhwng/snoop/internal/app"
	"github.com/seoyeonhwng/snoop/internal/service/corpsync"
)

// syncCmd 메타데이터 동기화
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "회사/업종/시가총액 동기화",
	Long: `시그널 집계에 필요한 메타데이터를 갱신합니다.

Examples:
  go run ./cmd/snoop sync companies     # DART 고유번호 → companies
  go run ./cmd/snoop sync industries    # 네이버 업종 → industries, companies.industry_code
  go run ./cmd/snoop sync market        # 네이버 시가총액 → companies.market_*`,
}

var syncCompaniesCmd = &cobra.Command{
	Use:   "companies",
	Short: "DART 상장사 고유번호 동기화",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync((*corpsync.Service).SyncCompanies)
	},
}

var syncIndustriesCmd = &cobra.Command{
	Use:   "industries",
	Short: "업종 목록/소속 종목 동기화",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync((*corpsync.Service).SyncIndustries)
	},
}

var syncMarketCmd = &cobra.Command{
	Use:   "market",
	Short: "시장 구분/시가총액/순위 동기화",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync((*corpsync.Service).SyncMarketData)
	},
}

func init() {
	syncCmd.AddCommand(syncCompaniesCmd)
	syncCmd.AddCommand(syncIndustriesCmd)
	syncCmd.AddCommand(syncMarketCmd)
}

func runSync(job func(*corpsync.Service, context.Context) (*corpsync.Result, error)) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		result, err := job(a.CorpSync, ctx)
		if err != nil {
			return err
		}
		fmt.Printf("✅ %s: fetched=%d updated=%d skipped=%d (%s)\n",
			result.Job, result.Fetched, result.Updated, result.Skipped, result.Duration)
		return nil
	})
}
