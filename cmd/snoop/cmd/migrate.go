package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seoyeonhwng/snoop/internal/infra/database/postgres"
)

// migrateCmd 스키마 생성
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "DB 스키마 생성 (snoop.*)",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Migrate(ctx); err != nil {
		return err
	}
	fmt.Println("✅ Migrations applied")
	return nil
}
