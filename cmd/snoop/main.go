// Package main - snoop CLI
// 임원 공시 수집/리포트 통합 CLI
//
// 사용법:
//
//	go run ./cmd/snoop collect --from 20210305
//	go run ./cmd/snoop signals --from 20210301 --to 20210305
//	go run ./cmd/snoop sync companies
package main

import (
	"os"

	"github.com/seoyeonhwng/snoop/cmd/snoop/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
