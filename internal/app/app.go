package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/seoyeonhwng/snoop/internal/infra/database/postgres"
	pgdisclosure "github.com/seoyeonhwng/snoop/internal/infra/database/postgres/disclosure"
	"github.com/seoyeonhwng/snoop/internal/infra/external/dart"
	"github.com/seoyeonhwng/snoop/internal/infra/external/naver"
	"github.com/seoyeonhwng/snoop/internal/infra/notify"
	"github.com/seoyeonhwng/snoop/internal/pkg/config"
	"github.com/seoyeonhwng/snoop/internal/pkg/logger"
	"github.com/seoyeonhwng/snoop/internal/service/collector"
	"github.com/seoyeonhwng/snoop/internal/service/corpsync"
	"github.com/seoyeonhwng/snoop/internal/service/parser"
	"github.com/seoyeonhwng/snoop/internal/service/signal"
)

// notifyTimeout 알림 한 건 전달 제한 시간
const notifyTimeout = 10 * time.Second

// App 실행 파일들이 공유하는 구성 요소
type App struct {
	Config *config.Config
	Pool   *postgres.Pool

	Trades     *pgdisclosure.TradeRepository
	Companies  *pgdisclosure.CompanyRepository
	Industries *pgdisclosure.IndustryRepository
	FetchLogs  *pgdisclosure.FetchLogRepository

	DART  *dart.Client
	Web   *dart.WebClient
	Naver *naver.Client

	Notifier  *notify.AsyncNotifier
	Collector *collector.Service
	Signals   *signal.Service
	CorpSync  *corpsync.Service
}

// InitLogger 설정에 따라 전역 로거 초기화
func InitLogger(cfg *config.Config, serviceName, serviceVersion string) error {
	return logger.Init(logger.Config{
		Level:          cfg.Logging.Level,
		Format:         cfg.Logging.Format,
		FileEnabled:    cfg.Logging.FileEnabled,
		FilePath:       cfg.Logging.FilePath,
		RotationSize:   cfg.Logging.RotationSize,
		RetentionDays:  cfg.Logging.RetentionDays,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
	})
}

// New DB 연결 후 저장소/외부 클라이언트/서비스를 구성
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	a := &App{
		Config:     cfg,
		Pool:       pool,
		Trades:     pgdisclosure.NewTradeRepository(pool),
		Companies:  pgdisclosure.NewCompanyRepository(pool),
		Industries: pgdisclosure.NewIndustryRepository(pool),
		FetchLogs:  pgdisclosure.NewFetchLogRepository(pool),
	}

	a.DART = dart.NewClient(cfg.DART.APIKey,
		dart.WithBaseURL(cfg.DART.APIBaseURL),
		dart.WithTimeout(cfg.DART.Timeout),
	)
	a.Web = dart.NewWebClient(
		dart.WithWebBaseURL(cfg.DART.WebBaseURL),
		dart.WithViewerInterval(cfg.DART.ViewerInterval),
	)
	a.Naver = naver.NewClient(
		naver.WithBaseURL(cfg.Naver.BaseURL),
		naver.WithInterval(cfg.Naver.Interval),
	)

	a.Notifier = notify.NewAsyncNotifier(notify.NewLogNotifier(), notify.DefaultQueueSize, notifyTimeout)

	col := collector.New(a.DART, parser.New(a.Web), &collector.Config{
		PageCount: cfg.DART.PageCount,
		PageDelay: cfg.DART.PageDelay,
		Filter: collector.Filter{
			ReportName: cfg.Signal.ReportName,
			Markets:    cfg.Signal.Markets,
		},
	})
	a.Collector = collector.NewService(col, a.Trades, a.FetchLogs, a.Notifier)

	a.Signals, err = signal.NewService(a.Trades, a.Industries, a.Companies, cfg.Signal.Thresholds(), cfg.Signal.Filter())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("signal thresholds: %w", err)
	}

	a.CorpSync = corpsync.NewService(a.DART, a.Naver, a.Companies, a.Industries)

	return a, nil
}

// Close 남은 알림을 보내고 DB 연결 종료
func (a *App) Close(ctx context.Context) {
	if err := a.Notifier.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("Notifier did not drain before shutdown")
	}
	a.Pool.Close()
}
