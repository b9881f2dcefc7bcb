package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
	"github.com/seoyeonhwng/snoop/internal/service/collector"
	"github.com/seoyeonhwng/snoop/internal/service/signal"
)

// DefaultCronSpec 매일 08:00
const DefaultCronSpec = "0 8 * * *"

// ErrAlreadyRunning 이전 실행이 아직 끝나지 않음
var ErrAlreadyRunning = errors.New("daily job already running")

// Collecting 수집 실행 (collector.Service)
type Collecting interface {
	Run(ctx context.Context, start, end time.Time) (*collector.Summary, error)
}

// Reporting 리포트 생성 (signal.Service)
type Reporting interface {
	Report(ctx context.Context, from, to time.Time) (*signal.Report, error)
}

// DailyResult 하루치 실행 결과
type DailyResult struct {
	Day     time.Time
	Summary *collector.Summary
	Report  *signal.Report
}

// Scheduler 매일 전날 공시를 수집하고 시그널 리포트를 알림으로 보냄
type Scheduler struct {
	collector Collecting
	reporter  Reporting
	notifier  disclosure.Notifier
	location  *time.Location
	now       func() time.Time

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New 스케줄러 생성 (location: cron 기준 시간대)
func New(collector Collecting, reporter Reporting, notifier disclosure.Notifier, location *time.Location) *Scheduler {
	if location == nil {
		location = disclosure.KST
	}
	return &Scheduler{
		collector: collector,
		reporter:  reporter,
		notifier:  notifier,
		location:  location,
		now:       time.Now,
		cron:      cron.New(cron.WithLocation(location)),
	}
}

// Start cron 등록 후 시작
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	if spec == "" {
		spec = DefaultCronSpec
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(spec, s.runScheduled); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	s.cron.Start()

	log.Info().
		Str("spec", spec).
		Str("timezone", s.location.String()).
		Msg("Daily scheduler started")
	return nil
}

// Stop 새 실행을 막고 진행 중인 실행을 취소한 뒤 종료를 기다림
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	log.Info().Msg("Daily scheduler stopped")
}

func (s *Scheduler) runScheduled() {
	if _, err := s.RunDaily(s.ctx); err != nil {
		log.Error().Err(err).Msg("Scheduled daily job failed")
	}
}

// RunDaily 전날(한국 시간) 수집 → 리포트 → 알림
//
// 수집이 실패하면 리포트를 만들지 않는다 (실패 알림은 수집 서비스가 보냄).
// 공시가 없는 날도 빈 리포트 알림을 보낸다.
func (s *Scheduler) RunDaily(ctx context.Context) (*DailyResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	day := disclosure.PreviousDay(s.now())
	result := &DailyResult{Day: day}

	log.Info().Str("day", day.Format(disclosure.DateLayout)).Msg("Daily job started")

	summary, err := s.collector.Run(ctx, day, day)
	result.Summary = summary
	if err != nil {
		return result, fmt.Errorf("collect %s: %w", day.Format(disclosure.DateLayout), err)
	}

	report, err := s.reporter.Report(ctx, day, day)
	if err != nil {
		return result, fmt.Errorf("build report: %w", err)
	}
	result.Report = report

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, report.Notice()); err != nil {
			log.Warn().Err(err).Msg("Failed to send report notice")
		}
	}

	log.Info().
		Str("day", day.Format(disclosure.DateLayout)).
		Int("companies", report.CompanyCount).
		Msg("Daily job finished")

	return result, nil
}
