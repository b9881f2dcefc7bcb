package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

const (
	jobType    = "collector"
	sourceDART = "dart"
)

// Collecting 수집 실행 (Collector)
type Collecting interface {
	Collect(ctx context.Context, start, end time.Time) (*Result, error)
}

// Service 수집 + 저장 + 실행 로그 + 알림
type Service struct {
	collector    Collecting
	tradeRepo    disclosure.TradeRepository
	fetchLogRepo disclosure.FetchLogRepository
	notifier     disclosure.Notifier
}

// NewService 서비스 생성 (fetchLogRepo, notifier는 nil 가능)
func NewService(
	collector Collecting,
	tradeRepo disclosure.TradeRepository,
	fetchLogRepo disclosure.FetchLogRepository,
	notifier disclosure.Notifier,
) *Service {
	return &Service{
		collector:    collector,
		tradeRepo:    tradeRepo,
		fetchLogRepo: fetchLogRepo,
		notifier:     notifier,
	}
}

// Summary 수집 실행 요약
type Summary struct {
	RunID           string   `json:"run_id"`
	From            string   `json:"from"`
	To              string   `json:"to"`
	Outcome         Outcome  `json:"outcome"`
	PagesFetched    int      `json:"pages_fetched"`
	PagesSkipped    int      `json:"pages_skipped"`
	FilingsParsed   int      `json:"filings_parsed"`
	FilingsSkipped  int      `json:"filings_skipped"`
	SkippedFilings  []string `json:"skipped_filings,omitempty"`
	RecordsFetched  int      `json:"records_fetched"`
	RecordsInserted int      `json:"records_inserted"`
	Error           string   `json:"error,omitempty"`
	DurationMs      int      `json:"duration_ms"`
}

// Run 기간 내 공시를 수집해 저장
//
// 공시 단위로 저장하며 이미 저장된 접수번호는 저장소가 건너뛴다.
// 저장 실패는 실행 전체를 실패로 처리한다.
func (s *Service) Run(ctx context.Context, start, end time.Time) (*Summary, error) {
	startTime := time.Now()

	result, runErr := s.collector.Collect(ctx, start, end)
	if result == nil {
		result = &Result{From: start, To: end, Outcome: OutcomeFailed, Err: runErr}
	}

	inserted := 0
	if runErr == nil && result.Outcome == OutcomeCompleted {
		for _, f := range result.Filings {
			if f.Skipped() || len(f.Records) == 0 {
				continue
			}
			n, err := s.tradeRepo.InsertBatch(ctx, f.Records)
			if err != nil {
				runErr = fmt.Errorf("save trade changes %s: %w", f.Filing.FilingID, err)
				result.Outcome = OutcomeFailed
				result.Err = runErr
				break
			}
			inserted += n
		}
	}

	summary := newSummary(result, inserted, time.Since(startTime))
	if runErr != nil {
		summary.Error = runErr.Error()
	}

	s.saveFetchLog(ctx, result, summary, startTime)
	s.notify(ctx, summary)

	if runErr != nil {
		log.Error().Err(runErr).Str("run_id", summary.RunID).Msg("Collection run failed")
		return summary, runErr
	}

	log.Info().
		Str("run_id", summary.RunID).
		Str("outcome", string(summary.Outcome)).
		Int("records_fetched", summary.RecordsFetched).
		Int("records_inserted", summary.RecordsInserted).
		Int("filings_skipped", summary.FilingsSkipped).
		Int("pages_skipped", summary.PagesSkipped).
		Msg("Collection run finished")

	return summary, nil
}

func newSummary(r *Result, inserted int, elapsed time.Duration) *Summary {
	summary := &Summary{
		From:            r.From.Format(disclosure.DateLayout),
		To:              r.To.Format(disclosure.DateLayout),
		Outcome:         r.Outcome,
		PagesFetched:    len(r.Pages) - r.PagesSkipped(),
		PagesSkipped:    r.PagesSkipped(),
		FilingsParsed:   len(r.Filings) - r.FilingsSkipped(),
		FilingsSkipped:  r.FilingsSkipped(),
		RecordsFetched:  r.RecordCount(),
		RecordsInserted: inserted,
		DurationMs:      int(elapsed.Milliseconds()),
	}
	if r.RunID != uuid.Nil {
		summary.RunID = r.RunID.String()
	}
	for _, f := range r.Filings {
		if f.Skipped() {
			summary.SkippedFilings = append(summary.SkippedFilings, f.Filing.FilingID)
		}
	}
	return summary
}

func (s *Service) saveFetchLog(ctx context.Context, r *Result, summary *Summary, startTime time.Time) {
	if s.fetchLogRepo == nil {
		return
	}

	finishedAt := time.Now()
	durationMs := int(finishedAt.Sub(startTime).Milliseconds())
	fetchLog := &disclosure.FetchLog{
		RunID:           summary.RunID,
		JobType:         jobType,
		Source:          sourceDART,
		RangeFrom:       r.From,
		RangeTo:         r.To,
		RecordsFetched:  summary.RecordsFetched,
		RecordsInserted: summary.RecordsInserted,
		FilingsSkipped:  summary.FilingsSkipped,
		PagesSkipped:    summary.PagesSkipped,
		Status:          string(summary.Outcome),
		StartedAt:       startTime,
		FinishedAt:      &finishedAt,
		DurationMs:      &durationMs,
	}
	if summary.Error != "" {
		errMsg := summary.Error
		fetchLog.ErrorMessage = &errMsg
	}

	if _, err := s.fetchLogRepo.Create(ctx, fetchLog); err != nil {
		log.Warn().Err(err).Msg("Failed to save fetch log")
	}
}

func (s *Service) notify(ctx context.Context, summary *Summary) {
	if s.notifier == nil {
		return
	}

	period := summary.From
	if summary.To != summary.From {
		period = summary.From + "~" + summary.To
	}

	notice := disclosure.Notice{
		Fields: map[string]any{
			"run_id":           summary.RunID,
			"records_inserted": summary.RecordsInserted,
			"filings_skipped":  summary.FilingsSkipped,
			"pages_skipped":    summary.PagesSkipped,
		},
	}
	switch summary.Outcome {
	case OutcomeNoData:
		notice.Kind = disclosure.NoticeNoData
		notice.Title = "임원 공시 없음"
		notice.Message = fmt.Sprintf("%s 기간에 조회된 공시가 없습니다", period)
	case OutcomeCompleted:
		notice.Kind = disclosure.NoticeCompleted
		notice.Title = "임원 공시 수집 완료"
		notice.Message = fmt.Sprintf("%s: %d건 저장 (공시 %d건 제외)", period, summary.RecordsInserted, summary.FilingsSkipped)
	default:
		notice.Kind = disclosure.NoticeFailed
		notice.Title = "임원 공시 수집 실패"
		notice.Message = fmt.Sprintf("%s: %s", period, summary.Error)
	}

	if err := s.notifier.Notify(ctx, notice); err != nil {
		log.Warn().Err(err).Str("kind", string(notice.Kind)).Msg("Failed to send notice")
	}
}
