package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
	"github.com/seoyeonhwng/snoop/internal/service/collector"
	"github.com/seoyeonhwng/snoop/internal/service/signal"
)

type fakeCollector struct {
	days    []time.Time
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeCollector) Run(ctx context.Context, start, end time.Time) (*collector.Summary, error) {
	f.days = append(f.days, start, end)
	if f.started != nil {
		close(f.started)
		<-f.release
	}
	if f.err != nil {
		return &collector.Summary{Outcome: collector.OutcomeFailed}, f.err
	}
	return &collector.Summary{Outcome: collector.OutcomeCompleted}, nil
}

type fakeReporter struct {
	calls int
	empty bool
}

func (f *fakeReporter) Report(ctx context.Context, from, to time.Time) (*signal.Report, error) {
	f.calls++
	r := &signal.Report{
		From:  from.Format(disclosure.DateLayout),
		To:    to.Format(disclosure.DateLayout),
		Empty: f.empty,
	}
	if !f.empty {
		r.CompanyCount = 1
		r.Industries = []disclosure.IndustrySignals{{IndustryName: "반도체"}}
	}
	return r, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []disclosure.Notice
}

func (f *fakeNotifier) Notify(ctx context.Context, n disclosure.Notice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, n)
	return nil
}

func fixedNow() time.Time {
	// 2021-03-06 08:00 KST
	return time.Date(2021, 3, 5, 23, 0, 0, 0, time.UTC)
}

func TestRunDaily_CollectsPreviousDayAndNotifies(t *testing.T) {
	col := &fakeCollector{}
	rep := &fakeReporter{}
	notifier := &fakeNotifier{}

	s := New(col, rep, notifier, nil)
	s.now = fixedNow

	result, err := s.RunDaily(context.Background())
	require.NoError(t, err)

	require.Len(t, col.days, 2)
	assert.Equal(t, "20210305", col.days[0].Format(disclosure.DateLayout))
	assert.Equal(t, col.days[0], col.days[1])
	assert.Equal(t, 1, rep.calls)
	require.NotNil(t, result.Report)

	require.Len(t, notifier.notices, 1)
	assert.Equal(t, disclosure.NoticeCompleted, notifier.notices[0].Kind)
}

func TestRunDaily_EmptyReportStillNotifies(t *testing.T) {
	notifier := &fakeNotifier{}
	s := New(&fakeCollector{}, &fakeReporter{empty: true}, notifier, nil)
	s.now = fixedNow

	_, err := s.RunDaily(context.Background())
	require.NoError(t, err)
	require.Len(t, notifier.notices, 1)
	assert.Equal(t, disclosure.NoticeNoData, notifier.notices[0].Kind)
}

func TestRunDaily_CollectFailureSkipsReport(t *testing.T) {
	rep := &fakeReporter{}
	notifier := &fakeNotifier{}
	s := New(&fakeCollector{err: errors.New("dart status 020")}, rep, notifier, nil)
	s.now = fixedNow

	result, err := s.RunDaily(context.Background())
	require.Error(t, err)
	assert.Equal(t, collector.OutcomeFailed, result.Summary.Outcome)
	assert.Zero(t, rep.calls)
	assert.Empty(t, notifier.notices)
}

func TestRunDaily_RejectsOverlap(t *testing.T) {
	col := &fakeCollector{started: make(chan struct{}), release: make(chan struct{})}
	s := New(col, &fakeReporter{}, nil, nil)
	s.now = fixedNow

	done := make(chan error)
	go func() {
		_, err := s.RunDaily(context.Background())
		done <- err
	}()
	<-col.started

	_, err := s.RunDaily(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(col.release)
	assert.NoError(t, <-done)
}

func TestStart_InvalidSpec(t *testing.T) {
	s := New(&fakeCollector{}, &fakeReporter{}, nil, nil)
	assert.Error(t, s.Start(context.Background(), "not a cron spec"))
}

func TestStartStop(t *testing.T) {
	s := New(&fakeCollector{}, &fakeReporter{}, nil, time.UTC)
	require.NoError(t, s.Start(context.Background(), ""))
	s.Stop()
}
