package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

var (
	ErrQueueFull = errors.New("notify queue full")
	ErrClosed    = errors.New("notifier closed")
)

// ===== LogNotifier =====

// LogNotifier 알림을 구조화 로그로 남김 (외부 채널이 없을 때 기본값)
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier 전역 로거 사용
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: log.Logger.With().Str("component", "notify").Logger()}
}

// NewLogNotifierWith 로거 지정
func NewLogNotifierWith(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify 종류별 레벨: completed=INFO, no_data=WARN, failed=ERROR
func (n *LogNotifier) Notify(ctx context.Context, notice disclosure.Notice) error {
	var event *zerolog.Event
	switch notice.Kind {
	case disclosure.NoticeFailed:
		event = n.logger.Error()
	case disclosure.NoticeNoData:
		event = n.logger.Warn()
	default:
		event = n.logger.Info()
	}

	event.
		Str("kind", string(notice.Kind)).
		Str("title", notice.Title).
		Fields(notice.Fields).
		Msg(notice.Message)

	return nil
}

// ===== AsyncNotifier =====

// AsyncNotifier 버퍼 큐 + 워커 하나로 알림을 비동기 전달
//
// Notify는 큐가 가득 차면 막히지 않고 ErrQueueFull을 반환한다.
// Close는 큐에 남은 알림을 모두 전달한 뒤 반환한다.
type AsyncNotifier struct {
	next    disclosure.Notifier
	timeout time.Duration
	queue   chan disclosure.Notice
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// DefaultQueueSize 기본 큐 크기
const DefaultQueueSize = 64

// NewAsyncNotifier 워커를 시작한다 (timeout: 알림 한 건당 전달 제한 시간)
func NewAsyncNotifier(next disclosure.Notifier, queueSize int, timeout time.Duration) *AsyncNotifier {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	n := &AsyncNotifier{
		next:    next,
		timeout: timeout,
		queue:   make(chan disclosure.Notice, queueSize),
		done:    make(chan struct{}),
	}
	go n.run()
	return n
}

// Notify 큐에 적재
func (n *AsyncNotifier) Notify(ctx context.Context, notice disclosure.Notice) error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		return ErrClosed
	}

	select {
	case n.queue <- notice:
		return nil
	default:
		log.Warn().Str("title", notice.Title).Msg("Notify queue full, dropping notice")
		return ErrQueueFull
	}
}

// Close 큐를 닫고 남은 알림 전달을 기다림 (ctx 만료 시 먼저 반환)
func (n *AsyncNotifier) Close(ctx context.Context) error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	select {
	case <-n.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *AsyncNotifier) run() {
	defer close(n.done)

	for notice := range n.queue {
		n.deliver(notice)
	}
}

func (n *AsyncNotifier) deliver(notice disclosure.Notice) {
	ctx := context.Background()
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	if err := n.next.Notify(ctx, notice); err != nil {
		log.Error().
			Err(err).
			Str("kind", string(notice.Kind)).
			Str("title", notice.Title).
			Msg("Failed to deliver notice")
	}
}

// ===== Multi =====

// Multi 여러 Notifier에 순서대로 전달 (하나가 실패해도 계속)
type Multi []disclosure.Notifier

// Notify 모든 오류를 묶어 반환
func (m Multi) Notify(ctx context.Context, notice disclosure.Notice) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
