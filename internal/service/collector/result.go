package collector

import (
	"time"

	"github.com/google/uuid"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

// Outcome 수집 실행 결과
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeNoData    Outcome = "no_data"
	OutcomeFailed    Outcome = "failed"
)

// PageOutcome 목록 페이지 한 장의 결과
type PageOutcome struct {
	Page    int
	Status  string
	Filings int
	Err     error
}

// Skipped reports whether the page's rows were dropped.
func (p PageOutcome) Skipped() bool { return p.Err != nil }

// FilingOutcome 공시 한 건의 파싱 결과
type FilingOutcome struct {
	Filing  disclosure.FilingSummary
	Records []disclosure.TradeChange
	Err     error
}

// Skipped reports whether the filing was dropped.
func (f FilingOutcome) Skipped() bool { return f.Err != nil }

// Result 수집 실행 결과
type Result struct {
	RunID      uuid.UUID
	From       time.Time
	To         time.Time
	Outcome    Outcome
	TotalPage  int
	Listed     int
	Pages      []PageOutcome
	Filings    []FilingOutcome
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r *Result) fail(err error) (*Result, error) {
	r.Outcome = OutcomeFailed
	r.Err = err
	r.FinishedAt = time.Now()
	return r, err
}

// Records 성공한 공시의 레코드 (공시 순서 유지)
func (r *Result) Records() []disclosure.TradeChange {
	var out []disclosure.TradeChange
	for _, f := range r.Filings {
		if f.Err == nil {
			out = append(out, f.Records...)
		}
	}
	return out
}

// RecordCount 성공한 공시의 레코드 수
func (r *Result) RecordCount() int {
	n := 0
	for _, f := range r.Filings {
		if f.Err == nil {
			n += len(f.Records)
		}
	}
	return n
}

// PagesSkipped 건너뛴 페이지 수
func (r *Result) PagesSkipped() int {
	n := 0
	for _, p := range r.Pages {
		if p.Skipped() {
			n++
		}
	}
	return n
}

// FilingsSkipped 건너뛴 공시 수
func (r *Result) FilingsSkipped() int {
	n := 0
	for _, f := range r.Filings {
		if f.Skipped() {
			n++
		}
	}
	return n
}
