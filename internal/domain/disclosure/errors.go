package disclosure

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// ErrNoData 조회 기간에 공시가 없음 (DART status 013). 실패가 아닌 정상 종료.
	ErrNoData = errors.New("no filings in range")

	// ErrFormat 셀 값을 선언된 형식으로 변환할 수 없음
	ErrFormat = errors.New("invalid cell format")

	// ErrUpstreamStatus 공시 목록 API 첫 페이지 오류
	ErrUpstreamStatus = errors.New("upstream status error")

	// ErrPartialPage 두 번째 이후 페이지 오류 (해당 페이지만 제외)
	ErrPartialPage = errors.New("partial page error")

	ErrDocumentRefNotFound = errors.New("document reference not found")
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrInvalidThresholds   = errors.New("invalid signal thresholds")
	ErrCompanyNotFound     = errors.New("company not found")
)

// FormatError 셀 정규화 실패. 해당 공시 전체 파싱을 중단시킨다.
type FormatError struct {
	FilingID string
	Row      int
	Column   string
	Kind     string
	Raw      string
	Err      error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("format error: %s %q as %s", e.Column, e.Raw, e.Kind)
	if e.FilingID != "" {
		msg = fmt.Sprintf("rcept_no %s row %d: %s", e.FilingID, e.Row, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFormat}
	}
	return []error{ErrFormat, e.Err}
}

// UpstreamStatusError 공시 목록 API가 000/013 이외의 상태를 반환
type UpstreamStatusError struct {
	Status  string
	Message string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("dart api error: %s - %s", e.Status, e.Message)
}

func (e *UpstreamStatusError) Unwrap() error { return ErrUpstreamStatus }

// PartialPageError 중간 페이지 실패 (상태 코드 또는 전송 오류)
type PartialPageError struct {
	Page   int
	Status string
	Err    error
}

func (e *PartialPageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("page %d skipped: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("page %d skipped: status %s", e.Page, e.Status)
}

func (e *PartialPageError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPartialPage}
	}
	return []error{ErrPartialPage, e.Err}
}

// IsSkippable reports whether err only drops part of a batch run.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrFormat) ||
		errors.Is(err, ErrPartialPage) ||
		errors.Is(err, ErrDocumentRefNotFound)
}
