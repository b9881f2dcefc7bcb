package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

// Kind 셀 값의 선언된 형식
type Kind int

const (
	KindText Kind = iota
	KindDate
	KindVolume
	KindPrice
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindVolume:
		return "volume"
	case KindPrice:
		return "price"
	default:
		return "unknown"
	}
}

// NormalizeText 한글 음절(가-힣)만 남긴다. 공백, 괄호, 숫자 등은 모두 제거.
func NormalizeText(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '가' && r <= '힣' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeDate 숫자만 남긴 뒤 YYYYMMDD로 해석
func NormalizeDate(raw string) (time.Time, error) {
	digits := keepDigits(raw)
	t, err := time.Parse(disclosure.DateLayout, digits)
	if err != nil || len(digits) != len(disclosure.DateLayout) {
		if err == nil {
			err = fmt.Errorf("expected %d digits, got %d", len(disclosure.DateLayout), len(digits))
		}
		return time.Time{}, &disclosure.FormatError{
			Kind: KindDate.String(),
			Raw:  raw,
			Err:  err,
		}
	}
	return t, nil
}

// NormalizeVolume 숫자와 선행 부호만 남긴다. "-" 또는 숫자 없음은 0.
//
// "(-)1,000" 처럼 숫자 앞에 붙은 '-'만 부호로 인정한다.
func NormalizeVolume(raw string) int64 {
	var (
		value    int64
		negative bool
		seen     bool
	)
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			seen = true
			value = value*10 + int64(r-'0')
		case r == '-' && !seen:
			negative = true
		}
	}
	if !seen {
		return 0
	}
	if negative {
		return -value
	}
	return value
}

// NormalizePrice 단가 문자열을 십진수로 변환
//
// 점이 여러 개면 마지막 점만 소수점으로 보고 나머지는 천 단위 구분자로 취급한다.
// ("1.234.5" → 1234.5). "-" 또는 숫자 없음은 0.
func NormalizePrice(raw string) decimal.Decimal {
	text := strings.TrimSpace(raw)
	if text == "-" {
		return decimal.Zero
	}

	if n := strings.Count(text, "."); n > 1 {
		text = strings.Replace(text, ".", "", n-1)
	}

	var b strings.Builder
	hasDigit := false
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
			b.WriteRune(r)
		case r == '.':
			b.WriteRune(r)
		}
	}
	if !hasDigit {
		return decimal.Zero
	}

	cleaned := b.String()
	if strings.HasPrefix(cleaned, ".") {
		cleaned = "0" + cleaned
	}
	cleaned = strings.TrimSuffix(cleaned, ".")

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func keepDigits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
