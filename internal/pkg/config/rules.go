package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Rules 시그널 규칙 파일 (SIGNAL_RULES_FILE)
//
//	thresholds:
//	  min_amount: 10000000
//	  weak: 100000000
//	  strong: 500000000
//	filings:
//	  report_name: 임원ㆍ주요주주특정증권등소유상황보고서
//	  markets: [Y, K]
//	signal:
//	  reason_codes: ["01", "02"]
//	  security_types: ["01"]
//
// 비어 있는 항목은 환경 변수 값을 유지한다.
type Rules struct {
	Thresholds struct {
		MinAmount string `yaml:"min_amount"`
		Weak      string `yaml:"weak"`
		Strong    string `yaml:"strong"`
	} `yaml:"thresholds"`

	Filings struct {
		ReportName string   `yaml:"report_name"`
		Markets    []string `yaml:"markets"`
	} `yaml:"filings"`

	Signal struct {
		ReasonCodes   []string `yaml:"reason_codes"`
		SecurityTypes []string `yaml:"security_types"`
	} `yaml:"signal"`

	minAmount, weak, strong *decimal.Decimal
}

// LoadRules 규칙 파일 로드
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules YAML 규칙 파싱
func ParseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}

	var err error
	if rules.minAmount, err = parseAmount("min_amount", rules.Thresholds.MinAmount); err != nil {
		return nil, err
	}
	if rules.weak, err = parseAmount("weak", rules.Thresholds.Weak); err != nil {
		return nil, err
	}
	if rules.strong, err = parseAmount("strong", rules.Thresholds.Strong); err != nil {
		return nil, err
	}
	return &rules, nil
}

func parseAmount(name, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("rules thresholds.%s %q: %w", name, raw, err)
	}
	return &d, nil
}

// Apply 규칙을 시그널 설정에 덮어씀
func (r *Rules) Apply(cfg *SignalConfig) {
	if r.minAmount != nil {
		cfg.MinAmount = *r.minAmount
	}
	if r.weak != nil {
		cfg.WeakAmount = *r.weak
	}
	if r.strong != nil {
		cfg.StrongAmount = *r.strong
	}
	if r.Filings.ReportName != "" {
		cfg.ReportName = r.Filings.ReportName
	}
	if len(r.Filings.Markets) > 0 {
		cfg.Markets = r.Filings.Markets
	}
	if len(r.Signal.ReasonCodes) > 0 {
		cfg.ReasonCodes = r.Signal.ReasonCodes
	}
	if len(r.Signal.SecurityTypes) > 0 {
		cfg.SecurityTypes = r.Signal.SecurityTypes
	}
}
