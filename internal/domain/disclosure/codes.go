package disclosure

import "encoding/json"

// Code 코드 테이블 조회 결과
//
// 테이블에 있는 라벨은 2자리 코드(KnownCode)가 되고, 없는 라벨은
// 정규화된 라벨 그대로(RawLabel) 남는다. 저장 형태는 둘 다 Value().
type Code struct {
	value string
	known bool
}

// KnownCode 코드 테이블에 존재하는 코드
func KnownCode(code string) Code {
	return Code{value: code, known: true}
}

// RawLabel 코드 테이블에 없는 라벨
func RawLabel(label string) Code {
	return Code{value: label}
}

// IsKnown reports whether the code came from a code table.
func (c Code) IsKnown() bool { return c.known }

// Value 저장용 문자열 (코드 또는 원본 라벨)
func (c Code) Value() string { return c.value }

func (c Code) String() string { return c.value }

// MarshalJSON encodes the code as its storage string.
func (c Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.value)
}

// OtherCode 기타
const OtherCode = "99"

// 보고사유 코드
var reasonCodes = map[string]string{
	"장내매수":             "01",
	"장내매도":             "02",
	"장외매도":             "03",
	"장외매수":             "04",
	"신규상장":             "05",
	"신규선임":             "06",
	"신규보고":             "07",
	"합병":               "08",
	"인수":               "09",
	"증여":               "10",
	"무상신주취득":           "11",
	"유상신주취득":           "12",
	"주식매수선택권":          "13",
	"풋옵션권리행사에따른주식처분":   "14",
	"CB인수":             "15",
	"시간외매매":            "16",
	"전환등":              "17",
	"전환사채의권리행사":        "18",
	"수증":               "19",
	"행사가액조정":           "20",
	"공개매수":             "21",
	"공개매수청약":           "22",
	"교환":               "23",
	"임원퇴임":             "24",
	"신규주요주주":           "25",
	"자사주상여금":           "26",
	"계약기간만료":           "27",
	"대물변제":             "28",
	"대여":               "29",
	"상속":               "30",
	"수증취소":             "31",
	"신고대량매매":           "32",
	"신규등록":             "33",
	"신주인수권사채의권리행사":     "34",
	"실권주인수":            "35",
	"실명전환":             "36",
	"자본감소":             "37",
	"전환권등소멸":           "38",
	"제자배정유상증자":         "39",
	"주식매수청구권행사":        "40",
	"주식병합":             "41",
	"주식분할":             "42",
	"차입":               "43",
	"콜옵션권리행사배정에따른주식처분": "44",
	"콜옵션권리행사에따른주식취득":   "45",
	"피상속":              "46",
	"회사분할":             "47",
	"계약중도해지":           "48",
	"계열사편입":            "49",
	"교환사채의권리행사":        "50",
	"담보주식처분권보유":        "51",
	"대물변제수령":           "52",
	"매출":               "53",
	"상속포기":             "54",
	"신주인수권증권의권리행사":     "55",
	"우선주무배당":           "56",
	"우선주배당":            "57",
	"주식배당":             "58",
	"주식소각":             "59",
	"증여취소":             "60",
	"출자전환":             "61",
	"특별관계해소":           "62",
	"풋옵션권리행사배정에따른주식취득": "63",
	"기타":               OtherCode,
}

// 주식등의 종류 코드
var securityTypeCodes = map[string]string{
	"보통주":        "01",
	"우선주":        "02",
	"전환사채권":      "03",
	"신주인수권이표시된것": "04",
	"신주인수권부사채권":  "05",
	"증권예탁증권":     "06",
	"교환사채권":      "07",
	"기타":         OtherCode,
}

var (
	reasonLabels       = invert(reasonCodes)
	securityTypeLabels = invert(securityTypeCodes)
)

// 자주 쓰는 코드
const (
	ReasonOnMarketBuy  = "01" // 장내매수
	ReasonOnMarketSell = "02" // 장내매도
	SecurityCommon     = "01" // 보통주
	SecurityPreferred  = "02" // 우선주
)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for label, code := range m {
		out[code] = label
	}
	return out
}

// LookupReason 보고사유 라벨 → 코드 (없으면 라벨 그대로)
func LookupReason(label string) Code {
	if code, ok := reasonCodes[label]; ok {
		return KnownCode(code)
	}
	return RawLabel(label)
}

// LookupSecurityType 주식등의 종류 라벨 → 코드 (없으면 라벨 그대로)
func LookupSecurityType(label string) Code {
	if code, ok := securityTypeCodes[label]; ok {
		return KnownCode(code)
	}
	return RawLabel(label)
}

// ReasonLabel 보고사유 코드 → 라벨
func ReasonLabel(code string) (string, bool) {
	label, ok := reasonLabels[code]
	return label, ok
}

// SecurityTypeLabel 주식등의 종류 코드 → 라벨
func SecurityTypeLabel(code string) (string, bool) {
	label, ok := securityTypeLabels[code]
	return label, ok
}

// ParseReasonCode 저장된 문자열을 Code로 복원
func ParseReasonCode(stored string) Code {
	if _, ok := reasonLabels[stored]; ok {
		return KnownCode(stored)
	}
	return RawLabel(stored)
}

// ParseSecurityTypeCode 저장된 문자열을 Code로 복원
func ParseSecurityTypeCode(stored string) Code {
	if _, ok := securityTypeLabels[stored]; ok {
		return KnownCode(stored)
	}
	return RawLabel(stored)
}

// DisplayReason 표시용 보고사유 라벨
func DisplayReason(c Code) string {
	if c.IsKnown() {
		if label, ok := ReasonLabel(c.Value()); ok {
			return label
		}
	}
	return c.Value()
}

// DisplaySecurityType 표시용 주식등의 종류 라벨
func DisplaySecurityType(c Code) string {
	if c.IsKnown() {
		if label, ok := SecurityTypeLabel(c.Value()); ok {
			return label
		}
	}
	return c.Value()
}

// ReasonLabels returns every label in the reason table.
func ReasonLabels() []string {
	return keys(reasonCodes)
}

// SecurityTypeLabels returns every label in the security type table.
func SecurityTypeLabels() []string {
	return keys(securityTypeCodes)
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
