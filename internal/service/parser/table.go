package parser

import (
	"errors"

	"github.com/PuerkitoBio/goquery"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

// TargetHeader 변동 내역 표를 식별하는 첫 번째 헤더 라벨
const TargetHeader = "보고사유"

// minCells 비고(remark)를 제외한 필수 셀 수
const minCells = 7

// 헤더 2행, 합계 1행
const (
	headerRows = 2
	footerRows = 1
)

type column struct {
	name string
	kind Kind
}

// 변동 내역 표의 열 순서 (위치 기반)
var columns = []column{
	{"reason_code", KindText},
	{"traded_on", KindDate},
	{"stock_type", KindText},
	{"before_volume", KindVolume},
	{"delta_volume", KindVolume},
	{"after_volume", KindVolume},
	{"unit_price", KindPrice},
	{"remark", KindText},
}

// FindTargetTable 첫 번째 th가 "보고사유"인 첫 표
func FindTargetTable(doc *goquery.Document) *goquery.Selection {
	var target *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		th := table.Find("th").First()
		if th.Length() == 0 {
			return true
		}
		if NormalizeText(th.Text()) == TargetHeader {
			target = table
			return false
		}
		return true
	})
	return target
}

// ParseTable 뷰어 문서에서 변동 내역 행을 추출
//
// 반환된 레코드에는 행 데이터만 채워진다. 공시 메타데이터(접수번호 등)는
// 호출자가 채운다. 표가 없거나 데이터 행이 없으면 빈 결과.
func ParseTable(doc *goquery.Document) ([]disclosure.TradeChange, error) {
	table := FindTargetTable(doc)
	if table == nil {
		return nil, nil
	}

	rows := table.Find("tr")
	if rows.Length() < headerRows+footerRows+1 {
		return nil, nil
	}

	dataRows := rows.Slice(headerRows, rows.Length()-footerRows)
	records := make([]disclosure.TradeChange, 0, dataRows.Length())

	var parseErr error
	dataRows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		record, err := parseRow(row, i)
		if err != nil {
			parseErr = err
			return false
		}
		records = append(records, record)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return records, nil
}

func parseRow(row *goquery.Selection, index int) (disclosure.TradeChange, error) {
	cells := row.ChildrenFiltered("td")
	if cells.Length() < minCells {
		return disclosure.TradeChange{}, &disclosure.FormatError{
			Row:    index,
			Column: columns[cells.Length()].name,
			Kind:   "row",
			Raw:    row.Text(),
			Err:    errors.New("missing cells"),
		}
	}

	text := func(i int) string {
		if i >= cells.Length() {
			return ""
		}
		return cells.Eq(i).Text()
	}

	tradedOn, err := NormalizeDate(text(1))
	if err != nil {
		var fe *disclosure.FormatError
		if errors.As(err, &fe) {
			fe.Row = index
			fe.Column = columns[1].name
		}
		return disclosure.TradeChange{}, err
	}

	return disclosure.TradeChange{
		Reason:       disclosure.LookupReason(NormalizeText(text(0))),
		TradedOn:     tradedOn,
		SecurityType: disclosure.LookupSecurityType(NormalizeText(text(2))),
		VolumeBefore: NormalizeVolume(text(3)),
		VolumeDelta:  NormalizeVolume(text(4)),
		VolumeAfter:  NormalizeVolume(text(5)),
		UnitPrice:    NormalizePrice(text(6)),
		Remark:       NormalizeText(text(7)),
	}, nil
}
