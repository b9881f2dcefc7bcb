package signal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

func TestReport_Notice(t *testing.T) {
	report := &Report{
		From: "20210305",
		To:   "20210305",
		Industries: []disclosure.IndustrySignals{{
			IndustryName: "반도체",
			Companies: []disclosure.CompanySignal{{
				CompanyName: "삼성전자",
				Count:       2,
				PeakAmount:  decimal.NewFromInt(-600_000_000),
				Tier:        disclosure.TierStrong,
				Direction:   disclosure.DirectionSell,
			}},
		}},
		CompanyCount: 1,
	}

	notice := report.Notice()
	assert.Equal(t, disclosure.NoticeCompleted, notice.Kind)
	assert.Equal(t, "임원 매매 시그널 20210305", notice.Title)
	assert.Equal(t, "[반도체]\n- 삼성전자(2건) sell strong -600000000원", notice.Message)
	assert.Equal(t, 1, notice.Fields["companies"])
}

func TestReport_NoticeEmpty(t *testing.T) {
	report := &Report{From: "20210301", To: "20210305", Empty: true}

	notice := report.Notice()
	assert.Equal(t, disclosure.NoticeNoData, notice.Kind)
	assert.Contains(t, notice.Message, "20210301~20210305")
}
