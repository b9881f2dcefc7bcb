package signal

import (
	"fmt"
	"strings"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

// Notice 리포트 요약 알림 (업종별 회사 목록, 비어 있으면 no_data)
func (r *Report) Notice() disclosure.Notice {
	period := r.From
	if r.To != r.From {
		period = r.From + "~" + r.To
	}

	notice := disclosure.Notice{
		Kind:  disclosure.NoticeCompleted,
		Title: "임원 매매 시그널 " + period,
		Fields: map[string]any{
			"from":       r.From,
			"to":         r.To,
			"companies":  r.CompanyCount,
			"industries": len(r.Industries),
		},
	}

	if r.Empty {
		notice.Kind = disclosure.NoticeNoData
		notice.Message = fmt.Sprintf("%s 기간에 기준 금액을 넘는 거래가 없습니다", period)
		return notice
	}

	var b strings.Builder
	for _, ind := range r.Industries {
		fmt.Fprintf(&b, "[%s]\n", ind.IndustryName)
		for _, c := range ind.Companies {
			fmt.Fprintf(&b, "- %s(%d건) %s %s %s원\n",
				c.CompanyName, c.Count, c.Direction, c.Tier, c.PeakAmount.StringFixed(0))
		}
	}
	notice.Message = strings.TrimRight(b.String(), "\n")
	return notice
}
