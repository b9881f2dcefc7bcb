package signal

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

// GroupFilings 접수번호별로 묶고 순매매 금액 계산 (첫 등장 순서 유지)
func GroupFilings(records []disclosure.SignalRecord) []disclosure.FilingGroup {
	index := make(map[string]int)
	var groups []disclosure.FilingGroup

	for _, r := range records {
		amount := decimal.NewFromInt(r.VolumeDelta).Mul(r.UnitPrice)

		i, ok := index[r.FilingID]
		if !ok {
			i = len(groups)
			index[r.FilingID] = i
			groups = append(groups, disclosure.FilingGroup{
				FilingID:  r.FilingID,
				NetAmount: decimal.Zero,
			})
		}
		groups[i].Records = append(groups[i].Records, r)
		groups[i].NetAmount = groups[i].NetAmount.Add(amount)
	}

	return groups
}

// ClassifyTier |peak| ≤ weak → weak, ≤ strong → medium, 초과 → strong
func ClassifyTier(peak decimal.Decimal, t disclosure.Thresholds) disclosure.Tier {
	abs := peak.Abs()
	switch {
	case abs.LessThanOrEqual(t.Weak):
		return disclosure.TierWeak
	case abs.LessThanOrEqual(t.Strong):
		return disclosure.TierMedium
	default:
		return disclosure.TierStrong
	}
}

// Aggregate 공시 묶음을 회사별 시그널로 집계
//
// |순매매 금액| < MinAmount 인 공시는 제외한다. 회사별 peak는 절댓값이 가장 큰
// 공시의 순매매 금액이며, 절댓값이 같으면 나중에 나온 공시가 이긴다.
// 결과는 회사가 처음 등장한 순서.
func Aggregate(records []disclosure.SignalRecord, t disclosure.Thresholds) []disclosure.CompanySignal {
	index := make(map[string]int)
	var signals []disclosure.CompanySignal

	for _, g := range GroupFilings(records) {
		if g.NetAmount.Abs().LessThan(t.MinAmount) {
			continue
		}

		head := g.Records[0]
		key := companyKey(head)

		i, ok := index[key]
		if !ok {
			index[key] = len(signals)
			signals = append(signals, disclosure.CompanySignal{
				CompanyCode:  head.CorpCode,
				CompanyName:  head.CorpName,
				StockCode:    head.StockCode,
				IndustryName: head.IndustryName,
				Market:       head.Market,
				MarketCap:    head.MarketCap,
				MarketRank:   head.MarketRank,
				Count:        1,
				PeakAmount:   g.NetAmount,
			})
			continue
		}

		s := &signals[i]
		s.Count++
		if g.NetAmount.Abs().GreaterThanOrEqual(s.PeakAmount.Abs()) {
			s.PeakAmount = g.NetAmount
		}
	}

	for i := range signals {
		signals[i].Tier = ClassifyTier(signals[i].PeakAmount, t)
		signals[i].Direction = disclosure.DirectionOf(signals[i].PeakAmount)
	}

	return signals
}

func companyKey(r disclosure.SignalRecord) string {
	if r.CorpCode != "" {
		return r.CorpCode
	}
	return r.StockCode
}

// GroupByIndustry 업종별 보기
//
// 업종 순서는 order(저장소의 표시 순서)를 따르고, order에 없는 업종은 뒤에
// 처음 등장한 순서대로 붙인다. 회사가 없는 업종은 생략한다.
// 업종 안에서는 건수 내림차순, 시가총액 내림차순, 등장 순.
func GroupByIndustry(signals []disclosure.CompanySignal, order []string) []disclosure.IndustrySignals {
	byIndustry := make(map[string][]disclosure.CompanySignal)
	var seen []string
	for _, s := range signals {
		if _, ok := byIndustry[s.IndustryName]; !ok {
			seen = append(seen, s.IndustryName)
		}
		byIndustry[s.IndustryName] = append(byIndustry[s.IndustryName], s)
	}

	names := make([]string, 0, len(seen))
	placed := make(map[string]bool, len(order))
	for _, name := range order {
		if _, ok := byIndustry[name]; ok && !placed[name] {
			names = append(names, name)
			placed[name] = true
		}
	}
	for _, name := range seen {
		if !placed[name] {
			names = append(names, name)
			placed[name] = true
		}
	}

	out := make([]disclosure.IndustrySignals, 0, len(names))
	for _, name := range names {
		companies := byIndustry[name]
		sort.SliceStable(companies, func(i, j int) bool {
			if companies[i].Count != companies[j].Count {
				return companies[i].Count > companies[j].Count
			}
			return companies[i].MarketCap > companies[j].MarketCap
		})
		out = append(out, disclosure.IndustrySignals{
			IndustryName: name,
			Companies:    companies,
		})
	}
	return out
}
