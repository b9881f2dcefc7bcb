package disclosure

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReasonCodes_RoundTrip(t *testing.T) {
	for _, label := range ReasonLabels() {
		code := LookupReason(label)
		require.True(t, code.IsKnown(), label)

		back, ok := ReasonLabel(code.Value())
		require.True(t, ok, label)
		assert.Equal(t, label, back)
	}
}

func TestSecurityTypeCodes_RoundTrip(t *testing.T) {
	for _, label := range SecurityTypeLabels() {
		code := LookupSecurityType(label)
		require.True(t, code.IsKnown(), label)

		back, ok := SecurityTypeLabel(code.Value())
		require.True(t, ok, label)
		assert.Equal(t, label, back)
	}
}

func TestLookup_PassThroughOnMiss(t *testing.T) {
	code := LookupReason("수시취득")
	assert.False(t, code.IsKnown())
	assert.Equal(t, "수시취득", code.Value())
	assert.Equal(t, "수시취득", DisplayReason(code))

	st := LookupSecurityType("신종증권")
	assert.False(t, st.IsKnown())
	assert.Equal(t, "신종증권", DisplaySecurityType(st))
}

func TestParseStoredCodes(t *testing.T) {
	assert.Equal(t, KnownCode(ReasonOnMarketBuy), ParseReasonCode("01"))
	assert.Equal(t, RawLabel("수시취득"), ParseReasonCode("수시취득"))
	assert.Equal(t, "장내매도", DisplayReason(ParseReasonCode("02")))
	assert.Equal(t, "보통주", DisplaySecurityType(ParseSecurityTypeCode("01")))
	assert.Equal(t, KnownCode(OtherCode), LookupReason("기타"))
}

func TestCode_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Reason Code `json:"reason_code"`
		Type   Code `json:"stock_type"`
	}{KnownCode("01"), RawLabel("신종증권")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"reason_code":"01","stock_type":"신종증권"}`, string(b))
}

func TestTradeChange_Amount(t *testing.T) {
	tc := TradeChange{VolumeDelta: -30, UnitPrice: decimal.NewFromInt(1000)}
	assert.True(t, decimal.NewFromInt(-30_000).Equal(tc.Amount()))
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())

	th := DefaultThresholds()
	th.MinAmount = decimal.NewFromInt(-1)
	assert.True(t, errors.Is(th.Validate(), ErrInvalidThresholds))

	th = DefaultThresholds()
	th.Strong = decimal.NewFromInt(1)
	assert.True(t, errors.Is(th.Validate(), ErrInvalidThresholds))
}

func TestTier_MarshalText(t *testing.T) {
	b, err := json.Marshal(map[string]Tier{"tier": TierMedium})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tier":"medium"}`, string(b))
}

func TestFilingSummary_Ref(t *testing.T) {
	s := FilingSummary{FilingID: "20210305000123", FiledOn: "20210305", StockCode: "005930", ReporterName: "홍길동"}
	ref, err := s.Ref()
	require.NoError(t, err)
	assert.Equal(t, "홍길동", ref.ExecutiveName)
	assert.Equal(t, 2021, ref.DisclosedOn.Year())

	s.FiledOn = "2021"
	_, err = s.Ref()
	assert.Error(t, err)
}

func TestIsSkippable(t *testing.T) {
	assert.True(t, IsSkippable(&FormatError{Raw: "x"}))
	assert.True(t, IsSkippable(&PartialPageError{Page: 2, Status: "800"}))
	assert.False(t, IsSkippable(&UpstreamStatusError{Status: "010"}))
	assert.True(t, errors.Is(&UpstreamStatusError{Status: "010"}, ErrUpstreamStatus))
}

func TestPreviousDay_KST(t *testing.T) {
	// 2021-03-05 16:00 UTC == 2021-03-06 01:00 KST
	now := time.Date(2021, 3, 5, 16, 0, 0, 0, time.UTC)
	assert.Equal(t, "20210305", PreviousDay(now).Format(DateLayout))

	now = time.Date(2021, 3, 5, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "20210304", PreviousDay(now).Format(DateLayout))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("20210305")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, d.Location())

	_, err = ParseDate("2021-03-05")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
