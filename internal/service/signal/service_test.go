package signal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

type fakeTradeRepo struct {
	disclosure.TradeRepository
	records    []disclosure.SignalRecord
	history    []disclosure.TradeChange
	gotFilter  disclosure.SignalFilter
	gotLimit   int
	queryCalls int
}

func (f *fakeTradeRepo) QuerySignalRecords(_ context.Context, _, _ time.Time, filter disclosure.SignalFilter) ([]disclosure.SignalRecord, error) {
	f.queryCalls++
	f.gotFilter = filter
	return f.records, nil
}

func (f *fakeTradeRepo) QueryCompanyHistory(_ context.Context, _ string, filings int, _ disclosure.SignalFilter) ([]disclosure.TradeChange, error) {
	f.gotLimit = filings
	return f.history, nil
}

type fakeIndustryRepo struct {
	disclosure.IndustryRepository
	industries []disclosure.Industry
}

func (f *fakeIndustryRepo) ListOrdered(context.Context) ([]disclosure.Industry, error) {
	return f.industries, nil
}

type fakeCompanyRepo struct {
	disclosure.CompanyRepository
	companies map[string]*disclosure.Company
}

func (f *fakeCompanyRepo) GetByStockCode(_ context.Context, stockCode string) (*disclosure.Company, error) {
	c, ok := f.companies[stockCode]
	if !ok {
		return nil, disclosure.ErrCompanyNotFound
	}
	return c, nil
}

var (
	from = time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC)
	to   = time.Date(2021, 3, 6, 0, 0, 0, 0, time.UTC)
)

func newTestService(t *testing.T, trades *fakeTradeRepo) *Service {
	t.Helper()
	industries := &fakeIndustryRepo{industries: []disclosure.Industry{
		{IndustryCode: "278", IndustryName: "반도체와반도체장비", OrderID: 1},
		{IndustryCode: "301", IndustryName: "은행", OrderID: 2},
	}}
	companies := &fakeCompanyRepo{companies: map[string]*disclosure.Company{
		"005930": {StockCode: "005930", CorpCode: "00126380", CorpName: "삼성전자"},
	}}

	svc, err := NewService(trades, industries, companies, disclosure.DefaultThresholds(), disclosure.DefaultSignalFilter())
	require.NoError(t, err)
	return svc
}

func TestService_Report(t *testing.T) {
	trades := &fakeTradeRepo{records: []disclosure.SignalRecord{
		rec("B1", bank, 1_000, 50_000),
		rec("S1", samsung, 10_000, 80_000),
		rec("S2", samsung, 10, 1_000),
	}}
	svc := newTestService(t, trades)

	report, err := svc.Report(context.Background(), from, to)
	require.NoError(t, err)

	assert.Equal(t, "20210305", report.From)
	assert.Equal(t, "20210306", report.To)
	assert.False(t, report.Empty)
	assert.Equal(t, 2, report.CompanyCount)
	require.Len(t, report.Industries, 2)
	assert.Equal(t, "반도체와반도체장비", report.Industries[0].IndustryName)
	assert.Equal(t, 1, report.Industries[0].Companies[0].Count)
	assert.Equal(t, disclosure.TierStrong, report.Industries[0].Companies[0].Tier)
	assert.Equal(t, "은행", report.Industries[1].IndustryName)

	assert.Equal(t, []string{"01", "02"}, trades.gotFilter.ReasonCodes)
	assert.Equal(t, []string{"01"}, trades.gotFilter.SecurityTypes)
}

func TestService_Report_Empty(t *testing.T) {
	svc := newTestService(t, &fakeTradeRepo{})

	report, err := svc.Report(context.Background(), from, from)
	require.NoError(t, err)
	assert.True(t, report.Empty)
	assert.Empty(t, report.Industries)
}

func TestService_Report_InvalidRange(t *testing.T) {
	trades := &fakeTradeRepo{}
	svc := newTestService(t, trades)

	_, err := svc.Report(context.Background(), to, from)
	require.Error(t, err)
	assert.True(t, errors.Is(err, disclosure.ErrInvalidDateRange))
	assert.Equal(t, 0, trades.queryCalls)
}

func TestNewService_InvalidThresholds(t *testing.T) {
	th := disclosure.DefaultThresholds()
	th.Weak = decimal.NewFromInt(900_000_000)

	_, err := NewService(&fakeTradeRepo{}, &fakeIndustryRepo{}, &fakeCompanyRepo{}, th, disclosure.DefaultSignalFilter())
	require.Error(t, err)
	assert.True(t, errors.Is(err, disclosure.ErrInvalidThresholds))
}

func TestService_CompanyHistory(t *testing.T) {
	day := time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC)
	trades := &fakeTradeRepo{history: []disclosure.TradeChange{
		{FilingID: "2", DisclosedOn: day, VolumeDelta: 100, UnitPrice: decimal.NewFromInt(1_000)},
		{FilingID: "2", DisclosedOn: day, VolumeDelta: -20, UnitPrice: decimal.NewFromInt(1_000)},
		{FilingID: "1", DisclosedOn: day.AddDate(0, 0, -1), VolumeDelta: 5, UnitPrice: decimal.NewFromInt(2_000)},
	}}
	svc := newTestService(t, trades)

	t.Run("groups by filing", func(t *testing.T) {
		history, err := svc.CompanyHistory(context.Background(), "005930", 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultHistoryLimit, trades.gotLimit)
		assert.Equal(t, "삼성전자", history.Company.CorpName)

		require.Len(t, history.Filings, 2)
		assert.Equal(t, "2", history.Filings[0].FilingID)
		assert.Len(t, history.Filings[0].Changes, 2)
		assert.True(t, decimal.NewFromInt(80_000).Equal(history.Filings[0].NetAmount))
		assert.Contains(t, history.Filings[0].URL, "rcpNo=2")
		assert.Equal(t, "1", history.Filings[1].FilingID)
	})

	t.Run("unknown company", func(t *testing.T) {
		_, err := svc.CompanyHistory(context.Background(), "999999", 3)
		assert.True(t, errors.Is(err, disclosure.ErrCompanyNotFound))
	})
}
