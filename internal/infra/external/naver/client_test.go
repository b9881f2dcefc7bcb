package naver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"
)

const industryListPage = `<html><body><table class="type_1">
<tr><td><a href="/sise/sise_group_detail.naver?type=upjong&no=278">반도체와반도체장비</a></td></tr>
<tr><td><a href="/sise/sise_group_detail.naver?type=upjong&no=261">제약</a></td></tr>
<tr><td><a href="/sise/sise_group_detail.naver?type=upjong&no=278">반도체와반도체장비</a></td></tr>
<tr><td><a href="/sise/sise_group.naver?type=theme">테마</a></td></tr>
</table></body></html>`

const industryDetailPage = `<html><body><table class="type_5">
<tr><td class="name"><a href="/item/main.naver?code=005930">삼성전자</a></td></tr>
<tr><td class="name"><a href="/item/main.naver?code=000660">SK하이닉스</a></td></tr>
<tr><td class="name"><a href="/item/main.naver?code=005930">삼성전자</a></td></tr>
<tr><td class="name"><a href="/item/main.naver?code=bad">이상</a></td></tr>
</table></body></html>`

func marketSumPage(rows, last string) string {
	return `<html><body><table class="type_2">
<tr><th>N</th><th>종목명</th></tr>` + rows + `</table>
<table class="Nnavi"><tr><td class="pgRR"><a href="/sise/sise_market_sum.naver?sosok=0&page=` + last + `">맨뒤</a></td></tr></table>
</body></html>`
}

const marketRow1 = `<tr><td class="no">1</td><td><a href="/item/main.naver?code=005930" class="tltle">삼성전자</a></td>
<td>70,000</td><td>0</td><td>0.00%</td><td>100</td><td>4,178,904</td><td>5,969,783</td></tr>`

const marketRow2 = `<tr><td class="no">2</td><td><a href="/item/main.naver?code=000660" class="tltle">SK하이닉스</a></td>
<td>120,000</td><td>0</td><td>0.00%</td><td>5,000</td><td>873,616</td><td>728,002</td></tr>`

// eucKR 네이버 페이지처럼 EUC-KR로 인코딩해 응답
func eucKR(t *testing.T, w http.ResponseWriter, html string) {
	t.Helper()
	encoded, err := korean.EUCKR.NewEncoder().String(html)
	require.NoError(t, err)
	w.Header().Set("Content-Type", "text/html; charset=euc-kr")
	_, _ = w.Write([]byte(encoded))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL), WithInterval(0))
}

func TestFetchIndustries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, industryListPath, r.URL.Path)
		assert.Equal(t, "upjong", r.URL.Query().Get("type"))
		eucKR(t, w, industryListPage)
	})

	industries, err := c.FetchIndustries(context.Background())
	require.NoError(t, err)
	require.Len(t, industries, 2)

	assert.Equal(t, "278", industries[0].IndustryCode)
	assert.Equal(t, "반도체와반도체장비", industries[0].IndustryName)
	assert.Equal(t, 1, industries[0].OrderID)
	assert.Equal(t, "261", industries[1].IndustryCode)
	assert.Equal(t, "제약", industries[1].IndustryName)
	assert.Equal(t, 2, industries[1].OrderID)
}

func TestFetchIndustryMembers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, industryDetailPath, r.URL.Path)
		assert.Equal(t, "278", r.URL.Query().Get("no"))
		eucKR(t, w, industryDetailPage)
	})

	codes, err := c.FetchIndustryMembers(context.Background(), "278")
	require.NoError(t, err)
	assert.Equal(t, []string{"005930", "000660"}, codes)
}

func TestFetchIndustries_BadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.FetchIndustries(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status: 503")
}

func TestFetchMarketQuotes(t *testing.T) {
	var pages []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, marketSumPath, r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("sosok"))
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		switch page {
		case "1":
			eucKR(t, w, marketSumPage(marketRow1, "2"))
		default:
			eucKR(t, w, marketSumPage(marketRow2, "2"))
		}
	})

	quotes, err := c.FetchMarketQuotes(context.Background(), "KOSPI")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, pages)
	require.Len(t, quotes, 2)

	assert.Equal(t, "005930", quotes[0].StockCode)
	assert.Equal(t, "KOSPI", quotes[0].Market)
	assert.Equal(t, 1, quotes[0].MarketRank)
	assert.Equal(t, int64(4_178_904)*marketCapUnit, quotes[0].MarketCap)
	assert.Equal(t, "000660", quotes[1].StockCode)
	assert.Equal(t, 2, quotes[1].MarketRank)
}

func TestFetchMarketQuotes_UnknownMarket(t *testing.T) {
	c := NewClient()
	_, err := c.FetchMarketQuotes(context.Background(), "NASDAQ")
	assert.Error(t, err)
}

func TestFetchIndustries_Cancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		eucKR(t, w, industryListPage)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchIndustries(ctx)
	assert.Error(t, err)
}
