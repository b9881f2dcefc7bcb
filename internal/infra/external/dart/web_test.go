package dart

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

const mainPage = `<html><body>
<div class="view_search">
  <ul>
    <li><a href="#download" onclick="openPdfDownload('20210305000123', '7890123');return false;">첨부</a></li>
    <li><a href="#download" onclick="openPdfDownload('20210305000123', '7890124');">첨부2</a></li>
  </ul>
</div>
</body></html>`

func TestParseDocumentRef(t *testing.T) {
	tests := []struct {
		onclick string
		want    string
	}{
		{"openPdfDownload('20210305000123', '7890123');", "7890123"},
		{"openPdfDownload('20210305000123', '7890123');return false;", "7890123"},
		{"openPdfDownload('20210305000123',", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.onclick, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDocumentRef(tt.onclick))
		})
	}
}

func TestWebClient_FetchDocumentRef(t *testing.T) {
	t.Run("first link", func(t *testing.T) {
		page := `<div class="view_search"><ul><li><a onclick="openPdfDownload('20210305000123', '7890123');">첨부</a></li>` +
			`<li><a onclick="openPdfDownload('20210305000123', '7890124');">첨부2</a></li></ul></div>`

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, mainPath, r.URL.Path)
			assert.Equal(t, "20210305000123", r.URL.Query().Get("rcpNo"))
			_, _ = w.Write([]byte(page))
		}))
		defer srv.Close()

		c := NewWebClient(WithWebBaseURL(srv.URL), WithViewerInterval(0))
		ref, err := c.FetchDocumentRef(context.Background(), "20210305000123")
		require.NoError(t, err)
		assert.Equal(t, "7890123", ref)
	})

	t.Run("missing view_search", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html><body><p>없음</p></body></html>`))
		}))
		defer srv.Close()

		c := NewWebClient(WithWebBaseURL(srv.URL), WithViewerInterval(0))
		_, err := c.FetchDocumentRef(context.Background(), "20210305000123")
		require.Error(t, err)
		assert.True(t, errors.Is(err, disclosure.ErrDocumentRefNotFound))
	})

	t.Run("page fixture", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(mainPage))
		}))
		defer srv.Close()

		c := NewWebClient(WithWebBaseURL(srv.URL), WithViewerInterval(0))
		ref, err := c.FetchDocumentRef(context.Background(), "20210305000123")
		require.NoError(t, err)
		assert.Equal(t, "7890123", ref)
	})
}

func TestWebClient_FetchViewer(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, viewerPath, r.URL.Path)
		got = r.URL.Query()
		_, _ = w.Write([]byte(`<html><body><table><tr><th>보고사유</th></tr></table></body></html>`))
	}))
	defer srv.Close()

	c := NewWebClient(WithWebBaseURL(srv.URL), WithViewerInterval(0))
	doc, err := c.FetchViewer(context.Background(), "20210305000123", "7890123")
	require.NoError(t, err)

	assert.Equal(t, "20210305000123", got.Get("rcpNo"))
	assert.Equal(t, "7890123", got.Get("dcmNo"))
	assert.Equal(t, "dart3.xsd", got.Get("dtd"))
	assert.Equal(t, 1, doc.Find("table").Length())
}

func TestWebClient_FetchViewer_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewWebClient(WithWebBaseURL(srv.URL), WithViewerInterval(0))
	_, err := c.FetchViewer(context.Background(), "1", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestWebClient_CanceledContext(t *testing.T) {
	c := NewWebClient(WithWebBaseURL("http://127.0.0.1:0"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchViewer(ctx, "1", "2")
	assert.Error(t, err)
}

func TestFilingURL(t *testing.T) {
	assert.Equal(t, "https://dart.fss.or.kr/dsaf001/main.do?rcpNo=20210305000123", FilingURL("20210305000123"))
}
