package parser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

type fakeFetcher struct {
	t        *testing.T
	html     string
	docRef   string
	refErr   error
	viewErr  error
	refCalls int
	viewRefs []string
}

func (f *fakeFetcher) FetchDocumentRef(_ context.Context, _ string) (string, error) {
	f.refCalls++
	return f.docRef, f.refErr
}

func (f *fakeFetcher) FetchViewer(_ context.Context, _ string, documentRef string) (*goquery.Document, error) {
	f.viewRefs = append(f.viewRefs, documentRef)
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return mustDoc(f.t, f.html), nil
}

func TestParser_ParseFiling(t *testing.T) {
	html := viewerPage(`<table>` + tableHeader + `
<tr><td>장내매수</td><td>2021.03.02</td><td>보통주</td><td>0</td><td>100</td><td>100</td><td>10,000</td><td></td></tr>
<tr><td>장내매수</td><td>2021.03.03</td><td>보통주</td><td>100</td><td>50</td><td>150</td><td>11,000</td><td></td></tr>
` + tableFooter + `</table>`)

	now := time.Date(2021, 3, 5, 9, 0, 0, 0, time.UTC)
	ref := disclosure.FilingRef{
		FilingID:      "20210305000123",
		DisclosedOn:   time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC),
		StockCode:     "005930",
		ExecutiveName: "홍길동",
	}

	t.Run("resolves document ref", func(t *testing.T) {
		f := &fakeFetcher{t: t, html: html, docRef: "7890123"}
		p := New(f, WithClock(func() time.Time { return now }))

		records, err := p.ParseFiling(context.Background(), ref)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, 1, f.refCalls)
		assert.Equal(t, []string{"7890123"}, f.viewRefs)

		for _, r := range records {
			assert.Equal(t, ref.FilingID, r.FilingID)
			assert.Equal(t, ref.DisclosedOn, r.DisclosedOn)
			assert.Equal(t, "005930", r.StockCode)
			assert.Equal(t, "홍길동", r.ExecutiveName)
			assert.Equal(t, now, r.CreatedAt)
		}
		assert.Equal(t, int64(100), records[0].VolumeDelta)
		assert.Equal(t, int64(50), records[1].VolumeDelta)
	})

	t.Run("known document ref skips detail page", func(t *testing.T) {
		f := &fakeFetcher{t: t, html: html}
		withRef := ref
		withRef.DocumentRef = "555"

		_, err := New(f).ParseFiling(context.Background(), withRef)
		require.NoError(t, err)
		assert.Equal(t, 0, f.refCalls)
		assert.Equal(t, []string{"555"}, f.viewRefs)
	})

	t.Run("document ref failure", func(t *testing.T) {
		f := &fakeFetcher{t: t, html: html, refErr: disclosure.ErrDocumentRefNotFound}

		_, err := New(f).ParseFiling(context.Background(), ref)
		require.Error(t, err)
		assert.True(t, errors.Is(err, disclosure.ErrDocumentRefNotFound))
		assert.Empty(t, f.viewRefs)
	})

	t.Run("viewer failure", func(t *testing.T) {
		f := &fakeFetcher{t: t, docRef: "1", viewErr: errors.New("connection reset")}

		_, err := New(f).ParseFiling(context.Background(), ref)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("format error carries filing id", func(t *testing.T) {
		bad := viewerPage(`<table>` + tableHeader + `
<tr><td>장내매수</td><td>2021.03.02</td><td>보통주</td><td>0</td><td>100</td><td>100</td><td>10,000</td><td></td></tr>
<tr><td>장내매수</td><td>미정</td><td>보통주</td><td>100</td><td>50</td><td>150</td><td>11,000</td><td></td></tr>
` + tableFooter + `</table>`)
		f := &fakeFetcher{t: t, html: bad, docRef: "1"}

		records, err := New(f).ParseFiling(context.Background(), ref)
		require.Error(t, err)
		assert.Nil(t, records)

		var fe *disclosure.FormatError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, ref.FilingID, fe.FilingID)
		assert.True(t, disclosure.IsSkippable(err))
	})
}
