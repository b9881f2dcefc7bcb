package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/seoyeonhwng/snoop/internal/domain/disclosure"
)

// maxCorpCodeSize corpCode.xml zip 최대 크기
const maxCorpCodeSize = 64 << 20

// CorpCodeDTO 기업코드 DTO (corpCode.xml의 list 요소)
type CorpCodeDTO struct {
	CorpCode   string `xml:"corp_code"`   // 고유번호
	CorpName   string `xml:"corp_name"`   // 회사명
	StockCode  string `xml:"stock_code"`  // 종목코드 (비상장사는 공백)
	ModifyDate string `xml:"modify_date"` // 최종변경일
}

type corpCodeResult struct {
	List []CorpCodeDTO `xml:"list"`
}

// FetchCorpCodes 상장사 고유번호 목록 조회 (corpCode.xml zip)
//
// 종목코드가 없는 회사(비상장)는 제외한다.
func (c *Client) FetchCorpCodes(ctx context.Context) ([]disclosure.Company, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("crtfc_key", c.apiKey)
	reqURL := fmt.Sprintf("%s/corpCode.xml?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCorpCodeSize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	companies, err := ParseCorpCodeArchive(body, time.Now())
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("companies", len(companies)).
		Msg("Fetched corp codes from DART")

	return companies, nil
}

// ParseCorpCodeArchive zip 안의 XML 파일들에서 상장사만 추출
func ParseCorpCodeArchive(archive []byte, updatedAt time.Time) ([]disclosure.Company, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		// 키 오류 등은 zip 대신 XML 상태 응답이 온다
		return nil, fmt.Errorf("open corp code archive: %w", err)
	}

	var companies []disclosure.Company
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}

		var result corpCodeResult
		err = xml.NewDecoder(rc).Decode(&result)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.Name, err)
		}

		for _, dto := range result.List {
			stockCode := strings.TrimSpace(dto.StockCode)
			if stockCode == "" {
				continue
			}
			companies = append(companies, disclosure.Company{
				StockCode: stockCode,
				CorpCode:  strings.TrimSpace(dto.CorpCode),
				CorpName:  strings.TrimSpace(dto.CorpName),
				UpdatedAt: updatedAt,
			})
		}
	}

	return companies, nil
}
