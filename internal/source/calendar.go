package source

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Fukuemon/receipt-checker/internal/model"
)

// CalendarClient Google カレンダー（GAS エンドポイント）から
// 訪問イベントの CSV を取得するクライアント
type CalendarClient struct {
	apiURL string
	client *http.Client
}

// NewCalendarClient クライアントを生成する
func NewCalendarClient(apiURL string, timeout time.Duration) *CalendarClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CalendarClient{
		apiURL: apiURL,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch カレンダー ID 群を指定して訪問イベントを取得する
// ids が空の場合は全カレンダー対象としてサーバ側の既定に任せる。
// 取得失敗（非 2xx・通信エラー）は ErrSourceUnavailable として返す
func (c *CalendarClient) Fetch(ctx context.Context, ids []string) ([]model.RawVisit, error) {
	reqURL := c.apiURL
	if len(ids) > 0 {
		query := url.Values{}
		query.Set("calendarIds", strings.Join(ids, ","))
		reqURL = c.apiURL + "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, model.SourceUnavailablef("リクエストの作成に失敗しました: %v", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, model.SourceUnavailablef("カレンダーデータの取得に失敗しました。時間をおいて再実行してください: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, model.SourceUnavailablef("カレンダーデータの取得に失敗しました（ステータスコード %d）。時間をおいて再実行してください", resp.StatusCode)
	}

	visits, err := parseCalendarCSV(resp.Body)
	if err != nil {
		return nil, err
	}
	return visits, nil
}

// parseCalendarCSV カレンダー CSV を生レコードに読み込む
func parseCalendarCSV(r io.Reader) ([]model.RawVisit, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, model.InvalidInputf("カレンダーデータが空か、CSV として読み込めません: %v", err)
	}

	index := headerIndex(header)
	if missing := missingColumns(index, requiredColumns); len(missing) > 0 {
		return nil, model.InvalidInputf("カレンダーデータに必要なカラムがありません: %s", strings.Join(missing, ", "))
	}

	var visits []model.RawVisit
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, model.InvalidInputf("カレンダーデータの %d 行目が読み込めません: %v", line, err)
		}
		visits = append(visits, model.RawVisit{
			VisitDate:      cell(row, index, colVisitDate),
			PatientName:    cell(row, index, colPatientName),
			PrimaryVisitor: cell(row, index, colPrimaryVisitor),
			ServiceCode:    cell(row, index, colServiceCode),
			StartTime:      cell(row, index, colStartTime),
			EndTime:        cell(row, index, colEndTime),
			ProvidedMin:    cell(row, index, colProvidedMin),
		})
	}

	return visits, nil
}
