// Package alert は不整合データを主訪問者ごとの Chatwork ルームに通知する。
package alert

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Fukuemon/receipt-checker/internal/model"
	"github.com/Fukuemon/receipt-checker/internal/normalize"
)

// Dispatcher Chatwork へのアラート送信
type Dispatcher struct {
	baseURL string
	token   string
	owners  map[string]int // 正規化済み主訪問者名 → ルーム ID
	client  *http.Client
	log     *logrus.Logger
}

// NewDispatcher ディスパッチャを生成する
// owners のキーは設定ファイルの表記のまま渡してよい（内部で空白を正規化する）
func NewDispatcher(baseURL, token string, owners map[string]int, logger *logrus.Logger) *Dispatcher {
	normalized := make(map[string]int, len(owners))
	for name, roomID := range owners {
		normalized[normalize.Name(name)] = roomID
	}
	return &Dispatcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		owners:  normalized,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     logger,
	}
}

// SendAlerts 不整合データを担当者別に送信し、送信できた件数を返す
// ルーム ID が登録されていない主訪問者の行はエラーにせず読み飛ばす。
// 個別の送信失敗もログに残すだけで処理は続行する
func (d *Dispatcher) SendAlerts(ctx context.Context, rows []model.ReportRow) int {
	sent := 0
	for _, row := range rows {
		if row.Partition != model.PartitionMismatched {
			continue
		}
		roomID, ok := d.owners[row.PrimaryVisitor]
		if !ok {
			continue
		}
		if err := d.sendMessage(ctx, roomID, buildMessage(row)); err != nil {
			d.log.WithFields(logrus.Fields{
				"room_id": roomID,
				"visitor": row.PrimaryVisitor,
				"patient": row.PatientName,
				"error":   err.Error(),
			}).Error("Chatwork への通知に失敗しました")
			continue
		}
		sent++
	}
	return sent
}

// sendMessage ルームにメッセージを 1 件投稿する
func (d *Dispatcher) sendMessage(ctx context.Context, roomID int, message string) error {
	form := url.Values{}
	form.Set("self_unread", "0")
	form.Set("body", message)

	endpoint := fmt.Sprintf("%s/rooms/%d/messages", d.baseURL, roomID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/x-www-form-urlencoded")
	req.Header.Set("x-chatworktoken", d.token)

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status code %d", resp.StatusCode)
	}
	return nil
}

// buildMessage 不整合 1 行分の通知本文を組み立てる
func buildMessage(row model.ReportRow) string {
	return fmt.Sprintf(
		"以下のカレンダーとレセプトの内容が一致しませんでした.\n"+
			"訪問日: %s\n"+
			"利用者名: %s\n"+
			"サービス内容: %s\n"+
			"時間情報:\n"+
			"  - カレンダー時間:\n"+
			"    - 開始時間: %s\n"+
			"    - 終了時間: %s\n"+
			"    - 提供時間: %s分\n"+
			"  - Ibow時間:\n"+
			"    - 開始時間: %s\n"+
			"    - 終了時間: %s\n"+
			"    - 提供時間: %s分",
		row.VisitDate,
		row.PatientName,
		row.ServiceCalendar,
		row.StartCalendar,
		row.EndCalendar,
		row.MinutesCalendar,
		row.StartIbow,
		row.EndIbow,
		row.MinutesIbow,
	)
}
