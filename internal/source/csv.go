// Package source はカレンダー・Ibow 両ソースからの生データ取り込みを担当する。
// ここでは読み込みとカラム検証のみを行い、値の正規化は normalize に任せる。
package source

import (
	"strings"
)

// カラム名の定数。両ソースとも日本語ヘッダで届く
const (
	colVisitDate      = "訪問日"
	colPatientName    = "利用者名"
	colStartTime      = "開始時間"
	colEndTime        = "終了時間"
	colProvidedMin    = "提供時間"
	colServiceCode    = "サービス内容"
	colPrimaryVisitor = "主訪問者"
)

// surchargeColumns Ibow の加算スロット（①〜⑤）
var surchargeColumns = []string{"加算①", "加算②", "加算③", "加算④", "加算⑤"}

// requiredColumns 両ソース共通の必須カラム
var requiredColumns = []string{
	colVisitDate,
	colPatientName,
	colStartTime,
	colEndTime,
	colProvidedMin,
	colServiceCode,
	colPrimaryVisitor,
}

// headerIndex ヘッダ行からカラム名 → 位置の索引を作る
// BOM や前後空白が混ざっても拾えるように軽く掃除する
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
		if name == "" {
			continue
		}
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	return index
}

// missingColumns 必須カラムのうち索引に存在しないものを返す
func missingColumns(index map[string]int, required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// cell 行から指定カラムの値を取り出す。行が短い場合は空文字
func cell(row []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
