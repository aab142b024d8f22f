// Package rule はサービス内容ごとの有効な提供時間範囲を管理する。
// レセプトの点検はこのテーブルとの突き合わせで行う。
package rule

import (
	"fmt"
	"strings"
	"time"
)

// 複数のコード表記が同じ範囲に対応する総称キー
const (
	keyBasicTreatment = "基本療養費"
	keyIntractable    = "難病等複数回訪問加算(２回)"
)

// Range 提供時間の有効範囲（分、両端を含む）
type Range struct {
	Min int
	Max int
}

// String "20~29" 形式の表示用文字列
func (r Range) String() string {
	return fmt.Sprintf("%d~%d", r.Min, r.Max)
}

// Contains minutes が範囲内かどうか
func (r Range) Contains(minutes int) bool {
	return r.Min <= minutes && minutes <= r.Max
}

// Table 正規化済みサービス内容 → 有効範囲の静的テーブル
// 起動時に一度構築し、実行中は変更しない
type Table struct {
	ranges map[string]Range
}

// DefaultRanges 既定のサービス内容別有効範囲
func DefaultRanges() map[string]Range {
	return map[string]Range{
		"訪看I２":            {20, 29},
		"予防看I２":           {20, 29},
		"予訪看I２":           {20, 29},
		"予防訪看I２":          {20, 29},
		"訪看I３":            {30, 59},
		"予防看I３":           {30, 59},
		"予訪看I３":           {30, 59},
		"予防訪看I３":          {30, 59},
		"訪看I４":            {60, 89},
		"予防看I４":           {60, 89},
		"予訪看I４":           {60, 89},
		"予防訪看I４":          {60, 89},
		"訪看I５":            {21, 40},
		"予防看I５":           {21, 40},
		"予訪看I５":           {21, 40},
		"予防訪看I５":          {21, 40},
		"訪看I５・２超":         {41, 60},
		"訪看I５２超":          {41, 60},
		"予防看I５・２超":        {41, 60},
		"予訪看I５・２超":        {41, 60},
		"予防訪看I５２超":        {41, 60},
		keyBasicTreatment: {30, 90},
		"医":               {30, 90},
		keyIntractable:    {30, 90},
	}
}

// NewTable 範囲テーブルを構築する。ranges が nil なら既定値を使う
func NewTable(ranges map[string]Range) *Table {
	if ranges == nil {
		ranges = DefaultRanges()
	}
	copied := make(map[string]Range, len(ranges))
	for k, v := range ranges {
		copied[k] = v
	}
	return &Table{ranges: copied}
}

// Ranges 登録済みの範囲一覧をコピーで返す
func (t *Table) Ranges() map[string]Range {
	copied := make(map[string]Range, len(t.ranges))
	for k, v := range t.ranges {
		copied[k] = v
	}
	return copied
}

// lookupKey コード表記の揺れを総称キーに寄せる
// 基本療養費・難病等複数回訪問は請求側が複数の表記を出すため部分一致で判定する
func lookupKey(service string) string {
	if strings.Contains(service, keyBasicTreatment) {
		return keyBasicTreatment
	}
	if strings.Contains(service, "難病等複数回訪問") {
		return keyIntractable
	}
	return service
}

// ValidateDuration サービス内容に対して提供時間（分）が有効範囲内かを判定する
// 未知のコードは常に false（黙って通さない）。範囲文字列は成否によらず返す
func (t *Table) ValidateDuration(service string, minutes int) (bool, string) {
	if service == "" {
		return false, ""
	}
	r, ok := t.ranges[lookupKey(service)]
	if !ok {
		return false, ""
	}
	return r.Contains(minutes), r.String()
}

// ValidateEndTime 開始・終了時間から所要分を計算して同じテーブルで判定する
// 提供時間カラムとは独立に、終了時間そのものの妥当性を突き合わせるために使う。
// 終了が開始より前の場合は負の所要時間となり範囲外として扱う
func (t *Table) ValidateEndTime(service, startTime, endTime string) (bool, string) {
	if service == "" {
		return false, ""
	}
	r, ok := t.ranges[lookupKey(service)]
	if !ok {
		return false, ""
	}

	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return false, r.String()
	}
	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return false, r.String()
	}

	minutes := int(end.Sub(start).Minutes())
	return r.Contains(minutes), r.String()
}
