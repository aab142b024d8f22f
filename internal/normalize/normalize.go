// Package normalize はカレンダー・Ibow 両ソースの生レコードを
// 比較可能な正規形に揃える。純粋関数のみで I/O を持たない。
package normalize

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/Fukuemon/receipt-checker/internal/model"
)

// JST 訪問日の暦日を求める際のタイムゾーン
// ソースの時刻はすべて日本のローカル時刻である前提
var JST = time.FixedZone("Asia/Tokyo", 9*60*60)

// ローマ数字 Ⅰ・全角１・半角1 を半角 I に統一する
var serviceOneRe = regexp.MustCompile(`[Ⅰ１1Ｉ]`)

// 受け付ける日付フォーマット
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006年1月2日",
}

// Time 時刻文字列を "HH:MM" のゼロ埋め形式に統一する
// "9:00" と "09:00" は同じ値になる
func Time(s string) (string, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("15:04", s)
	if err != nil {
		t, err = time.Parse("3:04", s)
	}
	if err != nil {
		return "", fmt.Errorf("時刻 %q を HH:MM として解釈できません", s)
	}
	return t.Format("15:04"), nil
}

// Date 日付文字列を Asia/Tokyo の暦日に変換する
// 時刻成分は切り捨てて日付粒度に揃える
func Date(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, JST)
		if err != nil {
			continue
		}
		y, m, d := t.In(JST).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, JST), nil
	}
	return time.Time{}, fmt.Errorf("日付 %q を解釈できません", s)
}

// Name 氏名カラムの正規化
// 全角スペースを半角に直した上で、すべての空白を除去する。
// ソースによって姓名間の空白有無が揺れるため、結合キーには空白なしの形を使う
func Name(s string) string {
	s = strings.ReplaceAll(s, "　", " ")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Service サービス内容の正規化
// 表記揺れ（Ⅰ/１/1、半角ドット、半角数字）を 1 つの正規形に寄せる
func Service(s string) string {
	s = strings.ReplaceAll(s, "　", " ")
	s = strings.TrimSpace(s)
	s = serviceOneRe.ReplaceAllString(s, "I")
	s = strings.ReplaceAll(s, "･", "・")
	s = toFullwidthDigits(s)
	return s
}

// toFullwidthDigits 半角数字を全角数字に変換する
func toFullwidthDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r + 0xFEE0
		}
		return r
	}, s)
}

// Minutes 提供時間（分）を整数に変換する
// CSV 由来の "29.0" のような小数表記も受け付ける
func Minutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("提供時間 %q を分として解釈できません", s)
	}
	return int(f), nil
}

// Surcharges 加算①〜⑤を 1 つのカンマ区切り文字列に連結する
// 空欄は落とす
func Surcharges(slots []string) string {
	parts := make([]string, 0, len(slots))
	for _, slot := range slots {
		slot = strings.TrimSpace(slot)
		if slot == "" {
			continue
		}
		parts = append(parts, slot)
	}
	return strings.Join(parts, ", ")
}

// Record 生レコード 1 件を正規化する
// source はエラーメッセージに使うソース名（"カレンダー" / "Ibow"）
func Record(raw model.RawVisit, source string) (model.VisitRecord, error) {
	date, err := Date(raw.VisitDate)
	if err != nil {
		return model.VisitRecord{}, model.FormatErrorf("%sの訪問日: %v", source, err)
	}
	start, err := Time(raw.StartTime)
	if err != nil {
		return model.VisitRecord{}, model.FormatErrorf("%sの開始時間: %v", source, err)
	}
	end, err := Time(raw.EndTime)
	if err != nil {
		return model.VisitRecord{}, model.FormatErrorf("%sの終了時間: %v", source, err)
	}
	minutes, err := Minutes(raw.ProvidedMin)
	if err != nil {
		return model.VisitRecord{}, model.FormatErrorf("%sの提供時間: %v", source, err)
	}

	return model.VisitRecord{
		VisitDate:      date,
		PatientName:    Name(raw.PatientName),
		PrimaryVisitor: Name(raw.PrimaryVisitor),
		ServiceCode:    Service(raw.ServiceCode),
		StartTime:      start,
		EndTime:        end,
		ProvidedMin:    minutes,
		Surcharges:     Surcharges(raw.Surcharges),
	}, nil
}

// Records レコード集合を正規化し、訪問日・開始時間順に並べる
// 1 件でもパースできない行があればソース単位で失敗させる（部分的な正規化はしない）
func Records(raws []model.RawVisit, source string) ([]model.VisitRecord, error) {
	records := make([]model.VisitRecord, 0, len(raws))
	for i, raw := range raws {
		rec, err := Record(raw, source)
		if err != nil {
			return nil, fmt.Errorf("%w（%d 行目）", err, i+1)
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].VisitDate.Equal(records[j].VisitDate) {
			return records[i].VisitDate.Before(records[j].VisitDate)
		}
		return records[i].StartTime < records[j].StartTime
	})

	return records, nil
}
