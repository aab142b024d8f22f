// Package reconcile はカレンダーと Ibow の訪問レコードを突き合わせ、
// 照合結果（整合・不整合・片側のみ）を組み立てる。
package reconcile

import "github.com/Fukuemon/receipt-checker/internal/model"

// MatchResult 外部結合の結果
// Joint はバリデーション対象、片側のみの行はこの時点で確定する
type MatchResult struct {
	Joint        []model.JointRow
	CalendarOnly []model.VisitRecord
	IbowOnly     []model.VisitRecord
}

// Match 訪問日・利用者名・主訪問者の複合キーで完全外部結合する
// 同一キーが複数件ある場合は組み合わせ全部を残す（デカルト展開）。
// 入力順（正規化時のソート順）を保つ
func Match(calendar, ibow []model.VisitRecord) MatchResult {
	ibowByKey := make(map[model.JoinKey][]model.VisitRecord)
	for _, rec := range ibow {
		key := rec.Key()
		ibowByKey[key] = append(ibowByKey[key], rec)
	}
	calendarKeys := make(map[model.JoinKey]bool, len(calendar))
	for _, rec := range calendar {
		calendarKeys[rec.Key()] = true
	}

	var result MatchResult
	for _, cal := range calendar {
		matches, ok := ibowByKey[cal.Key()]
		if !ok {
			result.CalendarOnly = append(result.CalendarOnly, cal)
			continue
		}
		for _, ib := range matches {
			result.Joint = append(result.Joint, model.JointRow{Calendar: cal, Ibow: ib})
		}
	}
	for _, ib := range ibow {
		if !calendarKeys[ib.Key()] {
			result.IbowOnly = append(result.IbowOnly, ib)
		}
	}

	return result
}
