package reconcile

import (
	"fmt"
	"strconv"

	"github.com/Fukuemon/receipt-checker/internal/model"
)

// 表示用マーカー
const (
	markMismatch = " ❌" // 不整合
	markAdvisory = " ※" // 要確認（不整合扱いにはしない注記）
)

// Render 照合結果から出力テーブルを組み立てる
// 不整合データ → カレンダーのみ → Ibowのみ → 整合データ の固定順で、
// 各ブロックの先頭にラベル付きの区切り行を置く
func Render(result MatchResult) ([]model.ReportRow, model.Summary) {
	var mismatched, matched []model.ReportRow
	for _, row := range result.Joint {
		if row.Verdict.Mismatched() {
			mismatched = append(mismatched, renderMismatched(row))
		} else {
			matched = append(matched, renderMatched(row))
		}
	}

	summary := model.Summary{
		Mismatched:   len(mismatched),
		CalendarOnly: len(result.CalendarOnly),
		IbowOnly:     len(result.IbowOnly),
		Matched:      len(matched),
	}

	rows := make([]model.ReportRow, 0, summary.Total()+4)
	rows = append(rows, separatorRow(model.PartitionMismatched))
	rows = append(rows, mismatched...)
	rows = append(rows, separatorRow(model.PartitionCalendarOnly))
	for _, rec := range result.CalendarOnly {
		rows = append(rows, renderCalendarOnly(rec))
	}
	rows = append(rows, separatorRow(model.PartitionIbowOnly))
	for _, rec := range result.IbowOnly {
		rows = append(rows, renderIbowOnly(rec))
	}
	rows = append(rows, separatorRow(model.PartitionMatched))
	rows = append(rows, matched...)

	return rows, summary
}

// renderMismatched 不整合行の表示値を組み立てる
// 一致しなかったフィールドは両側に ❌、範囲チェックに落ちた側には
// ❌ と違反した有効範囲を付ける
func renderMismatched(row model.JointRow) model.ReportRow {
	out := baseRow(row)
	out.Partition = model.PartitionMismatched
	v := row.Verdict

	if !v.StartMatch {
		out.StartCalendar += markMismatch
		out.StartIbow += markMismatch
	}
	if !v.ServiceMatch {
		out.ServiceCalendar += markMismatch
		out.ServiceIbow += markMismatch
	}

	// 終了時間・提供時間は範囲チェックに落ちた側へ範囲付きで付記し、
	// そうでなければ単純不一致のみ ❌ を付ける
	if !v.EndCalendar.OK {
		out.EndCalendar = fmt.Sprintf("%s%s (%s)", out.EndCalendar, markMismatch, v.EndCalendar.Range)
	}
	if !v.EndIbow.OK {
		out.EndIbow = fmt.Sprintf("%s%s (%s)", out.EndIbow, markMismatch, v.EndIbow.Range)
	}

	switch {
	case !v.MinutesCalendar.OK:
		out.MinutesCalendar = fmt.Sprintf("%s%s (%s)", out.MinutesCalendar, markMismatch, v.MinutesCalendar.Range)
	case !v.MinutesMatch:
		out.MinutesCalendar += markMismatch
	}
	switch {
	case !v.MinutesIbow.OK:
		out.MinutesIbow = fmt.Sprintf("%s%s (%s)", out.MinutesIbow, markMismatch, v.MinutesIbow.Range)
	case !v.MinutesMatch:
		out.MinutesIbow += markMismatch
	}

	if !v.SurchargeOK {
		out.Surcharges += markAdvisory
	}

	return out
}

// renderMatched 整合行の表示値を組み立てる
// 値は一致しないが双方とも範囲内という行には注記（※）を付ける
func renderMatched(row model.JointRow) model.ReportRow {
	out := baseRow(row)
	out.Partition = model.PartitionMatched
	v := row.Verdict

	if !v.MinutesMatch && v.MinutesCalendar.OK && v.MinutesIbow.OK {
		out.MinutesCalendar = fmt.Sprintf("%s%s (%s)", out.MinutesCalendar, markAdvisory, v.MinutesCalendar.Range)
		out.MinutesIbow = fmt.Sprintf("%s%s (%s)", out.MinutesIbow, markAdvisory, v.MinutesIbow.Range)
	}
	if !v.EndMatch && v.EndCalendar.OK && v.EndIbow.OK {
		out.EndCalendar += markAdvisory
		out.EndIbow += markAdvisory
	}

	return out
}

// baseRow 注記前の表示値
func baseRow(row model.JointRow) model.ReportRow {
	cal := row.Calendar
	ibow := row.Ibow
	return model.ReportRow{
		VisitDate:       cal.VisitDate.Format("2006-01-02"),
		PatientName:     cal.PatientName,
		PrimaryVisitor:  cal.PrimaryVisitor,
		ServiceCalendar: cal.ServiceCode,
		StartCalendar:   cal.StartTime,
		EndCalendar:     cal.EndTime,
		MinutesCalendar: strconv.Itoa(cal.ProvidedMin),
		ServiceIbow:     ibow.ServiceCode,
		StartIbow:       ibow.StartTime,
		EndIbow:         ibow.EndTime,
		MinutesIbow:     strconv.Itoa(ibow.ProvidedMin),
		Surcharges:      ibow.Surcharges,
		Calendar:        &cal,
		Ibow:            &ibow,
	}
}

// renderCalendarOnly カレンダーのみの行。Ibow 側は「データなし」
func renderCalendarOnly(rec model.VisitRecord) model.ReportRow {
	return model.ReportRow{
		Partition:       model.PartitionCalendarOnly,
		VisitDate:       rec.VisitDate.Format("2006-01-02"),
		PatientName:     rec.PatientName,
		PrimaryVisitor:  rec.PrimaryVisitor,
		ServiceCalendar: rec.ServiceCode,
		StartCalendar:   rec.StartTime,
		EndCalendar:     rec.EndTime,
		MinutesCalendar: strconv.Itoa(rec.ProvidedMin),
		ServiceIbow:     model.NoData,
		StartIbow:       model.NoData,
		EndIbow:         model.NoData,
		MinutesIbow:     model.NoData,
		Surcharges:      model.NoData,
		Calendar:        &rec,
	}
}

// renderIbowOnly Ibow のみの行。カレンダー側は「データなし」
func renderIbowOnly(rec model.VisitRecord) model.ReportRow {
	return model.ReportRow{
		Partition:       model.PartitionIbowOnly,
		VisitDate:       rec.VisitDate.Format("2006-01-02"),
		PatientName:     rec.PatientName,
		PrimaryVisitor:  rec.PrimaryVisitor,
		ServiceCalendar: model.NoData,
		StartCalendar:   model.NoData,
		EndCalendar:     model.NoData,
		MinutesCalendar: model.NoData,
		ServiceIbow:     rec.ServiceCode,
		StartIbow:       rec.StartTime,
		EndIbow:         rec.EndTime,
		MinutesIbow:     strconv.Itoa(rec.ProvidedMin),
		Surcharges:      rec.Surcharges,
		Ibow:            &rec,
	}
}

// separatorRow 区分ラベルだけを訪問日カラムに載せた区切り行
func separatorRow(p model.Partition) model.ReportRow {
	return model.ReportRow{
		Partition:       model.PartitionSeparator,
		VisitDate:       p.Label(),
		PatientName:     model.Placeholder,
		PrimaryVisitor:  model.Placeholder,
		ServiceCalendar: model.Placeholder,
		StartCalendar:   model.Placeholder,
		EndCalendar:     model.Placeholder,
		MinutesCalendar: model.Placeholder,
		ServiceIbow:     model.Placeholder,
		StartIbow:       model.Placeholder,
		EndIbow:         model.Placeholder,
		MinutesIbow:     model.Placeholder,
		Surcharges:      model.Placeholder,
	}
}
