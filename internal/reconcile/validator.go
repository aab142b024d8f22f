package reconcile

import (
	"strings"

	"github.com/Fukuemon/receipt-checker/internal/model"
	"github.com/Fukuemon/receipt-checker/internal/rule"
)

// カレンダー側の総称コード。請求側の基本療養費・難病等複数回訪問の
// 各表記と同一視する（カレンダーの語彙の方が粗いため）
const calendarMedicalCode = "医"

// 加算なしを意味する値。これ以外の加算は要確認として扱う
const surchargeNormal = "通常"

// Validator 結合済み行のフィールド照合を行う
type Validator struct {
	table *rule.Table
}

// NewValidator バリデータを生成する
func NewValidator(table *rule.Table) *Validator {
	return &Validator{table: table}
}

// Validate 各結合行に判定を付与して返す
func (v *Validator) Validate(rows []model.JointRow) []model.JointRow {
	out := make([]model.JointRow, len(rows))
	for i, row := range rows {
		row.Verdict = v.verdict(row.Calendar, row.Ibow)
		out[i] = row
	}
	return out
}

// verdict 1 行分の照合判定
func (v *Validator) verdict(cal, ibow model.VisitRecord) model.RowVerdict {
	var verdict model.RowVerdict

	verdict.StartMatch = cal.StartTime == ibow.StartTime
	verdict.EndMatch = cal.EndTime == ibow.EndTime
	verdict.MinutesMatch = cal.ProvidedMin == ibow.ProvidedMin
	verdict.ServiceMatch = serviceCodesMatch(cal.ServiceCode, ibow.ServiceCode)
	verdict.SurchargeOK = ibow.Surcharges == surchargeNormal

	// 終了時間は一致判定とは別に、各ソース単体で
	// 自ソースのサービス内容に対する妥当性を確認する
	ok, r := v.table.ValidateEndTime(cal.ServiceCode, cal.StartTime, cal.EndTime)
	verdict.EndCalendar = model.FieldVerdict{OK: ok, Range: r}
	ok, r = v.table.ValidateEndTime(ibow.ServiceCode, ibow.StartTime, ibow.EndTime)
	verdict.EndIbow = model.FieldVerdict{OK: ok, Range: r}

	// 提供時間も同様に各ソース単体で範囲チェックする
	ok, r = v.table.ValidateDuration(cal.ServiceCode, cal.ProvidedMin)
	verdict.MinutesCalendar = model.FieldVerdict{OK: ok, Range: r}
	ok, r = v.table.ValidateDuration(ibow.ServiceCode, ibow.ProvidedMin)
	verdict.MinutesIbow = model.FieldVerdict{OK: ok, Range: r}

	return verdict
}

// serviceCodesMatch サービス内容の一致判定
// 完全一致のほか、カレンダー「医」と請求側の基本療養費・難病等複数回訪問
// 系コードの組み合わせを一致とみなす
func serviceCodesMatch(cal, ibow string) bool {
	if cal == ibow {
		return true
	}
	if cal == calendarMedicalCode {
		return strings.Contains(ibow, "基本療養費") || strings.Contains(ibow, "難病等複数回訪問")
	}
	return false
}
