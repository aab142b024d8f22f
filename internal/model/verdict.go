package model

// FieldVerdict フィールド単位の判定結果
// Range は時間範囲チェックで参照した有効範囲（"20~29" 形式、不明コードは空）
type FieldVerdict struct {
	OK    bool
	Range string
}

// RowVerdict 結合済み行ごとの照合判定
// 終了時間と提供時間は「両者一致」と「各ソース単体での妥当性」を別々に持つ。
// 一致しなくても双方が自ソースのサービス内容に対して妥当なら整合扱い（※注記）になる
type RowVerdict struct {
	StartMatch   bool // 開始時間の一致
	EndMatch     bool // 終了時間の一致
	MinutesMatch bool // 提供時間の一致
	ServiceMatch bool // サービス内容の一致（「医」の別名対応を含む）
	SurchargeOK  bool // 加算が「通常」のみか

	EndCalendar     FieldVerdict // カレンダー側 終了時間の範囲妥当性
	EndIbow         FieldVerdict // Ibow 側 終了時間の範囲妥当性
	MinutesCalendar FieldVerdict // カレンダー側 提供時間の範囲妥当性
	MinutesIbow     FieldVerdict // Ibow 側 提供時間の範囲妥当性
}

// Mismatched 不整合データとして扱うかどうか
// 終了時間・提供時間の単純一致は判定に含めない（各ソース単体の妥当性のみ見る）
func (v RowVerdict) Mismatched() bool {
	return !v.StartMatch ||
		!v.EndCalendar.OK ||
		!v.EndIbow.OK ||
		!v.ServiceMatch ||
		!v.MinutesCalendar.OK ||
		!v.MinutesIbow.OK ||
		!v.SurchargeOK
}

// JointRow 両ソースに存在した結合済みの行
type JointRow struct {
	Calendar VisitRecord
	Ibow     VisitRecord
	Verdict  RowVerdict
}
