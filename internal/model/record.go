package model

import "time"

// RawVisit 正規化前の訪問レコード
// カレンダー・Ibow 双方のソースがこの形に読み込まれる
type RawVisit struct {
	VisitDate      string   // 訪問日（ソースの生の表記のまま）
	PatientName    string   // 利用者名
	PrimaryVisitor string   // 主訪問者
	ServiceCode    string   // サービス内容
	StartTime      string   // 開始時間
	EndTime        string   // 終了時間
	ProvidedMin    string   // 提供時間（分）
	Surcharges     []string // 加算①〜⑤（空欄は含めてよい）
}

// VisitRecord 正規化済みの訪問レコード
type VisitRecord struct {
	VisitDate      time.Time // 日付粒度（Asia/Tokyo の暦日）
	PatientName    string    // 空白除去済み
	PrimaryVisitor string    // 空白除去済み
	ServiceCode    string    // 正規化済みサービス内容
	StartTime      string    // "HH:MM"
	EndTime        string    // "HH:MM"
	ProvidedMin    int       // 提供時間（分）
	Surcharges     string    // 加算をカンマ連結した文字列（空あり）
}

// Key 結合キーを返す
func (r VisitRecord) Key() JoinKey {
	return JoinKey{
		VisitDate:      r.VisitDate,
		PatientName:    r.PatientName,
		PrimaryVisitor: r.PrimaryVisitor,
	}
}

// JoinKey 外部結合の複合キー（訪問日・利用者名・主訪問者）
// 一意性は仮定しない。同一キーの重複はデカルト展開される
type JoinKey struct {
	VisitDate      time.Time
	PatientName    string
	PrimaryVisitor string
}
