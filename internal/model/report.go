package model

// Partition 結果の区分
type Partition string

const (
	PartitionMismatched   Partition = "mismatched"    // 不整合データ
	PartitionCalendarOnly Partition = "calendar_only" // カレンダーのみ
	PartitionIbowOnly     Partition = "ibow_only"     // Ibowのみ
	PartitionMatched      Partition = "matched"       // 整合データ
	PartitionSeparator    Partition = "separator"     // 区切り行
)

// Label 区切り行に表示する日本語ラベル
func (p Partition) Label() string {
	switch p {
	case PartitionMismatched:
		return "不整合データ"
	case PartitionCalendarOnly:
		return "カレンダーのみ"
	case PartitionIbowOnly:
		return "Ibowのみ"
	case PartitionMatched:
		return "整合データ"
	}
	return string(p)
}

// 表示用の定数
const (
	NoData      = "データなし" // 欠損値の表示
	Placeholder = "---"   // 区切り行の埋め値
)

// ReportColumns 出力テーブルの固定カラム（この順で出力する）
var ReportColumns = []string{
	"訪問日",
	"利用者名",
	"主訪問者",
	"サービス内容_カレンダー",
	"開始時間_カレンダー",
	"終了時間_カレンダー",
	"提供時間_カレンダー",
	"サービス内容_Ibow",
	"開始時間_Ibow",
	"終了時間_Ibow",
	"提供時間_Ibow",
	"加算",
}

// ReportRow 出力テーブルの 1 行
// 表示値には ❌ / ※ などの注記が付く。プログラム利用者向けに
// 注記前の元レコードを Calendar / Ibow に保持する（片側のみの行は nil）
type ReportRow struct {
	Partition Partition `json:"partition"`

	VisitDate       string `json:"訪問日"`
	PatientName     string `json:"利用者名"`
	PrimaryVisitor  string `json:"主訪問者"`
	ServiceCalendar string `json:"サービス内容_カレンダー"`
	StartCalendar   string `json:"開始時間_カレンダー"`
	EndCalendar     string `json:"終了時間_カレンダー"`
	MinutesCalendar string `json:"提供時間_カレンダー"`
	ServiceIbow     string `json:"サービス内容_Ibow"`
	StartIbow       string `json:"開始時間_Ibow"`
	EndIbow         string `json:"終了時間_Ibow"`
	MinutesIbow     string `json:"提供時間_Ibow"`
	Surcharges      string `json:"加算"`

	Calendar *VisitRecord `json:"-"`
	Ibow     *VisitRecord `json:"-"`
}

// Values カラム定義順の表示値スライスを返す（CSV/Excel 出力用）
func (r ReportRow) Values() []string {
	return []string{
		r.VisitDate,
		r.PatientName,
		r.PrimaryVisitor,
		r.ServiceCalendar,
		r.StartCalendar,
		r.EndCalendar,
		r.MinutesCalendar,
		r.ServiceIbow,
		r.StartIbow,
		r.EndIbow,
		r.MinutesIbow,
		r.Surcharges,
	}
}

// Summary 区分ごとの件数
type Summary struct {
	Mismatched   int `json:"mismatched"`
	CalendarOnly int `json:"calendarOnly"`
	IbowOnly     int `json:"ibowOnly"`
	Matched      int `json:"matched"`
}

// Total 区切り行を除いた総件数
func (s Summary) Total() int {
	return s.Mismatched + s.CalendarOnly + s.IbowOnly + s.Matched
}
