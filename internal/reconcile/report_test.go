package reconcile

import (
	"strings"
	"testing"

	"github.com/Fukuemon/receipt-checker/internal/model"
)

func runPipeline(calendar, ibow []model.VisitRecord) ([]model.ReportRow, model.Summary) {
	result := Match(calendar, ibow)
	result.Joint = newValidator().Validate(result.Joint)
	return Render(result)
}

// 区切り行が固定順で並ぶこと
func TestRender_SectionOrder(t *testing.T) {
	t.Parallel()

	rows, _ := runPipeline(nil, nil)

	var labels []string
	for _, row := range rows {
		if row.Partition == model.PartitionSeparator {
			labels = append(labels, row.VisitDate)
		}
	}
	want := []string{"不整合データ", "カレンダーのみ", "Ibowのみ", "整合データ"}
	if len(labels) != len(want) {
		t.Fatalf("expected %d separators, got %d", len(want), len(labels))
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("separator %d = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestRender_SeparatorPlaceholders(t *testing.T) {
	t.Parallel()

	rows, _ := runPipeline(nil, nil)

	sep := rows[0]
	if sep.PatientName != model.Placeholder || sep.Surcharges != model.Placeholder {
		t.Fatalf("separator columns must carry placeholder: %+v", sep)
	}
}

// シナリオ A: 完全一致の行は整合データに入り、注記が付かないこと
func TestRender_ScenarioMatched(t *testing.T) {
	t.Parallel()

	rec := visit(10, "山田太郎", "笠間律子", "訪看I２", "09:00", "09:29", 29)
	rows, summary := runPipeline([]model.VisitRecord{rec}, []model.VisitRecord{rec})

	if summary.Matched != 1 || summary.Mismatched != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	var got *model.ReportRow
	for i := range rows {
		if rows[i].Partition == model.PartitionMatched {
			got = &rows[i]
		}
	}
	if got == nil {
		t.Fatalf("matched row not found")
	}
	if got.VisitDate != "2024-01-10" || got.PatientName != "山田太郎" {
		t.Fatalf("unexpected row: %+v", got)
	}
	if strings.Contains(got.MinutesIbow, "❌") || strings.Contains(got.MinutesIbow, "※") {
		t.Fatalf("matched row must not be annotated: %q", got.MinutesIbow)
	}
}

// シナリオ B: 提供時間が範囲外の側に ❌ と有効範囲が付くこと
func TestRender_ScenarioMinutesOutOfRange(t *testing.T) {
	t.Parallel()

	cal := visit(10, "山田太郎", "笠間律子", "訪看I２", "09:00", "09:29", 29)
	ibow := cal
	ibow.ProvidedMin = 15

	rows, summary := runPipeline([]model.VisitRecord{cal}, []model.VisitRecord{ibow})

	if summary.Mismatched != 1 {
		t.Fatalf("expected 1 mismatched row, summary: %+v", summary)
	}
	var got *model.ReportRow
	for i := range rows {
		if rows[i].Partition == model.PartitionMismatched {
			got = &rows[i]
		}
	}
	if got == nil {
		t.Fatalf("mismatched row not found")
	}
	if got.MinutesIbow != "15 ❌ (20~29)" {
		t.Fatalf("ibow minutes annotation = %q", got.MinutesIbow)
	}
	if !strings.Contains(got.MinutesCalendar, "❌") {
		t.Fatalf("calendar side should carry the equality marker: %q", got.MinutesCalendar)
	}
	// 注記前の値はプログラム利用者向けに保持される
	if got.Ibow == nil || got.Ibow.ProvidedMin != 15 {
		t.Fatalf("underlying record must stay unannotated")
	}
}

// シナリオ C: カレンダーのみの行は Ibow 側が「データなし」になること
func TestRender_ScenarioCalendarOnly(t *testing.T) {
	t.Parallel()

	cal := visit(10, "山田太郎", "笠間律子", "訪看I２", "09:00", "09:29", 29)
	rows, summary := runPipeline([]model.VisitRecord{cal}, nil)

	if summary.CalendarOnly != 1 || summary.Matched != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	var got *model.ReportRow
	for i := range rows {
		if rows[i].Partition == model.PartitionCalendarOnly {
			got = &rows[i]
		}
	}
	if got == nil {
		t.Fatalf("calendar-only row not found")
	}
	for _, v := range []string{got.ServiceIbow, got.StartIbow, got.EndIbow, got.MinutesIbow, got.Surcharges} {
		if v != model.NoData {
			t.Fatalf("ibow-side fields must render データなし, got %+v", got)
		}
	}
}

// 提供時間の単純不一致（双方範囲内）は整合データに ※ 付きで入ること
func TestRender_AdvisoryOnLenientMatch(t *testing.T) {
	t.Parallel()

	cal := visit(10, "山田太郎", "笠間律子", "訪看I２", "09:00", "09:29", 29)
	ibow := cal
	ibow.ProvidedMin = 25

	rows, summary := runPipeline([]model.VisitRecord{cal}, []model.VisitRecord{ibow})

	if summary.Matched != 1 || summary.Mismatched != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	var got *model.ReportRow
	for i := range rows {
		if rows[i].Partition == model.PartitionMatched {
			got = &rows[i]
		}
	}
	if got == nil {
		t.Fatalf("matched row not found")
	}
	if got.MinutesCalendar != "29 ※ (20~29)" || got.MinutesIbow != "25 ※ (20~29)" {
		t.Fatalf("advisory annotation missing: %q / %q", got.MinutesCalendar, got.MinutesIbow)
	}
}

// 区分ごとの件数と行数が揃うこと（区切り行 4 行を除く）
func TestRender_SummaryConsistency(t *testing.T) {
	t.Parallel()

	calendar := []model.VisitRecord{
		visit(10, "山田太郎", "笠間律子", "訪看I２", "09:00", "09:29", 29),
		visit(11, "鈴木花子", "竹房和美", "訪看I３", "10:00", "10:45", 45),
	}
	ibow := []model.VisitRecord{
		visit(10, "山田太郎", "笠間律子", "訪看I２", "09:00", "09:29", 29),
		visit(12, "佐藤一郎", "笠間律子", "訪看I４", "13:00", "14:10", 70),
	}

	rows, summary := runPipeline(calendar, ibow)

	if len(rows) != summary.Total()+4 {
		t.Fatalf("rows=%d, summary=%+v", len(rows), summary)
	}
}
