package exporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Fukuemon/receipt-checker/internal/model"
)

func sampleRows() []model.ReportRow {
	return []model.ReportRow{
		{
			Partition:       model.PartitionSeparator,
			VisitDate:       "不整合データ",
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
		},
		{
			Partition:       model.PartitionMismatched,
			VisitDate:       "2024-01-10",
			PatientName:     "山田太郎",
			PrimaryVisitor:  "笠間律子",
			ServiceCalendar: "訪看I２",
			StartCalendar:   "09:00",
			EndCalendar:     "09:29",
			MinutesCalendar: "29 ❌",
			ServiceIbow:     "訪看I２",
			StartIbow:       "09:00",
			EndIbow:         "09:29",
			MinutesIbow:     "15 ❌ (20~29)",
			Surcharges:      "通常",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\uFEFF") {
		t.Fatalf("expected BOM prefix")
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(strings.TrimPrefix(lines[0], "\uFEFF"), "訪問日,利用者名,主訪問者") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[2], "15 ❌ (20~29)") {
		t.Fatalf("annotated value missing: %q", lines[2])
	}
}

func TestBuildXLSX(t *testing.T) {
	t.Parallel()

	f, err := BuildXLSX(sampleRows())
	if err != nil {
		t.Fatalf("BuildXLSX: %v", err)
	}
	defer f.Close()

	if f.GetSheetName(0) != SheetName {
		t.Fatalf("unexpected sheet name: %q", f.GetSheetName(0))
	}

	header, err := f.GetCellValue(SheetName, "A1")
	if err != nil || header != "訪問日" {
		t.Fatalf("A1 = %q, %v", header, err)
	}
	label, err := f.GetCellValue(SheetName, "A2")
	if err != nil || label != "不整合データ" {
		t.Fatalf("A2 = %q, %v", label, err)
	}
	minutes, err := f.GetCellValue(SheetName, "K3")
	if err != nil || minutes != "15 ❌ (20~29)" {
		t.Fatalf("K3 = %q, %v", minutes, err)
	}
}
