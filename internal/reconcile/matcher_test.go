package reconcile

import (
	"testing"
	"time"

	"github.com/Fukuemon/receipt-checker/internal/model"
	"github.com/Fukuemon/receipt-checker/internal/normalize"
)

func visit(day int, patient, visitor, service, start, end string, minutes int) model.VisitRecord {
	return model.VisitRecord{
		VisitDate:      time.Date(2024, 1, day, 0, 0, 0, 0, normalize.JST),
		PatientName:    patient,
		PrimaryVisitor: visitor,
		ServiceCode:    service,
		StartTime:      start,
		EndTime:        end,
		ProvidedMin:    minutes,
		Surcharges:     "通常",
	}
}

func TestMatch_ThreeWaySplit(t *testing.T) {
	t.Parallel()

	calendar := []model.VisitRecord{
		visit(10, "山田太郎", "笠間律子", "訪看I２", "09:00", "09:29", 29),
		visit(11, "鈴木花子", "竹房和美", "訪看I３", "10:00", "10:45", 45),
	}
	ibow := []model.VisitRecord{
		visit(10, "山田太郎", "笠間律子", "訪看I２", "09:00", "09:29", 29),
		visit(12, "佐藤一郎", "笠間律子", "訪看I４", "13:00", "14:10", 70),
	}

	result := Match(calendar, ibow)

	if len(result.Joint) != 1 {
		t.Fatalf("expected 1 joint row, got %d", len(result.Joint))
	}
	if len(result.CalendarOnly) != 1 || result.CalendarOnly[0].PatientName != "鈴木花子" {
		t.Fatalf("unexpected calendar-only: %+v", result.CalendarOnly)
	}
	if len(result.IbowOnly) != 1 || result.IbowOnly[0].PatientName != "佐藤一郎" {
		t.Fatalf("unexpected ibow-only: %+v", result.IbowOnly)
	}
}

// 同一キーが複数件ある場合は全組み合わせが残ること
func TestMatch_CartesianOnDuplicateKeys(t *testing.T) {
	t.Parallel()

	calendar := []model.VisitRecord{
		visit(10, "山田太郎", "笠間律子", "訪看I２", "09:00", "09:29", 29),
		visit(10, "山田太郎", "笠間律子", "訪看I３", "15:00", "15:45", 45),
	}
	ibow := []model.VisitRecord{
		visit(10, "山田太郎", "笠間律子", "訪看I２", "09:00", "09:29", 29),
		visit(10, "山田太郎", "笠間律子", "訪看I３", "15:00", "15:45", 45),
	}

	result := Match(calendar, ibow)

	if len(result.Joint) != 4 {
		t.Fatalf("expected 4 joint rows (2x2 cartesian), got %d", len(result.Joint))
	}
	if len(result.CalendarOnly) != 0 || len(result.IbowOnly) != 0 {
		t.Fatalf("expected no one-sided rows")
	}
}

// どの入力レコードも正確に 1 つの区分に現れること（結合の完全性）
func TestMatch_NoRecordDropped(t *testing.T) {
	t.Parallel()

	calendar := []model.VisitRecord{
		visit(10, "山田太郎", "笠間律子", "訪看I２", "09:00", "09:29", 29),
		visit(11, "鈴木花子", "竹房和美", "訪看I３", "10:00", "10:45", 45),
		visit(12, "高橋次郎", "笠間律子", "訪看I４", "11:00", "12:10", 70),
	}
	ibow := []model.VisitRecord{
		visit(11, "鈴木花子", "竹房和美", "訪看I３", "10:00", "10:45", 45),
	}

	result := Match(calendar, ibow)

	total := len(result.Joint) + len(result.CalendarOnly) + len(result.IbowOnly)
	if total != 3 {
		t.Fatalf("expected 3 output rows, got %d", total)
	}
	if len(result.Joint) != 1 || len(result.CalendarOnly) != 2 || len(result.IbowOnly) != 0 {
		t.Fatalf("unexpected split: joint=%d calendar=%d ibow=%d",
			len(result.Joint), len(result.CalendarOnly), len(result.IbowOnly))
	}
}

// 結合キーは空白除去後の氏名で比較されるため、正規化済み同士なら表記揺れは残らない
func TestMatch_KeyUsesNormalizedNames(t *testing.T) {
	t.Parallel()

	cal := visit(10, "山田太郎", "笠間律子", "訪看I２", "09:00", "09:29", 29)
	ib := visit(10, "山田太郎", "笠間律子", "医", "09:00", "09:29", 29)

	result := Match([]model.VisitRecord{cal}, []model.VisitRecord{ib})
	if len(result.Joint) != 1 {
		t.Fatalf("expected joint row, got %+v", result)
	}
}
