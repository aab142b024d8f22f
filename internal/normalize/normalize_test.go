package normalize

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Fukuemon/receipt-checker/internal/model"
)

func TestTime_ZeroPadding(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"09:00", "09:00"},
		{"9:00", "09:00"},
		{" 9:05 ", "09:05"},
		{"23:59", "23:59"},
	}
	for _, c := range cases {
		got, err := Time(c.in)
		if err != nil {
			t.Fatalf("Time(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Time(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTime_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "9時", "25:00", "09:61", "0900"} {
		if _, err := Time(in); err == nil {
			t.Fatalf("Time(%q) expected error", in)
		}
	}
}

func TestDate_Layouts(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 1, 10, 0, 0, 0, 0, JST)
	for _, in := range []string{
		"2024-01-10",
		"2024/01/10",
		"2024/1/10",
		"2024-01-10 09:30:00",
		"2024年1月10日",
	} {
		got, err := Date(in)
		if err != nil {
			t.Fatalf("Date(%q) error: %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("Date(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDate_TruncatesTime(t *testing.T) {
	t.Parallel()

	got, err := Date("2024-03-05 23:59:59")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Fatalf("expected date granularity, got %v", got)
	}
}

func TestName_RemovesAllWhitespace(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"山田　太郎", "山田太郎"},
		{"山田 太郎", "山田太郎"},
		{"山田太郎", "山田太郎"},
		{" 笠間　律子 ", "笠間律子"},
	}
	for _, c := range cases {
		if got := Name(c.in); got != c.want {
			t.Fatalf("Name(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestService_CanonicalForm(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"訪看Ⅰ２", "訪看I２"},
		{"訪看１２", "訪看I２"},
		{"訪看12", "訪看I２"},
		{"訪看I２", "訪看I２"},
		{"訪看I５･２超", "訪看I５・２超"},
		{"基本療養費Ⅰ・3日", "基本療養費I・３日"},
		{"医", "医"},
	}
	for _, c := range cases {
		if got := Service(c.in); got != c.want {
			t.Fatalf("Service(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// 正規化済みの値を再度正規化しても変化しないこと
func TestService_Idempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"訪看Ⅰ２", "予防訪看１５・2超", "基本療養費Ⅰ・３日", "難病等複数回訪問加算(２回)"} {
		once := Service(in)
		twice := Service(once)
		if once != twice {
			t.Fatalf("Service not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestSurcharges_DropsEmptySlots(t *testing.T) {
	t.Parallel()

	got := Surcharges([]string{"通常", "", "  ", "夜間", ""})
	if got != "通常, 夜間" {
		t.Fatalf("unexpected surcharges: %q", got)
	}
	if Surcharges(nil) != "" {
		t.Fatalf("expected empty string for no slots")
	}
}

func TestMinutes_AcceptsFloatNotation(t *testing.T) {
	t.Parallel()

	if n, err := Minutes("29"); err != nil || n != 29 {
		t.Fatalf("Minutes(29) = %d, %v", n, err)
	}
	if n, err := Minutes("29.0"); err != nil || n != 29 {
		t.Fatalf("Minutes(29.0) = %d, %v", n, err)
	}
	if _, err := Minutes("二十九"); err == nil {
		t.Fatalf("expected error for non-numeric minutes")
	}
}

func TestRecords_SortsByDateAndStart(t *testing.T) {
	t.Parallel()

	raws := []model.RawVisit{
		{VisitDate: "2024-01-11", PatientName: "山田太郎", PrimaryVisitor: "笠間律子", ServiceCode: "訪看I２", StartTime: "9:00", EndTime: "9:29", ProvidedMin: "29"},
		{VisitDate: "2024-01-10", PatientName: "山田太郎", PrimaryVisitor: "笠間律子", ServiceCode: "訪看I２", StartTime: "15:00", EndTime: "15:29", ProvidedMin: "29"},
		{VisitDate: "2024-01-10", PatientName: "山田太郎", PrimaryVisitor: "笠間律子", ServiceCode: "訪看I２", StartTime: "9:00", EndTime: "9:29", ProvidedMin: "29"},
	}

	records, err := Records(raws, "カレンダー")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].StartTime != "09:00" || !records[0].VisitDate.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, JST)) {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[2].VisitDate.Day() != 11 {
		t.Fatalf("unexpected sort order: %+v", records[2])
	}
}

func TestRecords_FailFastOnBadRow(t *testing.T) {
	t.Parallel()

	raws := []model.RawVisit{
		{VisitDate: "2024-01-10", PatientName: "山田太郎", PrimaryVisitor: "笠間律子", ServiceCode: "訪看I２", StartTime: "9:00", EndTime: "9:29", ProvidedMin: "29"},
		{VisitDate: "不明", PatientName: "山田太郎", PrimaryVisitor: "笠間律子", ServiceCode: "訪看I２", StartTime: "9:00", EndTime: "9:29", ProvidedMin: "29"},
	}

	_, err := Records(raws, "Ibow")
	if err == nil {
		t.Fatalf("expected error for unparsable date")
	}
	if !errors.Is(err, model.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

// 提供時間が空欄の行は照合に進まず実行全体を形式エラーにする
func TestRecords_FailFastOnBlankMinutes(t *testing.T) {
	t.Parallel()

	raws := []model.RawVisit{
		{VisitDate: "2024-01-10", PatientName: "山田太郎", PrimaryVisitor: "笠間律子", ServiceCode: "訪看I２", StartTime: "9:00", EndTime: "9:29", ProvidedMin: ""},
	}

	_, err := Records(raws, "Ibow")
	if !errors.Is(err, model.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if !strings.Contains(err.Error(), "提供時間") {
		t.Fatalf("error should name the offending column: %v", err)
	}
}
