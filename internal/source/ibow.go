package source

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/Fukuemon/receipt-checker/internal/model"
)

// ParseReceipt アップロードされた Ibow の請求エクスポートを読み込む
// 拡張子で CSV / XLSX を判別する。filename はエラーメッセージ用
func ParseReceipt(r io.Reader, filename string) ([]model.RawVisit, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return parseReceiptXLSX(r, filename)
	default:
		return parseReceiptCSV(r, filename)
	}
}

// parseReceiptCSV CSV 形式のレセプトを読み込む
// UTF-8 以外の文字コード（Shift_JIS など）は形式エラーとして弾く
func parseReceiptCSV(r io.Reader, filename string) ([]model.RawVisit, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.InvalidInputf("Ibowファイル %s が読み込めません: %v", filename, err)
	}
	data = bytes.TrimPrefix(data, []byte("\uFEFF"))

	if !utf8.Valid(data) {
		return nil, model.InvalidInputf("Ibowファイル %s の文字コードが誤っています。UTF-8形式のファイルを選択してください", filename)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, model.InvalidInputf("Ibowファイル %s が空か、CSV として読み込めません: %v", filename, err)
	}

	index := headerIndex(header)
	if missing := missingColumns(index, requiredColumns); len(missing) > 0 {
		return nil, model.InvalidInputf("Ibowファイル %s に必要なカラムがありません: %s。正しいファイルが選択されているか確認してください", filename, strings.Join(missing, ", "))
	}

	var visits []model.RawVisit
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, model.InvalidInputf("Ibowファイル %s の %d 行目が読み込めません: %v", filename, line, err)
		}
		visits = append(visits, rawVisitFromRow(row, index))
	}
	return visits, nil
}

// parseReceiptXLSX XLSX 形式のレセプトを読み込む。先頭シートのみ対象
func parseReceiptXLSX(r io.Reader, filename string) ([]model.RawVisit, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, model.InvalidInputf("Ibowファイル %s が Excel ファイルとして読み込めません: %v", filename, err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, model.InvalidInputf("Ibowファイル %s にシートがありません", filename)
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, model.InvalidInputf("Ibowファイル %s のシート %s が読み込めません: %v", filename, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, model.InvalidInputf("Ibowファイル %s が空です", filename)
	}

	index := headerIndex(rows[0])
	if missing := missingColumns(index, requiredColumns); len(missing) > 0 {
		return nil, model.InvalidInputf("Ibowファイル %s に必要なカラムがありません: %s。正しいファイルが選択されているか確認してください", filename, strings.Join(missing, ", "))
	}

	var visits []model.RawVisit
	for _, row := range rows[1:] {
		visits = append(visits, rawVisitFromRow(row, index))
	}
	return visits, nil
}

// rawVisitFromRow 1 行を生レコードに詰め替える。加算①〜⑤はスロットのまま保持する
func rawVisitFromRow(row []string, index map[string]int) model.RawVisit {
	surcharges := make([]string, 0, len(surchargeColumns))
	for _, col := range surchargeColumns {
		surcharges = append(surcharges, cell(row, index, col))
	}
	return model.RawVisit{
		VisitDate:      cell(row, index, colVisitDate),
		PatientName:    cell(row, index, colPatientName),
		PrimaryVisitor: cell(row, index, colPrimaryVisitor),
		ServiceCode:    cell(row, index, colServiceCode),
		StartTime:      cell(row, index, colStartTime),
		EndTime:        cell(row, index, colEndTime),
		ProvidedMin:    cell(row, index, colProvidedMin),
		Surcharges:     surcharges,
	}
}
