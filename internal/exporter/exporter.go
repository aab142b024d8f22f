// Package exporter は照合結果テーブルを Excel / CSV に書き出す。
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Fukuemon/receipt-checker/internal/model"
)

// SheetName 出力ブックのシート名
const SheetName = "照合結果"

// BuildXLSX 照合結果から Excel ブックを組み立てる
// 呼び出し側が SaveAs / Write と Close を行う
func BuildXLSX(rows []model.ReportRow) (*excelize.File, error) {
	f := excelize.NewFile()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, SheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for ci, name := range model.ReportColumns {
		cell, err := excelize.CoordinatesToCellName(ci+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for ri, row := range rows {
		for ci, value := range row.Values() {
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	// カラム幅はマーカー付きの値が収まる程度に広げておく
	if err := f.SetColWidth(SheetName, "A", "L", 18); err != nil {
		return nil, err
	}

	return f, nil
}

// WriteCSV 照合結果を CSV として書き出す
// Excel で直接開けるように UTF-8 BOM を先頭に付ける
func WriteCSV(w io.Writer, rows []model.ReportRow) error {
	if _, err := w.Write([]byte("\uFEFF")); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(model.ReportColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.Values()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
