package source

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/Fukuemon/receipt-checker/internal/model"
)

// ParseCalendarIDs 担当者名とカレンダー ID の対応 CSV を読み込む
// 1 列目が担当者名、2 列目がカレンダー ID。ヘッダ行はスキップする。
// 取得クエリに使う ID リストをファイルの記載順で返す
func ParseCalendarIDs(r io.Reader, filename string) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, model.InvalidInputf("カレンダーIDファイル %s が CSV として読み込めません: %v", filename, err)
	}
	if len(rows) < 2 {
		return nil, model.InvalidInputf("カレンダーIDファイル %s に担当者の行がありません", filename)
	}

	var ids []string
	for i, row := range rows[1:] {
		if len(row) < 2 {
			return nil, model.InvalidInputf("カレンダーIDファイル %s の %d 行目にカレンダーIDのカラムがありません", filename, i+2)
		}
		id := strings.TrimSpace(row[1])
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, model.InvalidInputf("カレンダーIDファイル %s に有効なカレンダーIDがありません", filename)
	}
	return ids, nil
}
