package model

import (
	"errors"
	"fmt"
)

// 実行を中断するエラーの種別。バリデーションの不一致はエラーではなく
// 照合結果（不整合データ）として扱うため、ここには含まれない
var (
	// ErrFormat 時刻・日付がパースできない
	ErrFormat = errors.New("フォーマットエラー")
	// ErrInvalidInputFile 入力ファイルの形式・文字コード・カラムが不正
	ErrInvalidInputFile = errors.New("入力ファイルエラー")
	// ErrSourceUnavailable カレンダーデータの取得に失敗
	ErrSourceUnavailable = errors.New("カレンダー取得エラー")
)

// FormatErrorf ErrFormat を文脈付きでラップする
func FormatErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}

// InvalidInputf ErrInvalidInputFile を文脈付きでラップする
// メッセージにはどのファイルが原因かを必ず含めること
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInputFile, fmt.Sprintf(format, args...))
}

// SourceUnavailablef ErrSourceUnavailable を文脈付きでラップする
func SourceUnavailablef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSourceUnavailable, fmt.Sprintf(format, args...))
}
