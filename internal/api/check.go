package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fukuemon/receipt-checker/internal/checker"
	"github.com/Fukuemon/receipt-checker/internal/model"
	"github.com/Fukuemon/receipt-checker/internal/source"
)

// Check レセプト照合を実行して結果テーブルを返す
// POST /api/check (multipart: receipt_file 必須, calendar_id_file 任意, send_alerts 任意)
func (h *Handler) Check(c *gin.Context) {
	opts, closeFile, ok := h.buildOptions(c)
	if !ok {
		return
	}
	defer closeFile()

	result, err := h.checker.Run(c.Request.Context(), opts)
	if err != nil {
		h.renderRunError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// buildOptions multipart リクエストから照合オプションを組み立てる
// 失敗時はレスポンスを書き込んで ok=false を返す。
// ok=true のとき、呼び出し側は closeFile で受け取ったファイルを閉じること
func (h *Handler) buildOptions(c *gin.Context) (opts checker.Options, closeFile func(), ok bool) {
	fileHeader, err := c.FormFile("receipt_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ibowのレセプトファイル（receipt_file）を添付してください"})
		return checker.Options{}, nil, false
	}

	receiptFile, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "アップロードされたファイルが開けません。再度アップロードしてください"})
		return checker.Options{}, nil, false
	}

	opts = checker.Options{
		ReceiptFile:     receiptFile,
		ReceiptFilename: fileHeader.Filename,
		SendAlerts:      c.DefaultPostForm("send_alerts", "false") == "true",
	}

	// カレンダーIDファイルは任意。未指定なら全カレンダーを対象にする
	if idHeader, err := c.FormFile("calendar_id_file"); err == nil {
		ids, err := readCalendarIDs(idHeader)
		if err != nil {
			receiptFile.Close()
			h.renderRunError(c, err)
			return checker.Options{}, nil, false
		}
		opts.CalendarIDs = ids
	}

	return opts, func() { receiptFile.Close() }, true
}

// readCalendarIDs アップロードされた対応表からカレンダー ID を読み出す
func readCalendarIDs(header *multipart.FileHeader) ([]string, error) {
	file, err := header.Open()
	if err != nil {
		return nil, model.InvalidInputf("カレンダーIDファイル %s が開けません", header.Filename)
	}
	defer file.Close()
	return source.ParseCalendarIDs(file, header.Filename)
}

// renderRunError エラー種別を HTTP ステータスと利用者向けメッセージに変換する
func (h *Handler) renderRunError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checker.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrSourceUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidInputFile), errors.Is(err, model.ErrFormat):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.log.WithField("error", err.Error()).Error("照合処理で想定外のエラーが発生しました")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "照合処理に失敗しました。開発者にお問い合わせください"})
	}
}
