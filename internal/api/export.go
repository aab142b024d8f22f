package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Fukuemon/receipt-checker/internal/exporter"
	"github.com/Fukuemon/receipt-checker/internal/model"
)

// CheckExport 照合を実行し、結果ファイルのダウンロード URL を返す
// POST /api/check/export (multipart: receipt_file 必須, format=xlsx|csv)
func (h *Handler) CheckExport(c *gin.Context) {
	opts, closeFile, ok := h.buildOptions(c)
	if !ok {
		return
	}
	defer closeFile()

	format := c.DefaultPostForm("format", "xlsx")
	if format != "xlsx" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format には xlsx か csv を指定してください"})
		return
	}

	result, err := h.checker.Run(c.Request.Context(), opts)
	if err != nil {
		h.renderRunError(c, err)
		return
	}

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("receipt_checker_%s.%s", result.RunID, format))
	if err := writeExportFile(tempPath, format, result.Rows); err != nil {
		h.log.WithField("error", err.Error()).Error("結果ファイルの書き出しに失敗しました")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "結果ファイルの書き出しに失敗しました"})
		return
	}

	filename := fmt.Sprintf("照合結果_%s.%s", time.Now().Format("20060102_150405"), format)
	token := h.downloads.put(tempPath, filename, 10*time.Minute)

	c.JSON(http.StatusOK, gin.H{
		"runId":       result.RunID,
		"summary":     result.Summary,
		"alertsSent":  result.Alerts,
		"downloadUrl": "/api/export/download/" + token,
	})
}

// writeExportFile 照合結果を指定フォーマットで一時ファイルに書き出す
func writeExportFile(path, format string, rows []model.ReportRow) error {
	if format == "csv" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return exporter.WriteCSV(f, rows)
	}

	book, err := exporter.BuildXLSX(rows)
	if err != nil {
		return err
	}
	defer book.Close()
	return book.SaveAs(path)
}

// DownloadExport 発行済みトークンで結果ファイルをダウンロードする
// GET /api/export/download/:token
// ダウンロードは 1 回限り。提供後に一時ファイルを削除する
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")

	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "ダウンロードの有効期限が切れています。再度エクスポートしてください"})
		return
	}

	c.FileAttachment(item.filePath, item.filename)
	_ = os.Remove(item.filePath)
}
