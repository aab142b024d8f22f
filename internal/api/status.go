package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// version アプリケーションのバージョン
const version = "1.0.0"

// GetStatus 稼働状態と直近の実行結果を返す
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := gin.H{
		"status":             "ok",
		"version":            version,
		"calendarConfigured": h.cfg.Calendar.APIURL != "",
		"chatworkEnabled":    h.cfg.Chatwork.Enabled && h.cfg.Chatwork.APIToken != "",
	}

	if h.store != nil {
		last, err := h.store.LastRun()
		if err != nil {
			h.log.WithField("error", err.Error()).Error("直近の実行履歴の取得に失敗しました")
		} else if last != nil {
			resp["lastRun"] = last
		}
	}

	c.JSON(http.StatusOK, resp)
}
