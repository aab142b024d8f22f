package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Fukuemon/receipt-checker/internal/store"
)

// ListRuns 照合の実行履歴を新しい順に返す
// GET /api/runs?limit=20
func (h *Handler) ListRuns(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, gin.H{"runs": []store.RunLog{}})
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit には正の整数を指定してください"})
			return
		}
		limit = n
	}

	runs, err := h.store.ListRuns(limit)
	if err != nil {
		h.log.WithField("error", err.Error()).Error("実行履歴の取得に失敗しました")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "実行履歴の取得に失敗しました"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
