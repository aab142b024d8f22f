package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

// GetConfig 現在の設定を返す（Chatwork トークンは含めない）
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	owners := make([]string, 0, len(h.cfg.Owners))
	for name := range h.cfg.Owners {
		owners = append(owners, name)
	}
	sort.Strings(owners)

	ranges := make(map[string]string)
	for code, r := range h.cfg.RuleTable().Ranges() {
		ranges[code] = r.String()
	}

	c.JSON(http.StatusOK, gin.H{
		"calendarApiUrl":  h.cfg.Calendar.APIURL,
		"chatworkEnabled": h.cfg.Chatwork.Enabled,
		"owners":          owners,
		"serviceRanges":   ranges,
	})
}
