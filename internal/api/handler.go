package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Fukuemon/receipt-checker/internal/checker"
	"github.com/Fukuemon/receipt-checker/internal/config"
	"github.com/Fukuemon/receipt-checker/internal/store"
)

// Handler API 処理器
type Handler struct {
	checker   *checker.Checker
	store     *store.Store
	cfg       *config.AppConfig
	log       *logrus.Logger
	downloads *exportDownloadStore
}

// NewHandler API 処理器を生成する。runStore は nil 可（履歴なしで動作）
func NewHandler(c *checker.Checker, runStore *store.Store, cfg *config.AppConfig, logger *logrus.Logger) *Handler {
	return &Handler{
		checker:   c,
		store:     runStore,
		cfg:       cfg,
		log:       logger,
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes API ルートを登録する
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 稼働状態
	router.GET("/status", h.GetStatus)

	// 照合の実行
	router.POST("/check", h.Check)
	router.POST("/check/export", h.CheckExport)
	router.GET("/export/download/:token", h.DownloadExport)

	// 実行履歴
	router.GET("/runs", h.ListRuns)

	// 設定の閲覧
	router.GET("/config", h.GetConfig)
}
