package server

import (
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Fukuemon/receipt-checker/internal/alert"
	"github.com/Fukuemon/receipt-checker/internal/api"
	"github.com/Fukuemon/receipt-checker/internal/checker"
	"github.com/Fukuemon/receipt-checker/internal/config"
	"github.com/Fukuemon/receipt-checker/internal/source"
	"github.com/Fukuemon/receipt-checker/internal/store"
)

// Server HTTP サーバー
type Server struct {
	router *gin.Engine
	store  *store.Store
	log    *logrus.Logger
}

// NewServer 設定から照合パイプライン一式を組み立ててサーバーを生成する
func NewServer(cfg *config.AppConfig, logger *logrus.Logger) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 実行履歴用 SQLite。開けなくても履歴なしで照合は続行できる
	var runStore *store.Store
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		logger.WithField("error", err.Error()).Warn("データディレクトリの作成に失敗しました。実行履歴は保存されません")
	} else {
		runStore, err = store.New(filepath.Join(dataDir, "receipt-checker.db"))
		if err != nil {
			logger.WithField("error", err.Error()).Warn("データベースの初期化に失敗しました。実行履歴は保存されません")
			runStore = nil
		}
	}

	calendar := source.NewCalendarClient(cfg.Calendar.APIURL, time.Duration(cfg.Calendar.TimeoutSeconds)*time.Second)

	var alerts checker.AlertSender
	if cfg.Chatwork.Enabled && cfg.Chatwork.APIToken != "" {
		alerts = alert.NewDispatcher(cfg.Chatwork.BaseURL, cfg.Chatwork.APIToken, cfg.Owners, logger)
	}

	chk := checker.New(calendar, cfg.RuleTable(), alerts, runStore, logger)
	handler := api.NewHandler(chk, runStore, cfg, logger)

	s := &Server{
		router: gin.Default(),
		store:  runStore,
		log:    logger,
	}

	s.setupRoutes(handler)

	return s
}

// setupRoutes ルートを設定する
func (s *Server) setupRoutes(handler *api.Handler) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		handler.RegisterRoutes(apiGroup)
	}
}

// Run サーバーを起動する
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 保持しているリソースを解放する
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
