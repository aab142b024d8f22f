package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/Fukuemon/receipt-checker/internal/config"
	"github.com/Fukuemon/receipt-checker/internal/server"
	"github.com/Fukuemon/receipt-checker/internal/util"
)

var (
	port    = flag.Int("port", 0, "サービスポート (config.toml 優先。port が明示設定されていない場合のみ有効)")
	devMode = flag.Bool("dev", false, "開発モード")
	dataDir = flag.String("dataDir", "", "データディレクトリ (設定ファイルを上書き)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Receipt Checker - 訪問看護レセプト照合ツール")
	fmt.Println("==========================================")

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// 設定の読み込み
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		logger.WithField("error", err.Error()).Warn("設定の読み込みに失敗したため、既定の設定を使用します")
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// コマンドライン引数による上書き
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if cfg.Server.DevMode {
		logger.SetFormatter(&logrus.TextFormatter{})
		logger.SetLevel(logrus.DebugLevel)
	}

	if cfg.Calendar.APIURL == "" {
		fmt.Println("警告: calendar.api_url が未設定です。照合実行時にエラーになります")
	}

	// サーバーの生成
	srv := server.NewServer(cfg, logger)
	defer srv.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("サービス起動中、ポート %d で待ち受けます...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			logger.WithField("error", err.Error()).Fatal("サービスの起動に失敗しました")
		}
	}()

	// ブラウザを開く
	if !cfg.Server.DevMode {
		fmt.Printf("ブラウザを開いています: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("ブラウザを自動で開けませんでした。手動でアクセスしてください: %s\n", url)
		}
	} else {
		fmt.Printf("開発モード: %s にアクセスしてください\n", url)
	}

	fmt.Println("\nCtrl+C でサービスを停止します...")

	// シグナル待ち
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nサービスを終了します...")
}
