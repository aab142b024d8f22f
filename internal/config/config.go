package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/Fukuemon/receipt-checker/internal/rule"
)

// AppConfig アプリケーション設定
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Calendar CalendarConfig `toml:"calendar"`
	Chatwork ChatworkConfig `toml:"chatwork"`
	// Owners 主訪問者名 → Chatwork ルーム ID の対応表
	Owners map[string]int `toml:"owners"`
	// ServiceRanges サービス内容 → [最小分, 最大分]。未指定なら既定テーブルを使う
	ServiceRanges map[string][]int `toml:"service_ranges"`
}

// ServerConfig サーバー設定
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig データ設定
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// CalendarConfig カレンダー取得の設定
type CalendarConfig struct {
	APIURL         string `toml:"api_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ChatworkConfig アラート送信の設定
// APIToken は環境変数 CHATWORK_API_TOKEN でも与えられる
type ChatworkConfig struct {
	BaseURL  string `toml:"base_url"`
	APIToken string `toml:"api_token"`
	Enabled  bool   `toml:"enabled"`
}

// LoadConfigInfo 設定読み込みのメタ情報
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig 既定の設定
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20280,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Calendar: CalendarConfig{
			APIURL:         "",
			TimeoutSeconds: 30,
		},
		Chatwork: ChatworkConfig{
			BaseURL: "https://api.chatwork.com/v2",
			Enabled: false,
		},
		Owners:        map[string]int{},
		ServiceRanges: nil,
	}
}

// RuleTable 設定からサービス時間範囲テーブルを構築する
// service_ranges が未指定または空なら既定テーブル
func (c *AppConfig) RuleTable() *rule.Table {
	if len(c.ServiceRanges) == 0 {
		return rule.NewTable(nil)
	}
	ranges := make(map[string]rule.Range, len(c.ServiceRanges))
	for code, pair := range c.ServiceRanges {
		if len(pair) != 2 {
			continue
		}
		ranges[code] = rule.Range{Min: pair[0], Max: pair[1]}
	}
	return rule.NewTable(ranges)
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 実行ファイルのあるディレクトリを取得する
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo config.toml から設定を読み込みメタ情報とともに返す
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// 設定ファイルがなければ既定値で動かす
			applyEnvOverrides(config)
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	applyEnvOverrides(config)

	return config, info, nil
}

// applyEnvOverrides 環境変数による上書き（検証環境・ローカル実行用）
func applyEnvOverrides(config *AppConfig) {
	if v := os.Getenv("RECEIPT_CHECKER_CALENDAR_API_URL"); v != "" {
		config.Calendar.APIURL = v
	}
	if v := os.Getenv("CHATWORK_API_TOKEN"); v != "" {
		config.Chatwork.APIToken = v
	}
}

// LoadConfig config.toml から設定を読み込む
// 設定ファイルは実行ファイルと同じディレクトリに置く
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 設定を config.toml に保存する
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir データディレクトリを作成して返す
// 実行ファイルと同じディレクトリ配下に置く
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := filepath.Join(exeDir, config.Data.DataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// サブディレクトリ
	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
