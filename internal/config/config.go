package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment はアプリケーションの実行モードを表す。
type Environment string

const (
	// EnvProduction は本番モード。
	EnvProduction Environment = "production"
	// EnvDevelopment はローカル開発モード。
	EnvDevelopment Environment = "development"
	// EnvTest はテストモード。全件削除などのメンテナンス操作はこのモードでのみ許可される。
	EnvTest Environment = "test"
)

// DefaultGeocoderBaseURL はOpenCage Geocoding APIのエンドポイント。
const DefaultGeocoderBaseURL = "https://api.opencagedata.com/geocode/v1/json"

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Geocoding
	OpenCageAPIKey  string
	GeocoderBaseURL string
	// GeocoderTimeout はジオコーダ呼び出しのHTTPタイムアウト。0はタイムアウトなし。
	GeocoderTimeout time.Duration

	// Region
	SupportedCountries []string

	// Rate Limit
	RateLimitSignup int

	// Server
	ServerPort string
	Env        Environment

	// CORS
	CORSAllowedOrigin string

	// Logging
	LogLevel string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	// OPENCAGE_API は旧名称。新名称が優先される。
	cfg.OpenCageAPIKey = getEnvString("OPENCAGE_API_KEY", os.Getenv("OPENCAGE_API"))
	if cfg.OpenCageAPIKey == "" {
		missing = append(missing, "OPENCAGE_API_KEY")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	env, err := ParseEnvironment(getEnvString("APP_ENV", string(EnvProduction)))
	if err != nil {
		return nil, err
	}
	cfg.Env = env

	// Optional fields with defaults
	cfg.GeocoderBaseURL = getEnvString("GEOCODER_BASE_URL", DefaultGeocoderBaseURL)
	cfg.GeocoderTimeout = getEnvDuration("GEOCODER_TIMEOUT", 0)
	cfg.SupportedCountries = getEnvList("SUPPORTED_COUNTRIES", []string{"United States"})
	cfg.RateLimitSignup = getEnvInt("RATE_LIMIT_SIGNUP", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "*")
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")

	return cfg, nil
}

// ParseEnvironment は文字列を実行モードに変換する。
// 未知の値はエラーとする（タイプミスでテストモードが有効になることを防ぐ）。
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(strings.ToLower(strings.TrimSpace(s))) {
	case EnvProduction:
		return EnvProduction, nil
	case EnvDevelopment:
		return EnvDevelopment, nil
	case EnvTest:
		return EnvTest, nil
	default:
		return "", fmt.Errorf("unknown APP_ENV: %q", s)
	}
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

// getEnvList はカンマ区切りの環境変数をスライスとして読み込む。
// 空要素は除外し、結果が空になる場合はデフォルト値を返す。
func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
