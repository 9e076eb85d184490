package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	JWTSecret string

	Log      string
	LogLevel string
	LogDir   string
	Env      string // dev|prod

	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	RequestTimeout  time.Duration
	NewsPageSize    int
	NewsPreviewSize int

	FrontendURL string
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует — чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	timeout, err := time.ParseDuration(def(os.Getenv("REQUEST_TIMEOUT"), "5s"))
	if err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}
	pageSize, err := strconv.Atoi(def(os.Getenv("NEWS_PAGE_SIZE"), "9"))
	if err != nil {
		return nil, fmt.Errorf("NEWS_PAGE_SIZE: %w", err)
	}
	previewSize, err := strconv.Atoi(def(os.Getenv("NEWS_PREVIEW_SIZE"), "3"))
	if err != nil {
		return nil, fmt.Errorf("NEWS_PREVIEW_SIZE: %w", err)
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		LogDir:   def(os.Getenv("LOG_DIR"), "logs"),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    def(os.Getenv("S3_REGION"), "auto"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    def(os.Getenv("S3_BUCKET"), "news-images"),
		S3PublicURL: strings.TrimRight(os.Getenv("S3_PUBLIC_URL"), "/"),

		RequestTimeout:  timeout,
		NewsPageSize:    pageSize,
		NewsPreviewSize: previewSize,

		FrontendURL: os.Getenv("FRONTEND_URL"),
	}

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	// Критичные: БД
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
	}

	// Без секрета невозможно проверить ни один токен
	if strings.TrimSpace(c.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	if c.NewsPageSize < 1 || c.NewsPreviewSize < 1 {
		return nil, fmt.Errorf("NEWS_PAGE_SIZE/NEWS_PREVIEW_SIZE must be positive")
	}

	if c.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	// S3 — предупреждение: новости работают и без обложек
	if c.S3Endpoint == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
		warnings = append(warnings, "S3 credentials are not set, cover uploads will fail")
	}
	if c.S3PublicURL == "" {
		warnings = append(warnings, "S3_PUBLIC_URL is empty, cover URLs cannot be issued")
	}

	if c.Port == "" {
		warnings = append(warnings, "PORT is empty, using default 8080")
	}

	return warnings, nil
}

// GetDSN — полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe — DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
