package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"JWT_SECRET", "LOG", "LOGLEVEL", "LOG_DIR", "ENV",
		"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_PUBLIC_URL",
		"REQUEST_TIMEOUT", "NEWS_PAGE_SIZE", "NEWS_PREVIEW_SIZE", "FRONTEND_URL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("ошибка загрузки конфига: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
	if cfg.NewsPageSize != 9 || cfg.NewsPreviewSize != 3 {
		t.Errorf("page sizes = %d/%d, want 9/3", cfg.NewsPageSize, cfg.NewsPreviewSize)
	}
	if cfg.S3Bucket != "news-images" {
		t.Errorf("S3Bucket = %q", cfg.S3Bucket)
	}
	if cfg.LogLevel != "info" || cfg.Env != "prod" {
		t.Errorf("LogLevel/Env = %q/%q", cfg.LogLevel, cfg.Env)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQUEST_TIMEOUT", "750ms")
	t.Setenv("NEWS_PAGE_SIZE", "12")
	t.Setenv("S3_PUBLIC_URL", "https://cdn.example.com/news-images/")
	t.Setenv("LOGLEVEL", "DEBUG")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("ошибка загрузки конфига: %v", err)
	}
	if cfg.RequestTimeout != 750*time.Millisecond {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.NewsPageSize != 12 {
		t.Errorf("NewsPageSize = %d", cfg.NewsPageSize)
	}
	if cfg.S3PublicURL != "https://cdn.example.com/news-images" {
		t.Errorf("S3PublicURL = %q, trailing slash must be trimmed", cfg.S3PublicURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadConfig_BadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQUEST_TIMEOUT", "soon")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("ожидалась ошибка для некорректного REQUEST_TIMEOUT")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Port: "8080", DbHost: "db", DbUser: "u", DbName: "n",
		JWTSecret: "s", RequestTimeout: time.Second, NewsPageSize: 9, NewsPreviewSize: 3,
	}

	tests := []struct {
		name     string
		mutate   func(c *Config)
		wantErr  bool
		warnings int
	}{
		{name: "no S3 gives warnings", mutate: func(c *Config) {}, warnings: 2},
		{name: "missing db host", mutate: func(c *Config) { c.DbHost = "" }, wantErr: true},
		{name: "missing jwt secret", mutate: func(c *Config) { c.JWTSecret = " " }, wantErr: true},
		{name: "zero page size", mutate: func(c *Config) { c.NewsPageSize = 0 }, wantErr: true},
		{name: "full S3", mutate: func(c *Config) {
			c.S3Endpoint, c.S3AccessKey, c.S3SecretKey, c.S3PublicURL = "e", "a", "s", "https://cdn"
		}, warnings: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			warnings, err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(warnings) != tt.warnings {
				t.Errorf("warnings = %v, want %d", warnings, tt.warnings)
			}
		})
	}
}

func TestGetDSNSafe_HidesPassword(t *testing.T) {
	c := Config{DbUser: "u", DbPass: "secret", DbHost: "h", DbPort: "5432", DbName: "n", DbSSLMode: "disable"}
	if got := c.GetDSNSafe(); got != "postgres://u:***@h:5432/n?sslmode=disable" {
		t.Errorf("GetDSNSafe() = %q", got)
	}
	if got := c.GetDSN(); got != "postgres://u:secret@h:5432/n?sslmode=disable" {
		t.Errorf("GetDSN() = %q", got)
	}
}
