package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// RateLimits — пороги для одного класса запросов (результаты или комментарии),
// по трём окнам: минута/час/сутки.
type RateLimits struct {
	PerMinute int
	PerHour   int
	PerDay    int
}

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	Env            string
	ServerPort     int
	DatabaseURL    string
	MigrationsDir  string
	FrontendOrigin string

	// Админка
	AdminEmails       []string
	AuthJWTSecret     string // секрет identity-провайдера для локальной проверки access token
	AdminPasswordHash string // опциональный bcrypt-хеш для парольного входа в dev

	// Cloudflare R2
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	// Admission control
	ResultLimits  RateLimits
	CommentLimits RateLimits

	// Лимиты комментариев
	CommentMaxLength  int
	NicknameMaxLength int
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtSecret := os.Getenv("AUTH_JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET environment variable is not set")
	}

	port, err := envInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	adminEmails := splitList(os.Getenv("ADMIN_EMAILS"))
	if len(adminEmails) == 0 {
		return nil, fmt.Errorf("ADMIN_EMAILS environment variable is not set")
	}

	cfg := &Config{
		Env:            envOr("ENV", "development"),
		ServerPort:     port,
		DatabaseURL:    dbURL,
		MigrationsDir:  envOr("MIGRATIONS_DIR", "migrations"),
		FrontendOrigin: envOr("FRONTEND_ORIGIN", "http://localhost:3000"),

		AdminEmails:       adminEmails,
		AuthJWTSecret:     jwtSecret,
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	// При росте трафика дневные лимиты поднимаются без изменения кода.
	if cfg.ResultLimits, err = loadLimits("RESULT", RateLimits{PerMinute: 4, PerHour: 60, PerDay: 300}); err != nil {
		return nil, err
	}
	if cfg.CommentLimits, err = loadLimits("COMMENT", RateLimits{PerMinute: 4, PerHour: 100, PerDay: 300}); err != nil {
		return nil, err
	}

	if cfg.CommentMaxLength, err = envInt("COMMENT_MAX_LENGTH", 150); err != nil {
		return nil, err
	}
	if cfg.NicknameMaxLength, err = envInt("NICKNAME_MAX_LENGTH", 10); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func loadLimits(prefix string, def RateLimits) (RateLimits, error) {
	var out RateLimits
	var err error
	if out.PerMinute, err = envInt(prefix+"_LIMIT_PER_MINUTE", def.PerMinute); err != nil {
		return out, err
	}
	if out.PerHour, err = envInt(prefix+"_LIMIT_PER_HOUR", def.PerHour); err != nil {
		return out, err
	}
	if out.PerDay, err = envInt(prefix+"_LIMIT_PER_DAY", def.PerDay); err != nil {
		return out, err
	}
	return out, nil
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
