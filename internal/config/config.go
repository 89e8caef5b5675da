package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	AppPort        string
	TrustedProxies []string

	DbDriver   string
	DbHost     string
	DbPort     string
	DbUser     string
	DbPassword string
	DbName     string
	DbParams   string
	SqlitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NatsURL             string
	NotifySubjectPrefix string
	NotifyWorkers       int
	NotifyQueueSize     int

	SessionTTL         time.Duration
	SessionRememberTTL time.Duration
	ResetTokenTTL      time.Duration
	BcryptCost         int

	UsersSeeAllTasks bool
	DefaultPageSize  int
	MaxPageSize      int
	SeedDefaultUsers bool

	TranslationFolder string
	ShutdownTimeout   time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppPort:        getEnv("APP_PORT", "8080"),
		TrustedProxies: parseList(os.Getenv("TRUSTED_PROXIES")),

		DbDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
		DbHost:     getEnv("MYSQL_HOST", "db"),
		DbPort:     getEnv("MYSQL_PORT", "3306"),
		DbUser:     getEnv("MYSQL_USER", "tasks"),
		DbPassword: getEnv("MYSQL_PASSWORD", "tasks"),
		DbName:     getEnv("MYSQL_DATABASE", "tasks"),
		DbParams:   getEnv("MYSQL_PARAMS", "parseTime=true&loc=UTC&clientFoundRows=true"),
		SqlitePath: getEnv("SQLITE_PATH", "tasks.db"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		NatsURL:             getEnv("NATS_URL", ""),
		NotifySubjectPrefix: getEnv("NOTIFY_SUBJECT_PREFIX", "tasks.notifications"),
		NotifyWorkers:       getEnvInt("NOTIFY_WORKERS", 4),
		NotifyQueueSize:     getEnvInt("NOTIFY_QUEUE_SIZE", 256),

		SessionTTL:         getEnvDuration("SESSION_TTL", 8*time.Hour),
		SessionRememberTTL: getEnvDuration("SESSION_REMEMBER_TTL", 30*24*time.Hour),
		ResetTokenTTL:      getEnvDuration("RESET_TOKEN_TTL", time.Hour),
		BcryptCost:         getEnvInt("BCRYPT_COST", 10),

		UsersSeeAllTasks: getEnvBool("USERS_SEE_ALL_TASKS", false),
		DefaultPageSize:  getEnvInt("DEFAULT_PAGE_SIZE", 25),
		MaxPageSize:      getEnvInt("MAX_PAGE_SIZE", 100),
		SeedDefaultUsers: getEnvBool("SEED_DEFAULT_USERS", false),

		TranslationFolder: getEnv("TRANSLATION_FOLDER", "pkg/translator/translation"),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		zap.L().Warn("invalid integer in environment, using default", zap.String("key", key), zap.Int("default", fallback))
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		zap.L().Warn("invalid boolean in environment, using default", zap.String("key", key), zap.Bool("default", fallback))
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		zap.L().Warn("invalid duration in environment, using default", zap.String("key", key), zap.Duration("default", fallback))
		return fallback
	}
	return parsed
}

func parseList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil
	}

	return items
}
