package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Queue    QueueConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Venue    *VenueConfig
}

type ServerConfig struct {
	Port            string
	StaticDir       string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	LogLevel        string
	GinMode         string
}

type StorageConfig struct {
	Driver    string // memory, redis, postgres
	KeyPrefix string
}

type QueueConfig struct {
	Driver     string // memory, redis
	ConsumerID string
	BufferSize int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

var AppConfig *Config

func LoadConfig() (*Config, error) {
	// .env 不存在時直接使用環境變數
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	serverConfig, err := GetServerConfig()
	if err != nil {
		return nil, err
	}
	redisConfig, err := GetRedisConfig()
	if err != nil {
		return nil, err
	}
	queueConfig, err := GetQueueConfig()
	if err != nil {
		return nil, err
	}
	storageConfig := GetStorageConfig()

	if err := validateDrivers(storageConfig, queueConfig); err != nil {
		return nil, err
	}

	venue, err := LoadVenue(getEnv("VENUE_CONFIG", "configs/venue.yaml"))
	if err != nil {
		return nil, err
	}

	AppConfig = &Config{
		Server:   serverConfig,
		Storage:  storageConfig,
		Queue:    queueConfig,
		Database: GetDatabaseConfig(),
		Redis:    redisConfig,
		Venue:    venue,
	}

	return AppConfig, nil
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: 5 * time.Second,
			LogLevel:        "debug",
			GinMode:         "test",
		},
		Storage:  StorageConfig{Driver: "memory", KeyPrefix: "test:"},
		Queue:    QueueConfig{Driver: "memory", BufferSize: 16},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Venue:    DefaultVenue(),
	}
}

func GetServerConfig() (ServerConfig, error) {
	timeout, err := getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 15)
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		Port:            getEnv("PORT", "8080"),
		StaticDir:       getEnv("STATIC_DIR", "./public"),
		AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ShutdownTimeout: time.Duration(timeout) * time.Second,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		GinMode:         getEnv("GIN_MODE", "release"),
	}, nil
}

func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Driver:    getEnv("STORAGE_DRIVER", "memory"),
		KeyPrefix: getEnv("STORAGE_KEY_PREFIX", "locker-desk:"),
	}
}

func GetQueueConfig() (QueueConfig, error) {
	size, err := getEnvAsInt("QUEUE_BUFFER_SIZE", 256)
	if err != nil {
		return QueueConfig{}, err
	}

	return QueueConfig{
		Driver:     getEnv("QUEUE_DRIVER", "memory"),
		ConsumerID: getEnv("QUEUE_CONSUMER_ID", ""),
		BufferSize: size,
	}, nil
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() (RedisConfig, error) {
	db, err := getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return RedisConfig{}, err
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}, nil
}

func validateDrivers(storage StorageConfig, queue QueueConfig) error {
	switch storage.Driver {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("unsupported storage driver: %s", storage.Driver)
	}
	switch queue.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported queue driver: %s", queue.Driver)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return i, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
