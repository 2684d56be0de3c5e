package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	S3       S3Config
	Cart     CartConfig
	OrderAPI OrderAPIConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	LogLevel    string
	LogFormat   string
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
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	CartPrefix      string
}

// StorageBackend selects where cart snapshots are written
type StorageBackend string

const (
	StorageMemory   StorageBackend = "memory"
	StorageFile     StorageBackend = "file"
	StorageRedis    StorageBackend = "redis"
	StoragePostgres StorageBackend = "postgres"
	StorageS3       StorageBackend = "s3"
)

type CartConfig struct {
	Storage       StorageBackend
	StorageKey    string
	FileDir       string
	Retention     time.Duration // redis TTL and snapshot purge age
	IdleTTL       time.Duration
	EvictionSpec  string
	DeliveryPrice float64
}

type OrderAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", ""),
			LogFormat:   getEnv("LOG_FORMAT", "console"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "tene"),
			Password: getEnv("DB_PASSWORD", "tene"),
			DBName:   getEnv("DB_NAME", "tene"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  parseBool(getEnv("REDIS_ENABLED", "false")),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:4200")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "tene-carts"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			CartPrefix:      getEnv("AWS_S3_CART_PREFIX", "carts"),
		},
		Cart: CartConfig{
			Storage:       StorageBackend(strings.ToLower(getEnv("CART_STORAGE", string(StorageMemory)))),
			StorageKey:    getEnv("CART_STORAGE_KEY", "tene_cart"),
			FileDir:       getEnv("CART_FILE_DIR", "./data/carts"),
			Retention:     parseDuration(getEnv("CART_RETENTION", "720h"), 720*time.Hour),
			IdleTTL:       parseDuration(getEnv("CART_IDLE_TTL", "30m"), 30*time.Minute),
			EvictionSpec:  getEnv("CART_EVICTION_SPEC", "@every 5m"),
			DeliveryPrice: parseFloat(getEnv("CART_DELIVERY_PRICE", "5"), 5),
		},
		OrderAPI: OrderAPIConfig{
			BaseURL: getEnv("ORDER_API_BASE_URL", "http://localhost:3000/api"),
			Timeout: parseDuration(getEnv("ORDER_API_TIMEOUT", "15s"), 15*time.Second),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	switch c.Cart.Storage {
	case StorageMemory, StorageFile, StoragePostgres, StorageS3:
	case StorageRedis:
		if !c.Redis.Enabled {
			return fmt.Errorf("CART_STORAGE=redis requires REDIS_ENABLED=true")
		}
	default:
		return fmt.Errorf("unknown CART_STORAGE %q", c.Cart.Storage)
	}
	if c.Cart.StorageKey == "" {
		return fmt.Errorf("CART_STORAGE_KEY must not be empty")
	}
	if c.OrderAPI.BaseURL == "" {
		return fmt.Errorf("ORDER_API_BASE_URL must not be empty")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return v
}

func parseFloat(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Printf("Invalid number %s, using default %v", s, fallback)
		return fallback
	}
	return v
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
