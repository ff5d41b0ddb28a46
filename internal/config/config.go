package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

var ErrEmptyEnvironmentVariable = errors.New("empty environment variable")

// Store backends
const (
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"
	StoreBackendRedis    = "redis"
	StoreBackendLevelDB  = "leveldb"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	Store     StoreConfig
	Telegram  TelegramConfig
	Kafka     KafkaConfig
	AdNetwork AdNetworkConfig
	Rewards   RewardsConfig
	Server    ServerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Username string
	Password string
	Name     string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StoreConfig selects the key/value backend that holds user state
type StoreConfig struct {
	Backend     string
	LevelDBPath string
}

// TelegramConfig holds bot settings used for initData validation and the host bridge
type TelegramConfig struct {
	BotToken       string
	OperatorChatID int64
	DevMode        bool
	DevUserID      int64
	InitDataMaxAge time.Duration
	// AppLink is the t.me link of the mini app used in share links
	AppLink string
}

// KafkaConfig holds event streaming configuration for the host bridge
type KafkaConfig struct {
	Enabled bool
	Brokers string
	Topic   string
}

// AdNetworkConfig holds the ad capability client settings
type AdNetworkConfig struct {
	BaseURL           string
	ZoneID            string
	APIKey            string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// RewardsConfig holds the fixed economics of the app
type RewardsConfig struct {
	PerAdReward         decimal.Decimal
	WithdrawalThreshold decimal.Decimal
	ReferralBonus       decimal.Decimal
	ReferralCap         int
	AdDuration          time.Duration
	PopupInterval       time.Duration
	MaxRetries          int
	RetryBackoff        time.Duration
	ConfirmationWindow  time.Duration
	Location            *time.Location
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port       int
	WebAppURI  string
	Production bool
	// RateLimitRPM bounds API requests per user per minute
	RateLimitRPM  int
	SweepInterval time.Duration
}

// DefaultRewards returns the economics the mini-app ships with.
func DefaultRewards() RewardsConfig {
	return RewardsConfig{
		PerAdReward:         decimal.RequireFromString("0.003"),
		WithdrawalThreshold: decimal.RequireFromString("5.00"),
		ReferralBonus:       decimal.RequireFromString("0.05"),
		ReferralCap:         5,
		AdDuration:          30 * time.Second,
		PopupInterval:       2 * time.Minute,
		MaxRetries:          2,
		RetryBackoff:        3 * time.Second,
		ConfirmationWindow:  10 * time.Minute,
		Location:            time.UTC,
	}
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	production := os.Getenv("GO_ENV") == "production"

	// Load env.local in non-production environments
	if !production {
		if err := godotenv.Load("env.local"); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}
	cfg.Server.Production = production

	var err error

	// Store configuration
	cfg.Store.Backend = getEnvWithDefault("STORE_BACKEND", StoreBackendMemory)
	switch cfg.Store.Backend {
	case StoreBackendMemory:
	case StoreBackendPostgres:
		if cfg.Database.Host, err = requireEnv("DB_HOST"); err != nil {
			return nil, err
		}
		if cfg.Database.Username, err = requireEnv("DB_USERNAME"); err != nil {
			return nil, err
		}
		if cfg.Database.Password, err = requireEnv("DB_PASSWORD"); err != nil {
			return nil, err
		}
		if cfg.Database.Name, err = requireEnv("DB_NAME"); err != nil {
			return nil, err
		}
	case StoreBackendRedis:
		cfg.Redis.Host = getEnvWithDefault("REDIS_HOST", "localhost")
		cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
		if cfg.Redis.Port, err = getIntWithDefault("REDIS_PORT", 6379); err != nil {
			return nil, err
		}
		if cfg.Redis.DB, err = getIntWithDefault("REDIS_DB", 0); err != nil {
			return nil, err
		}
	case StoreBackendLevelDB:
		cfg.Store.LevelDBPath = getEnvWithDefault("LEVELDB_PATH", "./data/earn")
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.Store.Backend)
	}

	// Telegram configuration
	cfg.Telegram.DevMode = getEnvWithDefault("DEV_MODE", "false") == "true"
	if cfg.Telegram.DevMode {
		cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
		if cfg.Telegram.DevUserID, err = getInt64WithDefault("DEV_TELEGRAM_USER_ID", 1); err != nil {
			return nil, err
		}
	} else if cfg.Telegram.BotToken, err = requireEnv("TELEGRAM_BOT_TOKEN"); err != nil {
		return nil, err
	}
	if cfg.Telegram.OperatorChatID, err = getInt64WithDefault("TELEGRAM_OPERATOR_CHAT_ID", 0); err != nil {
		return nil, err
	}
	if cfg.Telegram.InitDataMaxAge, err = getDurationWithDefault("TELEGRAM_INIT_DATA_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}
	cfg.Telegram.AppLink = os.Getenv("TELEGRAM_APP_LINK")

	// Kafka configuration
	cfg.Kafka.Enabled = getEnvWithDefault("KAFKA_ENABLED", "false") == "true"
	if cfg.Kafka.Enabled {
		if cfg.Kafka.Brokers, err = requireEnv("KAFKA_BROKERS"); err != nil {
			return nil, err
		}
	}
	cfg.Kafka.Topic = getEnvWithDefault("KAFKA_TOPIC", "earn-bridge-events")

	// Ad network configuration
	if cfg.AdNetwork.BaseURL, err = requireEnv("AD_NETWORK_BASE_URL"); err != nil {
		return nil, err
	}
	if cfg.AdNetwork.ZoneID, err = requireEnv("AD_NETWORK_ZONE_ID"); err != nil {
		return nil, err
	}
	cfg.AdNetwork.APIKey = os.Getenv("AD_NETWORK_API_KEY")
	rps := getEnvWithDefault("AD_NETWORK_RPS", "20")
	if cfg.AdNetwork.RequestsPerSecond, err = strconv.ParseFloat(rps, 64); err != nil {
		return nil, fmt.Errorf("failed to parse AD_NETWORK_RPS: %w", err)
	}
	if cfg.AdNetwork.Timeout, err = getDurationWithDefault("AD_NETWORK_TIMEOUT", 45*time.Second); err != nil {
		return nil, err
	}

	// Rewards configuration
	if cfg.Rewards, err = loadRewards(); err != nil {
		return nil, err
	}

	// Server configuration
	if cfg.Server.Port, err = getIntWithDefault("SERVER_PORT", 8080); err != nil {
		return nil, err
	}
	cfg.Server.WebAppURI = getEnvWithDefault("WEBAPP_URI", "https://web.telegram.org")
	if cfg.Server.RateLimitRPM, err = getIntWithDefault("RATE_LIMIT_RPM", 120); err != nil {
		return nil, err
	}
	if cfg.Server.SweepInterval, err = getDurationWithDefault("SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadRewards() (RewardsConfig, error) {
	rewards := DefaultRewards()
	var err error

	if rewards.PerAdReward, err = getDecimalWithDefault("REWARD_PER_AD", rewards.PerAdReward); err != nil {
		return RewardsConfig{}, err
	}
	if rewards.WithdrawalThreshold, err = getDecimalWithDefault("WITHDRAWAL_THRESHOLD", rewards.WithdrawalThreshold); err != nil {
		return RewardsConfig{}, err
	}
	if rewards.ReferralBonus, err = getDecimalWithDefault("REFERRAL_BONUS", rewards.ReferralBonus); err != nil {
		return RewardsConfig{}, err
	}
	if rewards.ReferralCap, err = getIntWithDefault("REFERRAL_CAP", rewards.ReferralCap); err != nil {
		return RewardsConfig{}, err
	}
	if rewards.AdDuration, err = getDurationWithDefault("AD_DURATION", rewards.AdDuration); err != nil {
		return RewardsConfig{}, err
	}
	if rewards.PopupInterval, err = getDurationWithDefault("POPUP_INTERVAL", rewards.PopupInterval); err != nil {
		return RewardsConfig{}, err
	}
	if rewards.MaxRetries, err = getIntWithDefault("AD_MAX_RETRIES", rewards.MaxRetries); err != nil {
		return RewardsConfig{}, err
	}
	if rewards.RetryBackoff, err = getDurationWithDefault("AD_RETRY_BACKOFF", rewards.RetryBackoff); err != nil {
		return RewardsConfig{}, err
	}
	if rewards.ConfirmationWindow, err = getDurationWithDefault("WITHDRAWAL_CONFIRMATION_WINDOW", rewards.ConfirmationWindow); err != nil {
		return RewardsConfig{}, err
	}

	tz := getEnvWithDefault("APP_TIMEZONE", "UTC")
	if rewards.Location, err = time.LoadLocation(tz); err != nil {
		return RewardsConfig{}, fmt.Errorf("failed to parse APP_TIMEZONE: %w", err)
	}

	if !rewards.PerAdReward.IsPositive() {
		return RewardsConfig{}, fmt.Errorf("REWARD_PER_AD must be positive")
	}
	if rewards.ReferralCap <= 0 {
		return RewardsConfig{}, fmt.Errorf("REFERRAL_CAP must be positive")
	}
	return rewards, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s",
		c.Username, c.Password, c.Host, c.Name)
}

// Addr returns the host:port address of the Redis server
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BrokerList splits the comma separated broker string
func (c *KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntWithDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return parsed, nil
}

func getInt64WithDefault(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return parsed, nil
}

func getDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return parsed, nil
}

func getDecimalWithDefault(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return parsed, nil
}
