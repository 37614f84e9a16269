package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all upstream requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:147.0) Gecko/20100101 Firefox/147.0"

type Config struct {
	ConsumetAPIBaseURL    string `mapstructure:"consumet_api_base_url"`
	PublicBaseURL         string `mapstructure:"public_base_url"`
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	ClientTimeout         string `mapstructure:"client_timeout"` // Go duration string like "30s", "1h", etc.
	UserAgent             string `mapstructure:"user_agent"`
	Server                struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	LogLevel string `mapstructure:"log_level"`
	Cache    struct {
		Provider string `mapstructure:"provider"` // "memory", "gocache" or "redis"
		Size     int    `mapstructure:"size"`     // Maximum number of entries in the LRU cache
		TTL      string `mapstructure:"ttl"`      // Upper bound for any entry, Go duration string
		Redis    struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
	Preferences struct {
		Backend      string `mapstructure:"backend"` // "cookie", "bolt" or "memory"
		BoltPath     string `mapstructure:"bolt_path"`
		CookieMaxAge string `mapstructure:"cookie_max_age"`
	} `mapstructure:"preferences"`
	Search struct {
		Debounce string `mapstructure:"debounce"`
	} `mapstructure:"search"`
	Pagination struct {
		SessionSize int    `mapstructure:"session_size"`
		SessionTTL  string `mapstructure:"session_ttl"`
	} `mapstructure:"pagination"`
	Sentry struct {
		DSN         string `mapstructure:"dsn"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"sentry"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	level := zerolog.InfoLevel
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	logger.Debug().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
}

func setDefaults() {
	viper.SetDefault("consumet_api_base_url", "http://localhost:3000")
	viper.SetDefault("public_base_url", "http://localhost:8080")
	viper.SetDefault("proxy_connection_string", "")
	viper.SetDefault("client_timeout", "30s")
	viper.SetDefault("user_agent", "")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.address", "localhost")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("cache.provider", "memory")
	viper.SetDefault("cache.size", 2048)
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.redis.address", "")
	viper.SetDefault("cache.redis.password", "")
	viper.SetDefault("cache.redis.db", 0)
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.port", 9090)
	viper.SetDefault("preferences.backend", "cookie")
	viper.SetDefault("preferences.bolt_path", "raznime.db")
	viper.SetDefault("preferences.cookie_max_age", "8760h")
	viper.SetDefault("search.debounce", "500ms")
	viper.SetDefault("pagination.session_size", 1024)
	viper.SetDefault("pagination.session_ttl", "30m")
	viper.SetDefault("sentry.dsn", "")
	viper.SetDefault("sentry.environment", "production")
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv("log_level", "LOG_LEVEL")
	_ = viper.BindEnv("consumet_api_base_url", "APP_CONSUMET_API_BASE_URL", "CONSUMET_API_BASE_URL")
	_ = viper.BindEnv("public_base_url", "APP_PUBLIC_BASE_URL", "PUBLIC_BASE_URL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	config.ConsumetAPIBaseURL = strings.TrimRight(config.ConsumetAPIBaseURL, "/")
	config.PublicBaseURL = strings.TrimRight(config.PublicBaseURL, "/")

	return &config, nil
}

func GetConfig() *Config {
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}

// ParseDuration parses a Go duration string, logging a warning and returning
// fallback when raw is empty or invalid.
func ParseDuration(field, raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		logger.Warn().Err(err).Str("field", field).Str("value", raw).Dur("fallback", fallback).Msg("Invalid duration, using default")
		return fallback
	}
	return parsed
}
