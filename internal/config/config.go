// Package config provides configuration management for the application.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Alert      AlertConfig      `mapstructure:"alert"`
	Export     ExportConfig     `mapstructure:"export"`
	Middleware MiddlewareConfig `mapstructure:"middleware"`
}

type ServerConfig struct {
	Port         string `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// StorageConfig selects and parameterizes the client-list backend.
// The redis backend keeps the whole list as one JSON blob under DataKey and
// the settings under SettingsKey; the postgres backend uses regular tables.
type StorageConfig struct {
	Backend     string `mapstructure:"backend"`
	DataKey     string `mapstructure:"data_key"`
	SettingsKey string `mapstructure:"settings_key"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type QueueConfig struct {
	OverdueThresholdMinutes int    `mapstructure:"overdue_threshold_minutes"`
	SweepIntervalSeconds    int    `mapstructure:"sweep_interval_seconds"`
	CountryCode             string `mapstructure:"country_code"`
	MinPhoneDigits          int    `mapstructure:"min_phone_digits"`
	RequireIboForDelete     bool   `mapstructure:"require_ibo_for_delete"`
}

type AlertConfig struct {
	WebhookURL     string               `mapstructure:"webhook_url"`
	AuthKey        string               `mapstructure:"auth_key"`
	Timeout        int                  `mapstructure:"timeout"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"`
	Timeout          int     `mapstructure:"timeout"`
	FailureRatio     float64 `mapstructure:"failure_ratio"`
	ConsecutiveFails uint32  `mapstructure:"consecutive_fails"`
}

type ExportConfig struct {
	Delimiter      string `mapstructure:"delimiter"`
	BOM            bool   `mapstructure:"bom"`
	FilenamePrefix string `mapstructure:"filename_prefix"`
}

type MiddlewareConfig struct {
	RateLimit      int      `mapstructure:"rate_limit"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
	EnableCORS     bool     `mapstructure:"enable_cors"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", 10)
	viper.SetDefault("server.write_timeout", 10)
	viper.SetDefault("storage.backend", "redis")
	viper.SetDefault("storage.data_key", "gestor_vip_data")
	viper.SetDefault("storage.settings_key", "gestor_vip_settings")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("queue.overdue_threshold_minutes", 120)
	viper.SetDefault("queue.sweep_interval_seconds", 30)
	viper.SetDefault("queue.country_code", "55")
	viper.SetDefault("queue.min_phone_digits", 8)
	viper.SetDefault("queue.require_ibo_for_delete", true)
	viper.SetDefault("alert.timeout", 30)
	viper.SetDefault("alert.circuit_breaker.max_requests", 3)
	viper.SetDefault("alert.circuit_breaker.interval", 60)
	viper.SetDefault("alert.circuit_breaker.timeout", 60)
	viper.SetDefault("alert.circuit_breaker.failure_ratio", 0.6)
	viper.SetDefault("alert.circuit_breaker.consecutive_fails", 5)
	viper.SetDefault("export.delimiter", ";")
	viper.SetDefault("export.bom", true)
	viper.SetDefault("export.filename_prefix", "clientes")
	viper.SetDefault("middleware.rate_limit", 100)
	viper.SetDefault("middleware.rate_limit_burst", 1000)
	viper.SetDefault("middleware.enable_cors", true)
	viper.SetDefault("middleware.allowed_origins", []string{"*"})

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Storage.Backend != "redis" && config.Storage.Backend != "postgres" {
		return nil, fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}

	return &config, nil
}

// GetDSN returns PostgreSQL connection string.
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// GetURL returns the PostgreSQL connection URL used by the migration runner.
func (d *DatabaseConfig) GetURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}
