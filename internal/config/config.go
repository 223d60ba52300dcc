package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storefront StorefrontConfig `mapstructure:"storefront"`
	Navigation NavigationConfig `mapstructure:"navigation"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	Host            string `mapstructure:"host"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// StorefrontConfig holds the category/product API configuration
type StorefrontConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRetries           int    `mapstructure:"max_retries"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
	CircuitBreakerDelay  int    `mapstructure:"circuit_breaker_delay"`
}

// NavigationConfig holds the navigation shell tunables
type NavigationConfig struct {
	ScrollThreshold      float64 `mapstructure:"scroll_threshold"`
	WishlistKey          string  `mapstructure:"wishlist_key"`
	DesktopCategoryLimit int     `mapstructure:"desktop_category_limit"`
	DesktopColumnSize    int     `mapstructure:"desktop_column_size"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Password       string `mapstructure:"password"`
	Database       int    `mapstructure:"database"`
	StorageChannel string `mapstructure:"storage_channel"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DSN returns the Postgres connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

// Addr returns the Redis host:port pair
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.Storefront.BaseURL == "" {
		return fmt.Errorf("storefront.base_url must be set")
	}
	if c.Storefront.MaxRequestsPerSecond <= 0 {
		return fmt.Errorf("storefront.max_requests_per_second must be positive, got %d", c.Storefront.MaxRequestsPerSecond)
	}
	if c.Navigation.DesktopColumnSize <= 0 {
		return fmt.Errorf("navigation.desktop_column_size must be positive, got %d", c.Navigation.DesktopColumnSize)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.shutdown_timeout", 10)

	viper.SetDefault("storefront.base_url", "http://localhost:3000")
	viper.SetDefault("storefront.timeout", 15)
	viper.SetDefault("storefront.max_retries", 0)
	viper.SetDefault("storefront.max_requests_per_second", 50)
	viper.SetDefault("storefront.circuit_breaker_delay", 60)

	viper.SetDefault("navigation.scroll_threshold", 10)
	viper.SetDefault("navigation.wishlist_key", "branakids-wishlist")
	viper.SetDefault("navigation.desktop_category_limit", 8)
	viper.SetDefault("navigation.desktop_column_size", 4)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "branakids")
	viper.SetDefault("database.user", "branakids_user")
	viper.SetDefault("database.password", "branakids_pass")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.storage_channel", "branakids:storage")

	viper.SetDefault("log.level", "info")
}
