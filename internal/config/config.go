// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port          string `mapstructure:"PORT"`
	Env           string `mapstructure:"APP_ENV"`
	BaseURL       string `mapstructure:"BASE_URL"`
	SessionSecret string `mapstructure:"SESSION_SECRET"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	RedisURL string `mapstructure:"REDIS_URL"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	FromEmail    string `mapstructure:"FROM_EMAIL"`
	FromPassword string `mapstructure:"FROM_PASSWORD"`
	ContactEmail string `mapstructure:"CONTACT_EMAIL"`
}

// LoadConfig loads application configuration from config.yml (if present)
// and environment variables, environment taking precedence.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; env vars alone are a valid configuration.
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("SESSION_SECRET", "hearth-dev-secret-change-in-production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "hearth")
	viper.SetDefault("DB_PASSWORD", "hearth")
	viper.SetDefault("DB_NAME", "hearth")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present. Missing
// values are a startup-time misconfiguration, not something handlers recover
// from later.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}

	if c.IsProduction() {
		if c.SessionSecret == "hearth-dev-secret-change-in-production" {
			return errors.New("SESSION_SECRET must be changed from the default value in production")
		}
		if len(c.SessionSecret) < 32 {
			return errors.New("SESSION_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "" || c.DBPassword == "hearth" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.FromEmail == "" || c.FromPassword == "" {
			return errors.New("FROM_EMAIL and FROM_PASSWORD are required in production")
		}
		if c.ContactEmail == "" {
			return errors.New("CONTACT_EMAIL is required in production")
		}
	}

	return nil
}

// IsProduction reports whether the app runs with the production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// IsTest reports whether the app runs under the test profile. The test
// profile swaps Postgres for in-memory SQLite and disables rate limiting.
func (c *Config) IsTest() bool {
	return c.Env == "test"
}
