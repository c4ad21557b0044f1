package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type GatewayConfig struct {
	KeyID     string `mapstructure:"key_id"`
	KeySecret string `mapstructure:"key_secret"`
	Currency  string `mapstructure:"currency"`
}

// Configured reports whether live gateway credentials are present; when they
// are not, the sandbox gateway is wired in so startup never fails on missing
// payment credentials.
func (c GatewayConfig) Configured() bool {
	return c.KeyID != "" && c.KeySecret != ""
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.From != ""
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// secretOverrides are environment variables that take precedence over the
// config file, so secrets never have to live on disk.
type secretOverrides struct {
	DBPassword       string `envconfig:"DB_PASSWORD"`
	JWTSecret        string `envconfig:"JWT_SECRET"`
	GatewayKeyID     string `envconfig:"GATEWAY_KEY_ID"`
	GatewayKeySecret string `envconfig:"GATEWAY_KEY_SECRET"`
	SMTPPassword     string `envconfig:"SMTP_PASSWORD"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var secrets secretOverrides
	if err := envconfig.Process("", &secrets); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}
	if secrets.DBPassword != "" {
		config.Database.Password = secrets.DBPassword
	}
	if secrets.JWTSecret != "" {
		config.JWT.Secret = secrets.JWTSecret
	}
	if secrets.GatewayKeyID != "" {
		config.Gateway.KeyID = secrets.GatewayKeyID
	}
	if secrets.GatewayKeySecret != "" {
		config.Gateway.KeySecret = secrets.GatewayKeySecret
	}
	if secrets.SMTPPassword != "" {
		config.SMTP.Password = secrets.SMTPPassword
	}

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if config.Gateway.Currency == "" {
		config.Gateway.Currency = "INR"
	}

	return &config, nil
}
