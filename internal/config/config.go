package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Gateway   GatewayConfig   `yaml:"payment_gateway"`
	Email     EmailConfig     `yaml:"email"`
	Billing   BillingConfig   `yaml:"billing"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	Database      string `yaml:"database"`
	SSLMode       string `yaml:"ssl_mode"`
	MigrationsDir string `yaml:"migrations_dir"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// GatewayConfig points at the external payment gateway. Timeout bounds
// the outbound create-payment-request call; webhook delivery is not
// affected by it.
type GatewayConfig struct {
	BaseURL        string        `yaml:"base_url"`
	ClientID       string        `yaml:"client_id"`
	APIKey         string        `yaml:"api_key"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
}

type BillingConfig struct {
	Currency       string  `yaml:"currency"`
	TaxRatePercent float64 `yaml:"tax_rate_percent"`
}

type SchedulerConfig struct {
	ExpireStaleDeposits string        `yaml:"expire_stale_deposits"`
	MarkOverdueOrders   string        `yaml:"mark_overdue_orders"`
	DepositTTL          time.Duration `yaml:"deposit_ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML config, applies environment overrides and validates.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.overrideWithEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) overrideWithEnv() {
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}
	if val := os.Getenv("PAYMENT_GATEWAY_API_KEY"); val != "" {
		c.Gateway.APIKey = val
	}
	if val := os.Getenv("PAYMENT_GATEWAY_CLIENT_ID"); val != "" {
		c.Gateway.ClientID = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}
}

func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" || c.Database.Database == "" {
		return fmt.Errorf("database.host and database.database are required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("payment_gateway.base_url is required")
	}
	if c.Billing.TaxRatePercent < 0 {
		return fmt.Errorf("billing.tax_rate_percent cannot be negative")
	}
	if c.Billing.Currency == "" {
		c.Billing.Currency = "VND"
	}
	if c.Scheduler.DepositTTL == 0 {
		c.Scheduler.DepositTTL = 24 * time.Hour
	}
	return nil
}

func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password,
		c.Database.Database, c.Database.SSLMode)
}
