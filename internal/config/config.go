package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"Vault"`
		Port      int    `envconfig:"PORT" default:"8080"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"vault"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		Secret   string        `envconfig:"JWT_SECRET"`
		Issuer   string        `envconfig:"JWT_ISSUER" default:"vault"`
		TokenTTL time.Duration `envconfig:"JWT_TTL" default:"24h"`
	}

	AI struct {
		APIKey  string        `envconfig:"AI_API_KEY"`
		BaseURL string        `envconfig:"AI_BASE_URL"`
		Model   string        `envconfig:"AI_MODEL" default:"gpt-4o-mini"`
		Timeout time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
	}

	Scheduler struct {
		Enabled bool   `envconfig:"SCHEDULER_ENABLED" default:"true"`
		Spec    string `envconfig:"SCHEDULER_SPEC" default:"@every 1h"`
	}

	AMQP struct {
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"vault.events"`
		Queue    string `envconfig:"AMQP_QUEUE" default:"vault.events"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Client struct {
		APIURL string `envconfig:"VAULT_API_URL" default:"http://localhost:8080/api/v1"`
		Token  string `envconfig:"VAULT_TOKEN"`
		UserID string `envconfig:"VAULT_USER_ID"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
