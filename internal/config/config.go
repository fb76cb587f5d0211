package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr           string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat          string        `env:"LOG_FORMAT" envDefault:"json"`
	RedisAddr          string        `env:"REDIS_ADDR,required"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	RedisDB            int           `env:"REDIS_DB" envDefault:"0"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	Web3FormsURL       string        `env:"WEB3FORMS_URL" envDefault:"https://api.web3forms.com/submit"`
	Web3FormsAccessKey string        `env:"WEB3FORMS_ACCESS_KEY,required"`
	HCaptchaSiteKey    string        `env:"HCAPTCHA_SITE_KEY" envDefault:"50b2fe65-b00b-4b9e-ad62-3ba471098be2"`
	HTTPRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	RelayMaxElapsed    time.Duration `env:"RELAY_MAX_ELAPSED" envDefault:"30s"`
	SubmitRateLimit    int64         `env:"SUBMIT_RATE_LIMIT" envDefault:"5"`
	SubmitRateWindow   time.Duration `env:"SUBMIT_RATE_WINDOW" envDefault:"1m"`
	TelegramToken      string        `env:"TELEGRAM_TOKEN"`
	TelegramChannelID  int64         `env:"TELEGRAM_CHANNEL_ID"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := loadEnvFile(".env"); err != nil {
		return nil, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// TelegramEnabled reports whether lead notifications should be sent.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChannelID != 0
}

func (c *Config) validate() error {
	if c.SubmitRateLimit <= 0 {
		return fmt.Errorf("SUBMIT_RATE_LIMIT must be positive, got %d", c.SubmitRateLimit)
	}
	if c.SubmitRateWindow <= 0 {
		return fmt.Errorf("SUBMIT_RATE_WINDOW must be positive, got %s", c.SubmitRateWindow)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.TelegramToken != "" && c.TelegramChannelID == 0 {
		return errors.New("TELEGRAM_CHANNEL_ID is required when TELEGRAM_TOKEN is set")
	}
	return nil
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
