package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API      APIConfig      `yaml:"api"`
	Data     DataConfig     `yaml:"data"`
	Stats    StatsConfig    `yaml:"stats"`
	Postgres PostgresConfig `yaml:"postgres"`
	Telegram TelegramConfig `yaml:"telegram"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type APIConfig struct {
	BaseURL        string            `yaml:"base_url"`
	Host           string            `yaml:"host"` // value of the X-RapidAPI-Host header
	Key            string            `yaml:"key"`  // value of the X-RapidAPI-Key header
	Timezone       string            `yaml:"timezone"`
	Timeout        time.Duration     `yaml:"timeout"`
	Headers        map[string]string `yaml:"headers"`
	DailyLimit     int               `yaml:"daily_limit"`
	PerMinuteLimit int               `yaml:"per_minute_limit"`
	// DayCutoff rolls the quota-accounting day over at this wall-clock time
	// instead of midnight, e.g. "10:30".
	DayCutoff string `yaml:"day_cutoff"`
	// FreeTierDailyLimit is the number of daily requests the billing plan
	// includes before the per-request price applies.
	FreeTierDailyLimit int    `yaml:"free_tier_daily_limit"`
	PricePerRequestUSD string `yaml:"price_per_request_usd"`
	USDToCOP           string `yaml:"usd_to_cop"`
}

type DataConfig struct {
	Dir string `yaml:"dir"`
}

// StatsConfig holds the sample-size caps of the "last N" team-stats windows.
type StatsConfig struct {
	LastMatches     int `yaml:"last_matches"`
	LastHomeMatches int `yaml:"last_home_matches"`
	LastAwayMatches int `yaml:"last_away_matches"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "https://api-football-v1.p.rapidapi.com/v3"
	}
	if c.API.Timezone == "" {
		c.API.Timezone = "America/Bogota"
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.API.DailyLimit <= 0 {
		c.API.DailyLimit = 200
	}
	if c.API.PerMinuteLimit <= 0 {
		c.API.PerMinuteLimit = 30
	}
	if c.API.DayCutoff == "" {
		c.API.DayCutoff = "10:30"
	}
	if c.API.FreeTierDailyLimit <= 0 {
		c.API.FreeTierDailyLimit = 100
	}
	if c.API.PricePerRequestUSD == "" {
		c.API.PricePerRequestUSD = "0.005"
	}
	if c.API.USDToCOP == "" {
		c.API.USDToCOP = "4000"
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}
	if c.Stats.LastMatches <= 0 {
		c.Stats.LastMatches = 5
	}
	if c.Stats.LastHomeMatches <= 0 {
		c.Stats.LastHomeMatches = 2
	}
	if c.Stats.LastAwayMatches <= 0 {
		c.Stats.LastAwayMatches = 2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
