// Package config provides YAML-based configuration loading for Satchel.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvDataDir         = "SATCHEL_DATA_DIR"
	EnvPort            = "SATCHEL_PORT"
	EnvSlackBotToken   = "SATCHEL_SLACK_BOT_TOKEN"
	EnvDiscordBotToken = "SATCHEL_DISCORD_BOT_TOKEN"
)

// Digest platforms.
const (
	PlatformSlack   = "slack"
	PlatformDiscord = "discord"
)

// Config is the top-level Satchel configuration, loaded from satchel.yaml.
type Config struct {
	DataDir string       `yaml:"data_dir"`
	Server  ServerConfig `yaml:"server"`
	Log     LogConfig    `yaml:"log"`
	Digest  DigestConfig `yaml:"digest"`
}

// ServerConfig holds REST API settings.
type ServerConfig struct {
	Port           int           `yaml:"port"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
}

// LogConfig controls the log level and optional rotated log file.
type LogConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// DigestConfig configures the scheduled due-date reminder.
type DigestConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Cron        string `yaml:"cron"`
	Platform    string `yaml:"platform"`
	ChannelID   string `yaml:"channel_id"`
	HorizonDays int    `yaml:"horizon_days"`

	// Tokens come from the environment only.
	SlackBotToken   string `yaml:"-"`
	DiscordBotToken string `yaml:"-"`
}

// Horizon returns the look-ahead window as a duration.
func (d DigestConfig) Horizon() time.Duration {
	return time.Duration(d.HorizonDays) * 24 * time.Hour
}

// Load reads a YAML config file from path and returns a validated Config.
// A .env file next to the working directory, if present, is loaded into the
// environment first; variables already set win.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config, applying defaults and
// environment overrides.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a Config with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Write marshals cfg to path as YAML. It refuses to overwrite an existing file.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return f.Close()
}

// applyDefaults fills in default values.
func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.CORSOrigins == nil {
		c.Server.CORSOrigins = []string{"http://localhost:3000"}
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 30 * time.Second
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 10 << 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 28
	}
	if c.Digest.Cron == "" {
		c.Digest.Cron = "0 8 * * *"
	}
	if c.Digest.Platform == "" {
		c.Digest.Platform = PlatformSlack
	}
	if c.Digest.HorizonDays == 0 {
		c.Digest.HorizonDays = 7
	}
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvPort, err)
		}
		c.Server.Port = port
	}
	c.Digest.SlackBotToken = getenv(EnvSlackBotToken)
	c.Digest.DiscordBotToken = getenv(EnvDiscordBotToken)
	return nil
}

// validate checks that all fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.RequestTimeout < 0 {
		errs = append(errs, "server.request_timeout must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		errs = append(errs, "server.max_body_bytes must not be negative")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("log.level %q is invalid", c.Log.Level))
	}
	if c.Digest.Enabled {
		errs = append(errs, c.Digest.validate()...)
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (d DigestConfig) validate() []string {
	var errs []string
	if _, err := cron.ParseStandard(d.Cron); err != nil {
		errs = append(errs, fmt.Sprintf("digest.cron %q is invalid: %v", d.Cron, err))
	}
	switch d.Platform {
	case PlatformSlack:
		if d.SlackBotToken == "" {
			errs = append(errs, EnvSlackBotToken+" is required for slack digests")
		}
	case PlatformDiscord:
		if d.DiscordBotToken == "" {
			errs = append(errs, EnvDiscordBotToken+" is required for discord digests")
		}
	default:
		errs = append(errs, fmt.Sprintf("digest.platform %q must be slack or discord", d.Platform))
	}
	if d.ChannelID == "" {
		errs = append(errs, "digest.channel_id is required")
	}
	if d.HorizonDays < 1 {
		errs = append(errs, "digest.horizon_days must be positive")
	}
	return errs
}
