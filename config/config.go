package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tronbot/bot/domain"
	"tronbot/utils"
)

const (
	DefaultAddr        = "gpn-tron.duckdns.org:4000"
	DefaultName        = "tronbot"
	DefaultDialTimeout = 5 * time.Second
)

var ErrInvalidConfig = errors.New("invalid config")

// Config はボットの起動設定です。
type Config struct {
	Addr             string        `yaml:"addr"`
	Name             string        `yaml:"name"`
	Token            string        `yaml:"token"`
	MaxLineBytes     int           `yaml:"maxLineBytes"`
	DefaultDirection string        `yaml:"defaultDirection"`
	Jitter           bool          `yaml:"jitter"`
	Chat             string        `yaml:"chat"`
	LogFile          string        `yaml:"logFile"`
	LogLevel         string        `yaml:"logLevel"`
	DialTimeout      time.Duration `yaml:"dialTimeout"`
}

func Default() Config {
	return Config{
		Addr:             DefaultAddr,
		Name:             DefaultName,
		MaxLineBytes:     domain.DefaultMaxLineBytes,
		DefaultDirection: domain.DirLeft.String(),
		LogLevel:         "info",
		DialTimeout:      DefaultDialTimeout,
	}
}

// Load はデフォルト値、YAMLファイル、環境変数の順に設定を重ねて検証します。
// path が空ならファイルは読みません。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.Addr = utils.GetEnvDefault("ADDR", c.Addr)
	c.Name = utils.GetEnvDefault("BOT_NAME", c.Name)
	c.Token = utils.GetEnvDefault("BOT_TOKEN", c.Token)
	c.DefaultDirection = utils.GetEnvDefault("DEFAULT_DIRECTION", c.DefaultDirection)
	c.Chat = utils.GetEnvDefault("CHAT", c.Chat)
	c.LogFile = utils.GetEnvDefault("LOG_FILE", c.LogFile)
	c.LogLevel = utils.GetEnvDefault("LOG_LEVEL", c.LogLevel)

	var err error
	if c.MaxLineBytes, err = utils.GetEnvInt("MAX_LINE_BYTES", c.MaxLineBytes); err != nil {
		return err
	}
	if c.Jitter, err = utils.GetEnvBool("JITTER", c.Jitter); err != nil {
		return err
	}
	if c.DialTimeout, err = utils.GetEnvDuration("DIAL_TIMEOUT", c.DialTimeout); err != nil {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr is empty", ErrInvalidConfig)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidConfig)
	}
	if c.Token == "" {
		return fmt.Errorf("%w: token is empty (set BOT_TOKEN)", ErrInvalidConfig)
	}
	for field, v := range map[string]string{"name": c.Name, "token": c.Token, "chat": c.Chat} {
		if strings.ContainsAny(v, domain.FieldSeparator+"\n") {
			return fmt.Errorf("%w: %s contains a protocol delimiter", ErrInvalidConfig, field)
		}
	}
	if c.MaxLineBytes < 0 {
		return fmt.Errorf("%w: maxLineBytes must not be negative, got %d", ErrInvalidConfig, c.MaxLineBytes)
	}
	if _, err := c.Direction(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: logLevel: %w", ErrInvalidConfig, err)
	}
	if c.DialTimeout < 0 {
		return fmt.Errorf("%w: dialTimeout must not be negative, got %s", ErrInvalidConfig, c.DialTimeout)
	}
	return nil
}

// Direction は tick で進む方向が分からないときの初期方向です。
func (c *Config) Direction() (domain.Direction, error) {
	return domain.ParseDirection(c.DefaultDirection)
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}
