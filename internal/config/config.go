// Package config loads and validates the campaign tracker configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // embed zone database

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

var (
	ErrInvalidConfig = errors.New("configuration validation failed")
	ErrMissingToken  = errors.New("bot token not configured (set ASHEWA_BOT_TOKEN or bot.token)")
)

// Config holds all tracker configuration.
type Config struct {
	Bot        BotConfig        `toml:"bot"`
	Storage    StorageConfig    `toml:"storage"`
	Campaign   CampaignConfig   `toml:"campaign"`
	HTTP       HTTPConfig       `toml:"http"`
	Log        LogConfig        `toml:"log"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// BotConfig holds Telegram settings.
type BotConfig struct {
	Token          string `toml:"token,omitempty" env:"ASHEWA_BOT_TOKEN"`
	PollTimeoutSec int    `toml:"poll_timeout_sec" env:"ASHEWA_POLL_TIMEOUT"`
	Debug          bool   `toml:"debug" env:"ASHEWA_BOT_DEBUG"`
}

// StorageConfig selects and locates the progress record store.
type StorageConfig struct {
	Driver string `toml:"driver" env:"ASHEWA_DB_DRIVER"` // sqlite or postgres
	Path   string `toml:"path,omitempty" env:"ASHEWA_DB_PATH"`
	DSN    string `toml:"dsn,omitempty" env:"DATABASE_URL"`
}

// HTTPConfig controls the status API served next to the bot. Empty Addr disables it.
type HTTPConfig struct {
	Addr         string `toml:"addr" env:"ASHEWA_HTTP_ADDR"`
	EventsBuffer int    `toml:"events_buffer"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level" env:"ASHEWA_LOG_LEVEL"`
	Format string `toml:"format" env:"ASHEWA_LOG_FORMAT"` // json or console
}

// AppearanceConfig holds dashboard theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Bot: BotConfig{
			PollTimeoutSec: 60,
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Path:   filepath.Join(DataDir(), "campaign.db"),
		},
		Campaign: DefaultCampaign(),
		HTTP: HTTPConfig{
			Addr:         "127.0.0.1:8787",
			EventsBuffer: 200,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ashewa")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ashewa")
}

// DataDir returns the XDG-compliant data directory holding the SQLite database.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "ashewa")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "ashewa")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path, falling back to defaults when it does
// not exist, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the local user
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("reading environment: %w", err)
	}

	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // local user path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Location resolves the campaign timezone. An empty name means the local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Campaign.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Campaign.Timezone)
}

// Validate checks the configuration and reports every problem in one error.
// The bot token is checked separately by RequireToken since only serve needs it.
func (c Config) Validate() error {
	var problems []string

	camp := c.Campaign
	if camp.DurationDays <= 0 {
		problems = append(problems, fmt.Sprintf("campaign.duration_days must be positive, got %d", camp.DurationDays))
	}
	if camp.RevenueTarget <= 0 {
		problems = append(problems, fmt.Sprintf("campaign.revenue_target must be positive, got %d", camp.RevenueTarget))
	}
	if camp.BarWidth <= 0 {
		problems = append(problems, fmt.Sprintf("campaign.bar_width must be positive, got %d", camp.BarWidth))
	}
	seen := make(map[int]bool, len(camp.Milestones))
	for _, m := range camp.Milestones {
		if m.Day <= 0 {
			problems = append(problems, fmt.Sprintf("milestone %q: day must be positive, got %d", m.Description, m.Day))
			continue
		}
		if seen[m.Day] {
			problems = append(problems, fmt.Sprintf("milestone day %d is listed twice", m.Day))
		}
		seen[m.Day] = true
	}
	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("unknown campaign.timezone %q", camp.Timezone))
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			problems = append(problems, "storage.path cannot be empty with the sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			problems = append(problems, "storage.dsn (or DATABASE_URL) is required with the postgres driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown storage.driver %q: must be sqlite or postgres", c.Storage.Driver))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown log.level %q", c.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n- %s", ErrInvalidConfig, strings.Join(problems, "\n- "))
	}
	return nil
}

// RequireToken returns ErrMissingToken when no bot token is configured.
func (c Config) RequireToken() error {
	if strings.TrimSpace(c.Bot.Token) == "" {
		return ErrMissingToken
	}
	return nil
}
