package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Port string `toml:"port"`

	// kited connection
	KitedURL     string        `toml:"kited_url"`
	KitedTimeout time.Duration `toml:"kited_timeout"`
	Editor       string        `toml:"editor"`

	// Auth
	APIKey string `toml:"api_key"`

	// Router behaviour
	HoverErrors  string `toml:"hover_errors"`
	SymbolErrors string `toml:"symbol_errors"`
	MembersLimit int    `toml:"members_limit"`

	LogFormat   string        `toml:"log_format"`
	StatsWindow time.Duration `toml:"stats_window"`
}

func defaults() Config {
	return Config{
		Port:         "8091",
		KitedURL:     "http://localhost:46624",
		KitedTimeout: 10 * time.Second,
		Editor:       "vscode",
		HoverErrors:  "ignore",
		SymbolErrors: "propagate",
		MembersLimit: 999,
		LogFormat:    "json",
		StatsWindow:  5 * time.Minute,
	}
}

// Load builds the configuration from defaults, then the TOML file at path
// (or $SIDEBAR_CONFIG when path is empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path == "" {
		path = os.Getenv("SIDEBAR_CONFIG")
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.KitedURL = envOr("KITED_URL", cfg.KitedURL)
	cfg.KitedTimeout = envDuration("KITED_TIMEOUT", cfg.KitedTimeout)
	cfg.Editor = envOr("EDITOR_NAME", cfg.Editor)
	cfg.APIKey = envOr("SIDEBAR_API_KEY", cfg.APIKey)
	cfg.HoverErrors = envOr("HOVER_ERRORS", cfg.HoverErrors)
	cfg.SymbolErrors = envOr("SYMBOL_ERRORS", cfg.SymbolErrors)
	cfg.MembersLimit = envInt("MEMBERS_LIMIT", cfg.MembersLimit)
	cfg.LogFormat = envOr("LOG_FORMAT", cfg.LogFormat)
	cfg.StatsWindow = envDuration("STATS_WINDOW", cfg.StatsWindow)

	if cfg.KitedTimeout <= 0 {
		cfg.KitedTimeout = 10 * time.Second
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 5 * time.Minute
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.KitedURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("KITED_URL %q must be an http(s) URL", c.KitedURL))
	}
	if c.Editor == "" {
		errs = append(errs, errors.New("EDITOR_NAME is required"))
	}
	for name, v := range map[string]string{"HOVER_ERRORS": c.HoverErrors, "SYMBOL_ERRORS": c.SymbolErrors} {
		if v != "propagate" && v != "ignore" {
			errs = append(errs, fmt.Errorf("%s must be propagate or ignore, got %q", name, v))
		}
	}
	if c.MembersLimit <= 0 {
		errs = append(errs, fmt.Errorf("MEMBERS_LIMIT must be positive, got %d", c.MembersLimit))
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
