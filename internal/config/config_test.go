package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SIDEBAR_CONFIG", "PORT", "KITED_URL", "KITED_TIMEOUT", "EDITOR_NAME", "SIDEBAR_API_KEY",
		"HOVER_ERRORS", "SYMBOL_ERRORS", "MEMBERS_LIMIT", "LOG_FORMAT", "STATS_WINDOW",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sidebar.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8091", cfg.Port)
	assert.Equal(t, "http://localhost:46624", cfg.KitedURL)
	assert.Equal(t, 10*time.Second, cfg.KitedTimeout)
	assert.Equal(t, "ignore", cfg.HoverErrors)
	assert.Equal(t, "propagate", cfg.SymbolErrors)
	assert.Equal(t, 999, cfg.MembersLimit)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port = "9000"
kited_url = "http://127.0.0.1:5000"
kited_timeout = "2s"
members_limit = 50
log_format = "text"
`)
	t.Setenv("PORT", "9100")
	t.Setenv("HOVER_ERRORS", "propagate")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port, "env wins over file")
	assert.Equal(t, "http://127.0.0.1:5000", cfg.KitedURL)
	assert.Equal(t, 2*time.Second, cfg.KitedTimeout)
	assert.Equal(t, 50, cfg.MembersLimit)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "propagate", cfg.HoverErrors)
}

func TestLoad_ConfigFromEnvPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIDEBAR_CONFIG", writeConfig(t, `editor = "sublime"`))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sublime", cfg.Editor)
}

func TestLoad_FileErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `kited_urll = "http://x"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kited_urll")
}

func TestLoad_BadEnvFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MEMBERS_LIMIT", "lots")
	t.Setenv("KITED_TIMEOUT", "-1s")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 999, cfg.MembersLimit)
	assert.Equal(t, 10*time.Second, cfg.KitedTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad url", func(c *Config) { c.KitedURL = "localhost:46624" }, "KITED_URL"},
		{"bad hover policy", func(c *Config) { c.HoverErrors = "swallow" }, "HOVER_ERRORS"},
		{"bad symbol policy", func(c *Config) { c.SymbolErrors = "" }, "SYMBOL_ERRORS"},
		{"bad limit", func(c *Config) { c.MembersLimit = 0 }, "MEMBERS_LIMIT"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "LOG_FORMAT"},
		{"no editor", func(c *Config) { c.Editor = "" }, "EDITOR_NAME"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
