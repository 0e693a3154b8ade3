package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps config discovery away from the developer's own files
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv(EnvConfigPath, "")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("addr", "", "")
	fs.String("backend", "", "")
	fs.String("db", "", "")
	fs.String("log-level", "", "")
	fs.Bool("no-cache", false, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, path, err := Load("", nil)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ConfigFileName), `
server:
  addr: ":4000"
  read_timeout: 3s
storage:
  backend: bolt
  path: /var/lib/repomanage/data.bolt
log:
  level: debug
`)

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, path, err := Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, ConfigFileName), path)
		assert.Equal(t, ":4000", cfg.Server.Addr)
		assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout, "unset keys keep defaults")
		assert.Equal(t, BackendBolt, cfg.Storage.Backend)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("REPOMANAGE_SERVER_ADDR", ":5000")
		t.Setenv("REPOMANAGE_SERVER_READ_TIMEOUT", "7s")
		t.Setenv("REPOMANAGE_CACHE_ENABLED", "false")

		cfg, _, err := Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, ":5000", cfg.Server.Addr)
		assert.Equal(t, 7*time.Second, cfg.Server.ReadTimeout)
		assert.Zero(t, cfg.CacheTTL())
	})

	t.Run("set flags override env", func(t *testing.T) {
		t.Setenv("REPOMANAGE_SERVER_ADDR", ":5000")
		flags := testFlags()
		require.NoError(t, flags.Parse([]string{"--addr", ":6000", "--no-cache"}))

		cfg, _, err := Load("", flags)
		require.NoError(t, err)
		assert.Equal(t, ":6000", cfg.Server.Addr)
		assert.False(t, cfg.Cache.Enabled)
		assert.Equal(t, BackendBolt, cfg.Storage.Backend, "unset flags do not override")
	})
}

func TestLoadExplicitPath(t *testing.T) {
	dir := isolate(t)

	_, _, err := Load(filepath.Join(dir, "missing.yaml"), nil)
	require.Error(t, err)

	custom := filepath.Join(dir, "custom.yaml")
	writeFile(t, custom, "storage:\n  path: custom.db\n")
	cfg, path, err := Load(custom, nil)
	require.NoError(t, err)
	assert.Equal(t, custom, path)
	assert.Equal(t, "custom.db", cfg.Storage.Path)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ConfigFileName), "storage:\n  backend: leveldb\n")

	_, _, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr is empty"},
		{"zero timeout", func(c *Config) { c.Server.IdleTimeout = 0 }, "server.idle_timeout must be positive"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, "storage.backend"},
		{"empty path", func(c *Config) { c.Storage.Path = "" }, "storage.path is empty"},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, "cache.ttl is negative"},
		{"unknown log env", func(c *Config) { c.Log.Env = "staging" }, "log.env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Storage.Backend = BackendBolt
	cfg.Cache.TTL = 90 * time.Second
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1m30s")

	loaded, _, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestFindConfigPath(t *testing.T) {
	dir := isolate(t)

	assert.Empty(t, FindConfigPath(""))
	assert.Equal(t, "explicit.yaml", FindConfigPath("explicit.yaml"))

	xdg := filepath.Join(dir, "xdg", ConfigDirName, "config.yaml")
	writeFile(t, xdg, "{}\n")
	assert.Equal(t, xdg, FindConfigPath(""))

	envPath := filepath.Join(dir, "env.yaml")
	writeFile(t, envPath, "{}\n")
	t.Setenv(EnvConfigPath, envPath)
	assert.Equal(t, envPath, FindConfigPath(""))

	assert.Equal(t, xdg, DefaultConfigPath())
}
