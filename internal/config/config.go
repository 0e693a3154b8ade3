// Package config provides configuration management for the repository
// manager.
//
// Values are layered with koanf, lowest precedence first:
//  1. built-in defaults
//  2. the YAML config file (see FindConfigPath)
//  3. REPOMANAGE_* environment variables, where the first underscore after
//     the prefix separates section and key: REPOMANAGE_STORAGE_PATH sets
//     storage.path
//  4. command-line flags that were explicitly set
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "REPOMANAGE_"

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Config is the root configuration structure
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Storage StorageConfig `koanf:"storage"`
	Cache   CacheConfig   `koanf:"cache"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// StorageConfig selects the durable memory backend
type StorageConfig struct {
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`
}

// CacheConfig configures the entity frame cache
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

// LogConfig configures the logger
type LogConfig struct {
	Env   string `koanf:"env"`
	Level string `koanf:"level"`
}

// MetricsConfig toggles the prometheus endpoint
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":3000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Storage: StorageConfig{Backend: BackendSQLite, Path: "./repomanage.db"},
		Cache:   CacheConfig{Enabled: true, TTL: 5 * time.Minute},
		Log:     LogConfig{Env: "dev", Level: "info"},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"addr":      "server.addr",
	"backend":   "storage.backend",
	"db":        "storage.path",
	"log-level": "log.level",
	"log-env":   "log.env",
	"no-cache":  "cache.enabled",
}

// Load layers defaults, the config file, environment and flags. It returns
// the config and the path of the file it read, if any.
func Load(explicit string, flags *pflag.FlagSet) (*Config, string, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(DefaultConfig().toMap(), "."), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load defaults: %w", err)
	}

	path := FindConfigPath(explicit)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, path, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, path, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			if f.Name == "no-cache" {
				return key, f.Value.String() != "true"
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, path, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, path, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return &cfg, path, nil
}

// envKey turns REPOMANAGE_SERVER_READ_TIMEOUT into server.read_timeout
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Addr == "" {
		problems = append(problems, "server.addr is empty")
	}
	for name, d := range map[string]time.Duration{
		"server.read_timeout":  c.Server.ReadTimeout,
		"server.write_timeout": c.Server.WriteTimeout,
		"server.idle_timeout":  c.Server.IdleTimeout,
	} {
		if d <= 0 {
			problems = append(problems, name+" must be positive")
		}
	}
	switch c.Storage.Backend {
	case BackendSQLite, BackendBolt:
	default:
		problems = append(problems, fmt.Sprintf("storage.backend %q is not sqlite or bolt", c.Storage.Backend))
	}
	if c.Storage.Path == "" {
		problems = append(problems, "storage.path is empty")
	}
	if c.Cache.TTL < 0 {
		problems = append(problems, "cache.ttl is negative")
	}
	switch c.Log.Env {
	case "dev", "prod":
	default:
		problems = append(problems, fmt.Sprintf("log.env %q is not dev or prod", c.Log.Env))
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}

// CacheTTL returns the frame cache lifetime, zero when caching is off
func (c *Config) CacheTTL() time.Duration {
	if !c.Cache.Enabled {
		return 0
	}
	return c.Cache.TTL
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal renders config as YAML
func (c *Config) Marshal() ([]byte, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(c.toMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	data, err := k.Marshal(yaml.Parser())
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// toMap flattens the config into dotted keys, durations as strings
func (c *Config) toMap() map[string]interface{} {
	return map[string]interface{}{
		"server.addr":          c.Server.Addr,
		"server.read_timeout":  c.Server.ReadTimeout.String(),
		"server.write_timeout": c.Server.WriteTimeout.String(),
		"server.idle_timeout":  c.Server.IdleTimeout.String(),
		"storage.backend":      c.Storage.Backend,
		"storage.path":         c.Storage.Path,
		"cache.enabled":        c.Cache.Enabled,
		"cache.ttl":            c.Cache.TTL.String(),
		"log.env":              c.Log.Env,
		"log.level":            c.Log.Level,
		"metrics.enabled":      c.Metrics.Enabled,
	}
}
