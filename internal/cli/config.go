package cli

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/pipeline"
)

// configName is the settings file name without extension.
const configName = ".barchart"

// envPrefix is the environment variable prefix for settings.
const envPrefix = "BARCHART"

// Default server settings.
const (
	defaultServerAddr    = "127.0.0.1:8080"
	defaultServerTimeout = 30 * time.Second
	defaultMaxBodyBytes  = 1 << 20
)

// Config holds application settings. Chart styling lives in chart files;
// this is everything about where and how the program runs.
type Config struct {
	Cache  CacheConfig  `mapstructure:"cache"`
	Render RenderConfig `mapstructure:"render"`
	Server ServerConfig `mapstructure:"server"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Dir      string `mapstructure:"dir"`
	Disabled bool   `mapstructure:"disabled"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPrefix   string `mapstructure:"redis_prefix"`
}

// RenderConfig holds pipeline defaults used when a flag is not given.
type RenderConfig struct {
	Width    float64 `mapstructure:"width"`
	Height   float64 `mapstructure:"height"`
	Measurer string  `mapstructure:"measurer"`
	Scale    float64 `mapstructure:"scale"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{RedisPrefix: appName + ":"},
		Render: RenderConfig{
			Width:    pipeline.DefaultWidth,
			Height:   pipeline.DefaultHeight,
			Measurer: pipeline.DefaultMeasurer,
			Scale:    pipeline.DefaultScale,
		},
		Server: ServerConfig{
			Addr:         defaultServerAddr,
			Timeout:      defaultServerTimeout,
			MaxBodyBytes: defaultMaxBodyBytes,
		},
	}
}

// LoadConfig reads settings from defaults, an optional file, BARCHART_*
// environment variables and flags, in increasing priority.
//
// If path is empty, .barchart.{yaml,toml,json} is searched in the working
// directory and $HOME; a missing file is not an error. Flags are bound by
// their settings key (for example "cache.dir"); flags not in flags are
// ignored.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	applyDefaults(v, DefaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInternal, err, "bind flag %s", name)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// flagKeys maps settings keys to the flag names that override them.
var flagKeys = map[string]string{
	"cache.dir":        "cache-dir",
	"cache.disabled":   "no-cache",
	"cache.redis_addr": "redis",
	"render.width":     "width",
	"render.height":    "height",
	"render.measurer":  "measurer",
	"render.scale":     "scale",
	"server.addr":      "addr",
	"server.timeout":   "timeout",
}

func applyDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.disabled", d.Cache.Disabled)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.redis_password", d.Cache.RedisPassword)
	v.SetDefault("cache.redis_db", d.Cache.RedisDB)
	v.SetDefault("cache.redis_prefix", d.Cache.RedisPrefix)

	v.SetDefault("render.width", d.Render.Width)
	v.SetDefault("render.height", d.Render.Height)
	v.SetDefault("render.measurer", d.Render.Measurer)
	v.SetDefault("render.scale", d.Render.Scale)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	if err := errors.ValidateBounds(c.Render.Width, c.Render.Height); err != nil {
		return err
	}
	if err := pipeline.ValidateMeasurer(c.Render.Measurer); err != nil {
		return err
	}
	if c.Server.Timeout <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.max_body_bytes must be positive")
	}
	return nil
}

// CacheDir returns the configured cache directory, or the XDG default.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return cacheDir()
}

// PipelineOptions returns pipeline options seeded from the render settings.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Width:    c.Render.Width,
		Height:   c.Render.Height,
		Measurer: c.Render.Measurer,
		Scale:    c.Render.Scale,
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/barchart/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
