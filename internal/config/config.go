// Package config holds the settings shared by the koref command and the
// analysis server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. KOREF_SERVER_ADDR.
const EnvPrefix = "KOREF"

// Config is the full configuration tree.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// AnalysisConfig controls the rule layer.
type AnalysisConfig struct {
	// Lexicon is a YAML lexicon replacing the embedded Polish one.
	Lexicon string `yaml:"lexicon" mapstructure:"lexicon"`
	Workers int    `yaml:"workers" mapstructure:"workers"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	CacheTTL       time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	CacheCleanup   time.Duration `yaml:"cache_cleanup" mapstructure:"cache_cleanup"`
	// RequestsPerSecond and Burst limit each client address; zero disables.
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	WatchLexicon      bool          `yaml:"watch_lexicon" mapstructure:"watch_lexicon"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// LogConfig controls slog output and file rotation.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	// File enables a rotated log file next to stderr.
	File       string `yaml:"file" mapstructure:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Workers: 4,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			AllowedOrigins:    []string{"*"},
			MaxBodyBytes:      4 << 20,
			CacheTTL:          10 * time.Minute,
			CacheCleanup:      time.Minute,
			RequestsPerSecond: 20,
			Burst:             40,
			WatchLexicon:      true,
			ShutdownTimeout:   10 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 28,
			Compress:   true,
		},
	}
}

// DefaultPath returns ~/.koref/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".koref", "config.yaml"), nil
}

// NewViper prepares a viper instance reading cfgFile, or
// ~/.koref/config.yaml when cfgFile is empty, with KOREF_* environment
// overrides. A missing default file is not an error.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".koref"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// setDefaults registers every key so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("analysis.lexicon", d.Analysis.Lexicon)
	v.SetDefault("analysis.workers", d.Analysis.Workers)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("server.cache_ttl", d.Server.CacheTTL)
	v.SetDefault("server.cache_cleanup", d.Server.CacheCleanup)
	v.SetDefault("server.requests_per_second", d.Server.RequestsPerSecond)
	v.SetDefault("server.burst", d.Server.Burst)
	v.SetDefault("server.watch_lexicon", d.Server.WatchLexicon)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)
}

// Load decodes the configuration held by v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server or the logger cannot run with.
func (c *Config) Validate() error {
	var problems []string
	if c.Analysis.Workers < 1 {
		problems = append(problems, "analysis.workers must be at least 1")
	}
	if c.Server.Addr == "" {
		problems = append(problems, "server.addr is empty")
	}
	if c.Server.MaxBodyBytes <= 0 {
		problems = append(problems, "server.max_body_bytes must be positive")
	}
	if c.Server.RequestsPerSecond < 0 || c.Server.Burst < 0 {
		problems = append(problems, "server rate limit must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q is neither text nor json", c.Log.Format))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// WriteDefault writes the default configuration to path, creating its
// directory. It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := DefaultConfig().Marshal()
	if err != nil {
		return err
	}
	header := "# koref configuration\n" +
		"#\n" +
		"# Priority, highest first: flags, KOREF_* environment variables,\n" +
		"# this file, built-in defaults.\n\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
