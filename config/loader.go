package config

// Viper configuration loader: reads config.yaml from the user config
// directory, falling back to the current directory for development.

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all application configuration loaded from config.yaml
type Config struct {
	// Logging configuration
	Logging struct {
		Level string `mapstructure:"level"` // "debug", "info", "warn", "error"
	} `mapstructure:"logging"`

	// Filter evaluation configuration
	Filter struct {
		// MatchIncomplete makes clauses over missing metadata fields
		// succeed instead of failing the record
		MatchIncomplete bool `mapstructure:"matchIncomplete"`
	} `mapstructure:"filter"`

	// Output configuration
	Output struct {
		Format string `mapstructure:"format"` // "jsonl" or "count"
	} `mapstructure:"output"`
}

var appConfig *Config

// LoadConfig loads configuration from config.yaml
// Priority order (first found wins): user config → current directory (dev)
// If config.yaml doesn't exist, it uses default values
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile is LoadConfig with an explicit config file path. An
// empty path falls back to the standard search locations; a non-empty
// path must exist.
func LoadConfigFile(path string) (*Config, error) {
	// Reset viper to clear any previous configuration
	viper.Reset()

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(GetConfigDir()) // User config
		viper.AddConfigPath(".")            // Current directory (development)
	}

	setDefaults()

	// Read the config file (if it exists)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && path == "" {
			slog.Debug("no config.yaml found, using defaults")
		} else {
			slog.Error("error reading config file", "error", err)
			return nil, err
		}
	} else {
		slog.Debug("loaded configuration", "file", viper.ConfigFileUsed())
	}

	// Allow environment variables to override config file
	viper.SetEnvPrefix("VIDSIFT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := bindFlags(); err != nil {
		slog.Warn("failed to bind command line flags", "error", err)
	}

	// Unmarshal config into struct
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		slog.Error("failed to unmarshal config", "error", err)
		return nil, err
	}

	appConfig = cfg
	return cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("logging.level", "error")
	viper.SetDefault("filter.matchIncomplete", false)
	viper.SetDefault("output.format", "jsonl")
}

// bindFlags binds supported command line flags to viper so they can override config values.
func bindFlags() error {
	flagSet := pflag.NewFlagSet("vidsift", pflag.ContinueOnError)
	flagSet.ParseErrorsWhitelist.UnknownFlags = true
	flagSet.SetOutput(io.Discard)

	flagSet.String("log-level", "", "Log level (debug, info, warn, error)")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	return viper.BindPFlag("logging.level", flagSet.Lookup("log-level"))
}

// GetConfig returns the loaded configuration
// If config hasn't been loaded yet, it loads it first
func GetConfig() *Config {
	if appConfig == nil {
		cfg, err := LoadConfig()
		if err != nil {
			// If loading fails, return a config with defaults
			slog.Warn("failed to load config, using defaults", "error", err)
			setDefaults()
			cfg = &Config{}
			_ = viper.Unmarshal(cfg)
		}
		appConfig = cfg
	}
	return appConfig
}

// InitLogging configures the process-wide slog handler from the loaded
// configuration. Logs go to stderr so stdout stays clean for records.
func InitLogging(cfg *Config) {
	level := slog.LevelError
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
