package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/csvtype-cli/internal/patterns"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	Delimiter          string   `mapstructure:"delimiter" yaml:"delimiter"`
	NAValues           []string `mapstructure:"na_values" yaml:"na_values"`
	PatternsFile       string   `mapstructure:"patterns_file" yaml:"patterns_file"`
	Multithreading     bool     `mapstructure:"multithreading" yaml:"multithreading"`
	SaveTypesFile      bool     `mapstructure:"save_types_file" yaml:"save_types_file"`
	RollingCacheWindow int      `mapstructure:"rolling_cache_window" yaml:"rolling_cache_window"`
	ReorderOnCacheHit  bool     `mapstructure:"reorder_on_cache_hit" yaml:"reorder_on_cache_hit"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Defaults returns the built-in configuration.
func Defaults() Global {
	return Global{
		Delimiter:          ",",
		NAValues:           patterns.DefaultNAValues(),
		RollingCacheWindow: 5,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// Dir returns the directory holding the default config file.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".csvtype"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.csvtype/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by callers.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CSVTYPE")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("na_values", d.NAValues)
	v.SetDefault("patterns_file", d.PatternsFile)
	v.SetDefault("multithreading", d.Multithreading)
	v.SetDefault("save_types_file", d.SaveTypesFile)
	v.SetDefault("rolling_cache_window", d.RollingCacheWindow)
	v.SetDefault("reorder_on_cache_hit", d.ReorderOnCacheHit)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// A missing default file is fine; an explicit or broken one is not.
		var nf viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
