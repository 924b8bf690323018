// Package config loads CLI settings from astrie.toml and ASTRIE_*
// environment variables. Command-line flags take precedence over both; the
// CLI applies them after Load.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"astrie/internal/errors"
)

// FileName is the project configuration file searched for upward from the
// working directory.
const FileName = "astrie.toml"

// EnvPrefix prefixes environment overrides, e.g. ASTRIE_OUTPUT_DIR.
const EnvPrefix = "ASTRIE"

// Config is the resolved configuration.
type Config struct {
	Input  InputConfig  `mapstructure:"input"`
	Output OutputConfig `mapstructure:"output"`
	Types  TypesConfig  `mapstructure:"types"`
	Log    LogConfig    `mapstructure:"log"`

	// File is the configuration file that was read, empty when none.
	File string `mapstructure:"-"`
}

type InputConfig struct {
	// Ext forces the input notation instead of deriving it from the file
	// extension.
	Ext string `mapstructure:"ext"`
}

type OutputConfig struct {
	Dir     string   `mapstructure:"dir"`
	Targets []string `mapstructure:"targets"`
	// AST additionally dumps the module as parsed, before any pass runs.
	AST bool `mapstructure:"ast"`
}

type TypesConfig struct {
	// File is a targets YAML merged over the built-in tables.
	File string `mapstructure:"file"`
}

type LogConfig struct {
	Verbosity int  `mapstructure:"verbosity"`
	JSON      bool `mapstructure:"json"`
}

// SetDefaults configures default values for all options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input.ext", "")
	v.SetDefault("output.dir", "")
	v.SetDefault("output.targets", []string{})
	v.SetDefault("output.ast", false)
	v.SetDefault("types.file", "")
	v.SetDefault("log.verbosity", 0)
	v.SetDefault("log.json", false)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	return v
}

// Load reads the configuration. An explicit path must exist; otherwise
// astrie.toml is searched for upward from the working directory and its
// absence is not an error.
func Load(path string) (*Config, error) {
	v := New()

	if path == "" {
		path = FindProjectConfig()
	} else if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "config file %s", path)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")

		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	cfg.File = path

	if cfg.Types.File != "" && !filepath.IsAbs(cfg.Types.File) && path != "" {
		cfg.Types.File = filepath.Join(filepath.Dir(path), cfg.Types.File)
	}

	return &cfg, nil
}

// FindProjectConfig walks up from the working directory looking for
// astrie.toml and returns its path, or "" when there is none.
func FindProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	return findUpward(dir)
}

func findUpward(dir string) string {
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}

		dir = parent
	}
}
