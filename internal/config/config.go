package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/viper"
	"github.com/widgetgen/widgetgen/internal/branding"
	"github.com/widgetgen/widgetgen/internal/widget"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyAuthor      = "author"
	KeyCopyright   = "copyright"
	KeyLicense     = "license"
	KeyBuilder     = "builder"
	KeySkipInstall = "skip_install"
)

// Keys lists every key accepted by Set.
var Keys = []string{KeyAuthor, KeyCopyright, KeyLicense, KeyBuilder, KeySkipInstall}

// Dir returns the path to the config directory (~/.widgetgen/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.widgetgen/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	viper.SetDefault(KeySkipInstall, false)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// SkipInstall reports whether dependency installation is disabled.
func SkipInstall() bool {
	return viper.GetBool(KeySkipInstall)
}

// Defaults returns the configured question defaults.
func Defaults() widget.Defaults {
	return widget.Defaults{
		Author:    Get(KeyAuthor),
		Copyright: Get(KeyCopyright),
		License:   Get(KeyLicense),
		Builder:   Get(KeyBuilder),
	}
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown config key %q (valid keys: %v)", key, Keys)
	}
	if key == KeyBuilder {
		if value != widget.BuilderGrunt && value != widget.BuilderGulp {
			return fmt.Errorf("builder must be %q or %q, got %q", widget.BuilderGrunt, widget.BuilderGulp, value)
		}
	}

	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
