package config

import (
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/forensio/fstimeline/fstimeline"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Timeline TimelineConfig `mapstructure:"timeline"`
}

// TimelineConfig stores scan and report related configurations.
type TimelineConfig struct {
	SortField    string         `mapstructure:"sortField"`
	Format       string         `mapstructure:"format"`
	Workers      int            `mapstructure:"workers"`
	MaxDepth     int            `mapstructure:"maxDepth"`
	IncludeEXIF  bool           `mapstructure:"includeExif"`
	ExcludeFrom  string         `mapstructure:"excludeFrom"`
	Database     DatabaseConfig `mapstructure:"database"`
	TimestampFmt string         `mapstructure:"timestampFormat"`
}

// DatabaseConfig stores the run store connection details.
type DatabaseConfig struct {
	DSN  string `mapstructure:"dsn"`
	Type string `mapstructure:"type"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("timeline.sortField", "mtime")
	viper.SetDefault("timeline.format", "csv")
	viper.SetDefault("timeline.workers", 0) // 0 means derive from CPU count
	viper.SetDefault("timeline.maxDepth", -1)
	viper.SetDefault("timeline.includeExif", false)
	viper.SetDefault("timeline.timestampFormat", "2006-01-02T15:04:05.000000000Z07:00")
	viper.SetDefault("timeline.database.dsn", "file:"+internal.DefaultRunDBPath)
	viper.SetDefault("timeline.database.type", "libsql")

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. timeline.sortField becomes TIMELINE_SORTFIELD

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults will be used.
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &AppConfig, nil
}
