package internal

import (
	"log"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	// DefaultAppName names the binary and its config directory
	DefaultAppName        = "fstimeline"
	DefaultConfigPath     = filepath.Join(configBaseDir(), ".config", DefaultAppName)
	DefaultRunDBPath      = filepath.Join(DefaultConfigPath, "runs.db")
	DefaultGlobalConfig   = filepath.Join(DefaultConfigPath, "config.yaml")
	DefaultIgnoreFileName = "." + DefaultAppName + "ignore"
)

// configBaseDir resolves the directory the config path hangs off. The home
// directory is preferred; without one the working directory serves, and /tmp
// is the last resort so the paths above are always well formed.
func configBaseDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}

	cwd, err := os.Getwd()
	if err != nil {
		log.Printf("no home or working directory available, using /tmp: %v", err)
		return "/tmp"
	}

	log.Printf("no home directory available, using working directory %s", cwd)
	return cwd
}

// GetLogger returns the zerolog logger used for fatal paths. Timestamped,
// writes to stderr so it never mixes into timeline output.
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
