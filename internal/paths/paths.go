// Package paths resolves where evermind-migrate keeps its configuration and
// its run ledger.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the platform data subdirectory.
const AppName = "evermind"

// DefaultConfigDirName is the CWD-relative configuration directory. The
// config lives next to the question files it describes.
const DefaultConfigDirName = ".evermind"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "EVERMIND_CONFIG_DIR"
	EnvDataDir   = "EVERMIND_DATA_DIR"
)

// Replaceable in tests.
var (
	homeDir       = os.UserHomeDir
	userConfigDir = os.UserConfigDir
	getwd         = os.Getwd
)

// ResolveConfigDir returns the configuration directory:
// flag > EVERMIND_CONFIG_DIR > $(CWD)/.evermind. The result is absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultConfigDirName), nil
}

// ResolveDataDir returns the ledger directory:
// flag > data_dir from config.yaml > EVERMIND_DATA_DIR > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, candidate := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if candidate != "" {
			return filepath.Abs(candidate)
		}
	}
	return DefaultDataDir()
}

// DefaultDataDir returns the platform data directory for the ledger.
//
// Linux:   $XDG_DATA_HOME/evermind (fallback ~/.local/share/evermind)
// macOS:   ~/Library/Application Support/evermind
// Windows: %APPDATA%/evermind
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", AppName), nil
	}
	dir, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}
