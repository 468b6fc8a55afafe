package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "gndiv"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/gndiv by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/gndiv by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/gndiv/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/gndiv/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// DatasetsFilePath returns the full path to the datasets.yaml manifest.
// Returns ~/.config/gndiv/datasets.yaml by default.
func DatasetsFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "datasets.yaml")
}
