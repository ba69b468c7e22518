package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// StoragePaths contains paths for application storage.
type StoragePaths struct {
	DatabasePath string
	ConfigPath   string
}

// GetDefaultStoragePaths returns default storage paths using XDG base directories.
func GetDefaultStoragePaths() StoragePaths {
	return StoragePaths{
		DatabasePath: filepath.Join(xdg.StateHome, "atom", "sessions.db"),
		ConfigPath:   filepath.Join(xdg.ConfigHome, "atom", "config.json"),
	}
}

// GetDefaultDataPath returns the default data directory path.
func GetDefaultDataPath() string {
	return filepath.Join(xdg.DataHome, "atom")
}
