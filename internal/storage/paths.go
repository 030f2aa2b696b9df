// Package storage keeps perft results on disk so repeated runs of the same
// position and depth are answered without walking the tree again.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chesscore"

// CacheDirEnv overrides the database directory when set.
const CacheDirEnv = "CHESSCORE_CACHE_DIR"

// GetDataDir returns the platform-specific data directory for the application.
// - macOS: ~/Library/Application Support/chesscore/
// - Linux: ~/.local/share/chesscore/
// - Windows: %APPDATA%/chesscore/
func GetDataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		// XDG_DATA_HOME wins over ~/.local/share.
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(baseDir, appName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// GetDatabaseDir returns the directory for the perft result database, honouring
// CHESSCORE_CACHE_DIR before the platform data directory.
func GetDatabaseDir() (string, error) {
	dbDir := os.Getenv(CacheDirEnv)
	if dbDir == "" {
		dataDir, err := GetDataDir()
		if err != nil {
			return "", err
		}
		dbDir = filepath.Join(dataDir, "perft")
	}

	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}
	return dbDir, nil
}
