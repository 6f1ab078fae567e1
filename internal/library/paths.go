package library

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDatabasePath returns the platform default Mixxx database location.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	switch runtime.GOOS {
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "Mixxx", "mixxxdb.sqlite")
		}
		return filepath.Join(home, "AppData", "Local", "Mixxx", "mixxxdb.sqlite")
	case "darwin":
		return filepath.Join(home,
			"Library", "Containers", "org.mixxx.mixxx",
			"Data", "Library", "Application Support", "Mixxx", "mixxxdb.sqlite")
	default:
		return filepath.Join(home, ".mixxx", "mixxxdb.sqlite")
	}
}
