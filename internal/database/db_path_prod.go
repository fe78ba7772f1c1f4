//go:build prod

package database

import (
	"log/slog"
	"os"
	"path/filepath"
)

// GetDefaultDBPath returns the database path for production mode.
// In production, the database is stored in the user's config directory.
func GetDefaultDBPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		slog.Warn("failed to get user config dir, using fallback", slog.Any("error", err))
		return "chatbox.db"
	}

	return filepath.Join(configDir, "chatbox", "chatbox.db")
}
