// Package statepaths resolves the on-disk locations for persisted bot
// state from viper configuration.
package statepaths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const defaultStateDir = "~/.pytaibot/state"

// FileStateDir returns the root state directory, expanding a leading
// "~/" against the user's home.
func FileStateDir() string {
	dir := strings.TrimSpace(viper.GetString("file_state_dir"))
	if dir == "" {
		dir = defaultStateDir
	}
	return expandHomePath(dir)
}

// ConversationsDir is where the file-backed conversation store keeps one
// JSON record per thread.
func ConversationsDir() string {
	return filepath.Join(FileStateDir(), "conversations")
}

func expandHomePath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil && home != "" {
			if path == "~" {
				return home
			}
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
