// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/reel-player/reel/constant"
	"github.com/reel-player/reel/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable used to override the configuration directory.
const EnvConfigPath = "REEL_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the configuration directory. REEL_CONFIG_PATH takes
// precedence over the platform's user config directory.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Reel))
}

// Cache resolves the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Reel))
}

// Logs resolves the directory holding dated log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// History resolves the playback session history file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// FramesRoot resolves the directory holding every movie's dumped frames.
func FramesRoot() string {
	return filepath.Join(Cache(), "frames")
}

// Frames resolves the default directory for dumped video frames of a movie.
func Frames(stem string) string {
	return filepath.Join(FramesRoot(), stem)
}
