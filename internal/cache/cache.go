// Package cache keeps probe results on disk so a movie is only parsed again
// after it changed.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/reel-player/reel/filesystem"
	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/where"
)

const TTL = 7 * 24 * time.Hour

func dir() string {
	path := filepath.Join(where.Cache(), "probe")
	_ = filesystem.API().MkdirAll(path, os.ModePerm)
	return path
}

// Key identifies a movie file by its absolute path, size and modification
// time, so edits to the file invalidate the entry.
func Key(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	info, err := filesystem.API().Stat(abs)
	if err != nil {
		return "", err
	}

	id := fmt.Sprintf("%s|%d|%d", abs, info.Size(), info.ModTime().UnixNano())
	hash := sha256.Sum256([]byte(id))
	return hex.EncodeToString(hash[:]), nil
}

// Read decodes the entry for key into target. It reports false when the
// entry is missing, expired or unreadable.
func Read(key string, target any) bool {
	path := filepath.Join(dir(), key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return false
	}

	f, err := filesystem.API().Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(target); err != nil {
		log.Debugf("discarding cache entry %s: %s", key, err)
		return false
	}
	return true
}

// Write stores data under key, replacing the entry through a rename so a
// reader never sees a partial file.
func Write(key string, data any) error {
	path := filepath.Join(dir(), key)
	tmp := path + ".tmp"

	f, err := filesystem.API().Create(tmp)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(f).Encode(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return filesystem.API().Rename(tmp, path)
}

// CollectGarbage removes expired entries and returns how many were removed.
func CollectGarbage() (int, error) {
	var removed int
	err := filesystem.API().Walk(dir(), func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if time.Since(info.ModTime()) > TTL {
			if err := filesystem.API().Remove(path); err == nil {
				removed++
			}
		}
		return nil
	})
	return removed, err
}

// Clear removes every entry.
func Clear() error {
	return filesystem.API().RemoveAll(dir())
}
