// Package history keeps a record of playback sessions, one per movie path.
package history

import (
	"path/filepath"

	"github.com/metafates/gache"
	"github.com/reel-player/reel/filesystem"
	"github.com/reel-player/reel/where"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

var cacher = gache.New[map[string]*Session](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every saved session keyed by movie path.
func Get() (map[string]*Session, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Session), nil
	}
	return cached, nil
}

// List returns saved sessions, most recent first.
func List() ([]*Session, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	sessions := lo.Values(saved)
	slices.SortFunc(sessions, func(a, b *Session) int {
		return b.PlayedAt.Compare(a.PlayedAt)
	})
	return sessions, nil
}

// Save records a session, replacing the previous one for the same movie.
// The furthest position ever reached is kept.
func Save(session *Session) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	if abs, err := filepath.Abs(session.Path); err == nil {
		session.Path = abs
	}

	if existing, exists := saved[session.encode()]; exists {
		session.PositionMs = max(session.PositionMs, existing.PositionMs)
		session.Finished = session.Finished || existing.Finished
	}

	saved[session.encode()] = session
	return cacher.Set(saved)
}

// Remove deletes the session of a movie.
func Remove(session *Session) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, session.encode())
	return cacher.Set(saved)
}
