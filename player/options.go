package player

import "github.com/reel-player/reel/output"

const (
	// DefaultPreloadMs is how far ahead of the clock audio is decoded.
	DefaultPreloadMs = 50
	// DefaultBlockSize is used when an audio device reports no block size.
	DefaultBlockSize = 1024
)

// Option configures a Player.
type Option func(*Player)

// WithPreload sets the audio lookahead horizon in milliseconds.
func WithPreload(ms uint64) Option {
	return func(p *Player) {
		p.preloadMs = ms
	}
}

// WithDefaultBlockSize sets the fallback device block size in sample frames.
func WithDefaultBlockSize(frames int) Option {
	return func(p *Player) {
		if frames > 0 {
			p.defaultBlockSize = frames
		}
	}
}

// WithClock replaces the wall clock used by WallClock ticks.
func WithClock(c Clock) Option {
	return func(p *Player) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithAudioHost sets the device layer SetAudioOutput binds streams to.
func WithAudioHost(h output.AudioHost) Option {
	return func(p *Player) {
		p.host = h
	}
}

// WithAudioPreload makes FromPath and FromReader copy the audio track into
// memory when opening the movie.
func WithAudioPreload(preload bool) Option {
	return func(p *Player) {
		p.movieOptions.PreloadAudio = preload
	}
}
