// Package player keeps one movie's audio and video in step with a single
// movie-relative clock. The host calls Tick on its own cadence; the player
// decodes whatever became due, stages audio for output and keeps the latest
// video frame in a reusable surface.
//
// A Player is single-owner: no two of its methods may run concurrently.
package player

import (
	"fmt"
	"io"

	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/media"
	"github.com/reel-player/reel/movie"
	"github.com/reel-player/reel/output"
	"github.com/samber/mo"
)

// Movie is the part of *movie.Movie a player drives.
type Movie interface {
	SeekToStart()
	Track(t media.TrackType) mo.Option[*movie.Track]
	HasNextFrame(t media.TrackType) bool
	PeekFrame(t media.TrackType) mo.Option[movie.CachedFrame]
	DecodeNextFrame(t media.TrackType) error
	AdvanceCursor(t media.TrackType)
	DecodedAudio() []float32
	DecodedVideo() *media.Surface
	AudioSpec() media.AudioSpec
	TimecodeToMilliseconds(ticks uint64) uint64
	Acquire() error
	Release()
}

// Player is a playback session bound to one movie at a time.
type Player struct {
	movie Movie
	// owned is closed together with the player.
	owned io.Closer

	preloadMs        uint64
	defaultBlockSize int
	clock            Clock
	host             output.AudioHost
	movieOptions     movie.Options

	paused   bool
	finished bool

	hasAudio, hasVideo         bool
	audioEnabled, videoEnabled bool

	currentTime uint64
	lastTick    uint64
	nextAudio   uint64
	nextVideo   uint64

	staging stagingBuffer
	slot    *media.Surface

	device    output.DeviceID
	stream    *output.Stream
	blockSize int
	blockMs   uint64
	target    output.VideoTarget

	// warning is the non-fatal problem of the current tick.
	warning error
}

func newPlayer(opts []Option) *Player {
	p := &Player{
		preloadMs:        DefaultPreloadMs,
		defaultBlockSize: DefaultBlockSize,
		clock:            newSystemClock(),
		movieOptions:     movie.Options{PreloadAudio: true},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// New creates a player for m. The caller keeps ownership of m.
func New(m Movie, opts ...Option) (*Player, error) {
	p := newPlayer(opts)
	if err := p.Attach(m); err != nil {
		return nil, err
	}
	return p, nil
}

// FromPath opens the movie at path and creates a player owning it.
func FromPath(path string, opts ...Option) (*Player, error) {
	p := newPlayer(opts)
	m, err := movie.Open(path, p.movieOptions)
	if err != nil {
		return nil, err
	}
	return p.own(m)
}

// FromReader parses a movie from r and creates a player owning it.
func FromReader(r io.ReaderAt, size int64, opts ...Option) (*Player, error) {
	p := newPlayer(opts)
	m, err := movie.OpenReader(r, size, p.movieOptions)
	if err != nil {
		return nil, err
	}
	return p.own(m)
}

func (p *Player) own(m *movie.Movie) (*Player, error) {
	if err := p.Attach(m); err != nil {
		_ = m.Close()
		return nil, err
	}
	p.owned = m
	return p, nil
}

// Attach binds m to the player and resets every session timestamp. The
// previous movie is released, and closed if the player owned it. A bound
// audio stream is dropped because it was built for the previous movie's
// format; a video target stays bound.
func (p *Player) Attach(m Movie) error {
	if m == nil {
		return ErrNoMovie
	}

	if m != p.movie {
		if err := m.Acquire(); err != nil {
			return fmt.Errorf("%w: %w", ErrMovieInUse, err)
		}
		p.detach()
	}

	p.movie = m
	p.hasAudio = m.Track(media.TrackAudio).IsPresent()
	p.hasVideo = m.Track(media.TrackVideo).IsPresent()
	p.audioEnabled = p.hasAudio
	p.videoEnabled = p.hasVideo

	p.rewind()
	p.paused = false

	log.Debugf("attached movie: audio=%v video=%v next audio %dms next video %dms",
		p.hasAudio, p.hasVideo, p.nextAudio, p.nextVideo)
	return nil
}

// rewind seeks the movie to its first frames and restarts the session clock.
// Each track's first due time is its startup delay.
func (p *Player) rewind() {
	p.movie.SeekToStart()

	p.currentTime = 0
	p.lastTick = p.clock.Ticks()
	p.nextAudio = p.startupDelay(media.TrackAudio)
	p.nextVideo = p.startupDelay(media.TrackVideo)
	p.finished = !p.hasAudio && !p.hasVideo
}

func (p *Player) startupDelay(t media.TrackType) uint64 {
	track, ok := p.movie.Track(t).Get()
	if !ok || track.CodecDelay == 0 {
		return 0
	}
	return p.movie.TimecodeToMilliseconds(track.CodecDelay)
}

// detach drops everything tied to the current movie.
func (p *Player) detach() {
	if p.movie == nil {
		return
	}

	p.unbindAudio()
	p.staging.release()
	p.slot = nil
	p.blockSize = 0
	p.blockMs = 0

	p.movie.Release()
	if p.owned != nil {
		if err := p.owned.Close(); err != nil {
			log.Warnf("close movie: %s", err)
		}
		p.owned = nil
	}
	p.movie = nil
}

// Close releases the staging buffer, the presentation surface and any bound
// output, and detaches the movie.
func (p *Player) Close() {
	if p == nil {
		return
	}
	p.detach()
	p.target = nil
}

// Movie returns the attached movie, if any.
func (p *Player) Movie() mo.Option[Movie] {
	if p == nil || p.movie == nil {
		return mo.None[Movie]()
	}
	return mo.Some(p.movie)
}

// Pause stops the clock and unbinds the audio stream from its device.
func (p *Player) Pause() {
	if p == nil || p.movie == nil {
		return
	}
	p.paused = true
	if p.stream != nil {
		p.host.UnbindStream(p.stream)
	}
}

// Resume restarts the clock from now and rebinds the audio stream.
func (p *Player) Resume() error {
	if p == nil || p.movie == nil {
		return ErrNoMovie
	}
	p.paused = false
	p.lastTick = p.clock.Ticks()
	if p.stream != nil {
		if err := p.host.BindStream(p.device, p.stream); err != nil {
			return fmt.Errorf("rebind audio stream: %w", err)
		}
	}
	return nil
}

// Paused reports whether the player is paused.
func (p *Player) Paused() bool {
	return p != nil && p.movie != nil && p.paused
}

// Finished reports whether the video track ran out. A movie without tracks
// is finished as soon as it is attached.
func (p *Player) Finished() bool {
	return p != nil && p.movie != nil && p.finished
}

// CurrentTime returns the movie clock in milliseconds.
func (p *Player) CurrentTime() uint64 {
	if p == nil {
		return 0
	}
	return p.currentTime
}

// CurrentTimeSeconds returns the movie clock in seconds.
func (p *Player) CurrentTimeSeconds() float32 {
	return float32(p.CurrentTime()) / 1000
}

// NextDue returns when the next frame of a track is due, in milliseconds.
func (p *Player) NextDue(t media.TrackType) uint64 {
	if p == nil {
		return 0
	}
	if t == media.TrackAudio {
		return p.nextAudio
	}
	return p.nextVideo
}

// AudioEnabled reports whether ticks service the audio track.
func (p *Player) AudioEnabled() bool { return p != nil && p.audioEnabled }

// VideoEnabled reports whether ticks service the video track.
func (p *Player) VideoEnabled() bool { return p != nil && p.videoEnabled }

// SetAudioEnabled toggles the audio path. It has no effect without an audio
// track.
func (p *Player) SetAudioEnabled(enabled bool) {
	if p != nil && p.hasAudio {
		p.audioEnabled = enabled
	}
}

// SetVideoEnabled toggles the video path. It has no effect without a video
// track.
func (p *Player) SetVideoEnabled(enabled bool) {
	if p != nil && p.hasVideo {
		p.videoEnabled = enabled
	}
}

// Seek moves playback to ms. Only the start of the movie is supported: the
// cursors, the clock, the due times and the finished flag are reset.
func (p *Player) Seek(ms uint64) error {
	if p == nil || p.movie == nil {
		return ErrNoMovie
	}
	if ms != 0 {
		return fmt.Errorf("%w: %dms", ErrSeekUnsupported, ms)
	}

	p.rewind()
	log.Debug("rewound to start")
	return nil
}
