// Package session drives one player over a movie file on behalf of the CLI
// and the TUI: it opens the movie, binds the file outputs, feeds ticks and
// records the result in the history.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reel-player/reel/history"
	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/media"
	"github.com/reel-player/reel/movie"
	"github.com/reel-player/reel/output"
	"github.com/reel-player/reel/player"
	logrus "github.com/sirupsen/logrus"
)

// Stats count what the ticks of a session produced.
type Stats struct {
	Ticks        int
	AudioUpdates int
	VideoUpdates int
	Errors       int
	Warnings     int
}

// Session is a player bound to an opened movie and its file outputs.
type Session struct {
	opts Options

	movie  *movie.Movie
	player *player.Player
	info   movie.Info

	audio       *output.PCMFileHost
	frames      *output.FrameDumper
	framesBound bool

	stats   Stats
	lastErr error
}

// Open opens the movie, creates the player and binds the requested outputs.
func Open(opts Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	m, err := movie.Open(opts.Path, movie.Options{PreloadAudio: opts.AudioPreload})
	if err != nil {
		return nil, err
	}

	s := &Session{opts: opts, movie: m, info: m.Info()}

	playerOpts := []player.Option{
		player.WithPreload(opts.PreloadMs),
		player.WithDefaultBlockSize(opts.BlockSize),
	}

	hasAudio := m.Track(media.TrackAudio).IsPresent()
	if opts.AudioOut != "" && hasAudio && !opts.NoAudio {
		s.audio = output.NewPCMFileHost(opts.AudioOut, opts.DeviceSpec, 0)
		playerOpts = append(playerOpts, player.WithAudioHost(s.audio))
	}

	p, err := player.New(m, playerOpts...)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	s.player = p

	if opts.NoAudio {
		p.SetAudioEnabled(false)
	}
	if opts.NoVideo {
		p.SetVideoEnabled(false)
	}

	if s.audio != nil {
		if err := p.SetAudioOutput(output.FileDevice); err != nil {
			s.abort()
			return nil, fmt.Errorf("audio output: %w", err)
		}
	}

	if opts.FramesDir != "" && p.VideoEnabled() {
		dumper, err := output.NewFrameDumper(opts.FramesDir, opts.FrameEvery)
		if err != nil {
			s.abort()
			return nil, fmt.Errorf("frame output: %w", err)
		}
		s.frames = dumper
	}

	log.Infof("session opened for %s: %d tracks, %dms", opts.Path, len(s.info.Tracks), s.info.DurationMs)
	return s, nil
}

// abort releases a half-opened session without recording it.
func (s *Session) abort() {
	s.opts.SaveHistory = false
	if err := s.Close(); err != nil {
		log.Warnf("close session: %s", err)
	}
}

// Player returns the driven player.
func (s *Session) Player() *player.Player { return s.player }

// Info describes the opened movie.
func (s *Session) Info() movie.Info { return s.info }

// Stats returns the tick counters so far.
func (s *Session) Stats() Stats { return s.stats }

// Err returns the last decode error, if any.
func (s *Session) Err() error { return s.lastErr }

// AudioWritten returns the number of bytes written to the audio file.
func (s *Session) AudioWritten() int64 {
	if s.audio == nil {
		return 0
	}
	return s.audio.Written()
}

// FramesWritten returns the number of frames dumped.
func (s *Session) FramesWritten() int {
	if s.frames == nil {
		return 0
	}
	return s.frames.Written()
}

// Done reports whether nothing is left to play: the video track ran out, or
// with video off the audio track ran out.
func (s *Session) Done() bool {
	if s.player.Finished() {
		return true
	}
	if s.player.VideoEnabled() {
		return false
	}
	return !s.player.AudioEnabled() || !s.movie.HasNextFrame(media.TrackAudio)
}

// Step feeds one tick to the player and moves its output to the files.
func (s *Session) Step() player.Result {
	elapsed := s.opts.StepMs
	if s.opts.Realtime {
		elapsed = player.WallClock
	}

	res := s.player.Tick(elapsed)
	s.stats.Ticks++

	if res.Warning != nil {
		s.stats.Warnings++
		log.Warnf("tick %d: %s", s.stats.Ticks, res.Warning)
	}

	if res.Failed() {
		s.stats.Errors++
		s.lastErr = res.Err
		return res
	}

	if res.Update.Has(player.UpdateAudio) {
		s.stats.AudioUpdates++
		if s.audio != nil {
			if _, err := s.audio.Pump(); err != nil {
				log.Warnf("write audio: %s", err)
			}
		} else {
			s.player.DrainAudio()
		}
	}

	if res.Update.Has(player.UpdateVideo) {
		s.stats.VideoUpdates++
		s.bindFrames()
	}

	return res
}

// bindFrames binds the frame dumper once a first frame exists and hands it
// that frame, which was presented before the target was bound.
func (s *Session) bindFrames() {
	if s.frames == nil || s.framesBound {
		return
	}

	if err := s.player.SetVideoOutput(s.frames); err != nil {
		log.Warnf("bind frame output: %s", err)
		s.frames = nil
		return
	}
	s.framesBound = true

	if frame, ok := s.player.CurrentVideoFrame().Get(); ok {
		if err := s.frames.Update(frame); err != nil {
			log.Warnf("write frame: %s", err)
		}
	}
}

// Run steps the player until it is done, a decode fails or ctx is cancelled.
// In realtime mode ticks are spaced StepMs apart, otherwise they run back to
// back. onStep, when not nil, sees every result.
func (s *Session) Run(ctx context.Context, onStep func(player.Result)) error {
	var pace <-chan time.Time
	if s.opts.Realtime {
		ticker := time.NewTicker(time.Duration(s.opts.StepMs) * time.Millisecond)
		defer ticker.Stop()
		pace = ticker.C
	}

	for !s.Done() {
		if pace != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pace:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		res := s.Step()
		if onStep != nil {
			onStep(res)
		}
		if res.Failed() {
			return res.Err
		}
	}

	return nil
}

// Record builds the history entry of the session as it stands.
func (s *Session) Record() *history.Session {
	return &history.Session{
		Path:       s.opts.Path,
		PositionMs: s.player.CurrentTime(),
		DurationMs: s.info.DurationMs,
		Finished:   s.Done(),
		Audio:      s.player.AudioEnabled(),
		Video:      s.player.VideoEnabled(),
		Ticks:      s.stats.Ticks,
		Errors:     s.stats.Errors,
		PlayedAt:   time.Now(),
	}
}

// Close saves the history entry when enabled, then releases the player,
// flushes the audio file and closes the movie.
func (s *Session) Close() error {
	var errs []error

	log.WithFields(logrus.InfoLevel, logrus.Fields{
		"path":     s.opts.Path,
		"position": s.player.CurrentTime(),
		"ticks":    s.stats.Ticks,
		"errors":   s.stats.Errors,
	}, "session closed")

	if s.opts.SaveHistory && s.player != nil {
		if err := history.Save(s.Record()); err != nil {
			errs = append(errs, fmt.Errorf("save history: %w", err))
		}
	}

	s.player.Close()

	if s.audio != nil {
		if err := s.audio.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close audio output: %w", err))
		}
	}

	if err := s.movie.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close movie: %w", err))
	}

	return errors.Join(errs...)
}
