package player

import (
	"errors"
	"fmt"

	"github.com/reel-player/reel/media"
	"github.com/reel-player/reel/movie"
)

var (
	// ErrNoMovie is returned by operations that need an attached movie.
	ErrNoMovie = errors.New("no movie attached")
	// ErrMovieInUse is returned when attaching a movie another player holds.
	ErrMovieInUse = errors.New("movie is attached to another player")
	// ErrDefaultDevice is returned when binding output.DefaultPlayback itself.
	ErrDefaultDevice = errors.New("the default playback device cannot be bound directly")
	// ErrNoAudioTrack is returned when binding audio output for a silent movie.
	ErrNoAudioTrack = errors.New("movie has no audio track")
	// ErrNoVideoFrame is returned when binding a video target before any frame was decoded.
	ErrNoVideoFrame = errors.New("no video frame surface yet")
	// ErrFormatMismatch is returned when a video target cannot take the decoder's pixel format.
	ErrFormatMismatch = errors.New("video target pixel format does not match the frame")
	// ErrNoAudioHost is returned when binding audio output without WithAudioHost.
	ErrNoAudioHost = errors.New("no audio host configured")
	// ErrStagingAlloc is reported in Result.Warning when decoded audio could not be staged.
	ErrStagingAlloc = errors.New("cannot allocate audio staging buffer")
	// ErrSeekUnsupported is returned by Seek for any time but the start.
	ErrSeekUnsupported = errors.New("seeking is only supported to the start")
)

// DecodeError reports the frame a decoder failed on during Tick.
type DecodeError struct {
	Track media.TrackType
	Frame movie.CachedFrame
	Err   error
}

// Error names the track and the timecode of the failed frame.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s frame at tick %d: %s", e.Track, e.Frame.Timecode, e.Err)
}

// Unwrap returns the decoder's error.
func (e *DecodeError) Unwrap() error { return e.Err }
