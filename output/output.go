// Package output defines where a player sends what it decodes: audio devices
// that pull converted samples from a Stream, and video targets that receive
// each presented frame.
package output

import (
	"errors"

	"github.com/reel-player/reel/media"
)

// DeviceID identifies an audio output device of an AudioHost.
type DeviceID uint32

const (
	// NoDevice unbinds audio output.
	NoDevice DeviceID = 0
	// DefaultPlayback is the host's "default playback device" sentinel. It
	// cannot be bound as a stream target.
	DefaultPlayback DeviceID = 0xFFFFFFFF
)

var (
	ErrUnknownDevice = errors.New("unknown audio device")
	ErrDeviceBusy    = errors.New("audio device already has a bound stream")
	ErrStreamFormat  = errors.New("unsupported stream format")
)

// AudioHost is the audio device layer a player binds its output stream to.
type AudioHost interface {
	// DeviceFormat reports the native format of a device and its hardware
	// block size in sample frames. A zero block size means "unknown".
	DeviceFormat(id DeviceID) (media.AudioSpec, int, error)
	// BindStream attaches a stream to a device. The device pulls converted
	// data from the stream from then on.
	BindStream(id DeviceID, s *Stream) error
	// UnbindStream detaches a stream from whatever device it is bound to.
	UnbindStream(s *Stream)
}

// VideoTarget receives every presented video frame.
type VideoTarget interface {
	PixelFormat() media.PixelFormat
	Update(frame *media.Surface) error
}
