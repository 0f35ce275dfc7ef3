// Package media defines the plain track, sample and pixel types shared by the
// container reader, the decoders, the output sinks and the player.
package media

import "fmt"

// TrackType identifies one of the two independently clocked streams of a movie.
type TrackType int

const (
	TrackVideo TrackType = iota
	TrackAudio
)

// String returns the lowercase name of the track type.
func (t TrackType) String() string {
	switch t {
	case TrackVideo:
		return "video"
	case TrackAudio:
		return "audio"
	default:
		return fmt.Sprintf("track(%d)", int(t))
	}
}

// SampleFormat is the encoding of one audio sample on the wire or in a device.
type SampleFormat int

const (
	// SampleF32 is interleaved little-endian 32-bit float. Decoded audio is always F32.
	SampleF32 SampleFormat = iota
	// SampleS16 is interleaved little-endian signed 16-bit integer.
	SampleS16
)

// BytesPerSample returns the width of a single sample of the format.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case SampleS16:
		return 2
	default:
		return 4
	}
}

// String returns the conventional short name of the format.
func (f SampleFormat) String() string {
	switch f {
	case SampleS16:
		return "s16le"
	default:
		return "f32le"
	}
}

// AudioSpec describes an interleaved PCM stream.
type AudioSpec struct {
	Format     SampleFormat
	SampleRate int
	Channels   int
}

// SamplesPerSecond returns the interleaved sample count for one second of audio.
func (s AudioSpec) SamplesPerSecond() int {
	return s.SampleRate * s.Channels
}

// String renders the format as "48000Hz/2ch/f32le".
func (s AudioSpec) String() string {
	return fmt.Sprintf("%dHz/%dch/%s", s.SampleRate, s.Channels, s.Format)
}
