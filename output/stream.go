package output

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/reel-player/reel/media"
	"github.com/samber/lo"
)

// Stream converts interleaved float samples in the movie's format into the
// device's format and buffers the result until the device reads it.
type Stream struct {
	src, dst media.AudioSpec

	// pos is the fractional read position into the next input frame,
	// carried between Put calls so resampling has no seams.
	pos float64

	buf bytes.Buffer
}

// NewStream creates a bridge from src to dst. The source must be float.
func NewStream(src, dst media.AudioSpec) (*Stream, error) {
	if src.Format != media.SampleF32 {
		return nil, fmt.Errorf("%w: source %s", ErrStreamFormat, src)
	}
	if src.SampleRate <= 0 || src.Channels <= 0 || dst.SampleRate <= 0 || dst.Channels <= 0 {
		return nil, fmt.Errorf("%w: %s -> %s", ErrStreamFormat, src, dst)
	}
	if dst.Format != media.SampleF32 && dst.Format != media.SampleS16 {
		return nil, fmt.Errorf("%w: destination %s", ErrStreamFormat, dst)
	}

	return &Stream{src: src, dst: dst}, nil
}

// Source returns the format the stream accepts.
func (s *Stream) Source() media.AudioSpec { return s.src }

// Destination returns the format the stream produces.
func (s *Stream) Destination() media.AudioSpec { return s.dst }

// Put converts and queues interleaved samples. A trailing partial frame is
// dropped.
func (s *Stream) Put(samples []float32) {
	frames := len(samples) / s.src.Channels
	if frames == 0 {
		return
	}

	step := float64(s.src.SampleRate) / float64(s.dst.SampleRate)
	out := make([]float32, s.dst.Channels)

	for ; s.pos < float64(frames); s.pos += step {
		i := int(s.pos)
		s.remix(samples[i*s.src.Channels:(i+1)*s.src.Channels], out)
		s.write(out)
	}
	s.pos -= float64(frames)
}

// remix maps one source frame onto the destination channel layout. Mono is
// duplicated, stereo downmixed to mono is averaged, anything else keeps the
// leading channels and pads with silence.
func (s *Stream) remix(in, out []float32) {
	switch {
	case len(in) == len(out):
		copy(out, in)
	case len(in) == 1:
		for i := range out {
			out[i] = in[0]
		}
	case len(out) == 1:
		var sum float32
		for _, v := range in {
			sum += v
		}
		out[0] = sum / float32(len(in))
	default:
		n := copy(out, in)
		clear(out[n:])
	}
}

func (s *Stream) write(frame []float32) {
	var scratch [4]byte
	for _, v := range frame {
		switch s.dst.Format {
		case media.SampleS16:
			binary.LittleEndian.PutUint16(scratch[:2], uint16(toS16(v)))
			s.buf.Write(scratch[:2])
		default:
			binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(v))
			s.buf.Write(scratch[:])
		}
	}
}

func toS16(v float32) int16 {
	return int16(lo.Clamp(v, -1, 1) * math.MaxInt16)
}

// Available returns the number of converted bytes waiting to be read.
func (s *Stream) Available() int { return s.buf.Len() }

// Read drains converted bytes in the destination format.
func (s *Stream) Read(p []byte) (int, error) {
	return s.buf.Read(p)
}

// Clear discards queued data and resampling state.
func (s *Stream) Clear() {
	s.buf.Reset()
	s.pos = 0
}
