// Package codec provides the closed set of frame decoders a track can use.
// The variant is chosen once, from the track's codec ID, when the track is set
// up; every later decode call goes through the uniform AudioDecoder or
// VideoDecoder capability.
package codec

import (
	"errors"
	"fmt"

	"github.com/reel-player/reel/media"
)

var (
	ErrUnsupportedCodec = errors.New("unsupported codec")
	ErrShortFrame       = errors.New("frame payload shorter than expected")
)

// Kind is one decoder variant.
type Kind int

const (
	KindUnknown Kind = iota
	KindPCMFloat
	KindPCMInt
	KindRawVideo
	// Compressed codecs that are recognized but have no decoder in this build.
	KindVP8
	KindVP9
	KindAV1
	KindVorbis
	KindOpus
)

var kinds = map[string]Kind{
	"A_PCM/FLOAT/IEEE": KindPCMFloat,
	"A_PCM/INT/LIT":    KindPCMInt,
	"V_UNCOMPRESSED":   KindRawVideo,
	"V_VP8":            KindVP8,
	"V_VP9":            KindVP9,
	"V_AV1":            KindAV1,
	"A_VORBIS":         KindVorbis,
	"A_OPUS":           KindOpus,
}

// Lookup maps a Matroska codec ID to its decoder variant.
func Lookup(codecID string) Kind {
	return kinds[codecID]
}

// Supported reports whether a decoder for the variant exists.
func (k Kind) Supported() bool {
	switch k {
	case KindPCMFloat, KindPCMInt, KindRawVideo:
		return true
	}
	return false
}

// AudioDecoder turns one encoded audio frame into interleaved F32 samples. The
// returned slice is owned by the decoder and valid until the next Decode.
type AudioDecoder interface {
	Decode(frame []byte) ([]float32, error)
	Spec() media.AudioSpec
}

// VideoDecoder decodes one encoded video frame into its output surface. The
// surface is owned by the decoder and overwritten by every Decode.
type VideoDecoder interface {
	Decode(frame []byte) error
	Surface() *media.Surface
}

// AudioParams are the track properties an audio decoder is built from.
type AudioParams struct {
	CodecID    string
	SampleRate int
	Channels   int
	BitDepth   int
}

// VideoParams are the track properties a video decoder is built from.
type VideoParams struct {
	CodecID     string
	Width       int
	Height      int
	ColourSpace string
}

// NewAudioDecoder selects and builds the decoder for an audio track.
func NewAudioDecoder(p AudioParams) (AudioDecoder, error) {
	if p.SampleRate <= 0 || p.Channels <= 0 {
		return nil, fmt.Errorf("audio track %s: invalid format %dHz/%dch", p.CodecID, p.SampleRate, p.Channels)
	}

	spec := media.AudioSpec{Format: media.SampleF32, SampleRate: p.SampleRate, Channels: p.Channels}

	switch Lookup(p.CodecID) {
	case KindPCMFloat:
		if p.BitDepth != 0 && p.BitDepth != 32 {
			return nil, fmt.Errorf("%w: %s with %d bits", ErrUnsupportedCodec, p.CodecID, p.BitDepth)
		}
		return &pcmFloatDecoder{spec: spec}, nil
	case KindPCMInt:
		depth := p.BitDepth
		if depth == 0 {
			depth = 16
		}
		if depth != 16 && depth != 24 && depth != 32 {
			return nil, fmt.Errorf("%w: %s with %d bits", ErrUnsupportedCodec, p.CodecID, depth)
		}
		return &pcmIntDecoder{spec: spec, width: depth / 8}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodec, p.CodecID)
	}
}

// NewVideoDecoder selects and builds the decoder for a video track.
func NewVideoDecoder(p VideoParams) (VideoDecoder, error) {
	switch Lookup(p.CodecID) {
	case KindRawVideo:
		if err := media.CheckDimensions(p.Width, p.Height); err != nil {
			return nil, fmt.Errorf("video track %s: %w", p.CodecID, err)
		}
		format := media.PixelRGBA32
		if p.ColourSpace == "RGB24" {
			format = media.PixelRGB24
		}
		surface, err := media.NewSurface(p.Width, p.Height, format)
		if err != nil {
			return nil, fmt.Errorf("video track %s: %w", p.CodecID, err)
		}
		return &rawVideoDecoder{surface: surface}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodec, p.CodecID)
	}
}
