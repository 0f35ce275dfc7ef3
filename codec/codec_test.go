package codec

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/reel-player/reel/media"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAudioDecoders(t *testing.T) {
	Convey("Float PCM", t, func() {
		dec, err := NewAudioDecoder(AudioParams{CodecID: "A_PCM/FLOAT/IEEE", SampleRate: 48000, Channels: 2, BitDepth: 32})
		So(err, ShouldBeNil)
		So(dec.Spec(), ShouldResemble, media.AudioSpec{Format: media.SampleF32, SampleRate: 48000, Channels: 2})

		frame := make([]byte, 8)
		binary.LittleEndian.PutUint32(frame, math.Float32bits(0.5))
		binary.LittleEndian.PutUint32(frame[4:], math.Float32bits(-1))

		samples, err := dec.Decode(frame)
		So(err, ShouldBeNil)
		So(samples, ShouldResemble, []float32{0.5, -1})

		Convey("A partial sample is a short frame", func() {
			_, err := dec.Decode([]byte{1, 2, 3})
			So(errors.Is(err, ErrShortFrame), ShouldBeTrue)
		})
	})

	Convey("16-bit integer PCM is normalized", t, func() {
		dec, err := NewAudioDecoder(AudioParams{CodecID: "A_PCM/INT/LIT", SampleRate: 8000, Channels: 1})
		So(err, ShouldBeNil)

		frame := make([]byte, 4)
		binary.LittleEndian.PutUint16(frame, uint16(16384))
		minus := int16(-32768)
		binary.LittleEndian.PutUint16(frame[2:], uint16(minus))

		samples, err := dec.Decode(frame)
		So(err, ShouldBeNil)
		So(samples, ShouldResemble, []float32{0.5, -1})
	})

	Convey("24-bit integer PCM sign-extends", t, func() {
		dec, err := NewAudioDecoder(AudioParams{CodecID: "A_PCM/INT/LIT", SampleRate: 8000, Channels: 1, BitDepth: 24})
		So(err, ShouldBeNil)

		samples, err := dec.Decode([]byte{0x00, 0x00, 0xC0})
		So(err, ShouldBeNil)
		So(samples, ShouldResemble, []float32{-0.5})
	})

	Convey("Compressed codecs are recognized but unsupported", t, func() {
		So(Lookup("A_OPUS"), ShouldEqual, KindOpus)
		So(Lookup("A_OPUS").Supported(), ShouldBeFalse)

		_, err := NewAudioDecoder(AudioParams{CodecID: "A_VORBIS", SampleRate: 44100, Channels: 2})
		So(errors.Is(err, ErrUnsupportedCodec), ShouldBeTrue)
	})

	Convey("A zero sample rate is invalid", t, func() {
		_, err := NewAudioDecoder(AudioParams{CodecID: "A_PCM/FLOAT/IEEE", Channels: 2})
		So(err, ShouldNotBeNil)
	})
}

func TestVideoDecoders(t *testing.T) {
	Convey("Uncompressed RGBA", t, func() {
		dec, err := NewVideoDecoder(VideoParams{CodecID: "V_UNCOMPRESSED", Width: 1, Height: 2})
		So(err, ShouldBeNil)
		So(dec.Surface().Format, ShouldEqual, media.PixelRGBA32)

		frame := []byte{1, 2, 3, 4, 5, 6, 7, 8}
		So(dec.Decode(frame), ShouldBeNil)
		So(dec.Surface().Pixels, ShouldResemble, frame)

		Convey("A truncated frame is rejected", func() {
			So(errors.Is(dec.Decode(frame[:3]), ErrShortFrame), ShouldBeTrue)
		})
	})

	Convey("Oversized raw video is rejected up front", t, func() {
		_, err := NewVideoDecoder(VideoParams{CodecID: "V_UNCOMPRESSED", Width: 65536, Height: 65536})
		So(errors.Is(err, media.ErrSurfaceSize), ShouldBeTrue)
	})

	Convey("VP9 has no decoder", t, func() {
		_, err := NewVideoDecoder(VideoParams{CodecID: "V_VP9", Width: 16, Height: 16})
		So(errors.Is(err, ErrUnsupportedCodec), ShouldBeTrue)
	})
}
