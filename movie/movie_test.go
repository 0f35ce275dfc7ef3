package movie

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/reel-player/reel/filesystem"
	"github.com/reel-player/reel/matroska"
	"github.com/reel-player/reel/matroska/matroskatest"
	"github.com/reel-player/reel/media"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func floats(values ...float32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func sampleMovie() []byte {
	return matroskatest.File("webm", 1000, []matroskatest.Track{
		{Number: 1, Type: matroska.TrackTypeVideo, CodecID: "V_UNCOMPRESSED", Width: 1, Height: 1},
		{Number: 2, Type: matroska.TrackTypeAudio, CodecID: "A_PCM/FLOAT/IEEE", CodecDelay: 20_000_000, Rate: 1000, Channels: 1, BitDepth: 32},
		{Number: 3, Type: matroska.TrackTypeAudio, CodecID: "A_OPUS", Rate: 48000, Channels: 2},
	}, []matroskatest.Cluster{
		{Timecode: 0, Frames: []matroskatest.Frame{
			{Track: 1, Rel: 0, KeyFrame: true, Payload: []byte{1, 2, 3, 4}},
			{Track: 2, Rel: 0, KeyFrame: true, Payload: floats(0.25, 0.5)},
			{Track: 3, Rel: 0, KeyFrame: true, Payload: []byte{9, 9}},
			{Track: 2, Rel: 20000, KeyFrame: true, Payload: floats(-0.5)},
			{Track: 1, Rel: 30000, KeyFrame: true, Payload: []byte{5, 6, 7, 8}},
		}},
	})
}

func TestOpenReader(t *testing.T) {
	Convey("Given an in-memory movie", t, func() {
		data := sampleMovie()
		m, err := OpenReader(bytes.NewReader(data), int64(len(data)), Options{})
		So(err, ShouldBeNil)

		Convey("The first playable track of each type is selected", func() {
			video, ok := m.Track(media.TrackVideo).Get()
			So(ok, ShouldBeTrue)
			So(video.Number, ShouldEqual, 1)
			So(video.Index.Len(), ShouldEqual, 2)

			audio, ok := m.Track(media.TrackAudio).Get()
			So(ok, ShouldBeTrue)
			So(audio.Number, ShouldEqual, 2)
			So(audio.Index.Len(), ShouldEqual, 2)
			So(m.AudioSpec(), ShouldResemble, media.AudioSpec{Format: media.SampleF32, SampleRate: 1000, Channels: 1})
		})

		Convey("The codec delay is kept in ticks", func() {
			audio := m.Track(media.TrackAudio).MustGet()
			So(audio.CodecDelay, ShouldEqual, 20000)
			So(m.TimeBase.StartupDelayMilliseconds(audio.CodecDelay), ShouldEqual, 20)
		})

		Convey("Timecodes convert through the time base", func() {
			next := m.PeekFrame(media.TrackAudio).MustGet()
			So(m.TimecodeToMilliseconds(next.Timecode), ShouldEqual, 0)

			m.AdvanceCursor(media.TrackAudio)
			next = m.PeekFrame(media.TrackAudio).MustGet()
			So(m.TimecodeToMilliseconds(next.Timecode), ShouldEqual, 20)
		})

		Convey("Decoding does not move the cursor", func() {
			So(m.DecodedVideo(), ShouldBeNil)
			So(m.DecodeNextFrame(media.TrackVideo), ShouldBeNil)
			So(m.Track(media.TrackVideo).MustGet().Index.Cursor(), ShouldEqual, 0)
			So(m.DecodedVideo().Pixels, ShouldResemble, []byte{1, 2, 3, 4})

			So(m.DecodeNextFrame(media.TrackAudio), ShouldBeNil)
			So(m.DecodedAudio(), ShouldResemble, []float32{0.25, 0.5})
		})

		Convey("Cursors stop at the end and rewind", func() {
			for range 5 {
				m.AdvanceCursor(media.TrackAudio)
			}
			So(m.HasNextFrame(media.TrackAudio), ShouldBeFalse)
			So(m.PeekFrame(media.TrackAudio).IsAbsent(), ShouldBeTrue)
			So(errors.Is(m.DecodeNextFrame(media.TrackAudio), ErrEndOfTrack), ShouldBeTrue)

			m.SeekToStart()
			So(m.HasNextFrame(media.TrackAudio), ShouldBeTrue)
		})

		Convey("Acquire is exclusive until released", func() {
			So(m.Acquire(), ShouldBeNil)
			So(errors.Is(m.Acquire(), ErrMovieClaimed), ShouldBeTrue)
			m.Release()
			So(m.Acquire(), ShouldBeNil)
		})
	})

	Convey("Preloaded audio decodes from memory", t, func() {
		data := sampleMovie()
		m, err := OpenReader(bytes.NewReader(data), int64(len(data)), Options{PreloadAudio: true})
		So(err, ShouldBeNil)

		audio := m.Track(media.TrackAudio).MustGet()
		offsets := lo.Map(lo.Range(audio.Index.Len()), func(i int, _ int) int64 {
			return audio.Index.At(i).MemOffset.OrElse(-1)
		})
		So(offsets, ShouldResemble, []int64{0, 8})

		m.AdvanceCursor(media.TrackAudio)
		So(m.DecodeNextFrame(media.TrackAudio), ShouldBeNil)
		So(m.DecodedAudio(), ShouldResemble, []float32{-0.5})
	})

	Convey("A movie without an audio track", t, func() {
		data := matroskatest.File("matroska", 1_000_000, []matroskatest.Track{
			{Number: 1, Type: matroska.TrackTypeVideo, CodecID: "V_UNCOMPRESSED", Width: 1, Height: 1},
		}, nil)
		m, err := OpenReader(bytes.NewReader(data), int64(len(data)), Options{PreloadAudio: true})
		So(err, ShouldBeNil)
		So(m.Track(media.TrackAudio).IsAbsent(), ShouldBeTrue)
		So(m.HasNextFrame(media.TrackAudio), ShouldBeFalse)
		So(errors.Is(m.DecodeNextFrame(media.TrackAudio), ErrNoTrack), ShouldBeTrue)
		So(m.AudioSpec(), ShouldResemble, media.AudioSpec{})
	})

	Convey("Garbage is rejected", t, func() {
		data := []byte("definitely not a movie")
		_, err := OpenReader(bytes.NewReader(data), int64(len(data)), Options{})
		So(errors.Is(err, matroska.ErrNotMatroska), ShouldBeTrue)
	})
}

func TestOpen(t *testing.T) {
	Convey("Open reads through the application filesystem", t, func() {
		So(filesystem.API().WriteFile("/movies/sample.webm", sampleMovie(), 0644), ShouldBeNil)

		m, err := Open("/movies/sample.webm", Options{})
		So(err, ShouldBeNil)
		So(m.HasNextFrame(media.TrackVideo), ShouldBeTrue)
		So(m.Close(), ShouldBeNil)
		So(m.Close(), ShouldBeNil)

		Convey("A missing file is an error", func() {
			_, err := Open("/movies/missing.webm", Options{})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestTimeBase(t *testing.T) {
	Convey("Milliseconds", t, func() {
		So(TimeBase{Scale: 1000}.Milliseconds(20000), ShouldEqual, 20)
		So(TimeBase{Scale: 1_000_000}.Milliseconds(40), ShouldEqual, 40)
		So(TimeBase{Scale: 1_000_000}.Ticks(40), ShouldEqual, 40)
		So(TimeBase{Scale: 1000}.Ticks(20), ShouldEqual, 20000)
		So(TimeBase{}.Ticks(20), ShouldEqual, 0)
		So(TimeBase{Scale: math.MaxUint64}.Milliseconds(math.MaxUint64), ShouldEqual, uint64(math.MaxUint64))
	})
}

func TestFrameIndex(t *testing.T) {
	Convey("An empty index", t, func() {
		ix := &FrameIndex{}
		So(ix.HasNext(), ShouldBeFalse)
		So(ix.Last().IsAbsent(), ShouldBeTrue)
		ix.Advance()
		So(ix.Cursor(), ShouldEqual, 0)

		Convey("Appending keeps order", func() {
			ix.Append(CachedFrame{Timecode: 1})
			ix.Append(CachedFrame{Timecode: 2})
			So(ix.Peek().MustGet().Timecode, ShouldEqual, 1)
			So(ix.Last().MustGet().Timecode, ShouldEqual, 2)
			ix.Advance()
			ix.Advance()
			ix.Advance()
			So(ix.Cursor(), ShouldEqual, 2)
			ix.Rewind()
			So(ix.Cursor(), ShouldEqual, 0)
		})
	})
}
