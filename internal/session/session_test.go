package session

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/reel-player/reel/filesystem"
	"github.com/reel-player/reel/history"
	"github.com/reel-player/reel/key"
	"github.com/reel-player/reel/matroska"
	"github.com/reel-player/reel/matroska/matroskatest"
	"github.com/reel-player/reel/media"
	"github.com/reel-player/reel/player"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
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

const moviePath = "/movies/sample.webm"

func writeSample() {
	data := matroskatest.File("webm", 1000, []matroskatest.Track{
		{Number: 1, Type: matroska.TrackTypeVideo, CodecID: "V_UNCOMPRESSED", Width: 1, Height: 1},
		{Number: 2, Type: matroska.TrackTypeAudio, CodecID: "A_PCM/FLOAT/IEEE", CodecDelay: 20_000_000, Rate: 1000, Channels: 1, BitDepth: 32},
	}, []matroskatest.Cluster{
		{Timecode: 0, Frames: []matroskatest.Frame{
			{Track: 1, KeyFrame: true, Payload: []byte{1, 2, 3, 4}},
			{Track: 2, KeyFrame: true, Payload: floats(0.25, 0.5)},
			{Track: 2, Rel: 20000, KeyFrame: true, Payload: floats(-0.5)},
			{Track: 1, Rel: 30000, KeyFrame: true, Payload: []byte{5, 6, 7, 8}},
		}},
	})

	So(filesystem.API().MkdirAll(filepath.Dir(moviePath), 0755), ShouldBeNil)
	So(filesystem.API().WriteFile(moviePath, data, 0644), ShouldBeNil)
}

func baseOptions() Options {
	return Options{
		Path:         moviePath,
		PreloadMs:    player.DefaultPreloadMs,
		AudioPreload: true,
		StepMs:       10,
		DeviceSpec:   media.AudioSpec{Format: media.SampleS16, SampleRate: 1000, Channels: 1},
		FrameEvery:   1,
	}
}

func TestSession(t *testing.T) {
	Convey("Given a movie file", t, func() {
		writeSample()

		Convey("Run with file outputs plays it to the end", func() {
			opts := baseOptions()
			opts.AudioOut = "/out/sample.pcm"
			opts.FramesDir = "/out/frames"

			s, err := Open(opts)
			So(err, ShouldBeNil)
			So(s.Info().DurationMs, ShouldEqual, 30)
			So(s.Info().Tracks, ShouldHaveLength, 2)

			var updates []player.Update
			err = s.Run(context.Background(), func(res player.Result) {
				updates = append(updates, res.Update)
			})
			So(err, ShouldBeNil)
			So(updates, ShouldResemble, []player.Update{
				player.UpdateVideo,
				player.UpdateAudio,
				player.UpdateAudio | player.UpdateVideo,
			})
			So(s.Done(), ShouldBeTrue)
			So(s.Stats(), ShouldResemble, Stats{Ticks: 3, AudioUpdates: 2, VideoUpdates: 2})

			So(s.AudioWritten(), ShouldEqual, 6)
			So(s.FramesWritten(), ShouldEqual, 2)

			exists, _ := filesystem.API().Exists("/out/frames/frame-000001.png")
			So(exists, ShouldBeTrue)
			exists, _ = filesystem.API().Exists("/out/frames/frame-000002.png")
			So(exists, ShouldBeTrue)

			record := s.Record()
			So(record.PositionMs, ShouldEqual, 30)
			So(record.Finished, ShouldBeTrue)
			So(record.Ticks, ShouldEqual, 3)

			So(s.Close(), ShouldBeNil)

			pcm, err := filesystem.API().ReadFile("/out/sample.pcm")
			So(err, ShouldBeNil)
			So(pcm, ShouldHaveLength, 6)
		})

		Convey("With video off it ends once audio runs out", func() {
			opts := baseOptions()
			opts.NoVideo = true

			s, err := Open(opts)
			So(err, ShouldBeNil)
			defer s.Close()

			So(s.Run(context.Background(), nil), ShouldBeNil)
			So(s.Stats().Ticks, ShouldEqual, 2)
			So(s.Stats().VideoUpdates, ShouldEqual, 0)
			So(s.Player().AvailableAudio(), ShouldBeEmpty)
		})

		Convey("A cancelled context stops before the first tick", func() {
			s, err := Open(baseOptions())
			So(err, ShouldBeNil)
			defer s.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err = s.Run(ctx, nil)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(s.Stats().Ticks, ShouldEqual, 0)
		})

		Convey("Closing saves the session to the history", func() {
			opts := baseOptions()
			opts.SaveHistory = true

			s, err := Open(opts)
			So(err, ShouldBeNil)
			s.Step()
			So(s.Close(), ShouldBeNil)

			saved, err := history.Get()
			So(err, ShouldBeNil)
			So(saved, ShouldContainKey, moviePath)
			So(saved[moviePath].PositionMs, ShouldBeGreaterThanOrEqualTo, 10)
		})
	})

	Convey("A missing file cannot be opened", t, func() {
		_, err := Open(Options{Path: "/movies/missing.webm", StepMs: 10})
		So(err, ShouldNotBeNil)
		So(errors.Is(err, ErrInvalidStep), ShouldBeFalse)
	})

	Convey("A step that cannot advance the player is refused", t, func() {
		writeSample()

		for _, step := range []int64{0, -1} {
			for _, realtime := range []bool{false, true} {
				opts := baseOptions()
				opts.StepMs = step
				opts.Realtime = realtime

				s, err := Open(opts)
				So(errors.Is(err, ErrInvalidStep), ShouldBeTrue)
				So(s, ShouldBeNil)
			}
		}
	})
}

func TestOptionsFromConfig(t *testing.T) {
	Convey("Options follow the configuration", t, func() {
		viper.Set(key.PlayerStepMs, 5)
		viper.Set(key.AudioDeviceRate, 22050)
		viper.Set(key.AudioDeviceChannels, 1)
		viper.Set(key.PlayerRealtime, false)
		defer viper.Reset()

		opts := OptionsFromConfig("movie.webm")
		So(opts.Path, ShouldEqual, "movie.webm")
		So(opts.StepMs, ShouldEqual, 5)
		So(opts.Realtime, ShouldBeFalse)
		So(opts.DeviceSpec, ShouldResemble, media.AudioSpec{Format: media.SampleS16, SampleRate: 22050, Channels: 1})
	})
}
