package config

import (
	"testing"

	"github.com/reel-player/reel/filesystem"
	"github.com/reel-player/reel/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetInt(key.PlayerPreloadMs), ShouldEqual, 50)
			So(viper.GetInt(key.AudioDefaultBlockSize), ShouldEqual, 1024)
		})

		Convey("Should read overrides from the environment", func() {
			t.Setenv("REEL_PLAYER_STEP_MS", "40")
			_ = Setup()
			So(viper.GetInt(key.PlayerStepMs), ShouldEqual, 40)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("audio.device_rate"), ShouldEqual, "audio_device_rate")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.AudioDeviceRate]

		Convey("Its env name carries the app prefix", func() {
			So(field.Env(), ShouldEqual, "REEL_AUDIO_DEVICE_RATE")
		})

		Convey("Values parse to the default's type", func() {
			v, err := field.Parse("44100")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 44100)

			_, err = field.Parse("fast")
			So(err, ShouldNotBeNil)

			realtime := Default[key.PlayerRealtime]
			b, err := realtime.Parse("false")
			So(err, ShouldBeNil)
			So(b, ShouldEqual, false)
		})

		Convey("Numeric fields carry a unit and a lower bound", func() {
			step := Default[key.PlayerStepMs]
			So(step.Format(16), ShouldEqual, "16 ms")
			So(step.Bounds(), ShouldEqual, "at least 1 ms")

			_, err := step.Parse("0")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "at least 1 ms")

			v, err := step.Parse("1")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 1)

			So(field.Format(44100), ShouldEqual, "44100 Hz")
			logs := Default[key.LogsLevel]
			So(logs.Format("debug"), ShouldEqual, "debug")
			So(logs.Bounds(), ShouldBeEmpty)
		})

		Convey("Pretty output shows the unit", func() {
			So(field.Pretty(), ShouldContainSubstring, "48000 Hz")
			So(field.Pretty(), ShouldContainSubstring, "at least 1 Hz")
		})

		Convey("A misspelled key suggests the nearest one", func() {
			So(Closest("audio.device_rat"), ShouldEqual, key.AudioDeviceRate)
		})
	})
}
