package session

import (
	"errors"
	"fmt"

	"github.com/reel-player/reel/key"
	"github.com/reel-player/reel/media"
	"github.com/spf13/viper"
)

// ErrInvalidStep is returned for a tick step that is not a positive number of
// milliseconds.
var ErrInvalidStep = errors.New("tick step must be a positive number of milliseconds")

// Options describe one playback run of a movie file.
type Options struct {
	Path string

	PreloadMs    uint64
	BlockSize    int
	AudioPreload bool

	// StepMs is the elapsed time fed to every tick. In realtime mode it is
	// only the pacing interval and the wall clock drives the player.
	StepMs   int64
	Realtime bool

	// AudioOut, when set, receives the converted audio in DeviceSpec format.
	AudioOut   string
	DeviceSpec media.AudioSpec

	// FramesDir, when set, receives every FrameEvery-th presented frame as PNG.
	FramesDir  string
	FrameEvery int

	NoAudio bool
	NoVideo bool

	SaveHistory bool
}

// OptionsFromConfig fills options for path from the configuration.
func OptionsFromConfig(path string) Options {
	return Options{
		Path:         path,
		PreloadMs:    uint64(viper.GetInt(key.PlayerPreloadMs)),
		BlockSize:    viper.GetInt(key.AudioDefaultBlockSize),
		AudioPreload: viper.GetBool(key.AudioPreload),
		StepMs:       int64(viper.GetInt(key.PlayerStepMs)),
		Realtime:     viper.GetBool(key.PlayerRealtime),
		DeviceSpec: media.AudioSpec{
			Format:     media.SampleS16,
			SampleRate: viper.GetInt(key.AudioDeviceRate),
			Channels:   viper.GetInt(key.AudioDeviceChannels),
		},
		FrameEvery:  viper.GetInt(key.VideoFrameEvery),
		SaveHistory: viper.GetBool(key.HistorySave),
	}
}

// Validate rejects options a session cannot run with. A zero step would feed
// ticks that never advance the player.
func (o Options) Validate() error {
	if o.StepMs <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidStep, o.StepMs)
	}
	return nil
}
