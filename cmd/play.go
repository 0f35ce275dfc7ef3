// Package cmd implements the command-line interface for reel.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/reel-player/reel/color"
	"github.com/reel-player/reel/icon"
	"github.com/reel-player/reel/internal/session"
	"github.com/reel-player/reel/key"
	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/player"
	"github.com/reel-player/reel/style"
	"github.com/reel-player/reel/tui"
	"github.com/reel-player/reel/util"
	"github.com/reel-player/reel/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// autoFrames makes --frames without a value dump into the cache directory.
const autoFrames = "auto"

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.SetOut(os.Stdout)

	playCmd.Flags().StringP("audio-out", "a", "", "Write the converted audio track to a raw PCM file")
	playCmd.Flags().StringP("frames", "f", "", "Dump presented video frames as PNG files into a directory")
	playCmd.Flags().Lookup("frames").NoOptDefVal = autoFrames
	playCmd.Flags().BoolP("tui", "t", false, "Play inside the interactive terminal view")
	playCmd.Flags().Bool("no-audio", false, "Disable the audio track")
	playCmd.Flags().Bool("no-video", false, "Disable the video track")
	playCmd.MarkFlagsMutuallyExclusive("no-audio", "no-video")

	playCmd.Flags().Int("frame-every", 1, "Dump one in every N presented frames")
	lo.Must0(viper.BindPFlag(key.VideoFrameEvery, playCmd.Flags().Lookup("frame-every")))

	playCmd.Flags().BoolP("realtime", "r", true, "Pace ticks by the wall clock")
	lo.Must0(viper.BindPFlag(key.PlayerRealtime, playCmd.Flags().Lookup("realtime")))

	playCmd.Flags().IntP("step", "s", 16, "Milliseconds between two ticks")
	lo.Must0(viper.BindPFlag(key.PlayerStepMs, playCmd.Flags().Lookup("step")))

	playCmd.Flags().Int("preload", 50, "Audio lookahead in milliseconds")
	lo.Must0(viper.BindPFlag(key.PlayerPreloadMs, playCmd.Flags().Lookup("preload")))
}

// playCmd plays a movie file through the file outputs or the terminal view.
var playCmd = &cobra.Command{
	Use:   "play [file]",
	Short: "Play a Matroska or WebM movie",
	Long: `Play a Matroska or WebM movie, keeping audio and video on one clock.

Decoded audio can be written to a raw PCM file in the configured device format
and presented video frames can be dumped as PNG images.`,
	Example: "  reel play movie.webm --audio-out movie.pcm --frames",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := session.OptionsFromConfig(args[0])
		opts.AudioOut = lo.Must(cmd.Flags().GetString("audio-out"))
		opts.NoAudio = lo.Must(cmd.Flags().GetBool("no-audio"))
		opts.NoVideo = lo.Must(cmd.Flags().GetBool("no-video"))
		handleErr(opts.Validate())

		opts.FramesDir = lo.Must(cmd.Flags().GetString("frames"))
		if opts.FramesDir == autoFrames {
			opts.FramesDir = where.Frames(util.SanitizeFilename(util.FileStem(opts.Path)))
		}

		if lo.Must(cmd.Flags().GetBool("tui")) {
			handleErr(tui.Run(&tui.Options{Session: opts}))
			return
		}

		handleErr(play(cmd, opts))
	},
}

func play(cmd *cobra.Command, opts session.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := session.Open(opts)
	if err != nil {
		return err
	}

	name := style.Fg(color.Purple)(filepath.Base(opts.Path))
	erase := util.PrintErasable(fmt.Sprintf("%s Playing %s...", icon.Get(icon.Play), name))

	runErr := s.Run(ctx, func(res player.Result) {
		if res.Failed() {
			log.Errorf("tick failed: %s", res.Err)
		}
	})
	erase()

	stats := s.Stats()
	position := util.FormatMillis(s.Player().CurrentTime())
	audio, frames := s.AudioWritten(), s.FramesWritten()

	if err := s.Close(); err != nil {
		log.Warn(err)
	}

	switch {
	case errors.Is(runErr, context.Canceled):
		cmd.Printf("%s Stopped %s at %s\n", icon.Get(icon.Pause), name, position)
	case runErr != nil:
		return fmt.Errorf("playback stopped at %s: %w", position, runErr)
	default:
		cmd.Printf("%s Played %s to %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), name, position)
	}

	cmd.Println(style.Faint(fmt.Sprintf(
		"  %s, %s, %s",
		util.Quantify(stats.Ticks, "tick", "ticks"),
		util.Quantify(stats.AudioUpdates, "audio update", "audio updates"),
		util.Quantify(stats.VideoUpdates, "video update", "video updates"),
	)))

	if opts.AudioOut != "" {
		cmd.Printf("  %s wrote %d bytes of %s audio to %s\n", icon.Get(icon.Audio), audio, opts.DeviceSpec, opts.AudioOut)
	}
	if opts.FramesDir != "" {
		cmd.Printf("  %s wrote %s to %s\n", icon.Get(icon.Video), util.Quantify(frames, "frame", "frames"), opts.FramesDir)
	}

	return nil
}
