// Package cmd implements the command-line interface for reel.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/reel-player/reel/color"
	"github.com/reel-player/reel/internal/cache"
	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/movie"
	"github.com/reel-player/reel/style"
	"github.com/reel-player/reel/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	probeCmd.Flags().Bool("no-cache", false, "Parse the file even when a cached result exists")

	probeCmd.SetOut(os.Stdout)
}

// probeCmd lists the playable tracks of a movie and their frame indexes.
var probeCmd = &cobra.Command{
	Use:   "probe [file]",
	Short: "Describe the playable tracks of a movie",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			path    = args[0]
			asJson  = lo.Must(cmd.Flags().GetBool("json"))
			noCache = lo.Must(cmd.Flags().GetBool("no-cache"))
		)

		info, err := probe(path, !noCache)
		handleErr(err)

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(info))
			return
		}

		cmd.Print(renderInfo(filepath.Base(path), info))
	},
}

// probe parses path, or reuses the result of an earlier parse of the same
// unchanged file.
func probe(path string, useCache bool) (movie.Info, error) {
	var info movie.Info

	cacheKey, err := cache.Key(path)
	if err != nil {
		return info, err
	}

	if useCache && cache.Read(cacheKey, &info) {
		log.Debugf("probe cache hit for %s", path)
		return info, nil
	}

	m, err := movie.Open(path, movie.Options{})
	if err != nil {
		return info, err
	}
	info = m.Info()
	util.Ignore(m.Close)

	if err := cache.Write(cacheKey, info); err != nil {
		log.Warnf("cache probe result: %s", err)
	}
	return info, nil
}

func renderInfo(name string, info movie.Info) string {
	headerStyle := style.New().Bold(true).Foreground(color.HiPurple).Render

	out := fmt.Sprintf("%s %s\n", style.Fg(color.Purple)("▇▇▇"), style.Bold(name))
	out += fmt.Sprintf("  %s %s\n", style.Faint("Timecode scale"), style.Bold(fmt.Sprintf("%dns", info.TimecodeScale)))
	out += fmt.Sprintf("  %s       %s\n", style.Faint("Duration"), style.Bold(util.FormatMillis(info.DurationMs)))

	if len(info.Tracks) == 0 {
		return out + style.Fg(color.Yellow)("  no playable tracks") + "\n"
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(style.New().Foreground(style.FaintColor)).
		Headers("#", "Type", "Codec", "Frames", "First", "Last", "Delay", "Format").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return style.New().Bold(true).Padding(0, 1)
			}
			return style.New().Padding(0, 1)
		})

	for _, tr := range info.Tracks {
		format := fmt.Sprintf("%dx%d", tr.Width, tr.Height)
		if tr.Audio != nil {
			format = tr.Audio.String()
		}

		t.Row(
			strconv.FormatUint(tr.Number, 10),
			tr.Type.String(),
			tr.CodecID,
			strconv.Itoa(tr.Frames),
			util.FormatMillis(tr.FirstMs),
			util.FormatMillis(tr.LastMs),
			fmt.Sprintf("%dms", tr.DelayMs),
			format,
		)
	}

	return out + headerStyle("Tracks") + "\n" + t.Render() + "\n"
}
