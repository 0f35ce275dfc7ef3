// Package cmd implements the command-line interface for reel.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/reel-player/reel/color"
	"github.com/reel-player/reel/history"
	"github.com/reel-player/reel/icon"
	"github.com/reel-player/reel/style"
	"github.com/reel-player/reel/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	historyCmd.Flags().IntP("limit", "n", 0, "Show only the N most recent sessions")

	historyCmd.SetOut(os.Stdout)
}

// historyCmd lists saved playback sessions.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved playback sessions, most recent first",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			asJson = lo.Must(cmd.Flags().GetBool("json"))
			limit  = lo.Must(cmd.Flags().GetInt("limit"))
		)

		sessions, err := history.List()
		handleErr(err)

		if limit > 0 && len(sessions) > limit {
			sessions = sessions[:limit]
		}

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			handleErr(encoder.Encode(sessions))
			return
		}

		if len(sessions) == 0 {
			cmd.Println(style.Faint("no playback history"))
			return
		}

		for _, s := range sessions {
			status := style.Fg(color.Yellow)(icon.Get(icon.Pause))
			if s.Finished {
				status = style.Fg(color.Green)(icon.Get(icon.Finished))
			}

			cmd.Printf("%s %s\n", status, style.Fg(color.Purple)(s.String()))
			cmd.Println(style.Faint(fmt.Sprintf(
				"  %s / %s, %s, %s",
				util.FormatMillis(s.PositionMs),
				util.FormatMillis(s.DurationMs),
				util.Quantify(s.Errors, "error", "errors"),
				s.PlayedAt.Format("2006-01-02 15:04"),
			)))
		}
	},
}
