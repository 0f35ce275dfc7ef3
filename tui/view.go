package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reel-player/reel/color"
	"github.com/reel-player/reel/icon"
	"github.com/reel-player/reel/media"
	"github.com/reel-player/reel/movie"
	"github.com/reel-player/reel/style"
	"github.com/reel-player/reel/util"
	"github.com/samber/lo"
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case playingState, finishedState:
		output = b.viewPlayback()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewPlayback() string {
	title := style.Title("Now Playing")
	status := icon.Get(icon.Play)
	switch {
	case b.state == finishedState:
		title = style.Title("Finished")
		status = icon.Get(icon.Finished)
	case b.player.Paused():
		status = icon.Get(icon.Pause)
	}

	info := b.session.Info()
	current := b.player.CurrentTime()

	var percent float64
	if info.DurationMs > 0 {
		percent = min(1, float64(current)/float64(info.DurationMs))
	}

	stats := b.session.Stats()

	return b.renderLines(true, []string{
		title,
		"",
		style.Truncate(b.width)(icon.Get(icon.Movie) + " " + style.Fg(color.Purple)(filepath.Base(b.options.Session.Path))),
		"",
		b.progressC.ViewAs(percent),
		fmt.Sprintf("%s %s / %s", status, util.FormatMillis(current), util.FormatMillis(info.DurationMs)),
		"",
		b.trackStatus(media.TrackAudio, icon.Audio, b.player.AudioEnabled()) + "   " +
			b.trackStatus(media.TrackVideo, icon.Video, b.player.VideoEnabled()),
		style.Faint(fmt.Sprintf("%s, %s, last update %s",
			util.Quantify(stats.Ticks, "tick", "ticks"),
			util.Quantify(stats.Errors, "error", "errors"),
			b.lastUpdate,
		)),
	})
}

func (b *statefulBubble) trackStatus(t media.TrackType, i icon.Icon, enabled bool) string {
	label := icon.Get(i) + " " + t.String()

	_, present := lo.Find(b.session.Info().Tracks, func(ti movie.TrackInfo) bool {
		return ti.Type == t
	})
	switch {
	case !present:
		return style.Faint(label + " none")
	default:
		return style.Toggle(enabled)(label + " " + onOff(enabled))
	}
}

func (b *statefulBubble) viewError() string {
	return b.renderLines(true, []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " Playback stopped:",
		"",
		style.Fg(color.Red)(style.Truncate(b.width)(b.lastError.Error())),
	})
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
