// Package tui is the interactive playback view. It owns the tick cadence:
// every tick message steps the session once and schedules the next one.
package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reel-player/reel/internal/session"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Session session.Options
}

// Run opens the session, plays it in the alternate screen and closes it on
// exit. A decode error that ended playback is returned.
func Run(options *Options) error {
	s, err := session.Open(options.Session)
	if err != nil {
		return err
	}

	bubble := newBubble(s, options)
	_, err = tea.NewProgram(bubble, tea.WithAltScreen()).Run()

	return errors.Join(err, bubble.lastError, s.Close())
}
