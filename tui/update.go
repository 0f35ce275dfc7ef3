package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reel-player/reel/internal/ui"
	"github.com/reel-player/reel/player"
)

// tickMsg asks the bubble to step the session once.
type tickMsg time.Time

func (b *statefulBubble) tick() tea.Cmd {
	return tea.Tick(b.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (b *statefulBubble) Init() tea.Cmd {
	return b.tick()
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := b.notifier.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tickMsg:
		cmds = append(cmds, b.step())
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, b.keymap.forceQuit), key.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		case key.Matches(msg, b.keymap.showHelp):
			b.helpC.ShowAll = !b.helpC.ShowAll
		case key.Matches(msg, b.keymap.playPause) && b.state == playingState:
			cmds = append(cmds, b.togglePause())
		case key.Matches(msg, b.keymap.rewind) && b.state != errorState:
			cmds = append(cmds, b.rewind())
		case key.Matches(msg, b.keymap.toggleAudio) && b.state == playingState:
			b.player.SetAudioEnabled(!b.player.AudioEnabled())
			cmds = append(cmds, ui.Notify(fmt.Sprintf("audio %s", onOff(b.player.AudioEnabled()))))
		case key.Matches(msg, b.keymap.toggleVideo) && b.state == playingState:
			b.player.SetVideoEnabled(!b.player.VideoEnabled())
			cmds = append(cmds, ui.Notify(fmt.Sprintf("video %s", onOff(b.player.VideoEnabled()))))
		}
	}

	return b, tea.Batch(cmds...)
}

// step runs one session step and schedules the next while playback goes on.
func (b *statefulBubble) step() tea.Cmd {
	if b.state != playingState {
		return nil
	}

	res := b.session.Step()
	if res.Failed() {
		b.raiseError(res.Err)
		return nil
	}
	if res.Update != player.UpdateNone {
		b.lastUpdate = res.Update
	}

	if b.session.Done() {
		b.setState(finishedState)
		return ui.Notify("finished")
	}

	return b.tick()
}

func (b *statefulBubble) togglePause() tea.Cmd {
	if !b.player.Paused() {
		b.player.Pause()
		return ui.Notify("paused")
	}

	if err := b.player.Resume(); err != nil {
		return ui.Notify(fmt.Sprintf("resume: %s", err))
	}
	return ui.Notify("resumed")
}

func (b *statefulBubble) rewind() tea.Cmd {
	if err := b.player.Seek(0); err != nil {
		return ui.Notify(fmt.Sprintf("rewind: %s", err))
	}

	notify := ui.Notify("rewound")
	if b.state == finishedState {
		b.setState(playingState)
		return tea.Batch(notify, b.tick())
	}
	return notify
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
