package tui

import "github.com/charmbracelet/bubbles/key"

// statefulKeymap defines the keys available in each view.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	playPause, rewind,
	toggleAudio, toggleVideo,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause/resume"),
		),
		rewind: key.NewBinding(
			key.WithKeys("r", "home"),
			key.WithHelp("r", "rewind"),
		),
		toggleAudio: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle audio"),
		),
		toggleVideo: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "toggle video"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	switch k.state {
	case playingState:
		return h(k.playPause, k.rewind, k.showHelp, k.quit),
			h(k.playPause, k.rewind, k.toggleAudio, k.toggleVideo, k.quit, k.forceQuit)
	case finishedState:
		return h(k.rewind, k.quit), h(k.rewind, k.quit, k.forceQuit)
	default:
		return h(k.quit), h(k.quit, k.forceQuit)
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}
