package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/reel-player/reel/internal/session"
	"github.com/reel-player/reel/internal/ui"
	"github.com/reel-player/reel/player"
	"github.com/reel-player/reel/style"
	"github.com/reel-player/reel/util"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

// statefulBubble is the playback view of one session.
type statefulBubble struct {
	state  state
	keymap *statefulKeymap

	session *session.Session
	player  *player.Player
	// interval between two tick messages
	interval time.Duration

	progressC progress.Model
	helpC     help.Model
	notifier  *ui.Model

	lastUpdate player.Update
	lastError  error

	width, height int

	options *Options
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// raiseError stops playback on a failed tick and shows the error view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y
	b.progressC.Width = b.width
	b.helpC.Width = b.width
}

func newBubble(s *session.Session, options *Options) *statefulBubble {
	bubble := statefulBubble{
		keymap:   newStatefulKeymap(),
		session:  s,
		player:   s.Player(),
		interval: time.Duration(util.Max(options.Session.StepMs, 1)) * time.Millisecond,
		notifier: &ui.Model{},
		options:  options,
	}

	bubble.helpC = help.New()
	bubble.progressC = progress.New(
		progress.WithGradient(string(style.AccentColor), string(style.SecondaryColor)),
		progress.WithoutPercentage(),
	)
	bubble.setState(playingState)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	} else {
		bubble.resize(util.TerminalWidth(80), 24)
	}

	return &bubble
}
