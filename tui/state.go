package tui

type state int

const (
	playingState state = iota
	finishedState
	errorState
)

func (s state) String() string {
	switch s {
	case playingState:
		return "playing"
	case finishedState:
		return "finished"
	case errorState:
		return "error"
	default:
		return "unknown"
	}
}
