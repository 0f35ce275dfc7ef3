package history

import (
	"fmt"
	"path/filepath"
	"time"
)

// Session is one finished or interrupted playback of a movie.
type Session struct {
	Path       string    `json:"path"`
	PositionMs uint64    `json:"position_ms"`
	DurationMs uint64    `json:"duration_ms"`
	Finished   bool      `json:"finished"`
	Audio      bool      `json:"audio"`
	Video      bool      `json:"video"`
	Ticks      int       `json:"ticks"`
	Errors     int       `json:"errors"`
	PlayedAt   time.Time `json:"played_at"`
}

func (s *Session) encode() string {
	return s.Path
}

// Progress returns how far into the movie the session got, from 0 to 100.
func (s *Session) Progress() float64 {
	if s.Finished {
		return 100
	}
	if s.DurationMs == 0 {
		return 0
	}
	return min(100, float64(s.PositionMs)*100/float64(s.DurationMs))
}

func (s *Session) String() string {
	return fmt.Sprintf("%s : %.0f%%", filepath.Base(s.Path), s.Progress())
}
