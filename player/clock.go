package player

import "time"

// Clock is the wall clock a player samples when Tick is given WallClock.
type Clock interface {
	// Ticks returns milliseconds since an arbitrary fixed origin.
	Ticks() uint64
}

// WallClock asks Tick to derive the elapsed time from the player's Clock.
const WallClock int64 = -1

type systemClock struct {
	origin time.Time
}

func newSystemClock() Clock {
	return systemClock{origin: time.Now()}
}

func (c systemClock) Ticks() uint64 {
	return uint64(time.Since(c.origin).Milliseconds())
}
