package movie

import (
	"math"
	"math/bits"
)

const nanosPerMillisecond = 1_000_000

// TimeBase converts container ticks to milliseconds. Scale is the number of
// nanoseconds in one tick (Matroska's TimecodeScale).
type TimeBase struct {
	Scale uint64
}

// Milliseconds converts ticks to milliseconds, truncating. Results that do not
// fit in 64 bits saturate.
func (tb TimeBase) Milliseconds(ticks uint64) uint64 {
	hi, lo := bits.Mul64(ticks, tb.Scale)
	if hi >= nanosPerMillisecond {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, nanosPerMillisecond)
	return q
}

// StartupDelayMilliseconds converts a track's startup delay, given in the same
// tick unit as frame timecodes.
func (tb TimeBase) StartupDelayMilliseconds(delayTicks uint64) uint64 {
	return tb.Milliseconds(delayTicks)
}

// Ticks converts milliseconds to ticks, truncating.
func (tb TimeBase) Ticks(ms uint64) uint64 {
	if tb.Scale == 0 {
		return 0
	}
	hi, lo := bits.Mul64(ms, nanosPerMillisecond)
	if hi >= tb.Scale {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, tb.Scale)
	return q
}
