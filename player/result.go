package player

import "strings"

// Update is the set of paths a Tick serviced.
type Update uint8

const (
	// UpdateNone means the tick serviced nothing.
	UpdateNone Update = 0
	// UpdateAudio means audio was due and the audio path ran.
	UpdateAudio Update = 1 << 0
	// UpdateVideo means video was due and the video path ran.
	UpdateVideo Update = 1 << 1
	// UpdateError means a decoder failed. It is never combined with other bits.
	UpdateError Update = 1 << 2
)

// Has reports whether every bit of u2 is set in u.
func (u Update) Has(u2 Update) bool {
	return u&u2 == u2 && u2 != UpdateNone
}

// String joins the names of the set bits with "|".
func (u Update) String() string {
	if u == UpdateNone {
		return "none"
	}

	var parts []string
	for _, bit := range []struct {
		u    Update
		name string
	}{
		{UpdateAudio, "audio"},
		{UpdateVideo, "video"},
		{UpdateError, "error"},
	} {
		if u.Has(bit.u) {
			parts = append(parts, bit.name)
		}
	}
	return strings.Join(parts, "|")
}

// Result is what one Tick did. Err is set, and Update is exactly UpdateError,
// when a decoder failed; state changed earlier in that Tick is kept.
type Result struct {
	Update Update
	Err    error
	// Warning reports a problem that did not stop the tick, such as decoded
	// audio dropped because the staging buffer could not be allocated.
	Warning error
}

// Failed reports whether the tick stopped on an error.
func (r Result) Failed() bool {
	return r.Err != nil
}
