package movie

import "github.com/samber/mo"

// CachedFrame describes one encoded frame of a track. It is built once by the
// container reader and never modified afterwards.
type CachedFrame struct {
	// Timecode is in container ticks, see TimeBase.
	Timecode uint64
	// Offset and Size locate the payload in the source.
	Offset int64
	Size   int64
	// MemOffset locates the payload in the track's preloaded buffer, if the
	// track was preloaded.
	MemOffset mo.Option[int64]
	KeyFrame  bool
}

// FrameIndex is the ordered frame list of one track plus a cursor pointing at
// the next frame to decode. Append order is timecode order; the cursor only
// moves forward except on Rewind.
type FrameIndex struct {
	frames []CachedFrame
	cursor int
}

// Append adds a frame at the end of the index.
func (ix *FrameIndex) Append(f CachedFrame) {
	ix.frames = append(ix.frames, f)
}

// Len returns the number of indexed frames.
func (ix *FrameIndex) Len() int {
	return len(ix.frames)
}

// Cursor returns the position of the next frame to decode.
func (ix *FrameIndex) Cursor() int {
	return ix.cursor
}

// At returns the i-th frame.
func (ix *FrameIndex) At(i int) CachedFrame {
	return ix.frames[i]
}

// HasNext reports whether a frame remains at or after the cursor.
func (ix *FrameIndex) HasNext() bool {
	return ix.cursor < len(ix.frames)
}

// Peek returns the frame at the cursor, or None once the cursor is past the end.
func (ix *FrameIndex) Peek() mo.Option[CachedFrame] {
	if !ix.HasNext() {
		return mo.None[CachedFrame]()
	}
	return mo.Some(ix.frames[ix.cursor])
}

// Advance moves the cursor one frame forward. It never moves past the end.
func (ix *FrameIndex) Advance() {
	if ix.HasNext() {
		ix.cursor++
	}
}

// Rewind moves the cursor back to the first frame.
func (ix *FrameIndex) Rewind() {
	ix.cursor = 0
}

// Last returns the final frame of the index, or None when it is empty.
func (ix *FrameIndex) Last() mo.Option[CachedFrame] {
	if len(ix.frames) == 0 {
		return mo.None[CachedFrame]()
	}
	return mo.Some(ix.frames[len(ix.frames)-1])
}
