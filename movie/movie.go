// Package movie holds an opened Matroska/WebM movie: its selected audio and
// video tracks, their frame indexes and cursors, the time base, and the
// decoders that turn the frame at a cursor into samples or pixels.
package movie

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/reel-player/reel/codec"
	"github.com/reel-player/reel/filesystem"
	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/matroska"
	"github.com/reel-player/reel/media"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

var (
	ErrNoTrack      = errors.New("track not selected")
	ErrEndOfTrack   = errors.New("no frame left at cursor")
	ErrMovieClaimed = errors.New("movie is attached to another player")
)

// Track is one selected stream of the movie.
type Track struct {
	Number  uint64
	Type    media.TrackType
	CodecID string
	// CodecDelay is the startup delay in timecode ticks.
	CodecDelay uint64
	Index      *FrameIndex

	Audio  media.AudioSpec
	Width  int
	Height int
}

// Options control how a movie is opened.
type Options struct {
	// PreloadAudio copies every audio payload into one contiguous buffer at
	// open time, so audio decoding never touches the source.
	PreloadAudio bool
}

// Movie is a parsed movie with at most one audio and one video track selected.
// It is single-owner: a Movie is driven by one player at a time.
type Movie struct {
	TimeBase TimeBase

	src    io.ReaderAt
	closer io.Closer

	tracks [2]*Track

	audioDec  codec.AudioDecoder
	videoDec  codec.VideoDecoder
	audioData []byte

	frameBuf     []byte
	decodedAudio []float32
	decodedVideo bool

	claimed atomic.Bool
}

// Open opens the movie at path through the application filesystem.
func Open(path string, opts Options) (*Movie, error) {
	f, size, err := filesystem.OpenSized(path)
	if err != nil {
		return nil, fmt.Errorf("open movie: %w", err)
	}

	m, err := OpenReader(f, size, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	m.closer = f
	return m, nil
}

// OpenReader parses a movie from a random-access source of the given size.
// The source must stay readable until the movie is closed.
func OpenReader(r io.ReaderAt, size int64, opts Options) (*Movie, error) {
	layout, err := matroska.Parse(r, size)
	if err != nil {
		return nil, fmt.Errorf("parse movie: %w", err)
	}

	m := &Movie{
		TimeBase: TimeBase{Scale: layout.TimecodeScale},
		src:      r,
	}

	for _, entry := range layout.Tracks {
		m.selectTrack(entry)
	}

	for _, b := range layout.Blocks {
		for _, t := range m.tracks {
			if t != nil && t.Number == b.Track {
				t.Index.Append(CachedFrame{
					Timecode: b.Timecode,
					Offset:   b.Offset,
					Size:     b.Size,
					KeyFrame: b.KeyFrame,
				})
			}
		}
	}

	if opts.PreloadAudio {
		if err := m.preloadAudio(); err != nil {
			return nil, err
		}
	}

	log.Infof("opened movie: timecode scale %dns, video=%v audio=%v",
		layout.TimecodeScale, m.tracks[media.TrackVideo] != nil, m.tracks[media.TrackAudio] != nil)

	return m, nil
}

// selectTrack keeps the first playable track of each type. Tracks whose codec
// has no decoder are skipped.
func (m *Movie) selectTrack(entry matroska.TrackEntry) {
	t := &Track{
		Number:     entry.Number,
		CodecID:    entry.CodecID,
		CodecDelay: entry.CodecDelay / m.TimeBase.Scale,
		Index:      &FrameIndex{},
	}

	switch entry.Type {
	case matroska.TrackTypeVideo:
		if m.tracks[media.TrackVideo] != nil {
			return
		}
		dec, err := codec.NewVideoDecoder(codec.VideoParams{
			CodecID:     entry.CodecID,
			Width:       int(entry.PixelWidth),
			Height:      int(entry.PixelHeight),
			ColourSpace: entry.ColourSpace,
		})
		if err != nil {
			log.Warnf("skipping video track %d: %s", entry.Number, err)
			return
		}
		t.Type = media.TrackVideo
		t.Width, t.Height = int(entry.PixelWidth), int(entry.PixelHeight)
		m.videoDec = dec
		m.tracks[media.TrackVideo] = t
	case matroska.TrackTypeAudio:
		if m.tracks[media.TrackAudio] != nil {
			return
		}
		dec, err := codec.NewAudioDecoder(codec.AudioParams{
			CodecID:    entry.CodecID,
			SampleRate: int(entry.SamplingFrequency),
			Channels:   int(entry.Channels),
			BitDepth:   int(entry.BitDepth),
		})
		if err != nil {
			log.Warnf("skipping audio track %d: %s", entry.Number, err)
			return
		}
		t.Type = media.TrackAudio
		t.Audio = dec.Spec()
		m.audioDec = dec
		m.tracks[media.TrackAudio] = t
	}
}

func (m *Movie) preloadAudio() error {
	t := m.tracks[media.TrackAudio]
	if t == nil {
		return nil
	}

	total := lo.SumBy(t.Index.frames, func(f CachedFrame) int64 { return f.Size })
	m.audioData = make([]byte, total)

	var off int64
	for i := range t.Index.frames {
		f := &t.Index.frames[i]
		if _, err := m.src.ReadAt(m.audioData[off:off+f.Size], f.Offset); err != nil && err != io.EOF {
			return fmt.Errorf("preload audio frame %d: %w", i, err)
		}
		f.MemOffset = mo.Some(off)
		off += f.Size
	}

	log.Debugf("preloaded %d bytes of audio in %d frames", total, t.Index.Len())
	return nil
}

// Close releases the source if the movie opened it.
func (m *Movie) Close() error {
	if m.closer == nil {
		return nil
	}
	err := m.closer.Close()
	m.closer = nil
	return err
}

// Acquire marks the movie as attached to a player.
func (m *Movie) Acquire() error {
	if !m.claimed.CompareAndSwap(false, true) {
		return ErrMovieClaimed
	}
	return nil
}

// Release detaches the movie from its player.
func (m *Movie) Release() {
	m.claimed.Store(false)
}

// Track returns the selected track of the given type.
func (m *Movie) Track(t media.TrackType) mo.Option[*Track] {
	if tr := m.track(t); tr != nil {
		return mo.Some(tr)
	}
	return mo.None[*Track]()
}

func (m *Movie) track(t media.TrackType) *Track {
	if t != media.TrackVideo && t != media.TrackAudio {
		return nil
	}
	return m.tracks[t]
}

// SeekToStart rewinds both track cursors to their first frame.
func (m *Movie) SeekToStart() {
	for _, t := range m.tracks {
		if t != nil {
			t.Index.Rewind()
		}
	}
}

// HasNextFrame reports whether a frame remains at the cursor of the track.
func (m *Movie) HasNextFrame(t media.TrackType) bool {
	tr := m.track(t)
	return tr != nil && tr.Index.HasNext()
}

// PeekFrame returns the frame at the cursor of the track.
func (m *Movie) PeekFrame(t media.TrackType) mo.Option[CachedFrame] {
	tr := m.track(t)
	if tr == nil {
		return mo.None[CachedFrame]()
	}
	return tr.Index.Peek()
}

// AdvanceCursor moves the track's cursor past the frame just decoded.
func (m *Movie) AdvanceCursor(t media.TrackType) {
	if tr := m.track(t); tr != nil {
		tr.Index.Advance()
	}
}

// DecodeNextFrame decodes the frame at the track's cursor without moving the
// cursor. Audio samples are then available from DecodedAudio, pixels from
// DecodedVideo.
func (m *Movie) DecodeNextFrame(t media.TrackType) error {
	tr := m.track(t)
	if tr == nil {
		return ErrNoTrack
	}

	frame, ok := tr.Index.Peek().Get()
	if !ok {
		return ErrEndOfTrack
	}

	payload, err := m.payload(frame)
	if err != nil {
		return fmt.Errorf("read %s frame %d: %w", t, tr.Index.Cursor(), err)
	}

	switch t {
	case media.TrackAudio:
		samples, err := m.audioDec.Decode(payload)
		if err != nil {
			return err
		}
		m.decodedAudio = samples
	case media.TrackVideo:
		if err := m.videoDec.Decode(payload); err != nil {
			return err
		}
		m.decodedVideo = true
	}

	return nil
}

func (m *Movie) payload(f CachedFrame) ([]byte, error) {
	if off, ok := f.MemOffset.Get(); ok {
		return m.audioData[off : off+f.Size], nil
	}

	if int64(cap(m.frameBuf)) < f.Size {
		m.frameBuf = make([]byte, f.Size)
	}
	buf := m.frameBuf[:f.Size]
	if _, err := m.src.ReadAt(buf, f.Offset); err != nil && err != io.EOF {
		return nil, err
	}
	return buf, nil
}

// DecodedAudio returns the samples of the last decoded audio frame.
func (m *Movie) DecodedAudio() []float32 {
	return m.decodedAudio
}

// DecodedVideo returns the decoder's output surface, or nil before the first
// video frame has been decoded.
func (m *Movie) DecodedVideo() *media.Surface {
	if !m.decodedVideo {
		return nil
	}
	return m.videoDec.Surface()
}

// AudioSpec returns the decoded format of the audio track; zero without one.
func (m *Movie) AudioSpec() media.AudioSpec {
	if tr := m.tracks[media.TrackAudio]; tr != nil {
		return tr.Audio
	}
	return media.AudioSpec{}
}

// TimecodeToMilliseconds converts frame timecode ticks to milliseconds.
func (m *Movie) TimecodeToMilliseconds(ticks uint64) uint64 {
	return m.TimeBase.Milliseconds(ticks)
}
