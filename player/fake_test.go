package player

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/reel-player/reel/matroska"
	"github.com/reel-player/reel/matroska/matroskatest"
	"github.com/reel-player/reel/media"
	"github.com/reel-player/reel/movie"
	"github.com/reel-player/reel/output"
	"github.com/samber/mo"
)

var errCorrupt = errors.New("corrupt frame")

type fakeFrame struct {
	tc      uint64
	samples []float32
	fail    bool
}

type fakeTrack struct {
	delay  uint64
	frames []fakeFrame
	cursor int
}

// fakeMovie is a scripted movie. Timecodes go through a real TimeBase, so
// with the default scale one tick is one millisecond.
type fakeMovie struct {
	tb     movie.TimeBase
	spec   media.AudioSpec
	tracks map[media.TrackType]*fakeTrack

	decodedAudio []float32
	decodedVideo *media.Surface
	decodes      map[media.TrackType]int
	seeks        int
	claimed      bool
}

func newFakeMovie() *fakeMovie {
	return &fakeMovie{
		tb:      movie.TimeBase{Scale: 1_000_000},
		spec:    media.AudioSpec{Format: media.SampleF32, SampleRate: 10, Channels: 1},
		tracks:  map[media.TrackType]*fakeTrack{},
		decodes: map[media.TrackType]int{},
	}
}

func (m *fakeMovie) withAudio(timecodes ...uint64) *fakeMovie {
	t := &fakeTrack{}
	for i, tc := range timecodes {
		t.frames = append(t.frames, fakeFrame{tc: tc, samples: []float32{float32(i + 1)}})
	}
	m.tracks[media.TrackAudio] = t
	return m
}

func (m *fakeMovie) withVideo(timecodes ...uint64) *fakeMovie {
	t := &fakeTrack{}
	for _, tc := range timecodes {
		t.frames = append(t.frames, fakeFrame{tc: tc})
	}
	m.tracks[media.TrackVideo] = t
	return m
}

func (m *fakeMovie) cursor(t media.TrackType) int {
	return m.tracks[t].cursor
}

func (m *fakeMovie) SeekToStart() {
	m.seeks++
	for _, t := range m.tracks {
		t.cursor = 0
	}
}

func (m *fakeMovie) Track(t media.TrackType) mo.Option[*movie.Track] {
	tr, ok := m.tracks[t]
	if !ok {
		return mo.None[*movie.Track]()
	}
	return mo.Some(&movie.Track{Type: t, CodecDelay: tr.delay, Audio: m.spec})
}

func (m *fakeMovie) HasNextFrame(t media.TrackType) bool {
	tr, ok := m.tracks[t]
	return ok && tr.cursor < len(tr.frames)
}

func (m *fakeMovie) PeekFrame(t media.TrackType) mo.Option[movie.CachedFrame] {
	if !m.HasNextFrame(t) {
		return mo.None[movie.CachedFrame]()
	}
	tr := m.tracks[t]
	return mo.Some(movie.CachedFrame{Timecode: tr.frames[tr.cursor].tc})
}

func (m *fakeMovie) DecodeNextFrame(t media.TrackType) error {
	if !m.HasNextFrame(t) {
		return movie.ErrEndOfTrack
	}
	tr := m.tracks[t]
	f := tr.frames[tr.cursor]
	if f.fail {
		return errCorrupt
	}

	m.decodes[t]++
	if t == media.TrackAudio {
		m.decodedAudio = f.samples
		return nil
	}

	if m.decodedVideo == nil {
		m.decodedVideo, _ = media.NewSurface(1, 1, media.PixelRGBA32)
	}
	m.decodedVideo.Pixels[0] = byte(tr.cursor + 1)
	return nil
}

func (m *fakeMovie) AdvanceCursor(t media.TrackType) {
	if m.HasNextFrame(t) {
		m.tracks[t].cursor++
	}
}

func (m *fakeMovie) DecodedAudio() []float32      { return m.decodedAudio }
func (m *fakeMovie) DecodedVideo() *media.Surface { return m.decodedVideo }
func (m *fakeMovie) AudioSpec() media.AudioSpec   { return m.spec }

func (m *fakeMovie) TimecodeToMilliseconds(ticks uint64) uint64 {
	return m.tb.Milliseconds(ticks)
}

func (m *fakeMovie) Acquire() error {
	if m.claimed {
		return movie.ErrMovieClaimed
	}
	m.claimed = true
	return nil
}

func (m *fakeMovie) Release() { m.claimed = false }

type manualClock struct {
	now uint64
}

func (c *manualClock) Ticks() uint64 { return c.now }

// recordingHost is an AudioHost with one device that records binds.
type recordingHost struct {
	spec  media.AudioSpec
	block int
	err   error

	bound   *output.Stream
	binds   int
	unbinds int
}

func (h *recordingHost) DeviceFormat(id output.DeviceID) (media.AudioSpec, int, error) {
	if h.err != nil {
		return media.AudioSpec{}, 0, h.err
	}
	if id != 1 {
		return media.AudioSpec{}, 0, output.ErrUnknownDevice
	}
	return h.spec, h.block, nil
}

func (h *recordingHost) BindStream(_ output.DeviceID, s *output.Stream) error {
	h.bound = s
	h.binds++
	return nil
}

func (h *recordingHost) UnbindStream(s *output.Stream) {
	if h.bound == s {
		h.bound = nil
	}
	h.unbinds++
}

type recordingTarget struct {
	format  media.PixelFormat
	updates []byte
}

func (t *recordingTarget) PixelFormat() media.PixelFormat { return t.format }

func (t *recordingTarget) Update(frame *media.Surface) error {
	t.updates = append(t.updates, frame.Pixels[0])
	return nil
}

func floats(values ...float32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// sampleMovie is a one-pixel video at 0 and 30ms with mono float audio at 0
// and 20ms and a 20ms startup delay, one tick being a microsecond.
func sampleMovie() []byte {
	return matroskatest.File("webm", 1000, []matroskatest.Track{
		{Number: 1, Type: matroska.TrackTypeVideo, CodecID: "V_UNCOMPRESSED", Width: 1, Height: 1},
		{Number: 2, Type: matroska.TrackTypeAudio, CodecID: "A_PCM/FLOAT/IEEE", CodecDelay: 20_000_000, Rate: 1000, Channels: 1, BitDepth: 32},
	}, []matroskatest.Cluster{
		{Timecode: 0, Frames: []matroskatest.Frame{
			{Track: 1, KeyFrame: true, Payload: []byte{1, 2, 3, 4}},
			{Track: 2, KeyFrame: true, Payload: floats(0.25, 0.5)},
			{Track: 2, Rel: 20000, KeyFrame: true, Payload: floats(-0.5)},
			{Track: 1, Rel: 30000, KeyFrame: true, Payload: []byte{5, 6, 7, 8}},
		}},
	})
}
