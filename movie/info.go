package movie

import "github.com/reel-player/reel/media"

// TrackInfo summarizes one selected track.
type TrackInfo struct {
	Type    media.TrackType `json:"type"`
	Number  uint64          `json:"number"`
	CodecID string          `json:"codec_id"`
	Frames  int             `json:"frames"`
	FirstMs uint64          `json:"first_ms"`
	LastMs  uint64          `json:"last_ms"`
	DelayMs uint64          `json:"delay_ms"`

	Audio  *media.AudioSpec `json:"audio,omitempty"`
	Width  int              `json:"width,omitempty"`
	Height int              `json:"height,omitempty"`
}

// Info summarizes the selected tracks of a movie.
type Info struct {
	TimecodeScale uint64      `json:"timecode_scale_ns"`
	DurationMs    uint64      `json:"duration_ms"`
	Tracks        []TrackInfo `json:"tracks"`
}

// Info describes the movie's selected tracks. DurationMs is the timecode of
// the last frame of any track.
func (m *Movie) Info() Info {
	info := Info{TimecodeScale: m.TimeBase.Scale}

	for _, t := range m.tracks {
		if t == nil {
			continue
		}

		ti := TrackInfo{
			Type:    t.Type,
			Number:  t.Number,
			CodecID: t.CodecID,
			Frames:  t.Index.Len(),
			DelayMs: m.TimeBase.StartupDelayMilliseconds(t.CodecDelay),
		}
		if t.Index.Len() > 0 {
			ti.FirstMs = m.TimeBase.Milliseconds(t.Index.At(0).Timecode)
			ti.LastMs = m.TimeBase.Milliseconds(t.Index.Last().MustGet().Timecode)
		}

		switch t.Type {
		case media.TrackAudio:
			spec := t.Audio
			ti.Audio = &spec
		case media.TrackVideo:
			ti.Width, ti.Height = t.Width, t.Height
		}

		info.DurationMs = max(info.DurationMs, ti.LastMs)
		info.Tracks = append(info.Tracks, ti)
	}

	return info
}
