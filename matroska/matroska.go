// Package matroska reads the track list and builds a per-track frame index from
// a Matroska or WebM container. Frame payloads are never read here; each
// indexed block records where its payload lives in the source.
package matroska

import (
	"errors"
	"fmt"
	"io"
)

const (
	idEBML           = 0x1A45DFA3
	idDocType        = 0x4282
	idSegment        = 0x18538067
	idSeekHead       = 0x114D9B74
	idInfo           = 0x1549A966
	idTimecodeScale  = 0x2AD7B1
	idDuration       = 0x4489
	idTracks         = 0x1654AE6B
	idTrackEntry     = 0xAE
	idTrackNumber    = 0xD7
	idTrackType      = 0x83
	idCodecID        = 0x86
	idCodecPrivate   = 0x63A2
	idCodecDelay     = 0x56AA
	idVideo          = 0xE0
	idPixelWidth     = 0xB0
	idPixelHeight    = 0xBA
	idColourSpace    = 0x2EB524
	idAudio          = 0xE1
	idSamplingFreq   = 0xB5
	idChannels       = 0x9F
	idBitDepth       = 0x6264
	idCluster        = 0x1F43B675
	idClusterTime    = 0xE7
	idSimpleBlock    = 0xA3
	idBlockGroup     = 0xA0
	idBlock          = 0xA1
	idReferenceBlock = 0xFB
	idCues           = 0x1C53BB6B
	idChapters       = 0x1043A770
	idTags           = 0x1254C367
	idAttachments    = 0x1941A469
)

// Track types as stored in the TrackType element.
const (
	TrackTypeVideo = 1
	TrackTypeAudio = 2
)

// DefaultTimecodeScale is the TimecodeScale assumed when Info omits it (1ms per tick).
const DefaultTimecodeScale = 1_000_000

var (
	ErrNotMatroska = errors.New("not a matroska stream")
	ErrTruncated   = errors.New("truncated matroska element")
)

// TrackEntry is the subset of a TrackEntry element needed for playback.
type TrackEntry struct {
	Number       uint64
	Type         uint64
	CodecID      string
	CodecPrivate []byte
	// CodecDelay is in nanoseconds, as stored in the container.
	CodecDelay uint64

	PixelWidth  uint64
	PixelHeight uint64
	ColourSpace string

	SamplingFrequency float64
	Channels          uint64
	BitDepth          uint64
}

// Block locates one frame payload of one track.
type Block struct {
	Track uint64
	// Timecode is absolute, in TimecodeScale units.
	Timecode uint64
	Offset   int64
	Size     int64
	KeyFrame bool
	Laced    bool
}

// File is the parsed layout of a Matroska source.
type File struct {
	DocType       string
	TimecodeScale uint64
	// Duration is in TimecodeScale units; zero when absent.
	Duration float64
	Tracks   []TrackEntry
	Blocks   []Block
}

// Parse reads the EBML header, the segment info, the tracks and every cluster of
// r. Blocks are returned in file order.
func Parse(r io.ReaderAt, size int64) (*File, error) {
	rd := &reader{r: r, size: size}

	h, err := rd.header(0, size)
	if err != nil || h.id != idEBML {
		return nil, ErrNotMatroska
	}

	f := &File{TimecodeScale: DefaultTimecodeScale}
	if err := rd.walk(h, func(c elementHeader) error {
		if c.id == idDocType {
			buf, err := rd.payload(c)
			if err != nil {
				return err
			}
			f.DocType = readString(buf)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if f.DocType != "matroska" && f.DocType != "webm" {
		return nil, fmt.Errorf("%w: doctype %q", ErrNotMatroska, f.DocType)
	}

	for pos := h.end; pos < size; {
		seg, err := rd.header(pos, size)
		if err != nil {
			return nil, err
		}
		if seg.id == idSegment {
			if err := rd.parseSegment(f, seg); err != nil {
				return nil, err
			}
			return f, nil
		}
		pos = seg.end
	}

	return nil, fmt.Errorf("%w: no segment", ErrNotMatroska)
}

// walk calls fn for every direct child of parent.
func (rd *reader) walk(parent elementHeader, fn func(elementHeader) error) error {
	for pos := parent.start; pos < parent.end; {
		c, err := rd.header(pos, parent.end)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		pos = c.end
	}
	return nil
}

func (rd *reader) parseSegment(f *File, seg elementHeader) error {
	for pos := seg.start; pos < seg.end; {
		c, err := rd.header(pos, seg.end)
		if err != nil {
			return err
		}

		switch c.id {
		case idInfo:
			err = rd.parseInfo(f, c)
		case idTracks:
			err = rd.walk(c, func(e elementHeader) error {
				if e.id != idTrackEntry {
					return nil
				}
				t, err := rd.parseTrackEntry(e)
				if err != nil {
					return err
				}
				f.Tracks = append(f.Tracks, t)
				return nil
			})
		case idCluster:
			c.end, err = rd.parseCluster(f, c)
		}
		if err != nil {
			return err
		}
		pos = c.end
	}
	return nil
}

func (rd *reader) parseInfo(f *File, info elementHeader) error {
	return rd.walk(info, func(c elementHeader) error {
		switch c.id {
		case idTimecodeScale, idDuration:
			buf, err := rd.payload(c)
			if err != nil {
				return err
			}
			if c.id == idTimecodeScale {
				if v, ok := readUnsigned(buf); ok && v > 0 {
					f.TimecodeScale = v
				}
			} else if v, ok := readFloat(buf); ok {
				f.Duration = v
			}
		}
		return nil
	})
}

func (rd *reader) parseTrackEntry(entry elementHeader) (TrackEntry, error) {
	var t TrackEntry

	uintInto := func(c elementHeader, dst *uint64) error {
		buf, err := rd.payload(c)
		if err != nil {
			return err
		}
		if v, ok := readUnsigned(buf); ok {
			*dst = v
		}
		return nil
	}

	err := rd.walk(entry, func(c elementHeader) error {
		switch c.id {
		case idTrackNumber:
			return uintInto(c, &t.Number)
		case idTrackType:
			return uintInto(c, &t.Type)
		case idCodecDelay:
			return uintInto(c, &t.CodecDelay)
		case idCodecID, idCodecPrivate:
			buf, err := rd.payload(c)
			if err != nil {
				return err
			}
			if c.id == idCodecID {
				t.CodecID = readString(buf)
			} else {
				t.CodecPrivate = buf
			}
		case idVideo:
			return rd.walk(c, func(v elementHeader) error {
				switch v.id {
				case idPixelWidth:
					return uintInto(v, &t.PixelWidth)
				case idPixelHeight:
					return uintInto(v, &t.PixelHeight)
				case idColourSpace:
					buf, err := rd.payload(v)
					if err != nil {
						return err
					}
					t.ColourSpace = readString(buf)
				}
				return nil
			})
		case idAudio:
			return rd.walk(c, func(a elementHeader) error {
				switch a.id {
				case idChannels:
					return uintInto(a, &t.Channels)
				case idBitDepth:
					return uintInto(a, &t.BitDepth)
				case idSamplingFreq:
					buf, err := rd.payload(a)
					if err != nil {
						return err
					}
					if v, ok := readFloat(buf); ok {
						t.SamplingFrequency = v
					}
				}
				return nil
			})
		}
		return nil
	})
	return t, err
}

// parseCluster indexes the blocks of one cluster and returns where the cluster
// ends. Clusters of unknown size end at the next segment-level element.
func (rd *reader) parseCluster(f *File, cluster elementHeader) (int64, error) {
	var clusterTime uint64

	for pos := cluster.start; pos < cluster.end; {
		c, err := rd.header(pos, cluster.end)
		if err != nil {
			return pos, err
		}

		if cluster.unknown && isSegmentLevel(c.id) {
			return pos, nil
		}

		switch c.id {
		case idClusterTime:
			buf, err := rd.payload(c)
			if err != nil {
				return pos, err
			}
			if v, ok := readUnsigned(buf); ok {
				clusterTime = v
			}
		case idSimpleBlock:
			b, err := rd.parseBlock(c, clusterTime)
			if err != nil {
				return pos, err
			}
			f.Blocks = append(f.Blocks, b)
		case idBlockGroup:
			if err := rd.parseBlockGroup(f, c, clusterTime); err != nil {
				return pos, err
			}
		}
		pos = c.end
	}
	return cluster.end, nil
}

func (rd *reader) parseBlockGroup(f *File, group elementHeader, clusterTime uint64) error {
	var (
		block      Block
		hasBlock   bool
		referenced bool
	)

	err := rd.walk(group, func(c elementHeader) error {
		switch c.id {
		case idBlock:
			b, err := rd.parseBlock(c, clusterTime)
			if err != nil {
				return err
			}
			block, hasBlock = b, true
		case idReferenceBlock:
			referenced = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	if hasBlock {
		block.KeyFrame = !referenced
		f.Blocks = append(f.Blocks, block)
	}
	return nil
}

// parseBlock decodes the block header: track number (vint), signed 16-bit
// relative timecode and flags. Only SimpleBlock carries a keyframe flag.
func (rd *reader) parseBlock(c elementHeader, clusterTime uint64) (Block, error) {
	var hdr [11]byte
	n := min(int64(len(hdr)), c.end-c.start)
	if n < 4 {
		return Block{}, ErrTruncated
	}
	if _, err := rd.r.ReadAt(hdr[:n], c.start); err != nil && err != io.EOF {
		return Block{}, err
	}

	track, trackLen, ok := readVintSize(hdr[:n], 0)
	if !ok || int64(trackLen+3) > n {
		return Block{}, ErrTruncated
	}

	rel := int16(uint16(hdr[trackLen])<<8 | uint16(hdr[trackLen+1]))
	flags := hdr[trackLen+2]

	abs := int64(clusterTime) + int64(rel)
	if abs < 0 {
		abs = 0
	}

	offset := c.start + int64(trackLen+3)
	return Block{
		Track:    track,
		Timecode: uint64(abs),
		Offset:   offset,
		Size:     c.end - offset,
		KeyFrame: c.id == idSimpleBlock && flags&0x80 != 0,
		Laced:    flags&0x06 != 0,
	}, nil
}

func isSegmentLevel(id uint64) bool {
	switch id {
	case idCluster, idCues, idTags, idChapters, idAttachments, idSeekHead, idInfo, idTracks:
		return true
	}
	return false
}
