// Package matroskatest builds small in-memory Matroska files for tests.
package matroskatest

import (
	"encoding/binary"
	"math"
)

// Element encodes an EBML element with an 8-byte size field.
func Element(id uint64, children ...[]byte) []byte {
	var payload []byte
	for _, c := range children {
		payload = append(payload, c...)
	}

	out := idBytes(id)
	size := make([]byte, 8)
	binary.BigEndian.PutUint64(size, uint64(len(payload)))
	size[0] = 0x01
	out = append(out, size...)
	return append(out, payload...)
}

// Uint encodes an unsigned integer element.
func Uint(id, v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return Element(id, buf)
}

// Float encodes an 8-byte float element.
func Float(id uint64, v float64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, math.Float64bits(v))
	return Element(id, buf)
}

// String encodes a string element.
func String(id uint64, v string) []byte {
	return Element(id, []byte(v))
}

// Track describes one TrackEntry.
type Track struct {
	Number     uint64
	Type       uint64
	CodecID    string
	CodecDelay uint64
	Width      uint64
	Height     uint64
	Rate       float64
	Channels   uint64
	BitDepth   uint64
}

// Frame is one block of a cluster.
type Frame struct {
	Track    uint64
	Rel      int16
	KeyFrame bool
	// Grouped encodes the frame as a BlockGroup instead of a SimpleBlock.
	Grouped bool
	Payload []byte
}

// Cluster groups frames under one cluster timecode.
type Cluster struct {
	Timecode uint64
	Frames   []Frame
}

// File encodes an EBML header and one segment holding info, tracks and clusters.
func File(docType string, timecodeScale uint64, tracks []Track, clusters []Cluster) []byte {
	header := Element(0x1A45DFA3, String(0x4282, docType))

	var trackEntries [][]byte
	for _, t := range tracks {
		fields := [][]byte{
			Uint(0xD7, t.Number),
			Uint(0x83, t.Type),
			String(0x86, t.CodecID),
		}
		if t.CodecDelay > 0 {
			fields = append(fields, Uint(0x56AA, t.CodecDelay))
		}
		if t.Width > 0 {
			fields = append(fields, Element(0xE0, Uint(0xB0, t.Width), Uint(0xBA, t.Height)))
		}
		if t.Rate > 0 {
			audio := [][]byte{Float(0xB5, t.Rate), Uint(0x9F, t.Channels)}
			if t.BitDepth > 0 {
				audio = append(audio, Uint(0x6264, t.BitDepth))
			}
			fields = append(fields, Element(0xE1, audio...))
		}
		trackEntries = append(trackEntries, Element(0xAE, fields...))
	}

	body := [][]byte{
		Element(0x1549A966, Uint(0x2AD7B1, timecodeScale)),
		Element(0x1654AE6B, trackEntries...),
	}
	for _, c := range clusters {
		children := [][]byte{Uint(0xE7, c.Timecode)}
		for _, f := range c.Frames {
			children = append(children, block(f))
		}
		body = append(body, Element(0x1F43B675, children...))
	}

	return append(header, Element(0x18538067, body...)...)
}

func block(f Frame) []byte {
	hdr := []byte{0x80 | byte(f.Track), byte(uint16(f.Rel) >> 8), byte(uint16(f.Rel))}
	var flags byte
	if f.KeyFrame && !f.Grouped {
		flags |= 0x80
	}
	payload := append(append(hdr, flags), f.Payload...)

	if !f.Grouped {
		return Element(0xA3, payload)
	}
	children := [][]byte{Element(0xA1, payload)}
	if !f.KeyFrame {
		children = append(children, Uint(0xFB, 1))
	}
	return Element(0xA0, children...)
}

func idBytes(id uint64) []byte {
	switch {
	case id > 0xFFFFFF:
		return []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
	case id > 0xFFFF:
		return []byte{byte(id >> 16), byte(id >> 8), byte(id)}
	case id > 0xFF:
		return []byte{byte(id >> 8), byte(id)}
	default:
		return []byte{byte(id)}
	}
}
