package matroska

import (
	"encoding/binary"
	"io"
	"math"
	"strings"
)

const unknownVintSize = ^uint64(0)

// maxHeaderLen is the longest element header: a 4-byte ID plus an 8-byte size.
const maxHeaderLen = 12

// maxLeafSize bounds leaf payloads that are read into memory (CodecPrivate is the largest).
const maxLeafSize = 16 << 20

type elementHeader struct {
	id      uint64
	size    uint64
	start   int64
	end     int64
	unknown bool
}

// reader walks EBML elements of a random-access source without reading payloads
// it does not need.
type reader struct {
	r    io.ReaderAt
	size int64
	buf  [maxHeaderLen]byte
}

func (rd *reader) header(pos, limit int64) (elementHeader, error) {
	n := min(int64(maxHeaderLen), limit-pos)
	if n < 2 {
		return elementHeader{}, ErrTruncated
	}

	buf := rd.buf[:n]
	read, err := rd.r.ReadAt(buf, pos)
	if read < len(buf) {
		if err != nil && err != io.EOF {
			return elementHeader{}, err
		}
		buf = buf[:read]
	}

	id, idLen, ok := readVintID(buf, 0)
	if !ok {
		return elementHeader{}, ErrTruncated
	}
	size, sizeLen, ok := readVintSize(buf, idLen)
	if !ok {
		return elementHeader{}, ErrTruncated
	}

	h := elementHeader{
		id:    id,
		size:  size,
		start: pos + int64(idLen+sizeLen),
	}
	h.end = h.start + int64(size)
	if size == unknownVintSize || size > uint64(limit) || h.end > limit {
		h.unknown = size == unknownVintSize
		h.end = limit
	}
	return h, nil
}

func (rd *reader) payload(h elementHeader) ([]byte, error) {
	n := h.end - h.start
	if n < 0 || n > maxLeafSize {
		return nil, ErrTruncated
	}

	buf := make([]byte, n)
	if _, err := rd.r.ReadAt(buf, h.start); err != nil && err != io.EOF {
		return nil, err
	}
	return buf, nil
}

func readVintID(buf []byte, pos int) (uint64, int, bool) {
	if pos >= len(buf) {
		return 0, 0, false
	}
	length := vintLength(buf[pos])
	if length == 0 || length > 4 || pos+length > len(buf) {
		return 0, 0, false
	}
	var value uint64
	for i := 0; i < length; i++ {
		value = (value << 8) | uint64(buf[pos+i])
	}
	return value, length, true
}

func readVintSize(buf []byte, pos int) (uint64, int, bool) {
	if pos >= len(buf) {
		return 0, 0, false
	}
	first := buf[pos]
	length := vintLength(first)
	if length == 0 || pos+length > len(buf) {
		return 0, 0, false
	}
	value := uint64(first & byte(0xFF>>length))
	for i := 1; i < length; i++ {
		value = (value << 8) | uint64(buf[pos+i])
	}
	if value == (uint64(1)<<(uint(length*7)))-1 {
		return unknownVintSize, length, true
	}
	return value, length, true
}

func vintLength(first byte) int {
	for i := 0; i < 8; i++ {
		if first&(1<<(7-uint(i))) != 0 {
			return i + 1
		}
	}
	return 0
}

func readUnsigned(buf []byte) (uint64, bool) {
	if len(buf) == 0 || len(buf) > 8 {
		return 0, false
	}
	var value uint64
	for _, b := range buf {
		value = (value << 8) | uint64(b)
	}
	return value, true
}

func readFloat(buf []byte) (float64, bool) {
	switch len(buf) {
	case 4:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(buf))), true
	case 8:
		return math.Float64frombits(binary.BigEndian.Uint64(buf)), true
	default:
		return 0, false
	}
}

func readString(buf []byte) string {
	return strings.TrimRight(string(buf), "\x00")
}
