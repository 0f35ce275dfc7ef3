package output

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/reel-player/reel/filesystem"
	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/media"
	"github.com/spf13/afero"
)

// FileDevice is the single device a PCMFileHost exposes.
const FileDevice DeviceID = 1

// PCMFileHost is an AudioHost with one device that writes raw interleaved
// samples to a file. The file is created on the first bind and appended to
// on later binds, so pausing and resuming produces one continuous file.
type PCMFileHost struct {
	path      string
	spec      media.AudioSpec
	blockSize int

	file    afero.File
	stream  *Stream
	written int64
}

// NewPCMFileHost creates a host writing spec-formatted samples to path.
func NewPCMFileHost(path string, spec media.AudioSpec, blockSize int) *PCMFileHost {
	return &PCMFileHost{path: path, spec: spec, blockSize: blockSize}
}

// DeviceFormat reports the file format for FileDevice.
func (h *PCMFileHost) DeviceFormat(id DeviceID) (media.AudioSpec, int, error) {
	if id != FileDevice {
		return media.AudioSpec{}, 0, fmt.Errorf("%w: %d", ErrUnknownDevice, id)
	}
	return h.spec, h.blockSize, nil
}

// BindStream opens the output file and routes s into it.
func (h *PCMFileHost) BindStream(id DeviceID, s *Stream) error {
	if id != FileDevice {
		return fmt.Errorf("%w: %d", ErrUnknownDevice, id)
	}
	if h.stream != nil && h.stream != s {
		return ErrDeviceBusy
	}

	if h.file == nil {
		if err := filesystem.API().MkdirAll(filepath.Dir(h.path), os.ModePerm); err != nil {
			return err
		}
		f, err := filesystem.API().OpenFile(h.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open pcm output: %w", err)
		}
		h.file = f
	}

	h.stream = s
	log.Debugf("bound %s stream to %s", s.Destination(), h.path)
	return nil
}

// UnbindStream flushes what s holds and stops routing it into the file.
func (h *PCMFileHost) UnbindStream(s *Stream) {
	if h.stream == nil || h.stream != s {
		return
	}
	if _, err := h.Pump(); err != nil {
		log.Warnf("flush pcm output: %s", err)
	}
	h.stream = nil
}

// Pump moves everything queued on the bound stream into the file. It plays
// the role of the device's pull callback.
func (h *PCMFileHost) Pump() (int64, error) {
	if h.stream == nil || h.file == nil {
		return 0, nil
	}
	n, err := io.Copy(h.file, h.stream)
	h.written += n
	return n, err
}

// Written returns the number of bytes written so far.
func (h *PCMFileHost) Written() int64 { return h.written }

// Close flushes any bound stream and closes the file.
func (h *PCMFileHost) Close() error {
	if h.stream != nil {
		h.UnbindStream(h.stream)
	}
	if h.file == nil {
		return nil
	}
	err := h.file.Close()
	h.file = nil
	return err
}

// FrameDumper is a VideoTarget writing every n-th presented frame to a
// numbered PNG file.
type FrameDumper struct {
	dir   string
	every int

	seen    int
	written int
}

// NewFrameDumper creates dir and returns a dumper keeping one frame in every.
func NewFrameDumper(dir string, every int) (*FrameDumper, error) {
	if err := filesystem.API().MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	return &FrameDumper{dir: dir, every: max(every, 1)}, nil
}

// PixelFormat reports that frames are taken as RGBA.
func (d *FrameDumper) PixelFormat() media.PixelFormat { return media.PixelRGBA32 }

// Update writes every Nth frame as a numbered PNG.
func (d *FrameDumper) Update(frame *media.Surface) error {
	d.seen++
	if (d.seen-1)%d.every != 0 {
		return nil
	}
	if frame.Format != media.PixelRGBA32 {
		return fmt.Errorf("%w: got %s", media.ErrSurfaceFormat, frame.Format)
	}

	img := &image.NRGBA{
		Pix:    frame.Pixels,
		Stride: frame.Pitch,
		Rect:   image.Rect(0, 0, frame.Width, frame.Height),
	}

	path := filepath.Join(d.dir, fmt.Sprintf("frame-%06d.png", d.seen))
	f, err := filesystem.API().Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	d.written++
	return nil
}

// Written returns the number of frames written.
func (d *FrameDumper) Written() int { return d.written }
