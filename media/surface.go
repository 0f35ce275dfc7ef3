package media

import (
	"errors"
	"fmt"
)

// PixelFormat is the memory layout of one pixel in a Surface.
type PixelFormat int

const (
	PixelUnknown PixelFormat = iota
	PixelRGBA32
	PixelRGB24
)

// BytesPerPixel returns the pixel width, or 0 for PixelUnknown.
func (p PixelFormat) BytesPerPixel() int {
	switch p {
	case PixelRGBA32:
		return 4
	case PixelRGB24:
		return 3
	default:
		return 0
	}
}

// String returns the conventional short name of the format.
func (p PixelFormat) String() string {
	switch p {
	case PixelRGBA32:
		return "rgba32"
	case PixelRGB24:
		return "rgb24"
	default:
		return "unknown"
	}
}

var (
	// ErrSurfaceFormat is returned when two surfaces with different pixel formats meet.
	ErrSurfaceFormat = errors.New("surface pixel formats differ")
	// ErrSurfaceSize is returned for dimensions outside 1..MaxSurfaceDimension.
	ErrSurfaceSize = errors.New("invalid surface dimensions")
)

// MaxSurfaceDimension bounds the width and height of a surface, which keeps
// the largest RGBA surface at 1 GiB.
const MaxSurfaceDimension = 16384

// Surface is a CPU-side image with a fixed pixel format and row pitch.
type Surface struct {
	Width  int
	Height int
	Pitch  int
	Format PixelFormat
	Pixels []byte
}

// NewSurface allocates a zeroed surface with a tightly packed pitch.
func NewSurface(width, height int, format PixelFormat) (*Surface, error) {
	bpp := format.BytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("%w: %dx%d %s", ErrSurfaceSize, width, height, format)
	}
	if err := CheckDimensions(width, height); err != nil {
		return nil, err
	}

	return &Surface{
		Width:  width,
		Height: height,
		Pitch:  width * bpp,
		Format: format,
		Pixels: make([]byte, width*height*bpp),
	}, nil
}

// CheckDimensions rejects a width or height outside 1..MaxSurfaceDimension.
func CheckDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxSurfaceDimension || height > MaxSurfaceDimension {
		return fmt.Errorf("%w: %dx%d", ErrSurfaceSize, width, height)
	}
	return nil
}

// Clone returns a deep copy of the surface.
func (s *Surface) Clone() *Surface {
	if s == nil {
		return nil
	}

	c := *s
	c.Pixels = make([]byte, len(s.Pixels))
	copy(c.Pixels, s.Pixels)
	return &c
}

// Blit copies src into s in place, clipped to the overlapping rectangle
// anchored at the top-left corner. Both surfaces must share a pixel format.
func (s *Surface) Blit(src *Surface) error {
	if s == nil || src == nil {
		return errors.New("blit with nil surface")
	}

	if s.Format != src.Format {
		return fmt.Errorf("%w: %s into %s", ErrSurfaceFormat, src.Format, s.Format)
	}

	rowBytes := min(s.Width, src.Width) * s.Format.BytesPerPixel()
	rows := min(s.Height, src.Height)
	if rows > 0 && (len(s.Pixels) < (rows-1)*s.Pitch+rowBytes || len(src.Pixels) < (rows-1)*src.Pitch+rowBytes) {
		return fmt.Errorf("%w: pixel storage shorter than %dx%d", ErrSurfaceSize, min(s.Width, src.Width), rows)
	}

	for y := 0; y < rows; y++ {
		copy(s.Pixels[y*s.Pitch:y*s.Pitch+rowBytes], src.Pixels[y*src.Pitch:y*src.Pitch+rowBytes])
	}

	return nil
}
