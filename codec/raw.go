package codec

import (
	"fmt"

	"github.com/reel-player/reel/media"
)

// rawVideoDecoder copies tightly packed uncompressed frames into its surface.
type rawVideoDecoder struct {
	surface *media.Surface
}

func (d *rawVideoDecoder) Surface() *media.Surface { return d.surface }

func (d *rawVideoDecoder) Decode(frame []byte) error {
	if want := len(d.surface.Pixels); len(frame) < want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrShortFrame, len(frame), want)
	}

	copy(d.surface.Pixels, frame)
	return nil
}
