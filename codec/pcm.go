package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/reel-player/reel/media"
)

type pcmFloatDecoder struct {
	spec    media.AudioSpec
	samples []float32
}

func (d *pcmFloatDecoder) Spec() media.AudioSpec { return d.spec }

func (d *pcmFloatDecoder) Decode(frame []byte) ([]float32, error) {
	if len(frame)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of f32 samples", ErrShortFrame, len(frame))
	}

	d.samples = grow(d.samples, len(frame)/4)
	for i := range d.samples {
		d.samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(frame[i*4:]))
	}
	return d.samples, nil
}

type pcmIntDecoder struct {
	spec    media.AudioSpec
	width   int
	samples []float32
}

func (d *pcmIntDecoder) Spec() media.AudioSpec { return d.spec }

func (d *pcmIntDecoder) Decode(frame []byte) ([]float32, error) {
	if len(frame)%d.width != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of %d-bit samples", ErrShortFrame, len(frame), d.width*8)
	}

	d.samples = grow(d.samples, len(frame)/d.width)
	for i := range d.samples {
		b := frame[i*d.width:]
		switch d.width {
		case 2:
			d.samples[i] = float32(int16(binary.LittleEndian.Uint16(b))) / 32768
		case 3:
			v := int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 8
			d.samples[i] = float32(v) / 8388608
		case 4:
			d.samples[i] = float32(float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648)
		}
	}
	return d.samples, nil
}

func grow(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}
