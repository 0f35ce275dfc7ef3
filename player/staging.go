package player

import "fmt"

// stagingBuffer holds decoded audio until it is read or pushed to a device.
// It is sized once and never wraps: a write that does not fit restarts at
// the beginning and discards what was staged.
type stagingBuffer struct {
	samples []float32
	count   int
}

// allocated reports whether the backing storage exists.
func (b *stagingBuffer) allocated() bool {
	return b.samples != nil
}

// maxStagingSamples bounds the buffer at 256 MiB of samples.
const maxStagingSamples = 1 << 26

// allocate sizes the buffer. It is a no-op once allocated.
func (b *stagingBuffer) allocate(capacity int) error {
	if b.allocated() {
		return nil
	}
	if capacity <= 0 || capacity > maxStagingSamples {
		return fmt.Errorf("%w: %d samples", ErrStagingAlloc, capacity)
	}
	b.samples = make([]float32, capacity)
	return nil
}

// append stages samples. A batch larger than the whole buffer keeps only its
// most recent part.
func (b *stagingBuffer) append(in []float32) {
	if n := len(b.samples); len(in) > n {
		in = in[len(in)-n:]
	}
	if b.count+len(in) > len(b.samples) {
		b.count = 0
	}

	copy(b.samples[b.count:], in)
	b.count += len(in)
}

func (b *stagingBuffer) peek() []float32 {
	return b.samples[:b.count]
}

func (b *stagingBuffer) drain() {
	b.count = 0
}

func (b *stagingBuffer) capacity() int {
	return len(b.samples)
}

func (b *stagingBuffer) release() {
	b.samples = nil
	b.count = 0
}
