package player

import (
	"fmt"

	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/media"
	"github.com/reel-player/reel/output"
	"github.com/samber/mo"
)

// SetAudioOutput binds the audio track to a device of the player's
// AudioHost through a converting stream. Any previously bound stream is
// dropped first, so output.NoDevice just unbinds. On failure nothing is
// left bound.
func (p *Player) SetAudioOutput(dev output.DeviceID) error {
	if p == nil || p.movie == nil {
		return ErrNoMovie
	}
	if dev == output.DefaultPlayback {
		return ErrDefaultDevice
	}
	if !p.hasAudio {
		return ErrNoAudioTrack
	}

	p.unbindAudio()
	if dev == output.NoDevice {
		return nil
	}
	if p.host == nil {
		return ErrNoAudioHost
	}

	spec, block, err := p.host.DeviceFormat(dev)
	if err != nil {
		return fmt.Errorf("query audio device %d: %w", dev, err)
	}
	if block == 0 {
		block = p.defaultBlockSize
	}

	stream, err := output.NewStream(p.movie.AudioSpec(), spec)
	if err != nil {
		return fmt.Errorf("create audio stream: %w", err)
	}
	if err := p.host.BindStream(dev, stream); err != nil {
		return fmt.Errorf("bind audio stream: %w", err)
	}

	p.stream = stream
	p.device = dev
	p.blockSize = block
	p.blockMs = uint64(block) * 1000 / uint64(spec.SampleRate)

	log.Debugf("audio output bound to device %d: %s -> %s, %d frames (%dms) per block",
		dev, p.movie.AudioSpec(), spec, block, p.blockMs)
	return nil
}

func (p *Player) unbindAudio() {
	if p.stream == nil {
		return
	}
	p.host.UnbindStream(p.stream)
	p.stream = nil
	p.device = output.NoDevice
	log.Debug("audio output unbound")
}

// AudioOutputBlockMs returns the duration of one device block, or 0 when no
// device is bound.
func (p *Player) AudioOutputBlockMs() uint64 {
	if p == nil || p.stream == nil {
		return 0
	}
	return p.blockMs
}

// AvailableAudio returns the staged samples without consuming them. The
// slice is only valid until the next Tick.
func (p *Player) AvailableAudio() []float32 {
	if p == nil {
		return nil
	}
	return p.staging.peek()
}

// DrainAudio marks every staged sample as consumed.
func (p *Player) DrainAudio() {
	if p != nil {
		p.staging.drain()
	}
}

// SetVideoOutput binds a target that receives every presented frame. A nil
// target unbinds. Binding needs a decoded frame whose pixel format matches
// the target.
func (p *Player) SetVideoOutput(target output.VideoTarget) error {
	if p == nil || p.movie == nil {
		return ErrNoMovie
	}
	if target == nil {
		p.target = nil
		return nil
	}

	frame := p.movie.DecodedVideo()
	if frame == nil {
		return ErrNoVideoFrame
	}
	if frame.Format != target.PixelFormat() {
		return fmt.Errorf("%w: frame %s, target %s", ErrFormatMismatch, frame.Format, target.PixelFormat())
	}

	p.target = target
	return nil
}

// CurrentVideoFrame returns the presentation surface once a frame has been
// presented.
func (p *Player) CurrentVideoFrame() mo.Option[*media.Surface] {
	if p == nil || p.slot == nil {
		return mo.None[*media.Surface]()
	}
	return mo.Some(p.slot)
}
