package player

import (
	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/media"
)

// Tick advances the movie clock by elapsedMs and decodes whatever became
// due. WallClock (any negative value) derives the elapsed time from the
// player's Clock since the previous tick.
//
// Tick does nothing and returns UpdateNone when no movie is attached, when
// elapsedMs is zero, or when the player is paused or finished.
//
// A decoder failure stops the tick immediately. The clock advance and any
// audio or video produced before the failure are kept.
func (p *Player) Tick(elapsedMs int64) Result {
	if p == nil || p.movie == nil || elapsedMs == 0 || p.paused || p.finished {
		return Result{}
	}

	now := p.clock.Ticks()
	passed := uint64(elapsedMs)
	if elapsedMs < 0 {
		passed = 0
		if now > p.lastTick {
			passed = now - p.lastTick
		}
	}

	p.currentTime += passed
	// sampled before decoding so slow decodes don't inflate the next delta
	p.lastTick = now
	p.warning = nil

	var res Result

	if p.audioEnabled && p.hasAudio && p.currentTime >= p.nextAudio {
		if err := p.updateAudio(); err != nil {
			return Result{Update: UpdateError, Err: err, Warning: p.warning}
		}
		res.Update |= UpdateAudio
	}

	if p.videoEnabled && p.hasVideo && p.currentTime >= p.nextVideo {
		if err := p.updateVideo(); err != nil {
			return Result{Update: UpdateError, Err: err, Warning: p.warning}
		}
		res.Update |= UpdateVideo
	}

	res.Warning = p.warning
	return res
}

// updateAudio decodes every audio frame due before the preload horizon.
func (p *Player) updateAudio() error {
	horizon := p.currentTime + p.preloadMs

	for {
		frame, ok := p.movie.PeekFrame(media.TrackAudio).Get()
		if !ok || p.movie.TimecodeToMilliseconds(frame.Timecode) >= horizon {
			break
		}

		if err := p.movie.DecodeNextFrame(media.TrackAudio); err != nil {
			log.Errorf("audio decode failed at tick %d: %s", frame.Timecode, err)
			return &DecodeError{Track: media.TrackAudio, Frame: frame, Err: err}
		}

		if samples := p.movie.DecodedAudio(); len(samples) > 0 {
			p.stageAudio(samples)
		}

		p.movie.AdvanceCursor(media.TrackAudio)
	}

	if next, ok := p.movie.PeekFrame(media.TrackAudio).Get(); ok {
		p.nextAudio = p.movie.TimecodeToMilliseconds(next.Timecode)
	}
	return nil
}

// stageAudio appends samples to the staging buffer, and hands them to the
// bound stream if there is one.
func (p *Player) stageAudio(samples []float32) {
	if !p.staging.allocated() {
		spec := p.movie.AudioSpec()
		capacity := spec.SampleRate*spec.Channels + p.blockSize
		if err := p.staging.allocate(capacity); err != nil {
			log.Warnf("dropping %d audio samples: %s", len(samples), err)
			p.warning = err
			return
		}
		log.Debugf("allocated audio staging buffer for %d samples", capacity)
	}

	if p.staging.count+len(samples) > p.staging.capacity() {
		log.Debugf("audio staging overflow, discarding %d unread samples", p.staging.count)
	}
	p.staging.append(samples)

	if p.stream != nil {
		p.stream.Put(samples)
		p.staging.drain()
	}
}

// updateVideo decodes every video frame due by now and presents the last one.
func (p *Player) updateVideo() error {
	for {
		frame, ok := p.movie.PeekFrame(media.TrackVideo).Get()
		if !ok || p.movie.TimecodeToMilliseconds(frame.Timecode) > p.currentTime {
			break
		}

		if err := p.movie.DecodeNextFrame(media.TrackVideo); err != nil {
			log.Errorf("video decode failed at tick %d: %s", frame.Timecode, err)
			return &DecodeError{Track: media.TrackVideo, Frame: frame, Err: err}
		}

		p.movie.AdvanceCursor(media.TrackVideo)
	}

	p.present()

	if next, ok := p.movie.PeekFrame(media.TrackVideo).Get(); ok {
		p.nextVideo = p.movie.TimecodeToMilliseconds(next.Timecode)
	}

	if !p.movie.HasNextFrame(media.TrackVideo) {
		p.finished = true
		log.Debugf("video exhausted at %dms", p.currentTime)
	}
	return nil
}

// present copies the decoder's surface into the presentation slot, creating
// the slot on the first frame, and pushes it to the bound target.
func (p *Player) present() {
	decoded := p.movie.DecodedVideo()
	if decoded == nil {
		return
	}

	if p.slot == nil {
		p.slot = decoded.Clone()
	} else if err := p.slot.Blit(decoded); err != nil {
		p.slot = decoded.Clone()
	}

	if p.target != nil {
		if err := p.target.Update(p.slot); err != nil {
			log.Warnf("update video target: %s", err)
		}
	}
}
