package player

import (
	"errors"
	"testing"

	"github.com/reel-player/reel/media"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStagingBuffer(t *testing.T) {
	Convey("Given a staging buffer of 6 samples", t, func() {
		var b stagingBuffer
		So(b.peek(), ShouldBeEmpty)
		So(b.allocate(6), ShouldBeNil)
		So(b.capacity(), ShouldEqual, 6)

		b.append([]float32{1, 2})

		Convey("appends that fit grow the fill by their count and keep earlier samples", func() {
			b.append([]float32{3, 4, 5})
			So(b.count, ShouldEqual, 5)
			So(b.peek(), ShouldResemble, []float32{1, 2, 3, 4, 5})

			b.append([]float32{6})
			So(b.peek(), ShouldResemble, []float32{1, 2, 3, 4, 5, 6})
		})

		Convey("an append that does not fit restarts at the beginning", func() {
			b.append([]float32{3, 4, 5, 6, 7})
			So(b.count, ShouldEqual, 5)
			So(b.peek(), ShouldResemble, []float32{3, 4, 5, 6, 7})
		})

		Convey("a batch larger than the buffer keeps its tail", func() {
			b.append([]float32{1, 2, 3, 4, 5, 6, 7, 8})
			So(b.peek(), ShouldResemble, []float32{3, 4, 5, 6, 7, 8})
		})

		Convey("it is sized only once", func() {
			So(b.allocate(100), ShouldBeNil)
			So(b.capacity(), ShouldEqual, 6)
		})

		Convey("drain empties without freeing", func() {
			b.drain()
			So(b.peek(), ShouldBeEmpty)
			So(b.allocated(), ShouldBeTrue)
		})
	})

	Convey("A zero capacity cannot be allocated", t, func() {
		var b stagingBuffer
		So(errors.Is(b.allocate(0), ErrStagingAlloc), ShouldBeTrue)
		So(b.allocated(), ShouldBeFalse)
	})

	Convey("A capacity past the limit cannot be allocated", t, func() {
		var b stagingBuffer
		So(errors.Is(b.allocate(maxStagingSamples+1), ErrStagingAlloc), ShouldBeTrue)
		So(b.allocated(), ShouldBeFalse)
	})

	Convey("Audio with no sample rate is dropped, not staged", t, func() {
		m := newFakeMovie().withAudio(0, 10)
		m.spec.SampleRate = 0
		p, err := New(m)
		So(err, ShouldBeNil)

		res := p.Tick(5)
		So(res.Err, ShouldBeNil)
		So(res.Failed(), ShouldBeFalse)
		So(res.Update, ShouldEqual, UpdateAudio)
		So(errors.Is(res.Warning, ErrStagingAlloc), ShouldBeTrue)
		So(p.AvailableAudio(), ShouldBeEmpty)
		So(m.cursor(media.TrackAudio), ShouldEqual, 2)

		Convey("the warning belongs to that tick only", func() {
			So(p.Tick(100).Warning, ShouldBeNil)
		})
	})
}
