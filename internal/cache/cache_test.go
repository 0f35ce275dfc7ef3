package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/reel-player/reel/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

type entry struct {
	Frames int `json:"frames"`
}

func TestCache(t *testing.T) {
	Convey("Given a movie file", t, func() {
		So(filesystem.API().WriteFile("/movies/a.webm", []byte("abc"), 0644), ShouldBeNil)

		key, err := Key("/movies/a.webm")
		So(err, ShouldBeNil)
		So(key, ShouldHaveLength, 64)

		Convey("A written entry reads back", func() {
			So(Write(key, entry{Frames: 12}), ShouldBeNil)

			var got entry
			So(Read(key, &got), ShouldBeTrue)
			So(got.Frames, ShouldEqual, 12)
		})

		Convey("Changing the file changes the key", func() {
			So(filesystem.API().WriteFile("/movies/a.webm", []byte("abcdef"), 0644), ShouldBeNil)
			changed, err := Key("/movies/a.webm")
			So(err, ShouldBeNil)
			So(changed, ShouldNotEqual, key)
		})

		Convey("Expired entries are misses and get collected", func() {
			So(Write(key, entry{Frames: 1}), ShouldBeNil)
			old := time.Now().Add(-2 * TTL)
			So(filesystem.API().Chtimes(filepath.Join(dir(), key), old, old), ShouldBeNil)

			var got entry
			So(Read(key, &got), ShouldBeFalse)

			removed, err := CollectGarbage()
			So(err, ShouldBeNil)
			So(removed, ShouldEqual, 1)
		})

		Convey("Clear drops everything", func() {
			So(Write(key, entry{Frames: 3}), ShouldBeNil)
			So(Clear(), ShouldBeNil)

			var got entry
			So(Read(key, &got), ShouldBeFalse)
		})
	})

	Convey("A missing file has no key", t, func() {
		_, err := Key("/movies/missing.webm")
		So(err, ShouldNotBeNil)
	})
}
