package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Should replace invalid chars", func() {
			So(SanitizeFilename("movie:cut?.webm"), ShouldEqual, "movie_cut_.webm")
		})
		Convey("Should collapse underscores", func() {
			So(SanitizeFilename("movie__cut.webm"), ShouldEqual, "movie_cut.webm")
		})
		Convey("Should trim separators", func() {
			So(SanitizeFilename("-movie-cut-"), ShouldEqual, "movie-cut")
		})
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "frame", "frames"), ShouldEqual, "1 frame")
		So(Quantify(0, "frame", "frames"), ShouldEqual, "0 frames")
	})
}

func TestFormatMillis(t *testing.T) {
	Convey("FormatMillis", t, func() {
		So(FormatMillis(0), ShouldEqual, "0:00.000")
		So(FormatMillis(20), ShouldEqual, "0:00.020")
		So(FormatMillis(61_250), ShouldEqual, "1:01.250")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("path/to/movie.webm"), ShouldEqual, "movie")
		So(FileStem("movie"), ShouldEqual, "movie")
	})
}

func TestMax(t *testing.T) {
	Convey("Max", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Max[int](), ShouldEqual, 0)
	})
}
