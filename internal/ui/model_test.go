package ui

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given an empty notifier", t, func() {
		m := &Model{}
		So(m.View("content"), ShouldEqual, "content")

		Convey("A notification is shown and schedules its own clear", func() {
			cmd := m.Update(NotificationMsg("paused"))
			So(cmd, ShouldNotBeNil)
			So(m.Current(), ShouldEqual, "paused")
			So(m.View("a\nb"), ShouldStartWith, "a\nb  ")
			So(m.View("a\nb"), ShouldContainSubstring, "paused")

			Convey("Its clear removes it", func() {
				m.Update(ClearNotificationMsg{at: m.notifiedAt})
				So(m.Current(), ShouldBeEmpty)
			})

			Convey("A stale clear keeps it", func() {
				m.Update(ClearNotificationMsg{at: m.notifiedAt.Add(-time.Second)})
				So(m.Current(), ShouldEqual, "paused")
			})
		})

		Convey("Notify wraps the text in a message", func() {
			So(Notify("hello")(), ShouldEqual, NotificationMsg("hello"))
		})

		Convey("Unrelated messages are ignored", func() {
			So(m.Update(42), ShouldBeNil)
			So(m.Current(), ShouldBeEmpty)
		})
	})
}
