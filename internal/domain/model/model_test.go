package model_test

import (
	"testing"

	"github.com/arenalab/skillboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntityID(t *testing.T) {
	Convey("Given composite entity identifiers", t, func() {
		Convey("When building the wire form", func() {
			id := model.EntityID{ModelID: "gpt-healer", HumanID: "alice"}
			So(id.Key(), ShouldEqual, "gpt-healer#alice")
		})

		Convey("When one half is empty", func() {
			id := model.EntityID{ModelID: "solo-model"}
			So(id.Key(), ShouldEqual, "solo-model#")
			So(id.IsZero(), ShouldBeFalse)
		})

		Convey("When parsing round-trips", func() {
			id := model.EntityID{ModelID: "m1", HumanID: "h1"}
			So(model.ParseEntityID(id.Key()), ShouldResemble, id)
		})

		Convey("When parsing a bare model id", func() {
			So(model.ParseEntityID("plain"), ShouldResemble, model.EntityID{ModelID: "plain"})
		})

		Convey("When the id is empty", func() {
			So(model.EntityID{}.IsZero(), ShouldBeTrue)
		})
	})
}

func TestTimeRange(t *testing.T) {
	Convey("Given the supported time ranges", t, func() {
		Convey("When parsing wire forms", func() {
			r, ok := model.ParseTimeRange("7d")
			So(ok, ShouldBeTrue)
			So(r, ShouldEqual, model.Last7D)

			r, ok = model.ParseTimeRange(" 30D ")
			So(ok, ShouldBeTrue)
			So(r, ShouldEqual, model.Last30D)

			r, ok = model.ParseTimeRange("48h")
			So(ok, ShouldBeTrue)
			So(r, ShouldEqual, model.Last48H)
		})

		Convey("When parsing an unknown form", func() {
			r, ok := model.ParseTimeRange("1y")
			So(ok, ShouldBeFalse)
			So(r, ShouldEqual, model.Last48H)
		})

		Convey("When asking for durations", func() {
			So(model.Last48H.Duration().Hours(), ShouldEqual, 48)
			So(model.Last7D.Duration().Hours(), ShouldEqual, 7*24)
			So(model.Last30D.Duration().Hours(), ShouldEqual, 30*24)
		})

		Convey("When printing", func() {
			So(model.Last7D.String(), ShouldEqual, "7d")
		})
	})
}
