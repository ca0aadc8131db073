package view_test

import (
	"errors"
	"testing"

	"github.com/arenalab/skillboard/internal/domain/model"
	"github.com/arenalab/skillboard/internal/domain/view"
	. "github.com/smartystreets/goconvey/convey"
)

// memPrefs is an in-memory PrefsStore for tests.
type memPrefs struct {
	prefs Preferences
	ok    bool
	saves int
}

type Preferences = view.Preferences

func (m *memPrefs) Load() (Preferences, bool) { return m.prefs, m.ok }
func (m *memPrefs) Save(p Preferences)        { m.prefs = p; m.ok = true; m.saves++ }

func TestDetailPanel(t *testing.T) {
	Convey("Given a pointer-device controller", t, func() {
		c := view.NewController()

		Convey("Then the panel starts collapsed", func() {
			So(c.Panel(), ShouldEqual, view.PanelCollapsed)
		})

		Convey("When a skill point is selected", func() {
			c.SelectSkill("Bluffing")

			Convey("Then the panel expands on that skill", func() {
				So(c.Panel(), ShouldEqual, view.PanelExpanded)
				So(c.LastSkill(), ShouldEqual, "Bluffing")
			})

			Convey("And dismissing collapses it but keeps the selection", func() {
				c.DismissDetail()
				So(c.Panel(), ShouldEqual, view.PanelCollapsed)
				So(c.LastSkill(), ShouldEqual, "Bluffing")
			})
		})

		Convey("When a series is hovered", func() {
			id := model.EntityID{ModelID: "m", HumanID: "h"}
			c.HoverSeries(id)

			Convey("Then the panel expands and the series highlights", func() {
				So(c.Panel(), ShouldEqual, view.PanelExpanded)
				got, ok := c.Highlight()
				So(ok, ShouldBeTrue)
				So(got, ShouldResemble, id)
			})
		})
	})

	Convey("Given a touch-device controller", t, func() {
		c := view.NewController(view.WithDevice(view.DeviceTouch))
		id := model.EntityID{ModelID: "m", HumanID: "h"}

		Convey("When a series is hovered", func() {
			c.HoverSeries(id)

			Convey("Then nothing happens", func() {
				So(c.Panel(), ShouldEqual, view.PanelCollapsed)
				_, ok := c.Highlight()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a series is tapped", func() {
			c.TapSeries(id)

			Convey("Then the panel expands", func() {
				So(c.Panel(), ShouldEqual, view.PanelExpanded)
			})
		})
	})
}

func TestPagination(t *testing.T) {
	Convey("Given a controller over 25 entities with page size 10", t, func() {
		c := view.NewController(view.WithPageSize(10))
		c.SetEntityCount(25)

		Convey("Then there are three pages", func() {
			So(c.PageCount(), ShouldEqual, 3)
			So(c.Page(), ShouldEqual, 1)
		})

		Convey("When setting a page past the end", func() {
			c.SetPage(9)

			Convey("Then the cursor clamps to the last page", func() {
				So(c.Page(), ShouldEqual, 3)
			})
		})

		Convey("When setting a page below one", func() {
			c.SetPage(0)

			Convey("Then the cursor clamps to the first page", func() {
				So(c.Page(), ShouldEqual, 1)
			})
		})

		Convey("When the filter changes on a later page", func() {
			c.SetPage(3)
			c.SetFilter(view.Filter{StandardOnly: true})

			Convey("Then the cursor resets to the first page", func() {
				So(c.Page(), ShouldEqual, 1)
				So(c.Filter().StandardOnly, ShouldBeTrue)
			})
		})

		Convey("When the filtered set shrinks under the cursor", func() {
			c.SetPage(3)
			c.SetEntityCount(5)

			Convey("Then the cursor clamps back", func() {
				So(c.Page(), ShouldEqual, 1)
				So(c.PageCount(), ShouldEqual, 1)
			})
		})

		Convey("When there are no entities", func() {
			c.SetEntityCount(0)

			Convey("Then there is still one page", func() {
				So(c.PageCount(), ShouldEqual, 1)
				So(c.Page(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a preference store with saved state", t, func() {
		prefs := &memPrefs{
			prefs: Preferences{Filter: view.Filter{IncludeSmall: true}, Page: 2},
			ok:    true,
		}
		c := view.NewController(view.WithPrefsStore(prefs), view.WithPageSize(10))

		Convey("Then the controller restores filter and page", func() {
			So(c.Filter().IncludeSmall, ShouldBeTrue)
			So(c.Page(), ShouldEqual, 2)
		})

		Convey("When the filter changes", func() {
			c.SetFilter(view.Filter{})

			Convey("Then the new preferences are persisted", func() {
				So(prefs.saves, ShouldEqual, 1)
				So(prefs.prefs.Page, ShouldEqual, 1)
				So(prefs.prefs.Filter.IncludeSmall, ShouldBeFalse)
			})
		})
	})
}

func TestHighlight(t *testing.T) {
	Convey("Given a controller", t, func() {
		c := view.NewController()
		a := model.EntityID{ModelID: "a"}
		b := model.EntityID{ModelID: "b"}

		Convey("When highlighting two entities in turn", func() {
			c.SetHighlight(a)
			c.SetHighlight(b)

			Convey("Then only the latest is highlighted", func() {
				got, ok := c.Highlight()
				So(ok, ShouldBeTrue)
				So(got, ShouldResemble, b)
			})
		})

		Convey("When clearing", func() {
			c.SetHighlight(a)
			c.ClearHighlight()

			Convey("Then nothing is highlighted", func() {
				_, ok := c.Highlight()
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestFetchLifecycle(t *testing.T) {
	Convey("Given a controller", t, func() {
		c := view.NewController()

		Convey("Then it starts in the loading phase", func() {
			So(c.Phase(), ShouldEqual, view.PhaseLoading)
		})

		Convey("When a fetch completes with the current key", func() {
			key := c.BeginFetch()
			applied := c.CompleteFetch(key)

			Convey("Then the response is applied and the phase is ready", func() {
				So(applied, ShouldBeTrue)
				So(c.Phase(), ShouldEqual, view.PhaseReady)
			})
		})

		Convey("When a newer fetch supersedes an older one", func() {
			stale := c.BeginFetch()
			fresh := c.BeginFetch()

			Convey("Then the stale response is discarded", func() {
				So(c.CompleteFetch(stale), ShouldBeFalse)
				So(c.Phase(), ShouldEqual, view.PhaseLoading)
				So(c.CompleteFetch(fresh), ShouldBeTrue)
			})
		})

		Convey("When a fetch fails", func() {
			key := c.BeginFetch()
			boom := errors.New("query timeout")
			So(c.FailFetch(key, boom), ShouldBeTrue)

			Convey("Then the error phase carries the cause", func() {
				So(c.Phase(), ShouldEqual, view.PhaseError)
				So(c.Err(), ShouldEqual, boom)
			})

			Convey("And retrying re-enters loading with a fresh key", func() {
				key2 := c.Retry()
				So(c.Phase(), ShouldEqual, view.PhaseLoading)
				So(c.Err(), ShouldBeNil)
				So(key2, ShouldNotEqual, key)
			})

			Convey("And a stale failure cannot overwrite a newer fetch", func() {
				key3 := c.Retry()
				So(c.FailFetch(key, boom), ShouldBeFalse)
				So(c.CompleteFetch(key3), ShouldBeTrue)
			})
		})
	})
}
