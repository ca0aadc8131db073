// Package view holds the interaction state machine coordinating the
// comparative charts: detail panel, pagination, filters, highlighting and
// in-flight fetch tracking.
package view

import (
	"sync"

	"github.com/google/uuid"

	"github.com/arenalab/skillboard/internal/domain/model"
)

// Device distinguishes pointer and touch interaction. Hover has no
// persistent state on touch devices, so expanding on hover is pointer-only.
type Device int

const (
	DevicePointer Device = iota
	DeviceTouch
)

// Panel is the detail panel visibility state.
type Panel int

const (
	PanelCollapsed Panel = iota
	PanelExpanded
)

// Phase tracks the data lifecycle. The three phases are mutually
// exclusive: an error never shows alongside stale or partial data.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseError
)

// Filter selects which entities appear in the ranked list.
type Filter struct {
	StandardOnly    bool `json:"standard_only"`
	IncludeInactive bool `json:"include_inactive"`
	IncludeSmall    bool `json:"include_small"`
}

// Preferences are the session-scoped settings worth keeping across
// navigations.
type Preferences struct {
	Filter Filter `json:"filter"`
	Page   int    `json:"page"`
}

// PrefsStore persists preferences between navigations. Persistence is an
// injected side effect so the state machine stays pure of storage concerns.
type PrefsStore interface {
	Load() (Preferences, bool)
	Save(Preferences)
}

// noopPrefs discards preferences.
type noopPrefs struct{}

func (noopPrefs) Load() (Preferences, bool) { return Preferences{}, false }
func (noopPrefs) Save(Preferences)          {}

// Controller is the interaction state machine. All transitions are safe for
// concurrent use.
type Controller struct {
	mu sync.Mutex

	device   Device
	pageSize int
	prefs    PrefsStore

	filter      Filter
	page        int
	entityCount int

	panel     Panel
	lastSkill string

	highlight    model.EntityID
	hasHighlight bool

	phase    Phase
	fetchKey string
	lastErr  error
}

// NewController creates a Controller with configuration options. Persisted
// preferences, when available, seed the filter and page cursor.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		device:   DevicePointer,
		pageSize: 10,
		prefs:    noopPrefs{},
		page:     1,
		phase:    PhaseLoading,
	}
	for _, opt := range opts {
		opt(c)
	}
	if p, ok := c.prefs.Load(); ok {
		c.filter = p.Filter
		if p.Page >= 1 {
			c.page = p.Page
		}
	}
	return c
}

// SelectSkill expands the detail panel on the given skill. Explicit
// selection works on every device.
func (c *Controller) SelectSkill(skill string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSkill = skill
	c.panel = PanelExpanded
}

// HoverSeries expands the detail panel when a chart series is hovered.
// Touch devices ignore hover; they require an explicit tap.
func (c *Controller) HoverSeries(id model.EntityID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == DeviceTouch {
		return
	}
	c.setHighlightLocked(id)
	c.panel = PanelExpanded
}

// TapSeries expands the detail panel from an explicit tap.
func (c *Controller) TapSeries(id model.EntityID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setHighlightLocked(id)
	c.panel = PanelExpanded
}

// DismissDetail collapses the detail panel.
func (c *Controller) DismissDetail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panel = PanelCollapsed
}

// Panel returns the current detail panel state.
func (c *Controller) Panel() Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panel
}

// LastSkill returns the most recently selected skill, if any.
func (c *Controller) LastSkill() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSkill
}

// SetEntityCount records the size of the filtered entity list and clamps
// the page cursor into the valid range.
func (c *Controller) SetEntityCount(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 0 {
		n = 0
	}
	c.entityCount = n
	c.clampPageLocked()
}

// SetPage moves the page cursor, clamped to [1, PageCount].
func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = page
	c.clampPageLocked()
	c.prefs.Save(Preferences{Filter: c.filter, Page: c.page})
}

// SetFilter replaces the filter and resets the cursor to the first page:
// the filtered set size changes and a stale cursor could point past the end.
func (c *Controller) SetFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
	c.page = 1
	c.prefs.Save(Preferences{Filter: c.filter, Page: c.page})
}

// Filter returns the active filter.
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Page returns the one-based page cursor.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// PageCount returns the number of pages for the current entity count.
// An empty list still has one page.
func (c *Controller) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageCountLocked()
}

func (c *Controller) pageCountLocked() int {
	if c.entityCount <= 0 {
		return 1
	}
	return (c.entityCount + c.pageSize - 1) / c.pageSize
}

func (c *Controller) clampPageLocked() {
	if c.page < 1 {
		c.page = 1
	}
	if max := c.pageCountLocked(); c.page > max {
		c.page = max
	}
}

// SetHighlight marks a single entity as highlighted. Highlighting affects
// rendering only, never data fetching.
func (c *Controller) SetHighlight(id model.EntityID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setHighlightLocked(id)
}

func (c *Controller) setHighlightLocked(id model.EntityID) {
	c.highlight = id
	c.hasHighlight = true
}

// ClearHighlight removes the highlight.
func (c *Controller) ClearHighlight() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.highlight = model.EntityID{}
	c.hasHighlight = false
}

// Highlight returns the highlighted entity, if any.
func (c *Controller) Highlight() (model.EntityID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.highlight, c.hasHighlight
}

// BeginFetch enters the loading phase and issues a request key. A response
// is only applied if its key is still current, so answers to superseded
// requests are dropped instead of clobbering newer data.
func (c *Controller) BeginFetch() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchKey = uuid.New().String()
	c.phase = PhaseLoading
	c.lastErr = nil
	return c.fetchKey
}

// CompleteFetch moves to the ready phase if key is still the current
// request. It reports whether the response should be applied.
func (c *Controller) CompleteFetch(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key != c.fetchKey || c.phase != PhaseLoading {
		return false
	}
	c.phase = PhaseReady
	return true
}

// FailFetch moves to the error phase if key is still the current request.
func (c *Controller) FailFetch(key string, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key != c.fetchKey || c.phase != PhaseLoading {
		return false
	}
	c.phase = PhaseError
	c.lastErr = err
	return true
}

// Retry leaves the error phase by starting a fresh fetch.
func (c *Controller) Retry() string {
	return c.BeginFetch()
}

// Phase returns the current data lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Err returns the error behind the error phase, or nil.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
