// Package screen holds the dashboard pages and the manager that switches
// between them.
package screen

import (
	"time"

	"codeberg.org/mutker/cutiepi/internal/gfx"
	"codeberg.org/mutker/cutiepi/internal/input"
)

// Screen is one dashboard page. Update runs every frame for every screen so
// animations and history keep advancing while a page is hidden; Render runs
// only for the active one.
type Screen interface {
	Name() string
	Enter(now time.Time)
	Update(now time.Time)
	HandleInput(ev input.Event) Action
	Render(c *gfx.Canvas)
}

// Feed exposes the latest published snapshot of a poller.
type Feed[T any] interface {
	Latest() *T
}

// ActionKind names a settings change the app must apply.
type ActionKind int

const (
	NoAction ActionKind = iota
	ChangeTheme
	ToggleScanlines
	ToggleFPS
	SetBrightness
	SetAPIInterval
	SetTimeout
	Lock
	Unlock
)

var actionNames = map[ActionKind]string{
	NoAction:        "none",
	ChangeTheme:     "change_theme",
	ToggleScanlines: "toggle_scanlines",
	ToggleFPS:       "toggle_fps",
	SetBrightness:   "set_brightness",
	SetAPIInterval:  "set_api_interval",
	SetTimeout:      "set_timeout",
	Lock:            "lock",
	Unlock:          "unlock",
}

func (k ActionKind) String() string {
	if s, ok := actionNames[k]; ok {
		return s
	}

	return "unknown"
}

// Action is returned by HandleInput. Only the field matching Kind is set.
type Action struct {
	Kind    ActionKind
	Theme   string
	Enabled bool
	Value   int
}

// None is the zero action.
var None = Action{}

// Manager keeps the ordered screens and the active index.
type Manager struct {
	screens []Screen
	active  int
}

func NewManager(screens ...Screen) *Manager {
	return &Manager{screens: screens}
}

// Start activates the first screen.
func (m *Manager) Start(now time.Time) {
	m.active = 0
	if len(m.screens) > 0 {
		m.screens[0].Enter(now)
	}
}

func (m *Manager) Len() int {
	return len(m.screens)
}

func (m *Manager) Index() int {
	return m.active
}

func (m *Manager) Active() Screen {
	if len(m.screens) == 0 {
		return nil
	}

	return m.screens[m.active]
}

func (m *Manager) Screens() []Screen {
	return m.screens
}

// Next activates the following screen, wrapping to the first.
func (m *Manager) Next(now time.Time) {
	m.Show(m.active+1, now)
}

// Prev activates the preceding screen, wrapping to the last.
func (m *Manager) Prev(now time.Time) {
	m.Show(m.active-1, now)
}

// Show activates screen i, wrapping out-of-range indexes.
func (m *Manager) Show(i int, now time.Time) {
	n := len(m.screens)
	if n == 0 {
		return
	}
	i = ((i % n) + n) % n
	if i == m.active {
		return
	}
	m.active = i
	m.screens[i].Enter(now)
}

// Update advances every screen.
func (m *Manager) Update(now time.Time) {
	for _, s := range m.screens {
		s.Update(now)
	}
}

// HandleInput forwards an event to the active screen.
func (m *Manager) HandleInput(ev input.Event) Action {
	if s := m.Active(); s != nil {
		return s.HandleInput(ev)
	}

	return None
}

// Render draws the active screen.
func (m *Manager) Render(c *gfx.Canvas) {
	if s := m.Active(); s != nil {
		s.Render(c)
	}
}
