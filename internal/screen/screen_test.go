package screen_test

import (
	"image"
	"testing"
	"time"

	"codeberg.org/mutker/cutiepi/internal/gfx"
	"codeberg.org/mutker/cutiepi/internal/history"
	"codeberg.org/mutker/cutiepi/internal/input"
	"codeberg.org/mutker/cutiepi/internal/layout"
	"codeberg.org/mutker/cutiepi/internal/pihole"
	"codeberg.org/mutker/cutiepi/internal/screen"
	"codeberg.org/mutker/cutiepi/internal/sysinfo"
	"codeberg.org/mutker/cutiepi/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feed[T any] struct{ v *T }

func (f *feed[T]) Latest() *T { return f.v }

type probe struct {
	name    string
	entered int
	updated int
}

func (p *probe) Name() string                          { return p.name }
func (p *probe) Enter(time.Time)                       { p.entered++ }
func (p *probe) Update(time.Time)                      { p.updated++ }
func (p *probe) HandleInput(input.Event) screen.Action { return screen.None }
func (p *probe) Render(*gfx.Canvas)                    {}

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func snapshot() *pihole.Snapshot {
	return &pihole.Snapshot{
		Summary: pihole.Summary{
			Total:          12345,
			Blocked:        2345,
			PercentBlocked: 19.0,
			ActiveClients:  7,
			Blocklist:      125000,
			Blocking:       pihole.BlockingEnabled,
		},
		History: []history.Sample{
			{Time: t0, Total: 100, Blocked: 10},
			{Time: t0.Add(10 * time.Minute), Total: 150, Blocked: 30},
			{Time: t0.Add(20 * time.Minute), Total: 90, Blocked: 5},
		},
		TopBlocked: []pihole.Entry{{Name: "ads.example.com", Count: 500}, {Name: "tracker.example.net", Count: 20}},
		TopClients: []pihole.Entry{{Name: "laptop", Count: 900}, {Name: "192.168.1.20", Count: 300}},
		FetchedAt:  t0,
	}
}

func TestManagerWraps(t *testing.T) {
	a, b, c := &probe{name: "a"}, &probe{name: "b"}, &probe{name: "c"}
	m := screen.NewManager(a, b, c)
	m.Start(t0)
	assert.Equal(t, 1, a.entered)

	m.Prev(t0)
	assert.Equal(t, 2, m.Index())
	assert.Equal(t, 1, c.entered)

	m.Next(t0)
	m.Next(t0)
	assert.Equal(t, 1, m.Index())
	assert.Equal(t, "b", m.Active().Name())

	m.Show(1, t0)
	assert.Equal(t, 1, b.entered, "re-showing the active screen does not re-enter it")

	m.Update(t0)
	for _, p := range []*probe{a, b, c} {
		assert.Equal(t, 1, p.updated)
	}
}

func TestEmptyManager(t *testing.T) {
	m := screen.NewManager()
	m.Start(t0)
	m.Next(t0)
	assert.Nil(t, m.Active())
	assert.Equal(t, screen.None, m.HandleInput(input.Event{Kind: input.Tap}))
}

func TestStatsEasesTowardTarget(t *testing.T) {
	f := &feed[pihole.Snapshot]{}
	s := screen.NewStats(f, nil)

	s.Update(t0)
	q, b := s.Displayed()
	assert.Zero(t, q)
	assert.Zero(t, b)

	f.v = &pihole.Snapshot{Summary: pihole.Summary{Total: 1000, Blocked: 200}}
	s.Update(t0)
	q, b = s.Displayed()
	assert.Equal(t, 100, q)
	assert.Equal(t, 20, b)

	for range 200 {
		s.Update(t0)
	}
	q, b = s.Displayed()
	assert.Equal(t, 1000, q)
	assert.Equal(t, 200, b)
}

func TestGraphKeepsHistoryAcrossScreens(t *testing.T) {
	f := &feed[pihole.Snapshot]{v: snapshot()}
	g := screen.NewGraph(f, 4)
	other := &probe{name: "other"}
	m := screen.NewManager(other, g)
	m.Start(t0)

	m.Update(t0)
	assert.Equal(t, 3, g.History().Len())

	m.Update(t0)
	assert.Equal(t, 3, g.History().Len(), "same snapshot merges once")

	next := snapshot()
	next.History = append(next.History,
		history.Sample{Time: t0.Add(30 * time.Minute), Total: 80},
		history.Sample{Time: t0.Add(40 * time.Minute), Total: 70},
	)
	f.v = next
	m.Next(t0)
	m.Prev(t0)
	m.Update(t0)

	samples := g.History().Samples()
	require.Len(t, samples, 4)
	assert.Equal(t, t0.Add(10*time.Minute), samples[0].Time)
	assert.Equal(t, 150, g.History().Max())
}

func TestTopListCapsRows(t *testing.T) {
	snap := snapshot()
	snap.TopBlocked = nil
	for i := range 12 {
		snap.TopBlocked = append(snap.TopBlocked, pihole.Entry{Name: "d", Count: 100 - i})
	}
	f := &feed[pihole.Snapshot]{}
	top := screen.NewTopBlocked(f)

	top.Update(t0)
	assert.Empty(t, top.Rows())

	f.v = snap
	top.Update(t0)
	rows := top.Rows()
	require.Len(t, rows, screen.MaxRows)
	assert.Equal(t, 100, rows[0].Count)
	assert.Equal(t, "blocked", top.Name())
	assert.Equal(t, "clients", screen.NewTopClients(f).Name())
}

func newCanvas(t *testing.T, w, h int) *gfx.Canvas {
	t.Helper()
	l := layout.New(image.Pt(layout.DesignWidth, layout.DesignHeight), image.Pt(w, h))
	fonts, err := gfx.LoadFonts(l, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = fonts.Close() })

	return gfx.NewCanvas(l, theme.Get("default"), fonts)
}

func painted(c *gfx.Canvas) int {
	img := c.Image()
	bg := c.Color(theme.Background)
	n := 0
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			if img.RGBAAt(x, y) != bg {
				n++
			}
		}
	}

	return n
}

func TestScreensRender(t *testing.T) {
	ph := &feed[pihole.Snapshot]{}
	sys := &feed[sysinfo.Snapshot]{}
	settings := defaultSettings()
	screens := []screen.Screen{
		screen.NewStats(ph, sys),
		screen.NewGraph(ph, history.DefaultSize),
		screen.NewTopBlocked(ph),
		screen.NewTopClients(ph),
		screen.NewSystem(sys),
		screen.NewSettings(layout.Default(), &settings, "1.0.0"),
	}
	c := newCanvas(t, 480, 320)

	for _, s := range screens {
		s.Update(t0)
		s.Render(c)
		assert.Positive(t, painted(c), "%s without data", s.Name())
	}

	ph.v = snapshot()
	ph.v.Stale = true
	sys.v = &sysinfo.Snapshot{
		CPUPercent: 42, MemUsed: 512 << 20, MemTotal: 1024 << 20, MemPercent: 50,
		DiskUsed: 8 << 30, DiskTotal: 32 << 30, DiskPercent: 25, TempC: 55,
		Uptime: 26 * time.Hour, Hostname: "pihole", IP: "192.168.1.2",
	}
	for _, s := range screens {
		s.Update(t0)
		s.Render(c)
		assert.Positive(t, painted(c), "%s with data", s.Name())
	}
}
