package screen

import (
	"fmt"
	"math"
	"strings"
	"time"

	"codeberg.org/mutker/cutiepi/internal/gfx"
	"codeberg.org/mutker/cutiepi/internal/layout"
	"codeberg.org/mutker/cutiepi/internal/pihole"
	"codeberg.org/mutker/cutiepi/internal/sysinfo"
	"codeberg.org/mutker/cutiepi/internal/theme"
)

// easing is the fraction of the remaining distance a counter covers per frame.
const easing = 0.1

// Stats geometry, design space.
const (
	statsBoxW   = (layout.DesignWidth - 3*margin) / 2
	statsRightX = 2*margin + statsBoxW
	statsRow1Y  = 40
	statsRow1H  = 64
	statsRow2Y  = 120
	statsBarW   = 369
	statsBarH   = 25
	statsRow3Y  = 175
	statsRow3H  = 55
	statsRow4Y  = 245
	statsRow4H  = 50
)

// Stats shows today's headline counters with eased, counting-up numbers.
type Stats struct {
	passive

	feed Feed[pihole.Snapshot]
	sys  Feed[sysinfo.Snapshot]

	snap    *pihole.Snapshot
	ip      string
	queries float64
	blocked float64
	frame   int
}

// NewStats reads Pi-hole data from feed and the DNS address from sys, which
// may be nil.
func NewStats(feed Feed[pihole.Snapshot], sys Feed[sysinfo.Snapshot]) *Stats {
	return &Stats{feed: feed, sys: sys, ip: "N/A"}
}

func (s *Stats) Name() string { return "stats" }

func (s *Stats) Update(time.Time) {
	s.frame = (s.frame + 1) % 360
	if s.sys != nil {
		if si := s.sys.Latest(); si != nil && si.IP != "" {
			s.ip = si.IP
		}
	}

	s.snap = s.feed.Latest()
	if s.snap == nil {
		return
	}
	s.queries += (float64(s.snap.Summary.Total) - s.queries) * easing
	s.blocked += (float64(s.snap.Summary.Blocked) - s.blocked) * easing
}

// Displayed returns the counter values currently on screen.
func (s *Stats) Displayed() (queries, blocked int) {
	return int(math.Round(s.queries)), int(math.Round(s.blocked))
}

func (s *Stats) Render(c *gfx.Canvas) {
	c.Clear()
	title(c, theme.Primary, "PI-HOLE")
	if s.snap == nil {
		c.Placeholder(loadingText)
		return
	}
	staleMarker(c, s.snap.Stale)
	sum := s.snap.Summary
	q, b := s.Displayed()

	r := layout.Rect(margin, statsRow1Y, statsBoxW, statsRow1H)
	box(c, r, theme.Success, "QUERIES")
	c.Text(r.Min.X+padX, r.Min.Y+28, gfx.Large, theme.Text, count(q))

	r = layout.Rect(statsRightX, statsRow1Y, statsBoxW, statsRow1H)
	box(c, r, theme.Error, "BLOCKED")
	c.Text(r.Min.X+padX, r.Min.Y+28, gfx.Large, theme.Text, count(b))

	c.Text(margin, statsRow2Y, gfx.Small, theme.Secondary, "BLOCK RATE")
	c.Bar(layout.Rect(margin, statsRow2Y+16, statsBarW, statsBarH), sum.PercentBlocked, theme.Secondary)
	c.Text(margin+statsBarW+6, statsRow2Y+21, gfx.Medium, theme.Text, fmt.Sprintf("%.1f%%", sum.PercentBlocked))

	r = layout.Rect(margin, statsRow3Y, statsBoxW, statsRow3H)
	box(c, r, theme.Highlight, "CLIENTS")
	c.Text(r.Min.X+padX, r.Min.Y+24, gfx.Medium, theme.Text, fmt.Sprint(sum.ActiveClients))

	r = layout.Rect(statsRightX, statsRow3Y, statsBoxW, statsRow3H)
	box(c, r, theme.Info, "BLOCKLIST")
	c.Text(r.Min.X+padX, r.Min.Y+24, gfx.Medium, theme.Text, compact(sum.Blocklist))

	status := theme.Success
	if !sum.Enabled() {
		status = theme.Error
	}
	r = layout.Rect(margin, statsRow4Y, statsBoxW, statsRow4H)
	box(c, r, status, "STATUS")
	pulse := int(math.Abs(math.Sin(float64(s.frame)*0.1)) * 3)
	c.Square(r.Min.X+padX, r.Min.Y+30, 8+pulse, status)
	c.Text(r.Min.X+padX+16, r.Min.Y+22, gfx.Medium, theme.Text, strings.ToUpper(sum.Blocking))

	r = layout.Rect(statsRightX, statsRow4Y, statsBoxW, statsRow4H)
	box(c, r, theme.Secondary, "DNS")
	c.Text(r.Min.X+padX, r.Min.Y+22, gfx.Medium, theme.Text, s.ip)
}
