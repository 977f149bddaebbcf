package screen

import (
	"time"

	"codeberg.org/mutker/cutiepi/internal/gfx"
	"codeberg.org/mutker/cutiepi/internal/history"
	"codeberg.org/mutker/cutiepi/internal/layout"
	"codeberg.org/mutker/cutiepi/internal/pihole"
	"codeberg.org/mutker/cutiepi/internal/theme"
)

const (
	graphX      = 44
	graphY      = 40
	graphW      = layout.DesignWidth - graphX - margin
	graphH      = 220
	legendY     = 272
	legendBox   = 8
	legendLabel = "LAST 4 HOURS"
)

// Graph plots total and blocked queries per history bucket. The buffer lives
// as long as the screen, so switching pages does not lose samples.
type Graph struct {
	passive

	feed Feed[pihole.Snapshot]
	buf  *history.Buffer
	seen *pihole.Snapshot
}

func NewGraph(feed Feed[pihole.Snapshot], size int) *Graph {
	return &Graph{feed: feed, buf: history.New(size)}
}

func (g *Graph) Name() string { return "graph" }

// History exposes the retained samples.
func (g *Graph) History() *history.Buffer {
	return g.buf
}

// Update merges the buckets of each new snapshot once.
func (g *Graph) Update(time.Time) {
	snap := g.feed.Latest()
	if snap == nil || snap == g.seen {
		return
	}
	g.seen = snap
	g.buf.Merge(snap.History)
}

func (g *Graph) Render(c *gfx.Canvas) {
	c.Clear()
	title(c, theme.Primary, "QUERY HISTORY")
	if g.seen == nil {
		c.Placeholder(loadingText)
		return
	}
	staleMarker(c, g.seen.Stale)

	samples := g.buf.Samples()
	if len(samples) == 0 {
		c.Placeholder(noDataText)
		return
	}

	c.Fill(layout.Rect(graphX, graphY, graphW, graphH), theme.SurfaceDim)
	peak := g.buf.Max()
	barW := max(1, graphW/len(samples))
	for i, s := range samples {
		x := graphX + i*barW
		bar := func(v int, role theme.Role) {
			h := v * graphH / peak
			if h <= 0 {
				return
			}
			c.Fill(layout.Rect(x, graphY+graphH-h, max(1, barW-1), h), role)
		}
		bar(s.Total, theme.Success)
		bar(s.Blocked, theme.Error)
	}

	c.TextRight(graphX-4, graphY, gfx.Tiny, theme.Text, compact(peak))
	c.TextRight(graphX-4, graphY+graphH-10, gfx.Tiny, theme.Text, "0")

	x := margin
	c.Fill(layout.Rect(x, legendY, legendBox, legendBox), theme.Success)
	x += legendBox + 4
	c.Text(x, legendY, gfx.Tiny, theme.Text, "TOTAL")
	x += c.TextWidth(gfx.Tiny, "TOTAL") + 16
	c.Fill(layout.Rect(x, legendY, legendBox, legendBox), theme.Error)
	c.Text(x+legendBox+4, legendY, gfx.Tiny, theme.Text, "BLOCKED")
	c.TextRight(graphX+graphW, legendY, gfx.Tiny, theme.Text, legendLabel)
}
