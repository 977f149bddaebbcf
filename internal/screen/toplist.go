package screen

import (
	"fmt"
	"time"

	"codeberg.org/mutker/cutiepi/internal/gfx"
	"codeberg.org/mutker/cutiepi/internal/layout"
	"codeberg.org/mutker/cutiepi/internal/pihole"
	"codeberg.org/mutker/cutiepi/internal/theme"
)

const (
	// MaxRows is the number of entries a top list shows.
	MaxRows = 9

	rowsY     = 40
	rowH      = 28
	rankX     = 15
	nameX     = 50
	countX    = layout.DesignWidth - 120
	listBarX  = layout.DesignWidth - 72
	listBarW  = 60
	rowTextDY = 8
)

// TopList renders one of the ranked lists of a snapshot.
type TopList struct {
	passive

	name    string
	heading string
	role    theme.Role
	nameFg  theme.Role
	pick    func(*pihole.Snapshot) []pihole.Entry
	feed    Feed[pihole.Snapshot]
	snap    *pihole.Snapshot
}

// NewTopBlocked lists the most blocked domains.
func NewTopBlocked(feed Feed[pihole.Snapshot]) *TopList {
	return &TopList{
		name:    "blocked",
		heading: "TOP BLOCKED",
		role:    theme.Error,
		nameFg:  theme.Text,
		pick:    func(s *pihole.Snapshot) []pihole.Entry { return s.TopBlocked },
		feed:    feed,
	}
}

// NewTopClients lists the busiest clients.
func NewTopClients(feed Feed[pihole.Snapshot]) *TopList {
	return &TopList{
		name:    "clients",
		heading: "TOP CLIENTS",
		role:    theme.Highlight,
		nameFg:  theme.Secondary,
		pick:    func(s *pihole.Snapshot) []pihole.Entry { return s.TopClients },
		feed:    feed,
	}
}

func (t *TopList) Name() string { return t.name }

func (t *TopList) Update(time.Time) {
	t.snap = t.feed.Latest()
}

// Rows returns the entries that fit on screen, in server order.
func (t *TopList) Rows() []pihole.Entry {
	if t.snap == nil {
		return nil
	}
	rows := t.pick(t.snap)
	if len(rows) > MaxRows {
		rows = rows[:MaxRows]
	}

	return rows
}

func (t *TopList) Render(c *gfx.Canvas) {
	c.Clear()
	title(c, t.role, t.heading)
	if t.snap == nil {
		c.Placeholder(loadingText)
		return
	}
	staleMarker(c, t.snap.Stale)

	rows := t.Rows()
	if len(rows) == 0 {
		c.Placeholder(noDataText)
		return
	}

	peak := 1
	for _, e := range rows {
		peak = max(peak, e.Count)
	}

	for i, e := range rows {
		y := rowsY + i*rowH
		if i%2 == 0 {
			c.Fill(layout.Rect(margin, y, layout.DesignWidth-2*margin, rowH), theme.SurfaceDim)
		}
		rank := theme.TextDim
		if i == 0 {
			rank = theme.Warning
		} else if i < 3 {
			rank = theme.Text
		}
		ty := y + rowTextDY
		c.Text(rankX, ty, gfx.Small, rank, fmt.Sprintf("%d.", i+1))
		c.Text(nameX, ty, gfx.Small, t.nameFg, c.Truncate(gfx.Small, e.Name, countX-nameX-8))
		c.Text(countX, ty, gfx.Small, theme.Text, compact(e.Count))
		if w := e.Count * listBarW / peak; w > 0 {
			c.Fill(layout.Rect(listBarX, ty, w, rowH/2-2), t.role)
		}
	}
}
