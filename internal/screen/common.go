package screen

import (
	"fmt"
	"image"
	"time"

	"codeberg.org/mutker/cutiepi/internal/gfx"
	"codeberg.org/mutker/cutiepi/internal/input"
	"codeberg.org/mutker/cutiepi/internal/layout"
	"codeberg.org/mutker/cutiepi/internal/theme"
	"github.com/dustin/go-humanize"
)

// Shared design-space geometry.
const (
	margin  = 10
	titleY  = 8
	padX    = 10
	labelDY = 4
)

const (
	loadingText = "LOADING"
	staleText   = "STALE"
	noDataText  = "NO DATA"
)

// passive is embedded by screens that ignore input and need no Enter hook.
type passive struct{}

func (passive) Enter(time.Time) {}

func (passive) HandleInput(input.Event) Action { return None }

// title draws a page heading.
func title(c *gfx.Canvas, role theme.Role, s string) {
	c.Text(margin, titleY, gfx.Medium, role, s)
}

// staleMarker flags data that could not be refreshed.
func staleMarker(c *gfx.Canvas, stale bool) {
	if !stale {
		return
	}
	w := c.TextWidth(gfx.Tiny, staleText) + 8
	r := layout.Rect(layout.DesignWidth-margin-w-60, titleY, w, 12)
	c.Fill(r, theme.Warning)
	c.TextCenter(r.Min.X, r.Max.X, r.Min.Y+2, gfx.Tiny, theme.Background, staleText)
}

// box draws a bordered panel with a label in the top-left corner.
func box(c *gfx.Canvas, r image.Rectangle, role theme.Role, label string) {
	c.Border(r, role)
	c.Text(r.Min.X+padX, r.Min.Y+labelDY, gfx.Small, role, label)
}

// compact formats large counts with K/M suffixes.
func compact(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.0fK", float64(n)/1_000)
	}

	return fmt.Sprint(n)
}

// count formats a counter with thousands separators.
func count(n int) string {
	return humanize.Comma(int64(n))
}

// threshold picks a role by how far v has climbed.
func threshold(v, warn, crit float64) theme.Role {
	switch {
	case v >= crit:
		return theme.Error
	case v >= warn:
		return theme.Accent
	}

	return theme.Success
}
