package screen

import (
	"fmt"
	"strings"
	"time"

	"codeberg.org/mutker/cutiepi/internal/gfx"
	"codeberg.org/mutker/cutiepi/internal/layout"
	"codeberg.org/mutker/cutiepi/internal/sysinfo"
	"codeberg.org/mutker/cutiepi/internal/theme"
	"github.com/dustin/go-humanize"
)

const (
	sysMargin = 14
	sysBoxW   = (layout.DesignWidth - 3*sysMargin) / 2
	sysRightX = 2*sysMargin + sysBoxW
	sysDiskY  = 55
	sysRow1Y  = 95
	sysRow2Y  = 160
	sysBoxH   = 50
	sysBarsY  = 225
	sysBarsH  = 60
	sysClockX = layout.DesignWidth - 100
)

// System shows host health read from the system poller.
type System struct {
	passive

	feed Feed[sysinfo.Snapshot]
	snap *sysinfo.Snapshot
	now  time.Time
}

func NewSystem(feed Feed[sysinfo.Snapshot]) *System {
	return &System{feed: feed}
}

func (s *System) Name() string { return "system" }

func (s *System) Update(now time.Time) {
	s.now = now
	s.snap = s.feed.Latest()
}

func (s *System) Render(c *gfx.Canvas) {
	c.Clear()
	if s.snap == nil {
		title(c, theme.Secondary, "SYSTEM")
		c.Placeholder(loadingText)
		return
	}
	si := s.snap

	c.Text(sysMargin, 10, gfx.Medium, theme.Secondary, c.Truncate(gfx.Medium, strings.ToUpper(si.Hostname), sysClockX-sysMargin-8))
	c.Text(sysMargin, 30, gfx.Tiny, theme.TextDim, si.IP)
	c.Text(sysClockX, 10, gfx.Large, theme.Text, s.now.Format("15:04"))
	c.Text(sysClockX, 32, gfx.Tiny, theme.TextDim, s.now.Format("Mon 02 Jan"))

	const labelW, barW = 44, 300
	c.Text(sysMargin, sysDiskY+5, gfx.Small, theme.TextDim, "DISK")
	c.Bar(layout.Rect(sysMargin+labelW, sysDiskY, barW, 22), si.DiskPercent, theme.TextDim)
	c.Text(sysMargin+labelW+barW+10, sysDiskY+5, gfx.Small, theme.Text,
		humanize.IBytes(si.DiskUsed)+"/"+humanize.IBytes(si.DiskTotal))

	r := layout.Rect(sysMargin, sysRow1Y, sysBoxW, sysBoxH)
	box(c, r, theme.Accent, "TEMP")
	c.TextRight(r.Max.X-padX, r.Min.Y+18, gfx.Large, threshold(si.TempC, 60, 75),
		fmt.Sprintf("%.0fC/%.0fF", si.TempC, si.TempC*9/5+32))

	r = layout.Rect(sysRightX, sysRow1Y, sysBoxW, sysBoxH)
	box(c, r, theme.Secondary, "MEM")
	c.TextRight(r.Max.X-padX, r.Min.Y+18, gfx.Large, theme.Text,
		fmt.Sprintf("%d/%dM", si.MemUsed>>20, si.MemTotal>>20))

	r = layout.Rect(sysMargin, sysRow2Y, sysBoxW, sysBoxH)
	box(c, r, theme.Success, "UP")
	c.TextRight(r.Max.X-padX, r.Min.Y+18, gfx.Large, theme.Text, si.UptimeString())

	r = layout.Rect(sysRightX, sysRow2Y, sysBoxW, sysBoxH)
	box(c, r, theme.Highlight, "FAN")
	fan := theme.TextDim
	if si.HasFan() {
		fan = theme.Text
	}
	c.TextRight(r.Max.X-padX, r.Min.Y+18, gfx.Large, fan, fmt.Sprintf("%.0f%%", si.FanPercent))

	s.resource(c, sysMargin, "CPU", si.CPUPercent, threshold(si.CPUPercent, 70, 90), theme.Success)
	mem := theme.Secondary
	if si.MemPercent >= 70 {
		mem = threshold(si.MemPercent, 70, 90)
	}
	s.resource(c, sysRightX, "RAM", si.MemPercent, mem, theme.Secondary)
}

// resource draws a vertical label beside a tall percentage bar.
func (s *System) resource(c *gfx.Canvas, x int, label string, pct float64, bar, fg theme.Role) {
	for i, ch := range label {
		c.Text(x, sysBarsY+8+i*15, gfx.Small, fg, string(ch))
	}
	const labelW = 16
	w := sysBoxW - labelW
	c.Bar(layout.Rect(x+labelW, sysBarsY, w, sysBarsH), pct, bar)
	c.TextCenter(x+labelW, x+labelW+w, sysBarsY+22, gfx.Medium, theme.Text, fmt.Sprintf("%.0f%%", pct))
}
