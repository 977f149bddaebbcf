// Package sysinfo samples host metrics for the system screen.
package sysinfo

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"codeberg.org/mutker/cutiepi/internal/logger"
	"codeberg.org/mutker/cutiepi/internal/poll"
	"github.com/prometheus/procfs"
	"github.com/prometheus/procfs/sysfs"
	"golang.org/x/sys/unix"
)

const (
	DefaultProcRoot = procfs.DefaultMountPoint
	DefaultSysRoot  = sysfs.DefaultMountPoint
	DefaultDiskPath = "/"

	// MaxFanRPM is the top speed of the Pi 5 active cooler.
	MaxFanRPM = 10000

	fanGlob = "devices/platform/cooling_fan/hwmon/hwmon*/fan1_input"
)

// Snapshot is one sample of host metrics. Sizes are in bytes.
type Snapshot struct {
	CPUPercent  float64
	MemUsed     uint64
	MemTotal    uint64
	MemPercent  float64
	DiskUsed    uint64
	DiskTotal   uint64
	DiskPercent float64
	TempC       float64
	Uptime      time.Duration
	FanRPM      int
	FanPercent  float64
	Hostname    string
	IP          string
	GatheredAt  time.Time
}

// UptimeString formats the uptime as "2d 3h 4m", or "3h 4m" under a day.
func (s Snapshot) UptimeString() string {
	d := int(s.Uptime / (24 * time.Hour))
	h := int(s.Uptime%(24*time.Hour)) / int(time.Hour)
	m := int(s.Uptime%time.Hour) / int(time.Minute)
	if d > 0 {
		return fmt.Sprintf("%dd %dh %dm", d, h, m)
	}

	return fmt.Sprintf("%dh %dm", h, m)
}

// HasFan reports whether a fan speed was read.
func (s Snapshot) HasFan() bool {
	return s.FanRPM > 0
}

type Collector struct {
	procRoot string
	sysRoot  string
	diskPath string

	mu      sync.Mutex
	lastCPU *cpuTimes
}

type cpuTimes struct {
	idle, total float64
}

type Option func(*Collector)

func WithProcRoot(path string) Option {
	return func(c *Collector) {
		c.procRoot = path
	}
}

func WithSysRoot(path string) Option {
	return func(c *Collector) {
		c.sysRoot = path
	}
}

// WithDiskPath sets the mount point whose usage is reported.
func WithDiskPath(path string) Option {
	return func(c *Collector) {
		c.diskPath = path
	}
}

func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		procRoot: DefaultProcRoot,
		sysRoot:  DefaultSysRoot,
		diskPath: DefaultDiskPath,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewSource wraps the collector in a poller.
func NewSource(c *Collector) *poll.Source[Snapshot] {
	return poll.New("system", func(ctx context.Context, _ *Snapshot) (*Snapshot, error) {
		return c.Collect(ctx)
	})
}

// Collect takes a sample. Probes that fail are logged and leave zero values;
// only a cancelled context is an error.
func (c *Collector) Collect(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := &Snapshot{GatheredAt: time.Now()}
	probes := []struct {
		name string
		fn   func(*Snapshot) error
	}{
		{"cpu", c.cpu},
		{"memory", c.memory},
		{"disk", c.disk},
		{"temperature", c.temperature},
		{"uptime", uptime},
		{"fan", c.fan},
		{"network", network},
	}
	for _, p := range probes {
		if err := p.fn(s); err != nil {
			logger.Debug().Err(errFactory.Wrap(ErrProbe, err).WithData(p.name)).Msg("system probe failed")
		}
	}

	return s, nil
}

func (c *Collector) cpu(s *Snapshot) error {
	fs, err := procfs.NewFS(c.procRoot)
	if err != nil {
		return err
	}
	st, err := fs.Stat()
	if err != nil {
		return err
	}

	t := st.CPUTotal
	cur := &cpuTimes{
		idle:  t.Idle,
		total: t.User + t.Nice + t.System + t.Idle + t.Iowait + t.IRQ + t.SoftIRQ + t.Steal,
	}

	c.mu.Lock()
	prev := c.lastCPU
	c.lastCPU = cur
	c.mu.Unlock()

	if prev != nil {
		if dt := cur.total - prev.total; dt > 0 {
			s.CPUPercent = clamp(100*(1-(cur.idle-prev.idle)/dt), 0, 100)
		}
	}

	return nil
}

func (c *Collector) memory(s *Snapshot) error {
	fs, err := procfs.NewFS(c.procRoot)
	if err != nil {
		return err
	}
	mi, err := fs.Meminfo()
	if err != nil {
		return err
	}
	if mi.MemTotal == nil || mi.MemAvailable == nil {
		return errFactory.WithData(ErrProbe, "meminfo lacks MemTotal or MemAvailable")
	}

	total := *mi.MemTotal * 1024
	avail := *mi.MemAvailable * 1024
	s.MemTotal = total
	if avail < total {
		s.MemUsed = total - avail
	}
	s.MemPercent = percent(s.MemUsed, s.MemTotal)

	return nil
}

func (c *Collector) disk(s *Snapshot) error {
	var st unix.Statfs_t
	if err := unix.Statfs(c.diskPath, &st); err != nil {
		return err
	}

	bsize := uint64(st.Bsize)
	s.DiskTotal = uint64(st.Blocks) * bsize
	s.DiskUsed = (uint64(st.Blocks) - uint64(st.Bfree)) * bsize
	s.DiskPercent = percent(s.DiskUsed, s.DiskTotal)

	return nil
}

// temperature reads the first thermal zone, which is the SoC on a Pi.
func (c *Collector) temperature(s *Snapshot) error {
	fs, err := sysfs.NewFS(c.sysRoot)
	if err != nil {
		return err
	}
	zones, err := fs.ClassThermalZoneStats()
	if err != nil {
		return err
	}
	if len(zones) == 0 {
		return errFactory.WithData(ErrProbe, "no thermal zones")
	}
	sort.Slice(zones, func(i, j int) bool {
		a, _ := strconv.Atoi(zones[i].Name)
		b, _ := strconv.Atoi(zones[j].Name)
		return a < b
	})
	s.TempC = float64(zones[0].Temp) / 1000

	return nil
}

func (c *Collector) fan(s *Snapshot) error {
	paths, err := filepath.Glob(filepath.Join(c.sysRoot, fanGlob))
	if err != nil {
		return err
	}
	sort.Strings(paths)
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		rpm, err := strconv.Atoi(strings.TrimSpace(string(b)))
		if err != nil || rpm < 0 {
			continue
		}
		s.FanRPM = rpm
		s.FanPercent = clamp(float64(rpm)/MaxFanRPM*100, 0, 100)
		return nil
	}

	return nil
}

func uptime(s *Snapshot) error {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return err
	}
	s.Uptime = time.Duration(info.Uptime) * time.Second

	return nil
}

func network(s *Snapshot) error {
	s.Hostname = "unknown"
	if host, err := os.Hostname(); err == nil {
		s.Hostname = host
	}

	s.IP = "N/A"
	ifaces, err := net.Interfaces()
	if err != nil {
		return err
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			n, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := n.IP.To4(); ip4 != nil && !ip4.IsLoopback() {
				s.IP = ip4.String()
				return nil
			}
		}
	}

	return nil
}

func percent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}

	return float64(used) / float64(total) * 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
