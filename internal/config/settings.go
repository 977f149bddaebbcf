package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"codeberg.org/mutker/cutiepi/internal/errors"
)

var (
	// APIIntervals are the selectable API refresh intervals in seconds.
	APIIntervals = []int{5, 10, 30, 60}
	// ScreenTimeouts are the selectable screen timeouts in minutes, 0 is never.
	ScreenTimeouts = []int{0, 1, 5, 10, 30}
)

const (
	MinBrightness  = 10
	MaxBrightness  = 100
	BrightnessStep = 10
)

// Settings are the values a user can change on the device.
type Settings struct {
	Theme         string
	Scanlines     bool
	ShowFPS       bool
	Brightness    int
	APIInterval   int
	ScreenTimeout int
	// Locked is runtime state and never persisted.
	Locked bool
}

// Normalize snaps every value onto its selectable range.
func (s Settings) Normalize() Settings {
	if s.Theme == "" {
		s.Theme = "default"
	}
	s.Brightness = max(MinBrightness, min(MaxBrightness, s.Brightness))
	s.Brightness = (s.Brightness + BrightnessStep/2) / BrightnessStep * BrightnessStep
	s.APIInterval = APIIntervals[NearestIndex(APIIntervals, s.APIInterval)]
	s.ScreenTimeout = ScreenTimeouts[NearestIndex(ScreenTimeouts, s.ScreenTimeout)]

	return s
}

// NearestIndex returns the index of the option closest to v, preferring the lower one on ties.
func NearestIndex(options []int, v int) int {
	best := 0
	for i, o := range options {
		if abs(o-v) < abs(options[best]-v) {
			best = i
		}
	}

	return best
}

func (s Settings) values(prefix string) map[string]string {
	return map[string]string{
		prefix + "_THEME":          s.Theme,
		prefix + "_SCANLINES":      strconv.FormatBool(s.Scanlines),
		prefix + "_SHOW_FPS":       strconv.FormatBool(s.ShowFPS),
		prefix + "_BRIGHTNESS":     strconv.Itoa(s.Brightness),
		prefix + "_API_INTERVAL":   strconv.Itoa(s.APIInterval),
		prefix + "_SCREEN_TIMEOUT": strconv.Itoa(s.ScreenTimeout),
	}
}

var settingsOrder = []string{"_THEME", "_SCANLINES", "_SHOW_FPS", "_BRIGHTNESS", "_API_INTERVAL", "_SCREEN_TIMEOUT"}

// Store writes settings back into the config file.
type Store struct {
	mu     sync.Mutex
	path   string
	prefix string
}

func NewStore(path string) *Store {
	return &Store{path: path, prefix: DefaultEnvPrefix}
}

func (s *Store) Path() string {
	return s.path
}

// Save rewrites the settings keys in place and keeps every other line.
// Keys missing from the file are appended. The file is replaced atomically.
func (s *Store) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mode := os.FileMode(0o644)
	existing, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if fi, statErr := os.Stat(s.path); statErr == nil {
			mode = fi.Mode().Perm()
		}
	case os.IsNotExist(err):
		existing = nil
	default:
		return errFactory.Wrap(ErrSaveSettings, err).WithData(s.path)
	}

	out, err := rewrite(existing, settings.values(s.prefix), s.prefix)
	if err != nil {
		return errFactory.Wrap(ErrSaveSettings, err).WithData(s.path)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errFactory.Wrap(errors.ErrWriteConfig, err).WithData(dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return errFactory.Wrap(errors.ErrWriteConfig, err).WithData(s.path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return errFactory.Wrap(errors.ErrWriteConfig, err).WithData(tmp.Name())
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errFactory.Wrap(errors.ErrWriteConfig, err).WithData(tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errFactory.Wrap(errors.ErrWriteConfig, err).WithData(tmp.Name())
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return errFactory.Wrap(errors.ErrWriteConfig, err).WithData(tmp.Name())
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errFactory.Wrap(errors.ErrWriteConfig, err).WithData(s.path)
	}

	return nil
}

// maxLineSize bounds a single config line. Longer lines fail the save
// rather than truncate the file.
const maxLineSize = 1 << 20

func rewrite(existing []byte, values map[string]string, prefix string) ([]byte, error) {
	var buf bytes.Buffer
	written := make(map[string]bool, len(values))

	sc := bufio.NewScanner(bytes.NewReader(existing))
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	for sc.Scan() {
		line := sc.Text()
		if k, export, ok := lineKey(line); ok {
			if v, known := values[k]; known {
				if written[k] {
					continue
				}
				line = k + "=" + v
				if export {
					line = "export " + line
				}
				written[k] = true
			}
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	for _, suffix := range settingsOrder {
		k := prefix + suffix
		if !written[k] {
			fmt.Fprintf(&buf, "%s=%s\n", k, values[k])
		}
	}

	return buf.Bytes(), nil
}

// lineKey returns the key of a key=value line and whether it was exported.
func lineKey(line string) (key string, export, ok bool) {
	t := strings.TrimSpace(line)
	if t == "" || strings.HasPrefix(t, "#") {
		return "", false, false
	}
	if rest, found := strings.CutPrefix(t, "export "); found {
		t, export = rest, true
	}
	k, _, found := strings.Cut(t, "=")
	if !found {
		return "", false, false
	}

	return strings.TrimSpace(k), export, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
