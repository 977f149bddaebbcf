package display

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"codeberg.org/mutker/cutiepi/internal/errors"
	"codeberg.org/mutker/cutiepi/internal/logger"
)

const DefaultSysRoot = "/sys"

// Backlight controls panel brightness and power through sysfs. Without a
// device, Sleep and Wake only blank the framebuffer.
type Backlight struct {
	dir   string
	blank string
	max   int

	mu     sync.Mutex
	asleep bool
	saved  int
	stored bool
}

// NewBacklight picks the first device under <sysRoot>/class/backlight with a
// readable max_brightness. fb names the framebuffer to blank on sleep, e.g. "fb0".
func NewBacklight(sysRoot, fb string) *Backlight {
	b := &Backlight{}
	if fb != "" {
		b.blank = filepath.Join(sysRoot, "class", "graphics", fb, "blank")
	}

	dirs, _ := filepath.Glob(filepath.Join(sysRoot, "class", "backlight", "*"))
	sort.Strings(dirs)
	for _, dir := range dirs {
		limit, err := readInt(filepath.Join(dir, "max_brightness"))
		if err != nil || limit <= 0 {
			continue
		}
		b.dir, b.max = dir, limit
		logger.Debug().Str("device", filepath.Base(dir)).Int("max", limit).Msg("backlight found")
		break
	}
	if b.dir == "" {
		logger.Warn().Msg("no backlight found, brightness control disabled")
	}

	return b
}

// Available reports whether a backlight device was found.
func (b *Backlight) Available() bool {
	return b.dir != ""
}

func (b *Backlight) Asleep() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.asleep
}

// SetPercent sets brightness as a percentage of max_brightness. While asleep
// the value is remembered and applied on wake.
func (b *Backlight) SetPercent(percent int) error {
	if percent < 0 || percent > 100 {
		return errFactory.WithData(errors.ErrInvalidArgument, "brightness out of range")
	}
	if b.dir == "" {
		return errFactory.New(ErrNoBacklight)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	raw := percent * b.max / 100
	if b.asleep {
		b.saved, b.stored = raw, true
		return nil
	}

	return b.writeBrightness(raw)
}

// Sleep blanks the framebuffer, powers the backlight down and dims it to
// zero, remembering the current brightness for Wake. Steps that fail are
// skipped; an error is returned only if none worked.
func (b *Backlight) Sleep() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.asleep {
		return nil
	}
	b.asleep = true

	ok := false
	if b.blank != "" {
		if err := writeValue(b.blank, "1"); err == nil {
			ok = true
		} else {
			logger.Debug().Err(err).Msg("framebuffer blank failed")
		}
	}
	if b.dir == "" {
		if !ok {
			return errFactory.New(ErrNoBacklight)
		}
		return nil
	}

	if err := writeValue(filepath.Join(b.dir, "bl_power"), "1"); err == nil {
		ok = true
	} else {
		logger.Debug().Err(err).Msg("backlight power off failed")
	}

	if cur, err := readInt(filepath.Join(b.dir, "brightness")); err == nil {
		b.saved, b.stored = cur, true
	}
	if err := b.writeBrightness(0); err == nil {
		ok = true
	} else {
		logger.Debug().Err(err).Msg("backlight dim failed")
	}

	if !ok {
		return errFactory.New(ErrBacklight)
	}

	return nil
}

// Wake reverses Sleep. The brightness read before sleeping is restored; if
// none was read, fallbackPercent is applied instead.
func (b *Backlight) Wake(fallbackPercent int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.asleep {
		return nil
	}
	b.asleep = false

	if b.blank != "" {
		if err := writeValue(b.blank, "0"); err != nil {
			logger.Debug().Err(err).Msg("framebuffer unblank failed")
		}
	}
	if b.dir == "" {
		return nil
	}

	if err := writeValue(filepath.Join(b.dir, "bl_power"), "0"); err != nil {
		logger.Debug().Err(err).Msg("backlight power on failed")
	}

	raw := fallbackPercent * b.max / 100
	if b.stored {
		raw = b.saved
	}
	b.stored = false
	if err := b.writeBrightness(raw); err != nil {
		return err
	}

	return nil
}

func (b *Backlight) writeBrightness(raw int) error {
	if err := writeValue(filepath.Join(b.dir, "brightness"), strconv.Itoa(raw)); err != nil {
		return errFactory.Wrap(ErrBacklight, err).WithData(b.dir)
	}

	return nil
}

func readInt(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// writeValue writes a sysfs attribute. Missing attributes are not created.
func writeValue(path, v string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(v); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
