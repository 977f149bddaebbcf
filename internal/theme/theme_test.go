package theme_test

import (
	"image/color"
	"testing"

	"codeberg.org/mutker/cutiepi/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	names := theme.Names()
	require.Len(t, names, 9)
	assert.Equal(t, theme.DefaultID, names[0])

	seen := map[theme.Style]bool{}
	for _, id := range names {
		th, ok := theme.Lookup(id)
		require.True(t, ok, id)
		assert.Equal(t, id, th.ID())
		assert.Contains(t, theme.Styles(), th.Style(), id)
		seen[th.Style()] = true
	}
	assert.Len(t, seen, len(theme.Styles()), "every style is used by some theme")
}

func TestEveryThemeDefinesRoles(t *testing.T) {
	for _, id := range theme.Names() {
		th := theme.Get(id)
		for _, r := range theme.RequiredRoles() {
			assert.NotEqual(t, color.RGBA{}, th.Color(r), "%s: %s", id, r)
		}
		for _, r := range theme.Roles() {
			assert.Equal(t, uint8(0xff), th.Color(r).A, "%s: %s opaque", id, r)
		}
		assert.NotEqual(t, th.Color(theme.Background), th.Color(theme.Text), id)
	}
}

func TestGetFallsBackToDefault(t *testing.T) {
	got := theme.Get("foo")
	want, ok := theme.Lookup(theme.DefaultID)
	require.True(t, ok)

	assert.Equal(t, want, got)

	_, ok = theme.Lookup("foo")
	assert.False(t, ok)
}

func TestCycling(t *testing.T) {
	names := theme.Names()

	assert.Equal(t, names[1], theme.Next(names[0]))
	assert.Equal(t, names[0], theme.Next(names[len(names)-1]))
	assert.Equal(t, names[len(names)-1], theme.Prev(names[0]))
	assert.Equal(t, names[1], theme.Next("foo"), "unknown ids cycle from default")

	for _, start := range names {
		for n := 1; n <= 2*len(names); n++ {
			id := start
			for i := 0; i < n; i++ {
				id = theme.Next(id)
			}
			for i := 0; i < n; i++ {
				id = theme.Prev(id)
			}
			assert.Equal(t, start, id)
		}
	}
}

func TestStyleMapping(t *testing.T) {
	tests := map[string]theme.Style{
		"default":   theme.Pixel,
		"neon":      theme.Glow,
		"ocean":     theme.Dashed,
		"cyberpunk": theme.Double,
		"sunset":    theme.Thick,
		"matrix":    theme.Terminal,
		"666":       theme.Inverted,
	}
	for id, style := range tests {
		assert.Equal(t, style, theme.Get(id).Style(), id)
	}
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "background", theme.Background.String())
	assert.Equal(t, "highlight", theme.Highlight.String())
	assert.Equal(t, "unknown", theme.Role(99).String())
}
