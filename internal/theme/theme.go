// Package theme holds the fixed set of dashboard color themes.
//
// Screens never use literal colors; they ask the active theme for a semantic
// role and let the style tag pick how borders and bars are drawn.
package theme

import (
	"image/color"
	"slices"

	"codeberg.org/mutker/cutiepi/internal/logger"
)

const DefaultID = "default"

// Style selects the border and bar drawing routines.
type Style string

const (
	Pixel    Style = "pixel"
	Glow     Style = "glow"
	Dashed   Style = "dashed"
	Double   Style = "double"
	Thick    Style = "thick"
	Terminal Style = "terminal"
	Inverted Style = "inverted"
)

// Styles lists every style tag.
func Styles() []Style {
	return []Style{Pixel, Glow, Dashed, Double, Thick, Terminal, Inverted}
}

// Role is a semantic color slot.
type Role int

const (
	Background Role = iota
	Surface
	SurfaceDim
	Text
	TextDim
	Border
	Primary
	Secondary
	Accent
	Success
	Warning
	Error
	Info
	Highlight
	numRoles
)

var roleNames = [numRoles]string{
	"background", "surface", "surface-dim", "text", "text-dim", "border",
	"primary", "secondary", "accent", "success", "warning", "error", "info", "highlight",
}

func (r Role) String() string {
	if r < 0 || r >= numRoles {
		return "unknown"
	}

	return roleNames[r]
}

// Roles lists every role in declaration order.
func Roles() []Role {
	out := make([]Role, numRoles)
	for i := range out {
		out[i] = Role(i)
	}

	return out
}

// RequiredRoles must be set by every theme.
func RequiredRoles() []Role {
	return []Role{Background, Primary, Accent, Border, Text, Warning}
}

// Theme is an immutable palette plus style tag.
type Theme struct {
	id     string
	style  Style
	colors [numRoles]color.RGBA
}

func (t Theme) ID() string {
	return t.id
}

func (t Theme) Style() Style {
	return t.style
}

// Color returns the color for a role; unknown roles resolve to Text.
func (t Theme) Color(r Role) color.RGBA {
	if r < 0 || r >= numRoles {
		return t.colors[Text]
	}

	return t.colors[r]
}

// Lookup returns the theme with the given id.
func Lookup(id string) (Theme, bool) {
	i := indexOf(id)
	if i < 0 {
		return Theme{}, false
	}

	return registry[i], true
}

// Get returns the theme with the given id, or the default theme.
func Get(id string) Theme {
	if t, ok := Lookup(id); ok {
		return t
	}
	logger.Debug().Str("theme", id).Msg("unknown theme, using default")

	return registry[0]
}

// Names returns the theme ids in cycling order.
func Names() []string {
	out := make([]string, len(registry))
	for i, t := range registry {
		out[i] = t.id
	}

	return out
}

// Next returns the id after id, wrapping at the end.
func Next(id string) string {
	return registry[(startIndex(id)+1)%len(registry)].id
}

// Prev returns the id before id, wrapping at the start.
func Prev(id string) string {
	return registry[(startIndex(id)-1+len(registry))%len(registry)].id
}

// Index returns the position of id in cycling order, or -1.
func Index(id string) int {
	return indexOf(id)
}

func indexOf(id string) int {
	return slices.IndexFunc(registry, func(t Theme) bool { return t.id == id })
}

func startIndex(id string) int {
	return max(0, indexOf(id))
}
