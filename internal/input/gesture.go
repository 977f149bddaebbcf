// Package input reads touch and key events from evdev devices and turns
// them into dashboard gestures.
package input

import "image"

// Kind is the gesture type.
type Kind int

const (
	TouchDown Kind = iota + 1
	Tap
	SwipeLeft
	SwipeRight
	Next
	Prev
	Quit
)

var kindNames = map[Kind]string{
	TouchDown:  "touch_down",
	Tap:        "tap",
	SwipeLeft:  "swipe_left",
	SwipeRight: "swipe_right",
	Next:       "next",
	Prev:       "prev",
	Quit:       "quit",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return "unknown"
}

// Event is a recognized gesture. Pos is in screen pixels; it is the touch
// point for TouchDown and the release point for Tap and swipes.
type Event struct {
	Kind Kind
	Pos  image.Point
}

// IsTouch reports whether the event came from the touch panel.
func (e Event) IsTouch() bool {
	switch e.Kind {
	case TouchDown, Tap, SwipeLeft, SwipeRight:
		return true
	}

	return false
}

const DefaultSwipeThreshold = 50

// Linux key codes.
const (
	KeyEsc   = 1
	KeyQ     = 16
	KeyLeft  = 105
	KeyRight = 106
)

// Recognizer classifies a press/release pair by horizontal travel.
type Recognizer struct {
	threshold int
	start     image.Point
	pressed   bool
}

func NewRecognizer(threshold int) *Recognizer {
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}

	return &Recognizer{threshold: threshold}
}

func (r *Recognizer) Threshold() int {
	return r.threshold
}

// Press starts a contact.
func (r *Recognizer) Press(pos image.Point) Event {
	r.start, r.pressed = pos, true

	return Event{Kind: TouchDown, Pos: pos}
}

// Release ends a contact. Travel of exactly the threshold is neither a tap
// nor a swipe and yields no event.
func (r *Recognizer) Release(pos image.Point) (Event, bool) {
	if !r.pressed {
		return Event{}, false
	}
	r.pressed = false

	dx := pos.X - r.start.X
	switch {
	case abs(dx) < r.threshold:
		return Event{Kind: Tap, Pos: pos}, true
	case dx < -r.threshold:
		return Event{Kind: SwipeLeft, Pos: pos}, true
	case dx > r.threshold:
		return Event{Kind: SwipeRight, Pos: pos}, true
	}

	return Event{}, false
}

// Key maps a pressed key code to a gesture.
func (r *Recognizer) Key(code uint16) (Event, bool) {
	switch code {
	case KeyLeft:
		return Event{Kind: Prev}, true
	case KeyRight:
		return Event{Kind: Next}, true
	case KeyEsc, KeyQ:
		return Event{Kind: Quit}, true
	}

	return Event{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
