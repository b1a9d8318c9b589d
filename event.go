package gamebridge

import (
	"fmt"
	"image"
	"sort"
	"strings"
)

// Type tags an Event.
type Type int

// Event types. The numeric values are stable and match the codes games built
// on the polling API already compare against.
const (
	NoEvent         Type = 0
	ActiveEvent     Type = 1
	KeyDown         Type = 2
	KeyUp           Type = 3
	MouseMotion     Type = 4
	MouseButtonDown Type = 5
	MouseButtonUp   Type = 6
	JoyAxisMotion   Type = 7
	JoyBallMotion   Type = 8
	JoyHatMotion    Type = 9
	JoyButtonDown   Type = 10
	JoyButtonUp     Type = 11
	Quit            Type = 12
	SysWMEvent      Type = 13
	VideoResize     Type = 16
	VideoExpose     Type = 17
	UserEvent       Type = 24
	NumEvents       Type = 32

	CaptureLoad     Type = 9917
	CaptureLoadFail Type = 9918

	// AllTypes is the wildcard accepted by SetAllowed to clear the block set.
	AllTypes Type = -1
)

var typeNames = map[Type]string{
	NoEvent:         "NoEvent",
	ActiveEvent:     "ActiveEvent",
	KeyDown:         "KeyDown",
	KeyUp:           "KeyUp",
	MouseMotion:     "MouseMotion",
	MouseButtonDown: "MouseButtonDown",
	MouseButtonUp:   "MouseButtonUp",
	JoyAxisMotion:   "JoyAxisMotion",
	JoyBallMotion:   "JoyBallMotion",
	JoyHatMotion:    "JoyHatMotion",
	JoyButtonDown:   "JoyButtonDown",
	JoyButtonUp:     "JoyButtonUp",
	Quit:            "Quit",
	SysWMEvent:      "SysWMEvent",
	VideoResize:     "VideoResize",
	VideoExpose:     "VideoExpose",
	CaptureLoad:     "CaptureLoad",
	CaptureLoadFail: "CaptureLoadFail",
	AllTypes:        "AllTypes",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	if t >= UserEvent && t < NumEvents {
		return "UserEvent"
	}
	return "Unknown"
}

// Event is a single input or application event record.
//
// Events are values: the queue hands out copies and the named attributes of
// user-defined events can only be read, never modified, once constructed.
// The zero Event has Type NoEvent and is what Poll returns on an empty queue.
type Event struct {
	Type Type

	// Keyboard.
	Key     Key
	Mod     Mod
	Unicode rune

	// Mouse. Buttons holds the left, middle and right button states.
	Pos     image.Point
	Rel     image.Point
	Buttons [3]bool
	Button  int

	// Focus changes. State is a combination of AppMouseFocus, AppInputFocus and AppActive.
	Gain  bool
	State int

	// Window resize.
	Size image.Point

	attrs map[string]any
}

// NewEvent creates an event of type t carrying a copy of attrs.
func NewEvent(t Type, attrs map[string]any) Event {
	e := Event{Type: t}
	if len(attrs) > 0 {
		e.attrs = make(map[string]any, len(attrs))
		for k, v := range attrs {
			e.attrs[k] = v
		}
	}
	return e
}

// NewKeyEvent creates a KeyDown or KeyUp event.
func NewKeyEvent(t Type, key Key, mod Mod, unicode rune) Event {
	return Event{Type: t, Key: key, Mod: mod, Unicode: unicode}
}

// NewMotionEvent creates a MouseMotion event.
func NewMotionEvent(pos, rel image.Point, buttons [3]bool) Event {
	return Event{Type: MouseMotion, Pos: pos, Rel: rel, Buttons: buttons}
}

// NewButtonEvent creates a MouseButtonDown or MouseButtonUp event.
func NewButtonEvent(t Type, pos image.Point, button int) Event {
	return Event{Type: t, Pos: pos, Button: button}
}

// NewActiveEvent creates an ActiveEvent.
func NewActiveEvent(gain bool, state int) Event {
	return Event{Type: ActiveEvent, Gain: gain, State: state}
}

// NewResizeEvent creates a VideoResize event.
func NewResizeEvent(size image.Point) Event {
	return Event{Type: VideoResize, Size: size}
}

// Attr returns the named attribute of a user-defined event.
func (e Event) Attr(name string) (any, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// Attrs returns a copy of all named attributes.
func (e Event) Attrs() map[string]any {
	m := make(map[string]any, len(e.attrs))
	for k, v := range e.attrs {
		m[k] = v
	}
	return m
}

func (e Event) String() string {
	var fields []string
	switch e.Type {
	case KeyDown, KeyUp:
		fields = append(fields,
			fmt.Sprintf("key: %d", e.Key),
			fmt.Sprintf("mod: %d", e.Mod),
			fmt.Sprintf("unicode: %q", e.Unicode),
		)
	case MouseMotion:
		fields = append(fields,
			fmt.Sprintf("pos: %v", e.Pos),
			fmt.Sprintf("rel: %v", e.Rel),
			fmt.Sprintf("buttons: %v", e.Buttons),
		)
	case MouseButtonDown, MouseButtonUp:
		fields = append(fields,
			fmt.Sprintf("pos: %v", e.Pos),
			fmt.Sprintf("button: %d", e.Button),
		)
	case ActiveEvent:
		fields = append(fields,
			fmt.Sprintf("gain: %t", e.Gain),
			fmt.Sprintf("state: %d", e.State),
		)
	case VideoResize:
		fields = append(fields, fmt.Sprintf("size: %v", e.Size))
	}
	if len(e.attrs) > 0 {
		keys := make([]string, 0, len(e.attrs))
		for k := range e.attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fields = append(fields, fmt.Sprintf("%s: %v", k, e.attrs[k]))
		}
	}
	return fmt.Sprintf("<Event(%d-%s {%s})>", int(e.Type), e.Type, strings.Join(fields, ", "))
}
