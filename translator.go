package gamebridge

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
)

// Widget is the host surface a Translator binds to. Invalidate requests a new
// frame and must be safe to call from any goroutine; *app.Window satisfies it.
type Widget interface {
	Invalidate()
}

// Converter turns a host event the Translator does not handle itself into
// zero or more events. Returning false leaves the event unhandled.
type Converter func(e event.Event) ([]Event, bool, error)

type bindState int

const (
	stateUninstalled bindState = iota
	stateInstalled
	stateHooked
	stateUnhooked
)

func (s bindState) String() string {
	switch s {
	case stateUninstalled:
		return "uninstalled"
	case stateInstalled:
		return "installed"
	case stateHooked:
		return "hooked"
	case stateUnhooked:
		return "unhooked"
	}
	return fmt.Sprintf("bindState(%d)", int(s))
}

const pointerTypes = pointer.Press | pointer.Release | pointer.Move | pointer.Drag |
	pointer.Scroll | pointer.Enter | pointer.Leave | pointer.Cancel

// scrollRange bounds the scroll distance reported in a single pointer event.
const scrollRange = 1 << 16

// Translator converts Gio input delivered on the UI goroutine into events
// posted to a Queue. It binds to exactly one widget for its whole lifetime.
//
// Frame and Dispatch must be called from the UI goroutine only. Pump, Hook,
// Unhook and Install may be called from anywhere.
type Translator struct {
	q *Queue

	mu     sync.Mutex
	state  bindState
	widget Widget
	extra  []Converter

	dropped atomic.Int64
	// wantFocus is set by Hook on any goroutine and consumed by Frame.
	wantFocus atomic.Bool

	// Owned by the UI goroutine.
	focused bool
	size    image.Point
	pos     image.Point
	hasPos  bool
	buttons pointer.Buttons
}

// NewTranslator returns an uninstalled translator posting into q.
func NewTranslator(q *Queue) *Translator {
	return &Translator{q: q}
}

// Install registers the translator as the queue's pumper. It is idempotent
// and does nothing once the translator has been unhooked.
func (t *Translator) Install() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.install()
}

func (t *Translator) install() {
	if t.state != stateUninstalled {
		return
	}
	t.q.SetPumper(t)
	t.state = stateInstalled
}

// Hook binds the translator to w, installing it first if needed. Hooking the
// same widget again is a no-op. A translator never rebinds: hooking another
// widget returns ErrAlreadyHooked and hooking after Unhook returns ErrUnhooked.
func (t *Translator) Hook(w Widget) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case stateUnhooked:
		return ErrUnhooked
	case stateHooked:
		if t.widget == w {
			return nil
		}
		return ErrAlreadyHooked
	}
	t.install()
	t.widget = w
	t.state = stateHooked
	t.wantFocus.Store(true)
	Logger().Info("translator hooked", "widget", fmt.Sprintf("%T", w))
	return nil
}

// Unhook detaches the translator from its widget and the queue. Input
// arriving afterwards is ignored. Unhook is idempotent.
func (t *Translator) Unhook() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == stateUnhooked {
		return
	}
	if t.state != stateUninstalled {
		t.q.SetPumper(nil)
	}
	t.widget = nil
	t.state = stateUnhooked
	Logger().Info("translator unhooked")
}

// Hooked reports whether the translator is currently bound to a widget.
func (t *Translator) Hooked() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == stateHooked
}

// Extend adds a converter consulted for host events the translator does not
// recognise. Converters run under the same failure containment as the
// built-in conversions.
func (t *Translator) Extend(c Converter) {
	t.mu.Lock()
	t.extra = append(t.extra, c)
	t.mu.Unlock()
}

// Dropped returns how many host events were discarded because converting them failed.
func (t *Translator) Dropped() int64 {
	return t.dropped.Load()
}

// Pump asks the bound widget for a new frame so pending input is routed.
func (t *Translator) Pump() {
	t.mu.Lock()
	w := t.widget
	t.mu.Unlock()
	if w != nil {
		w.Invalidate()
	}
}

// Frame drains the input routed to the translator since the previous frame
// and registers its input handlers over area, given in window coordinates.
// Pointer positions are reported relative to area's top-left corner.
func (t *Translator) Frame(gtx layout.Context, area image.Rectangle) {
	if !t.Hooked() {
		return
	}
	for _, e := range gtx.Events(t) {
		t.dispatch(e)
	}

	if win := gtx.Constraints.Max; win != t.size {
		if t.size != (image.Point{}) {
			t.q.Post(NewResizeEvent(win))
		}
		t.size = win
	}

	defer op.Affine(f32.Affine2D{}.Offset(layout.FPt(area.Min))).Push(gtx.Ops).Pop()
	defer clip.Rect(image.Rectangle{Max: area.Size()}).Push(gtx.Ops).Pop()

	pointer.InputOp{
		Tag:          t,
		Types:        pointerTypes,
		ScrollBounds: image.Rect(-scrollRange, -scrollRange, scrollRange, scrollRange),
	}.Add(gtx.Ops)
	key.InputOp{Tag: t, Hint: key.HintAny}.Add(gtx.Ops)

	if !t.focused && t.wantFocus.Swap(false) {
		key.FocusOp{Tag: t}.Add(gtx.Ops)
	}
}

// Dispatch handles window-level events received by the host loop, such as
// system.DestroyEvent and system.StageEvent.
func (t *Translator) Dispatch(e event.Event) {
	if !t.Hooked() {
		return
	}
	t.dispatch(e)
}

func (t *Translator) dispatch(e event.Event) {
	events, err := t.convert(e)
	if err != nil {
		t.dropped.Add(1)
		Logger().Warn("host event dropped", "event", fmt.Sprintf("%T", e), "err", err)
		return
	}
	for _, ev := range events {
		Logger().Debug("event posted", "event", ev)
		t.q.Post(ev)
	}
}

// convert never panics; a failing conversion drops only the event at hand.
func (t *Translator) convert(e event.Event) (events []Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			events, err = nil, fmt.Errorf("conversion panic: %v", r)
		}
	}()

	switch e := e.(type) {
	case key.Event:
		return t.keyEvents(e)
	case key.FocusEvent:
		t.focused = e.Focus
		return []Event{NewActiveEvent(e.Focus, AppInputFocus)}, nil
	case key.EditEvent, key.SelectionEvent, key.SnippetEvent:
		// Text arrives with the key events.
		return nil, nil
	case pointer.Event:
		return t.pointerEvents(e), nil
	case system.DestroyEvent:
		return []Event{{Type: Quit}}, nil
	case system.StageEvent:
		return []Event{NewActiveEvent(e.Stage >= system.StageRunning, AppActive)}, nil
	}

	t.mu.Lock()
	extra := t.extra
	t.mu.Unlock()
	for _, c := range extra {
		events, ok, err := c(e)
		if err != nil {
			return nil, err
		}
		if ok {
			return events, nil
		}
	}
	Logger().Debug("host event ignored", "event", fmt.Sprintf("%T", e))
	return nil, nil
}

func (t *Translator) keyEvents(e key.Event) ([]Event, error) {
	code, text, err := translateKey(e.Name, e.Modifiers)
	if err != nil {
		return nil, err
	}
	mod := translateMods(e.Modifiers)
	if e.State == key.Release {
		return []Event{NewKeyEvent(KeyUp, code, mod, 0)}, nil
	}
	return []Event{NewKeyEvent(KeyDown, code, mod, text)}, nil
}

// buttonOrder lists Gio buttons in the order of their numeric codes.
var buttonOrder = [...]struct {
	b    pointer.Buttons
	code int
}{
	{pointer.ButtonPrimary, ButtonLeft},
	{pointer.ButtonTertiary, ButtonMiddle},
	{pointer.ButtonSecondary, ButtonRight},
}

func (t *Translator) pointerEvents(e pointer.Event) []Event {
	pos := image.Pt(int(e.Position.X), int(e.Position.Y))

	switch e.Type {
	case pointer.Move, pointer.Drag:
		var rel image.Point
		if t.hasPos {
			rel = pos.Sub(t.pos)
		}
		t.pos, t.hasPos = pos, true
		t.buttons = e.Buttons
		return []Event{NewMotionEvent(pos, rel, buttonState(e.Buttons))}

	case pointer.Press:
		changed := e.Buttons &^ t.buttons
		if changed == 0 {
			// Touch presses carry no button.
			changed = pointer.ButtonPrimary
		}
		t.buttons = e.Buttons
		t.pos, t.hasPos = pos, true
		if !t.focused {
			t.wantFocus.Store(true)
		}
		return buttonEvents(MouseButtonDown, pos, changed)

	case pointer.Release:
		changed := t.buttons &^ e.Buttons
		if changed == 0 {
			changed = pointer.ButtonPrimary
		}
		t.buttons = e.Buttons
		t.pos, t.hasPos = pos, true
		return buttonEvents(MouseButtonUp, pos, changed)

	case pointer.Cancel:
		held := t.buttons
		t.buttons = 0
		return buttonEvents(MouseButtonUp, t.pos, held)

	case pointer.Scroll:
		var b int
		switch {
		case e.Scroll.Y < 0:
			b = ButtonWheelUp
		case e.Scroll.Y > 0:
			b = ButtonWheelDown
		default:
			return nil
		}
		return []Event{
			NewButtonEvent(MouseButtonDown, pos, b),
			NewButtonEvent(MouseButtonUp, pos, b),
		}

	case pointer.Enter:
		return []Event{NewActiveEvent(true, AppMouseFocus)}
	case pointer.Leave:
		return []Event{NewActiveEvent(false, AppMouseFocus)}
	}
	return nil
}

func buttonEvents(t Type, pos image.Point, changed pointer.Buttons) []Event {
	var events []Event
	for _, bo := range buttonOrder {
		if changed.Contain(bo.b) {
			events = append(events, NewButtonEvent(t, pos, bo.code))
		}
	}
	return events
}

func buttonState(b pointer.Buttons) [3]bool {
	return [3]bool{
		b.Contain(pointer.ButtonPrimary),
		b.Contain(pointer.ButtonTertiary),
		b.Contain(pointer.ButtonSecondary),
	}
}
