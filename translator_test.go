package gamebridge

import (
	"errors"
	"image"
	"sync/atomic"
	"testing"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routedEvents is an event.Queue handing out a fixed batch per tag, once.
type routedEvents map[event.Tag][]event.Event

func (r routedEvents) Events(t event.Tag) []event.Event {
	evs := r[t]
	delete(r, t)
	return evs
}

type countingWidget struct{ n atomic.Int32 }

func (w *countingWidget) Invalidate() { w.n.Add(1) }

func newTestContext(size image.Point, q event.Queue) layout.Context {
	return layout.Context{
		Ops:         new(op.Ops),
		Queue:       q,
		Constraints: layout.Exact(size),
	}
}

func hookedTranslator(t *testing.T) (*Translator, *Queue) {
	t.Helper()
	q := NewQueue()
	tr := NewTranslator(q)
	require.NoError(t, tr.Hook(&countingWidget{}))
	return tr, q
}

func frame(tr *Translator, evs ...event.Event) {
	area := image.Rect(0, 0, 640, 480)
	tr.Frame(newTestContext(area.Max, routedEvents{tr: evs}), area)
}

func TestTranslator_HookShouldBindOnce(t *testing.T) {
	q := NewQueue()
	tr := NewTranslator(q)
	w1, w2 := &countingWidget{}, &countingWidget{}

	require.NoError(t, tr.Hook(w1))
	assert.NoError(t, tr.Hook(w1))
	assert.ErrorIs(t, tr.Hook(w2), ErrAlreadyHooked)
	assert.True(t, tr.Hooked())

	tr.Unhook()
	tr.Unhook()
	assert.False(t, tr.Hooked())
	assert.ErrorIs(t, tr.Hook(w1), ErrUnhooked)
}

func TestTranslator_InstallShouldBindPumper(t *testing.T) {
	q := NewQueue()
	tr := NewTranslator(q)
	w := &countingWidget{}

	tr.Install()
	tr.Install()
	q.Pump()
	assert.Equal(t, int32(0), w.n.Load())

	require.NoError(t, tr.Hook(w))
	q.Poll()
	q.Get()
	assert.Equal(t, int32(2), w.n.Load())

	tr.Unhook()
	q.Get()
	assert.Equal(t, int32(2), w.n.Load())
}

func TestTranslator_KeyboardEventsShouldArriveInOrder(t *testing.T) {
	tr, q := hookedTranslator(t)

	frame(tr,
		key.Event{Name: "A", State: key.Press},
		key.Event{Name: "B", State: key.Press},
		key.Event{Name: "C", State: key.Press},
	)

	events := q.Get()
	require.Len(t, events, 3)
	for i, k := range []Key{KA, KB, KC} {
		assert.Equal(t, KeyDown, events[i].Type)
		assert.Equal(t, k, events[i].Key)
		assert.Equal(t, rune(k), events[i].Unicode)
	}
}

func TestTranslator_ShouldConvertKeyDetails(t *testing.T) {
	tr, q := hookedTranslator(t)

	frame(tr,
		key.Event{Name: "A", Modifiers: key.ModShift, State: key.Press},
		key.Event{Name: "A", Modifiers: key.ModShift, State: key.Release},
		key.Event{Name: key.NameLeftArrow, State: key.Press},
		key.Event{Name: key.NameReturn, Modifiers: key.ModCtrl | key.ModAlt, State: key.Press},
		key.Event{Name: "7", State: key.Press},
	)

	events := q.Get()
	require.Len(t, events, 5)

	assert.Equal(t, KA, events[0].Key)
	assert.Equal(t, 'A', events[0].Unicode)
	assert.Equal(t, KModLShift, events[0].Mod)

	assert.Equal(t, KeyUp, events[1].Type)
	assert.Equal(t, KA, events[1].Key)
	assert.Equal(t, rune(0), events[1].Unicode)

	assert.Equal(t, KLeft, events[2].Key)
	assert.Equal(t, KReturn, events[3].Key)
	assert.Equal(t, KModLCtrl|KModLAlt, events[3].Mod)
	assert.Equal(t, K7, events[4].Key)
}

func TestTranslator_UnmappedKeyShouldBeDroppedAlone(t *testing.T) {
	tr, q := hookedTranslator(t)

	frame(tr,
		key.Event{Name: "A", State: key.Press},
		key.Event{Name: key.NameBack, State: key.Press},
		key.Event{Name: "B", State: key.Press},
	)

	events := q.Get()
	require.Len(t, events, 2)
	assert.Equal(t, KA, events[0].Key)
	assert.Equal(t, KB, events[1].Key)
	assert.Equal(t, int64(1), tr.Dropped())
}

type customEvent struct{ kind string }

func (customEvent) ImplementsEvent() {}

func TestTranslator_PanickingConversionShouldBeContained(t *testing.T) {
	tr, q := hookedTranslator(t)
	tr.Extend(func(e event.Event) ([]Event, bool, error) {
		ce, ok := e.(customEvent)
		if !ok {
			return nil, false, nil
		}
		switch ce.kind {
		case "panic":
			panic("broken converter")
		case "fail":
			return nil, true, errors.New("cannot convert")
		}
		return []Event{NewEvent(UserEvent, map[string]any{"kind": ce.kind})}, true, nil
	})

	frame(tr,
		customEvent{kind: "ok"},
		customEvent{kind: "panic"},
		key.Event{Name: "X", State: key.Press},
		customEvent{kind: "fail"},
	)

	events := q.Get()
	require.Len(t, events, 2)
	assert.Equal(t, UserEvent, events[0].Type)
	assert.Equal(t, KX, events[1].Key)
	assert.Equal(t, int64(2), tr.Dropped())
}

func TestTranslator_ShouldConvertPointerEvents(t *testing.T) {
	tr, q := hookedTranslator(t)

	frame(tr,
		pointer.Event{Type: pointer.Move, Position: f32.Pt(10, 10)},
		pointer.Event{Type: pointer.Move, Position: f32.Pt(15, 8)},
		pointer.Event{Type: pointer.Press, Position: f32.Pt(15, 8), Buttons: pointer.ButtonPrimary},
		pointer.Event{Type: pointer.Drag, Position: f32.Pt(20, 8), Buttons: pointer.ButtonPrimary},
		pointer.Event{Type: pointer.Press, Position: f32.Pt(20, 8), Buttons: pointer.ButtonPrimary | pointer.ButtonSecondary},
		pointer.Event{Type: pointer.Release, Position: f32.Pt(20, 8), Buttons: pointer.ButtonSecondary},
		pointer.Event{Type: pointer.Release, Position: f32.Pt(20, 8)},
	)

	events := q.Get()
	require.Len(t, events, 7)

	assert.Equal(t, MouseMotion, events[0].Type)
	assert.Equal(t, image.Pt(0, 0), events[0].Rel)
	assert.Equal(t, image.Pt(5, -2), events[1].Rel)
	assert.Equal(t, image.Pt(15, 8), events[1].Pos)

	assert.Equal(t, MouseButtonDown, events[2].Type)
	assert.Equal(t, ButtonLeft, events[2].Button)

	assert.Equal(t, MouseMotion, events[3].Type)
	assert.Equal(t, [3]bool{true, false, false}, events[3].Buttons)

	assert.Equal(t, MouseButtonDown, events[4].Type)
	assert.Equal(t, ButtonRight, events[4].Button)

	assert.Equal(t, MouseButtonUp, events[5].Type)
	assert.Equal(t, ButtonLeft, events[5].Button)
	assert.Equal(t, MouseButtonUp, events[6].Type)
	assert.Equal(t, ButtonRight, events[6].Button)
}

func TestTranslator_ScrollShouldProduceWheelClicks(t *testing.T) {
	tr, q := hookedTranslator(t)

	frame(tr,
		pointer.Event{Type: pointer.Scroll, Scroll: f32.Pt(0, -3)},
		pointer.Event{Type: pointer.Scroll, Scroll: f32.Pt(0, 2)},
		pointer.Event{Type: pointer.Scroll, Scroll: f32.Pt(4, 0)},
	)

	events := q.Get()
	require.Len(t, events, 4)
	assert.Equal(t, ButtonWheelUp, events[0].Button)
	assert.Equal(t, MouseButtonDown, events[0].Type)
	assert.Equal(t, MouseButtonUp, events[1].Type)
	assert.Equal(t, ButtonWheelDown, events[2].Button)
}

func TestTranslator_FocusAndStageShouldBecomeActiveEvents(t *testing.T) {
	tr, q := hookedTranslator(t)

	frame(tr,
		key.FocusEvent{Focus: true},
		pointer.Event{Type: pointer.Leave},
	)
	tr.Dispatch(system.StageEvent{Stage: system.StagePaused})
	tr.Dispatch(system.DestroyEvent{})

	events := q.Get()
	require.Len(t, events, 4)
	assert.Equal(t, NewActiveEvent(true, AppInputFocus), events[0])
	assert.Equal(t, NewActiveEvent(false, AppMouseFocus), events[1])
	assert.Equal(t, NewActiveEvent(false, AppActive), events[2])
	assert.Equal(t, Quit, events[3].Type)
}

func TestTranslator_FocusRequestFromHookShouldReachFrame(t *testing.T) {
	tr := NewTranslator(NewQueue())
	hooked := make(chan error)
	go func() { hooked <- tr.Hook(&countingWidget{}) }()
	require.NoError(t, <-hooked)
	assert.True(t, tr.wantFocus.Load())

	// Already focused: the request stays pending.
	frame(tr, key.FocusEvent{Focus: true})
	assert.True(t, tr.wantFocus.Load())

	frame(tr, key.FocusEvent{Focus: false})
	assert.False(t, tr.wantFocus.Load())

	frame(tr, pointer.Event{Type: pointer.Press, Buttons: pointer.ButtonPrimary, Position: f32.Pt(3, 3)})
	assert.False(t, tr.wantFocus.Load(), "a press while unfocused is served in the same frame")
}

func TestTranslator_ShouldReportWindowResize(t *testing.T) {
	tr, q := hookedTranslator(t)
	area := image.Rect(0, 0, 100, 100)

	tr.Frame(newTestContext(image.Pt(640, 480), routedEvents{}), area)
	assert.Empty(t, q.Get())

	tr.Frame(newTestContext(image.Pt(800, 600), routedEvents{}), area)
	events := q.Get()
	require.Len(t, events, 1)
	assert.Equal(t, VideoResize, events[0].Type)
	assert.Equal(t, image.Pt(800, 600), events[0].Size)
}

func TestTranslator_ShouldIgnoreInputAfterUnhook(t *testing.T) {
	tr, q := hookedTranslator(t)
	tr.Unhook()

	frame(tr, key.Event{Name: "A", State: key.Press})
	tr.Dispatch(system.DestroyEvent{})

	assert.Empty(t, q.Get())
}

func TestTranslator_BlockedKeysShouldNotReachGame(t *testing.T) {
	tr, q := hookedTranslator(t)
	q.SetBlocked(KeyDown)

	frame(tr,
		key.Event{Name: "K", State: key.Press},
		pointer.Event{Type: pointer.Move, Position: f32.Pt(1, 1)},
	)

	events := q.Get()
	require.Len(t, events, 1)
	assert.Equal(t, MouseMotion, events[0].Type)

	q.SetAllowed(AllTypes)
	frame(tr, key.Event{Name: "K", State: key.Press})
	events = q.Get()
	require.Len(t, events, 1)
	assert.Equal(t, KK, events[0].Key)
}

func TestKeymap_ShouldTranslateNames(t *testing.T) {
	k, r, err := translateKey("Q", key.ModCtrl)
	require.NoError(t, err)
	assert.Equal(t, KQ, k)
	assert.Equal(t, rune(17), r)

	k, r, err = translateKey(key.NameSpace, 0)
	require.NoError(t, err)
	assert.Equal(t, KSpace, k)
	assert.Equal(t, ' ', r)

	k, r, err = translateKey("é", 0)
	require.NoError(t, err)
	assert.Equal(t, KUnknown, k)
	assert.Equal(t, 'é', r)

	_, _, err = translateKey("NoSuchKey", 0)
	assert.ErrorIs(t, err, ErrUnmappedKey)

	assert.Equal(t, KModLMeta|KModLShift, translateMods(key.ModCommand|key.ModShift))
}
