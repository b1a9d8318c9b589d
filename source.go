package gamebridge

import (
	"context"
	"time"
)

// Pumper is implemented by the host side of the bridge. Pump asks the host to
// deliver whatever notifications it still holds. It is called from the game
// goroutine and must not block on the host's UI loop.
type Pumper interface {
	Pump()
}

// PumpFunc adapts an ordinary function to the Pumper interface.
type PumpFunc func()

// Pump calls f().
func (f PumpFunc) Pump() { f() }

// Source is a secondary event origin drained by Get after the queue itself.
type Source interface {
	Drain() []Event
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func() []Event

// Drain calls f().
func (f SourceFunc) Drain() []Event { return f() }

// Events is the polling API game code is written against.
type Events interface {
	Post(e Event)
	Pump()
	Get() []Event
	Poll() Event
	Wait(timeout time.Duration) (Event, bool)
	WaitContext(ctx context.Context) (Event, error)
	Peek(types ...Type) bool
	Clear()
	SetBlocked(types ...Type)
	SetAllowed(types ...Type)
	Blocked() TypeSet
	SetGrab(grab bool)
	Grab() bool
	LastEventTime() time.Duration
}

var _ Events = (*Queue)(nil)
