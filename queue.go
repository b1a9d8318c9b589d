package gamebridge

import (
	"context"
	"sync"
	"time"
)

// Queue is an unbounded FIFO of events shared between the host's UI goroutine,
// which posts, and the game goroutine, which consumes. Post never blocks.
//
// The block set and the pending events are guarded by separate locks. When
// both are held, blockMu is taken first. No lock is held while the Pumper or
// the Source run, so either may post back into the queue.
type Queue struct {
	blockMu sync.RWMutex
	blocked map[Type]struct{}

	mu     sync.Mutex
	events []Event
	last   time.Time

	// ready holds at most one wakeup for goroutines blocked in Wait.
	ready chan struct{}

	hostMu sync.RWMutex
	pumper Pumper
	source Source

	now func() time.Time
}

// NewQueue returns an empty queue with nothing blocked.
func NewQueue() *Queue {
	q := &Queue{
		blocked: make(map[Type]struct{}),
		ready:   make(chan struct{}, 1),
		now:     time.Now,
	}
	q.last = q.now()
	return q
}

// SetPumper installs the host pumper. A nil p removes it.
func (q *Queue) SetPumper(p Pumper) {
	q.hostMu.Lock()
	q.pumper = p
	q.hostMu.Unlock()
}

// SetSource installs the secondary source merged into Get. A nil s removes it.
func (q *Queue) SetSource(s Source) {
	q.hostMu.Lock()
	q.source = s
	q.hostMu.Unlock()
}

// Post appends e unless its type is blocked. It is safe to call from any goroutine.
func (q *Queue) Post(e Event) {
	q.blockMu.RLock()
	if _, ok := q.blocked[e.Type]; ok {
		q.blockMu.RUnlock()
		Logger().Debug("event dropped, type blocked", "type", e.Type)
		return
	}
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
	q.blockMu.RUnlock()

	q.signal()
}

// Pump asks the installed host pumper to flush pending notifications.
func (q *Queue) Pump() {
	q.hostMu.RLock()
	p := q.pumper
	q.hostMu.RUnlock()
	if p != nil {
		p.Pump()
	}
}

// Get pumps, then removes and returns every pending event in posting order,
// followed by the events drained from the secondary source. The block set
// applies to both: source events of a blocked type are discarded here, as
// queued ones are discarded by Post. It never blocks.
func (q *Queue) Get() []Event {
	q.Pump()

	q.mu.Lock()
	events := q.events
	q.events = nil
	q.mu.Unlock()

	q.hostMu.RLock()
	src := q.source
	q.hostMu.RUnlock()
	if src != nil {
		if extra := src.Drain(); len(extra) > 0 {
			q.blockMu.RLock()
			for _, e := range extra {
				if _, ok := q.blocked[e.Type]; !ok {
					events = append(events, e)
				}
			}
			q.blockMu.RUnlock()
		}
	}

	if len(events) > 0 {
		q.delivered()
	}
	return events
}

// Poll pumps and returns the oldest pending event, or an event of type
// NoEvent if the queue is empty. It never blocks.
func (q *Queue) Poll() Event {
	q.Pump()
	e, ok := q.pop()
	if !ok {
		return Event{Type: NoEvent}
	}
	q.delivered()
	return e
}

// Wait pumps and returns the oldest pending event, blocking for up to timeout
// while the queue is empty. A negative timeout waits indefinitely and a zero
// timeout does not wait at all. The boolean is false if nothing arrived in time.
func (q *Queue) Wait(timeout time.Duration) (Event, bool) {
	if timeout < 0 {
		e, err := q.WaitContext(context.Background())
		return e, err == nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	e, err := q.WaitContext(ctx)
	return e, err == nil
}

// WaitContext is like Wait but gives up when ctx is done, returning ctx.Err().
func (q *Queue) WaitContext(ctx context.Context) (Event, error) {
	q.Pump()
	for {
		if e, ok := q.pop(); ok {
			q.delivered()
			return e, nil
		}
		select {
		case <-q.ready:
		case <-ctx.Done():
			// An event may have raced with the deadline.
			if e, ok := q.pop(); ok {
				q.delivered()
				return e, nil
			}
			return Event{}, ctx.Err()
		}
	}
}

// Peek reports whether any event is pending. The types are accepted for
// call compatibility and ignored: the queue cannot be filtered by type.
// Nothing is consumed.
func (q *Queue) Peek(types ...Type) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events) > 0
}

// Clear discards every pending event.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.events = nil
	q.mu.Unlock()
}

// SetBlocked adds types to the block set. Events of a blocked type are
// dropped by Post. Passing AllTypes stores the wildcard as an ordinary
// member and blocks nothing else.
func (q *Queue) SetBlocked(types ...Type) {
	q.blockMu.Lock()
	for _, t := range types {
		q.blocked[t] = struct{}{}
	}
	q.blockMu.Unlock()
}

// SetAllowed removes types from the block set. If AllTypes is among them the
// whole set is cleared. Allowing a type that is not blocked has no effect.
func (q *Queue) SetAllowed(types ...Type) {
	q.blockMu.Lock()
	defer q.blockMu.Unlock()

	for _, t := range types {
		if t == AllTypes {
			q.blocked = make(map[Type]struct{})
			return
		}
	}
	for _, t := range types {
		delete(q.blocked, t)
	}
}

// Blocked returns a snapshot of the block set.
func (q *Queue) Blocked() TypeSet {
	q.blockMu.RLock()
	defer q.blockMu.RUnlock()
	return newTypeSet(q.blocked)
}

// SetGrab is accepted for compatibility and ignored; the host owns input grabs.
func (q *Queue) SetGrab(bool) {}

// Grab always reports false.
func (q *Queue) Grab() bool { return false }

// LastEventTime returns the time elapsed since events were last handed to the
// game by Get, Poll or Wait, or since the queue was created.
func (q *Queue) LastEventTime() time.Duration {
	q.mu.Lock()
	last := q.last
	q.mu.Unlock()
	return q.now().Sub(last)
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

func (q *Queue) pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event{}, false
	}
	e := q.events[0]
	q.events[0] = Event{}
	q.events = q.events[1:]
	if len(q.events) > 0 {
		// Pass the wakeup on to the next waiter.
		q.signal()
	}
	return e, true
}

func (q *Queue) delivered() {
	q.mu.Lock()
	q.last = q.now()
	q.mu.Unlock()
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
