package gamebridge

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func keyDown(k Key) Event { return NewKeyEvent(KeyDown, k, KModNone, rune(k)) }

func TestQueue_ShouldDeliverInPostingOrder(t *testing.T) {
	q := NewQueue()
	for _, k := range []Key{KA, KB, KC} {
		q.Post(keyDown(k))
	}

	events := q.Get()
	require.Len(t, events, 3)
	assert.Equal(t, KA, events[0].Key)
	assert.Equal(t, KB, events[1].Key)
	assert.Equal(t, KC, events[2].Key)

	assert.Empty(t, q.Get())
}

func TestQueue_ShouldPreserveOrderAcrossGoroutines(t *testing.T) {
	const (
		producers = 8
		perProd   = 500
	)
	q := NewQueue()

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProd; i++ {
				q.Post(NewEvent(UserEvent, map[string]any{"producer": p, "seq": i}))
			}
		}(p)
	}

	next := make([]int, producers)
	received := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	consume := func(events []Event) {
		for _, e := range events {
			p, _ := e.Attr("producer")
			seq, _ := e.Attr("seq")
			assert.Equal(t, next[p.(int)], seq.(int))
			next[p.(int)]++
			received++
		}
	}
	for {
		select {
		case <-done:
			consume(q.Get())
			assert.Equal(t, producers*perProd, received)
			return
		default:
			consume(q.Get())
		}
	}
}

func TestQueue_ShouldDropBlockedTypes(t *testing.T) {
	q := NewQueue()
	q.SetBlocked(KeyDown)

	q.Post(keyDown(KA))
	q.Post(NewMotionEvent(image.Pt(1, 1), image.Pt(1, 1), [3]bool{}))

	events := q.Get()
	require.Len(t, events, 1)
	assert.Equal(t, MouseMotion, events[0].Type)

	q.SetAllowed(AllTypes)
	q.Post(keyDown(KA))

	events = q.Get()
	require.Len(t, events, 1)
	assert.Equal(t, KeyDown, events[0].Type)
}

func TestQueue_ShouldNotQueueEventsPostedWhileBlocked(t *testing.T) {
	q := NewQueue()
	q.SetBlocked(KeyDown)
	q.Post(keyDown(KA))
	q.SetAllowed(KeyDown)

	assert.Empty(t, q.Get())
}

func TestQueue_AllowAllShouldBeIdempotent(t *testing.T) {
	q := NewQueue()
	q.SetBlocked(KeyDown, KeyUp, MouseMotion)
	require.Equal(t, 3, q.Blocked().Len())

	q.SetAllowed(AllTypes)
	assert.Equal(t, 0, q.Blocked().Len())
	q.SetAllowed(AllTypes)
	assert.Equal(t, 0, q.Blocked().Len())
}

func TestQueue_AllowingUnblockedTypeShouldBeNoop(t *testing.T) {
	q := NewQueue()
	q.SetBlocked(KeyUp)
	q.SetAllowed(KeyDown)

	assert.Equal(t, []Type{KeyUp}, q.Blocked().Types())
}

func TestQueue_BlockingWildcardShouldBlockNothing(t *testing.T) {
	q := NewQueue()
	q.SetBlocked(AllTypes)

	assert.True(t, q.Blocked().Has(AllTypes))
	q.Post(keyDown(KA))
	assert.Len(t, q.Get(), 1)
}

func TestQueue_BlockedSnapshotShouldBeDetached(t *testing.T) {
	q := NewQueue()
	q.SetBlocked(KeyDown)
	snap := q.Blocked()

	q.SetBlocked(KeyUp)
	q.SetAllowed(KeyDown)

	assert.True(t, snap.Has(KeyDown))
	assert.False(t, snap.Has(KeyUp))
	assert.Equal(t, 1, snap.Len())
}

func TestQueue_PollShouldNotBlock(t *testing.T) {
	q := NewQueue()

	start := time.Now()
	e := q.Poll()
	assert.Equal(t, NoEvent, e.Type)
	assert.Empty(t, q.Get())
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	q.Post(keyDown(KA))
	q.Post(keyDown(KB))
	assert.Equal(t, KA, q.Poll().Key)
	assert.Equal(t, KB, q.Poll().Key)
	assert.Equal(t, NoEvent, q.Poll().Type)
}

func TestQueue_WaitShouldHonourTimeout(t *testing.T) {
	q := NewQueue()

	start := time.Now()
	_, ok := q.Wait(200 * time.Millisecond)
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestQueue_WaitWithZeroTimeoutShouldReturnImmediately(t *testing.T) {
	q := NewQueue()
	_, ok := q.Wait(0)
	assert.False(t, ok)

	q.Post(keyDown(KA))
	e, ok := q.Wait(0)
	assert.True(t, ok)
	assert.Equal(t, KA, e.Key)
}

func TestQueue_WaitShouldWakeOnPost(t *testing.T) {
	q := NewQueue()

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Post(keyDown(KZ))
	}()

	e, ok := q.Wait(-1)
	require.True(t, ok)
	assert.Equal(t, KZ, e.Key)
}

func TestQueue_WaitContextShouldStopOnCancel(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := q.WaitContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueue_ShouldServeMultipleWaiters(t *testing.T) {
	q := NewQueue()
	const waiters = 4

	var got atomic.Int32
	var wg sync.WaitGroup
	wg.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			defer wg.Done()
			if _, ok := q.Wait(2 * time.Second); ok {
				got.Add(1)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	for i := 0; i < waiters; i++ {
		q.Post(keyDown(KA))
	}
	wg.Wait()
	assert.Equal(t, int32(waiters), got.Load())
}

func TestQueue_LastEventTimeShouldTrackDeliveries(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	q := NewQueue()
	q.now = clock.Now
	q.last = clock.Now()

	clock.Advance(3 * time.Second)
	assert.Equal(t, 3*time.Second, q.LastEventTime())

	q.Post(keyDown(KA))
	require.Len(t, q.Get(), 1)
	assert.Equal(t, time.Duration(0), q.LastEventTime())

	clock.Advance(5 * time.Second)
	assert.Equal(t, 5*time.Second, q.LastEventTime())

	// Empty retrievals leave the timer alone.
	q.Get()
	q.Poll()
	q.Wait(0)
	assert.Equal(t, 5*time.Second, q.LastEventTime())

	q.Post(keyDown(KB))
	q.Poll()
	assert.Equal(t, time.Duration(0), q.LastEventTime())
}

func TestQueue_PeekShouldNotConsume(t *testing.T) {
	q := NewQueue()
	assert.False(t, q.Peek())
	assert.False(t, q.Peek(KeyDown))

	q.Post(keyDown(KA))
	assert.True(t, q.Peek())
	assert.True(t, q.Peek(KeyDown))
	assert.Equal(t, 1, q.Len())
}

func TestQueue_PeekShouldIgnoreTypes(t *testing.T) {
	q := NewQueue()
	q.Post(Event{Type: MouseMotion})

	assert.True(t, q.Peek(KeyDown))
	assert.True(t, q.Peek(KeyUp, VideoResize))
	assert.Equal(t, 1, q.Len())
}

func TestQueue_ClearShouldDiscardPending(t *testing.T) {
	q := NewQueue()
	q.Post(keyDown(KA))
	q.Post(keyDown(KB))
	q.Clear()

	assert.Equal(t, NoEvent, q.Poll().Type)
}

func TestQueue_GrabShouldBeIgnored(t *testing.T) {
	q := NewQueue()
	q.SetGrab(true)
	assert.False(t, q.Grab())
}

func TestQueue_GetShouldMergeSourceAfterQueue(t *testing.T) {
	q := NewQueue()
	q.SetSource(SourceFunc(func() []Event {
		return []Event{{Type: VideoExpose}, keyDown(KQ)}
	}))
	q.SetBlocked(KeyDown)
	q.Post(NewActiveEvent(true, AppActive))

	// The blocked KeyDown from the source is discarded like a posted one.
	events := q.Get()
	require.Len(t, events, 2)
	assert.Equal(t, ActiveEvent, events[0].Type)
	assert.Equal(t, VideoExpose, events[1].Type)
}

func TestQueue_PumperMayPostReentrantly(t *testing.T) {
	q := NewQueue()
	var pumps atomic.Int32
	q.SetPumper(PumpFunc(func() {
		pumps.Add(1)
		q.Post(keyDown(KP))
	}))

	e := q.Poll()
	assert.Equal(t, KP, e.Key)

	e, ok := q.Wait(time.Second)
	require.True(t, ok)
	assert.Equal(t, KP, e.Key)

	assert.Len(t, q.Get(), 1)
	assert.Equal(t, int32(3), pumps.Load())

	q.SetPumper(nil)
	assert.Empty(t, q.Get())
}

func TestEvent_ShouldCopyAttributes(t *testing.T) {
	attrs := map[string]any{"token": 7}
	e := NewEvent(CaptureLoad, attrs)
	attrs["token"] = 8

	v, ok := e.Attr("token")
	require.True(t, ok)
	assert.Equal(t, 7, v)

	got := e.Attrs()
	got["token"] = 9
	v, _ = e.Attr("token")
	assert.Equal(t, 7, v)

	assert.Contains(t, e.String(), "CaptureLoad")
	assert.Contains(t, e.String(), "token: 7")
}

func TestEvent_TypeNames(t *testing.T) {
	assert.Equal(t, "KeyDown", KeyDown.String())
	assert.Equal(t, "UserEvent", (UserEvent + 3).String())
	assert.Equal(t, "Unknown", Type(500).String())
	assert.Equal(t, NoEvent, Event{}.Type)
}
