package gamebridge

import (
	"image"
	"sync"
	"sync/atomic"
)

// Display is the game's window surface. The game draws into Surface and calls
// Flip; the host receives finished frames from Frames and paints the latest.
//
// Display is also a Source: when the host reports that the window contents
// were lost, the next Get delivers a VideoExpose event.
type Display struct {
	surface *Surface
	frames  chan *image.RGBA

	mu      sync.Mutex
	caption string

	exposed atomic.Bool
	flips   atomic.Int64
}

// NewDisplay creates a display of the given size.
func NewDisplay(size image.Point) *Display {
	return &Display{
		surface: NewSurface(size.X, size.Y),
		frames:  make(chan *image.RGBA, 1),
	}
}

// Surface returns the surface the game draws on.
func (d *Display) Surface() *Surface { return d.surface }

// Size returns the display dimensions.
func (d *Display) Size() image.Point { return d.surface.Size() }

// Flip publishes a copy of the current surface. It never blocks: a frame the
// host has not picked up yet is replaced by the newer one.
func (d *Display) Flip() {
	frame := d.surface.Clone().img
	for {
		select {
		case d.frames <- frame:
			d.flips.Add(1)
			return
		default:
		}
		select {
		case <-d.frames:
		default:
		}
	}
}

// Frames delivers flipped frames to the host.
func (d *Display) Frames() <-chan *image.RGBA { return d.frames }

// Flips returns the number of frames published so far.
func (d *Display) Flips() int64 { return d.flips.Load() }

// SetCaption sets the window title requested by the game.
func (d *Display) SetCaption(s string) {
	d.mu.Lock()
	d.caption = s
	d.mu.Unlock()
}

// Caption returns the requested window title.
func (d *Display) Caption() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.caption
}

// Expose marks the window contents as lost. Called by the host.
func (d *Display) Expose() {
	d.exposed.Store(true)
}

// Drain implements Source.
func (d *Display) Drain() []Event {
	if d.exposed.Swap(false) {
		return []Event{{Type: VideoExpose}}
	}
	return nil
}
