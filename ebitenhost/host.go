// Package ebitenhost runs a gamebridge game inside an Ebitengine window.
// Unlike the Gio canvas, Ebitengine is polled: every tick the host samples
// the input state and posts the differences as events.
package ebitenhost

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	gb "github.com/esimov/gamebridge"
	"github.com/hajimehoshi/ebiten/v2"
)

// Host implements ebiten.Game on top of a Bridge.
type Host struct {
	b  *gb.Bridge
	in Input

	screen *ebiten.Image
	frame  *image.RGBA

	caption string
	outside image.Point

	focused bool
	closing bool
	hasPos  bool
	pos     image.Point
	held    [3]bool

	keys  []ebiten.Key
	runes []rune

	dropped atomic.Int64
}

var _ ebiten.Game = (*Host)(nil)

// New creates a host for b reading the live ebiten input.
func New(b *gb.Bridge) *Host {
	return newHost(b, ebitenInput{})
}

func newHost(b *gb.Bridge, in Input) *Host {
	return &Host{b: b, in: in, caption: b.Display().Caption()}
}

// Run opens the window, starts game and blocks until the window closes.
// It must be called from the main goroutine.
func (h *Host) Run(game gb.Game) error {
	cfg := h.b.Config()
	ebiten.SetWindowTitle(h.caption)
	ebiten.SetWindowSize(cfg.Size.X, cfg.Size.Y)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(cfg.FPS)

	h.b.Start(game)
	err := ebiten.RunGame(h)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update samples input and picks up the latest frame. It ends the run loop
// once the game has returned.
func (h *Host) Update() error {
	select {
	case <-h.b.Done():
		return ebiten.Termination
	default:
	}

	h.poll()

	select {
	case frame := <-h.b.Display().Frames():
		h.frame = frame
	default:
	}
	if c := h.b.Display().Caption(); c != h.caption {
		h.caption = c
		ebiten.SetWindowTitle(c)
	}
	return nil
}

// Draw paints the latest game frame.
func (h *Host) Draw(screen *ebiten.Image) {
	if h.frame == nil {
		return
	}
	size := h.frame.Rect.Size()
	if h.screen == nil || h.screen.Bounds().Size() != size {
		h.screen = ebiten.NewImage(size.X, size.Y)
	}
	h.screen.WritePixels(h.frame.Pix)
	screen.DrawImage(h.screen, nil)
}

// Layout keeps the logical screen at the game size. A change of the outside
// size is reported as VideoResize.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	out := image.Pt(outsideWidth, outsideHeight)
	if out != h.outside {
		if h.outside != (image.Point{}) {
			h.post(gb.NewResizeEvent(out))
		}
		h.outside = out
	}
	size := h.b.Display().Size()
	return size.X, size.Y
}

func (h *Host) post(e gb.Event) {
	gb.Logger().Debug("event posted", "event", e)
	h.b.Queue().Post(e)
}

// Dropped returns how many input conversions failed and were skipped.
func (h *Host) Dropped() int64 {
	return h.dropped.Load()
}

// contain runs one conversion step. A panic drops that step only, so the
// rest of the tick and the game carry on.
func (h *Host) contain(step string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			h.dropped.Add(1)
			gb.Logger().Warn("input conversion dropped", "step", step, "err", fmt.Errorf("conversion panic: %v", r))
		}
	}()
	fn()
}

// poll converts one tick of input into events.
func (h *Host) poll() {
	in := h.in

	h.contain("focus", func() {
		if f := in.Focused(); f != h.focused {
			h.focused = f
			h.post(gb.NewActiveEvent(f, gb.AppInputFocus))
		}
	})

	var mods gb.Mod
	h.contain("modifiers", func() { mods = in.Mods() })

	h.contain("key press", func() {
		h.keys = in.JustPressed(h.keys[:0])
		for _, k := range h.keys {
			h.contain("key press", func() {
				code, ok := keyCode(k)
				if !ok {
					gb.Logger().Debug("unmapped key dropped", "key", k.String())
					return
				}
				h.post(gb.NewKeyEvent(gb.KeyDown, code, mods, keyRune(code, mods)))
			})
		}
	})
	// Characters outside ASCII have no key code but still carry text.
	h.contain("text", func() {
		h.runes = in.Chars(h.runes[:0])
		for _, r := range h.runes {
			if r >= 0x80 {
				h.post(gb.NewKeyEvent(gb.KeyDown, gb.KUnknown, mods, r))
			}
		}
	})
	h.contain("key release", func() {
		h.keys = in.JustReleased(h.keys[:0])
		for _, k := range h.keys {
			if code, ok := keyCode(k); ok {
				h.post(gb.NewKeyEvent(gb.KeyUp, code, mods, 0))
			}
		}
	})

	h.contain("motion", func() {
		pos := in.Cursor()
		if !h.hasPos || pos != h.pos {
			var rel image.Point
			if h.hasPos {
				rel = pos.Sub(h.pos)
			}
			h.hasPos, h.pos = true, pos
			h.post(gb.NewMotionEvent(pos, rel, h.held))
		}
	})

	h.contain("buttons", func() {
		for i, mb := range mouseButtons {
			if in.ButtonPressed(mb.eb) {
				h.held[i] = true
				h.post(gb.NewButtonEvent(gb.MouseButtonDown, h.pos, mb.num))
			}
			if in.ButtonReleased(mb.eb) {
				h.held[i] = false
				h.post(gb.NewButtonEvent(gb.MouseButtonUp, h.pos, mb.num))
			}
		}
	})

	h.contain("wheel", func() {
		if y := in.Wheel(); y != 0 {
			btn := gb.ButtonWheelUp
			if y < 0 {
				btn = gb.ButtonWheelDown
			}
			h.post(gb.NewButtonEvent(gb.MouseButtonDown, h.pos, btn))
			h.post(gb.NewButtonEvent(gb.MouseButtonUp, h.pos, btn))
		}
	})

	h.contain("close", func() {
		if in.Closing() && !h.closing {
			h.closing = true
			gb.Logger().Info("window close requested")
			h.b.Stop()
		}
	})
}
