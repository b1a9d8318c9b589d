package gamebridge

import (
	"image"
	"image/color"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var defaultBkgColor = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}

// Canvas hosts a Bridge in a Gio window. The game area is centred in the
// window and the translator is hooked over it.
type Canvas struct {
	b   *Bridge
	ops op.Ops

	frame   *image.RGBA
	src     paint.ImageOp
	caption string

	// Background fills the window around the game area.
	Background color.NRGBA
}

// NewCanvas creates a canvas for b.
func NewCanvas(b *Bridge) *Canvas {
	return &Canvas{b: b, Background: defaultBkgColor}
}

// Run opens the window, starts game and processes window events until the
// window is destroyed. The window closes by itself once the game returns.
// Like any Gio window loop it must run on a goroutine other than the one
// calling app.Main.
func (c *Canvas) Run(game Game) error {
	size := c.b.cfg.Size
	c.caption = c.b.display.Caption()
	w := app.NewWindow(
		app.Title(c.caption),
		app.Size(unit.Dp(size.X), unit.Dp(size.Y)),
	)

	tr := c.b.translator
	if err := tr.Hook(w); err != nil {
		return err
	}
	defer tr.Unhook()

	c.b.Start(game)
	done := c.b.Done()

	for {
		select {
		case e := <-w.Events():
			switch e := e.(type) {
			case system.FrameEvent:
				gtx := layout.NewContext(&c.ops, e)
				c.draw(gtx)
				e.Frame(gtx.Ops)
			case system.StageEvent:
				tr.Dispatch(e)
				if e.Stage == system.StageRunning {
					c.b.display.Expose()
				}
			case system.DestroyEvent:
				tr.Dispatch(e)
				return e.Err
			}
		case img := <-c.b.display.Frames():
			c.frame = img
			c.src = paint.NewImageOp(img)
			if caption := c.b.display.Caption(); caption != c.caption {
				c.caption = caption
				w.Option(app.Title(caption))
			}
			w.Invalidate()
		case <-done:
			done = nil
			w.Perform(system.ActionClose)
		}
	}
}

// gameArea returns the rectangle of the game surface, centred in a window of the given size.
func (c *Canvas) gameArea(win image.Point) image.Rectangle {
	size := c.b.display.Size()
	off := win.Sub(size).Div(2)
	if off.X < 0 {
		off.X = 0
	}
	if off.Y < 0 {
		off.Y = 0
	}
	return image.Rectangle{Min: off, Max: off.Add(size)}
}

func (c *Canvas) draw(gtx C) D {
	paint.Fill(gtx.Ops, c.Background)

	area := c.gameArea(gtx.Constraints.Max)
	if c.frame != nil {
		tr := op.Affine(f32.Affine2D{}.Offset(layout.FPt(area.Min))).Push(gtx.Ops)
		cl := clip.Rect(image.Rectangle{Max: area.Size()}).Push(gtx.Ops)
		c.src.Add(gtx.Ops)
		paint.PaintOp{}.Add(gtx.Ops)
		cl.Pop()
		tr.Pop()
	}
	c.b.translator.Frame(gtx, area)

	return D{Size: gtx.Constraints.Max}
}
