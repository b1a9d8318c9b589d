package gamebridge

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/esimov/gamebridge/imop"
)

// Surface is an RGBA drawing target. A Surface is not safe for concurrent use;
// the game goroutine owns it and hands finished frames over with Display.Flip.
type Surface struct {
	img *image.RGBA
}

// NewSurface returns a transparent surface of the given size.
func NewSurface(w, h int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// SurfaceFromImage copies img into a new surface whose origin is (0, 0).
func SurfaceFromImage(img image.Image) *Surface {
	b := img.Bounds()
	s := NewSurface(b.Dx(), b.Dy())
	draw.Draw(s.img, s.img.Bounds(), img, b.Min, draw.Src)
	return s
}

// Image exposes the backing image.
func (s *Surface) Image() *image.RGBA { return s.img }

// Bounds returns the surface rectangle.
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// Size returns the surface dimensions.
func (s *Surface) Size() image.Point { return s.img.Bounds().Size() }

// Clone returns a deep copy of the surface.
func (s *Surface) Clone() *Surface {
	c := &Surface{img: image.NewRGBA(s.img.Rect)}
	copy(c.img.Pix, s.img.Pix)
	return c
}

// Fill paints the whole surface with c.
func (s *Surface) Fill(c color.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// FillRect paints r, clipped to the surface, with c.
func (s *Surface) FillRect(r image.Rectangle, c color.Color) {
	draw.Draw(s.img, r.Intersect(s.img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// FillCircle paints a disc of the given radius centred at center.
func (s *Surface) FillCircle(center image.Point, radius int, c color.Color) {
	if radius <= 0 {
		return
	}
	r := image.Rect(center.X-radius, center.Y-radius, center.X+radius, center.Y+radius)
	draw.DrawMask(s.img, r, image.NewUniform(c), image.Point{}, disc{center, radius}, r.Min, draw.Over)
}

// Blit draws src over the surface with its top-left corner at pt.
func (s *Surface) Blit(src image.Image, pt image.Point) {
	b := src.Bounds()
	draw.Draw(s.img, image.Rectangle{Min: pt, Max: pt.Add(b.Size())}, src, b.Min, draw.Over)
}

// BlitComposite draws src at pt using a Porter-Duff operator and blend mode.
func (s *Surface) BlitComposite(src image.Image, pt image.Point, op imop.Op, mode imop.Mode) error {
	return imop.Composite(s.img, src, pt, op, mode)
}

// Blurred returns a copy of the surface with a Gaussian blur of the given sigma.
func (s *Surface) Blurred(sigma float64) *Surface {
	return SurfaceFromImage(imaging.Blur(s.img, sigma))
}

// Grayscale returns a grayscale copy of the surface.
func (s *Surface) Grayscale() *Surface {
	return SurfaceFromImage(imaging.Grayscale(s.img))
}

// disc is an alpha mask that is opaque inside a circle.
type disc struct {
	c image.Point
	r int
}

func (d disc) ColorModel() color.Model { return color.AlphaModel }

func (d disc) Bounds() image.Rectangle {
	return image.Rect(d.c.X-d.r, d.c.Y-d.r, d.c.X+d.r, d.c.Y+d.r)
}

func (d disc) At(x, y int) color.Color {
	xx, yy, rr := float64(x-d.c.X)+0.5, float64(y-d.c.Y)+0.5, float64(d.r)
	if xx*xx+yy*yy < rr*rr {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}
