package gamebridge

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Font renders single lines of text into surfaces.
type Font struct {
	mu      sync.Mutex
	face    font.Face
	metrics font.Metrics
}

// NewFont returns the built-in Go Regular face at the given point size.
func NewFont(size float64) (*Font, error) {
	return parseFont(goregular.TTF, size)
}

// LoadFont loads a TrueType or OpenType font file.
func LoadFont(path string, size float64) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read font file: %w", err)
	}
	return parseFont(data, size)
}

func parseFont(data []byte, size float64) (*Font, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %v", size)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create font face: %w", err)
	}
	return &Font{face: face, metrics: face.Metrics()}, nil
}

// Size returns the pixel dimensions Render would produce for text.
func (f *Font) Size(text string) image.Point {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size(text)
}

func (f *Font) size(text string) image.Point {
	w := font.MeasureString(f.face, text).Ceil()
	h := (f.metrics.Ascent + f.metrics.Descent).Ceil()
	return image.Pt(w, h)
}

// Render draws text in fg onto a new surface. A nil bg leaves the
// background transparent.
func (f *Font) Render(text string, fg, bg color.Color) *Surface {
	f.mu.Lock()
	defer f.mu.Unlock()

	sz := f.size(text)
	s := NewSurface(sz.X, sz.Y)
	if bg != nil {
		s.Fill(bg)
	}
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(fg),
		Face: f.face,
		Dot:  fixed.Point26_6{X: 0, Y: f.metrics.Ascent},
	}
	d.DrawString(text)
	return s
}

// Close releases the font face.
func (f *Font) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.Close()
}
