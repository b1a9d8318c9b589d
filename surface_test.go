package gamebridge

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/esimov/gamebridge/imop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

func TestSurface_ShouldFillAndClipRectangles(t *testing.T) {
	s := NewSurface(10, 10)
	s.Fill(red)
	s.FillRect(image.Rect(5, 5, 20, 20), green)

	assert.Equal(t, red, s.Image().RGBAAt(4, 4))
	assert.Equal(t, green, s.Image().RGBAAt(9, 9))
	assert.Equal(t, image.Pt(10, 10), s.Size())
}

func TestSurface_ShouldFillCircles(t *testing.T) {
	s := NewSurface(20, 20)
	s.FillCircle(image.Pt(10, 10), 5, white)

	assert.Equal(t, white, s.Image().RGBAAt(10, 10))
	assert.Equal(t, white, s.Image().RGBAAt(6, 10))
	assert.Equal(t, color.RGBA{}, s.Image().RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{}, s.Image().RGBAAt(0, 0))

	s.FillCircle(image.Pt(2, 2), 0, white)
	assert.Equal(t, color.RGBA{}, s.Image().RGBAAt(2, 2))
}

func TestSurface_CloneShouldBeIndependent(t *testing.T) {
	s := NewSurface(4, 4)
	s.Fill(red)
	c := s.Clone()
	s.Fill(green)

	assert.Equal(t, red, c.Image().RGBAAt(0, 0))
}

func TestSurface_ShouldBlitImages(t *testing.T) {
	dst := NewSurface(8, 8)
	dst.Fill(red)
	src := NewSurface(2, 2)
	src.Fill(green)

	dst.Blit(src.Image(), image.Pt(3, 3))
	assert.Equal(t, green, dst.Image().RGBAAt(3, 4))
	assert.Equal(t, red, dst.Image().RGBAAt(5, 5))

	require.NoError(t, dst.BlitComposite(src.Image(), image.Pt(0, 0), imop.DstOver, imop.Normal))
	assert.Equal(t, red, dst.Image().RGBAAt(0, 0))
	require.NoError(t, dst.BlitComposite(src.Image(), image.Pt(0, 0), imop.Copy, imop.Normal))
	assert.Equal(t, green, dst.Image().RGBAAt(0, 0))
}

func TestSurface_FromImageShouldRebaseOrigin(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 9, 7))
	img.Set(5, 5, red)

	s := SurfaceFromImage(img)
	assert.Equal(t, image.Rect(0, 0, 4, 2), s.Bounds())
	assert.Equal(t, red, s.Image().RGBAAt(0, 0))
}

func TestDisplay_FlipShouldKeepOnlyTheLatestFrame(t *testing.T) {
	d := NewDisplay(image.Pt(4, 3))
	d.Surface().Fill(red)
	d.Flip()
	d.Surface().Fill(green)
	d.Flip()

	frame := <-d.Frames()
	assert.Equal(t, green, frame.RGBAAt(0, 0))
	assert.Equal(t, int64(2), d.Flips())
	select {
	case <-d.Frames():
		t.Fatal("stale frame still pending")
	default:
	}

	d.Surface().Fill(red)
	assert.Equal(t, green, frame.RGBAAt(0, 0), "flipped frames must not alias the surface")
}

func TestDisplay_ShouldReportExposeOnce(t *testing.T) {
	d := NewDisplay(image.Pt(1, 1))
	assert.Empty(t, d.Drain())

	d.Expose()
	d.Expose()
	assert.Equal(t, []Event{{Type: VideoExpose}}, d.Drain())
	assert.Empty(t, d.Drain())

	d.SetCaption("Maze")
	assert.Equal(t, "Maze", d.Caption())
}

func TestFont_ShouldRenderText(t *testing.T) {
	f, err := NewFont(16)
	require.NoError(t, err)
	defer f.Close()

	size := f.Size("Level 1")
	assert.Greater(t, size.X, 0)
	assert.Greater(t, size.Y, 0)
	assert.Greater(t, f.Size("Level 10").X, size.X)

	s := f.Render("Level 1", white, red)
	assert.Equal(t, size, s.Size())

	var lit bool
	img := s.Image()
	for y := 0; y < size.Y && !lit; y++ {
		for x := 0; x < size.X; x++ {
			if c := img.RGBAAt(x, y); c.G > 0 {
				lit = true
				break
			}
		}
	}
	assert.True(t, lit, "no glyph pixels drawn")
}

func TestFont_ShouldRejectBadInput(t *testing.T) {
	_, err := NewFont(0)
	assert.Error(t, err)

	_, err = LoadFont(filepath.Join(t.TempDir(), "missing.ttf"), 12)
	assert.ErrorContains(t, err, "could not read font file")
}

func TestSprite_ShouldLoadAndFit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.png")
	require.NoError(t, imaging.Save(imaging.New(30, 60, green), path))

	s, err := LoadSprite(path, image.Pt(10, 10))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(5, 10), s.Size())

	s, err = LoadSprite(path, image.Point{})
	require.NoError(t, err)
	assert.Equal(t, image.Pt(30, 60), s.Size())

	_, err = LoadSprite(filepath.Join(t.TempDir(), "none.png"), image.Point{})
	assert.Error(t, err)
}

func TestSurface_GrayscaleAndBlurShouldReturnCopies(t *testing.T) {
	s := NewSurface(20, 10)
	s.Fill(red)
	s.FillRect(image.Rect(10, 0, 20, 10), white)

	g := s.Grayscale()
	c := g.Image().RGBAAt(2, 2)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.G, c.B)
	assert.Equal(t, red, s.Image().RGBAAt(2, 2))

	b := s.Blurred(2)
	assert.Equal(t, s.Bounds(), b.Bounds())
	edge := b.Image().RGBAAt(10, 5)
	assert.Greater(t, edge.G, uint8(0))
	assert.Less(t, edge.G, uint8(0xff))
}
