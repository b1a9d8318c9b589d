package gamebridge

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// LoadSprite decodes an image file into a surface. A non-zero size scales the
// image to fit within it, keeping the aspect ratio.
func LoadSprite(path string, size image.Point) (*Surface, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("could not load sprite %s: %w", path, err)
	}
	if size.X > 0 && size.Y > 0 {
		img = imaging.Fit(img, size.X, size.Y, imaging.Lanczos)
	}
	return SurfaceFromImage(img), nil
}
