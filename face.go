package gamebridge

import (
	"fmt"
	"image"
	"os"
	"sort"

	"github.com/esimov/gamebridge/utils"
	pigo "github.com/esimov/pigo/core"
)

// Face is a detected face region.
type Face struct {
	Rect  image.Rectangle
	Score float32
}

// FaceDetector finds faces in captured images with a pigo cascade.
type FaceDetector struct {
	classifier *pigo.Pigo

	// MinSize is the smallest face side in pixels that is searched for.
	MinSize int
	// Angle rotates the search window, in the range [0, 1].
	Angle float64
	// Threshold is the minimum detection score reported.
	Threshold float32
}

// NewFaceDetector unpacks a binary cascade file.
func NewFaceDetector(cascade []byte) (fd *FaceDetector, err error) {
	// Unpack indexes the packet without bounds checks.
	defer func() {
		if r := recover(); r != nil {
			fd, err = nil, fmt.Errorf("error unpacking the cascade file: truncated cascade (%v)", r)
		}
	}()
	// Unpack returns the number of cascade trees, the tree depth, the
	// threshold and the prediction from the leaf nodes.
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the cascade file: %w", err)
	}
	return &FaceDetector{
		classifier: classifier,
		MinSize:    20,
		Threshold:  5.0,
	}, nil
}

// LoadFaceDetector reads and unpacks the cascade file at path.
func LoadFaceDetector(path string) (*FaceDetector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read the cascade file: %w", err)
	}
	return NewFaceDetector(data)
}

// Detect returns the faces found in img, best first.
func (d *FaceDetector) Detect(img image.Image) []Face {
	b := img.Bounds()
	cols, rows := b.Dx(), b.Dy()
	if cols == 0 || rows == 0 {
		return nil
	}
	if b.Min != (image.Point{}) {
		img = SurfaceFromImage(img).Image()
	}

	params := pigo.CascadeParams{
		MinSize:     utils.Min(d.MinSize, cols, rows),
		MaxSize:     utils.Max(cols, rows),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(img),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(params, d.Angle)
	// Merge overlapping detections by intersection over union.
	return facesFrom(d.classifier.ClusterDetections(dets, 0.2), d.Threshold)
}

// facesFrom keeps the detections scoring at least threshold, best first.
func facesFrom(dets []pigo.Detection, threshold float32) []Face {
	var faces []Face
	for _, det := range dets {
		if det.Q < threshold {
			continue
		}
		half := det.Scale / 2
		faces = append(faces, Face{
			Rect:  image.Rect(det.Col-half, det.Row-half, det.Col+half, det.Row+half),
			Score: det.Q,
		})
	}
	sort.SliceStable(faces, func(i, j int) bool { return faces[i].Score > faces[j].Score })
	return faces
}
