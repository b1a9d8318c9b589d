package gamebridge

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/esimov/gamebridge/utils"
)

// Capture source names with a special meaning. Any other source is a file
// path or an http(s) URL.
const (
	SourceTest   = "test"
	SourceCamera = "camera"
)

var sourceAliases = map[string]string{
	"test":    SourceTest,
	"testing": SourceTest,
	"camera":  SourceCamera,
	"webcam":  SourceCamera,
}

var formatAliases = map[string]imaging.Format{
	"png":  imaging.PNG,
	"jpeg": imaging.JPEG,
	"jpg":  imaging.JPEG,
	"bmp":  imaging.BMP,
}

// CaptureRequest describes a single snapshot.
type CaptureRequest struct {
	// Source is SourceTest, a file path or a URL. Empty means the capturer default.
	Source string
	// Format is the intermediate file encoding: png (default), jpeg, jpg or bmp.
	Format string
	// Size, if non-zero, scales the snapshot to fit within it.
	Size image.Point
	// Token is returned untouched in the result and in the posted event.
	Token any
}

// CaptureResult is the outcome of a snapshot.
type CaptureResult struct {
	Token    any
	Filename string
	Image    *Surface
	Faces    []Face
	Err      error
}

// Event converts the result into a CaptureLoad or CaptureLoadFail event.
func (r CaptureResult) Event() Event {
	attrs := map[string]any{
		"token":    r.Token,
		"filename": r.Filename,
		"success":  r.Err == nil,
		"image":    r.Image,
		"err":      r.Err,
		"faces":    r.Faces,
	}
	if r.Err != nil {
		return NewEvent(CaptureLoadFail, attrs)
	}
	return NewEvent(CaptureLoad, attrs)
}

// CaptureOptions configures a Capturer.
type CaptureOptions struct {
	// Dir receives the intermediate snapshot files.
	Dir string
	// Workers is the number of concurrent snapshots.
	Workers int
	// DefaultSource is used by requests with an empty Source.
	DefaultSource string
	// Detector, if set, annotates every snapshot with the faces it finds.
	Detector *FaceDetector
}

type captureJob struct {
	req CaptureRequest
}

// Capturer takes snapshots on a pool of background workers and reports
// asynchronous results to the game as events.
type Capturer struct {
	q    *Queue
	opts CaptureOptions

	jobs   chan captureJob
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCapturer starts the worker pool. Results of SnapAsync are posted to q.
func NewCapturer(q *Queue, opts CaptureOptions) (*Capturer, error) {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Dir == "" {
		opts.Dir = os.TempDir()
	}
	if opts.DefaultSource == "" {
		opts.DefaultSource = SourceTest
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create capture directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Capturer{
		q:      q,
		opts:   opts,
		jobs:   make(chan captureJob, opts.Workers),
		ctx:    ctx,
		cancel: cancel,
	}
	c.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go func() {
			defer c.wg.Done()
			c.consumer()
		}()
	}
	return c, nil
}

// consumer runs queued snapshots until the capturer is closed.
func (c *Capturer) consumer() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case job := <-c.jobs:
			res, _ := c.Snap(c.ctx, job.req)
			if c.ctx.Err() != nil {
				return
			}
			if res.Err != nil {
				Logger().Warn("capture failed", "source", job.req.Source, "err", res.Err)
			}
			c.q.Post(res.Event())
		}
	}
}

// SnapAsync queues a snapshot. Its result arrives later as a CaptureLoad or
// CaptureLoadFail event carrying req.Token. While every worker is busy it
// blocks until a slot frees up, ctx is done or the capturer is closed.
func (c *Capturer) SnapAsync(ctx context.Context, req CaptureRequest) error {
	if c.ctx.Err() != nil {
		return ErrCapturerClosed
	}
	select {
	case c.jobs <- captureJob{req: req}:
		return nil
	case <-c.ctx.Done():
		return ErrCapturerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snap takes a snapshot in the calling goroutine.
func (c *Capturer) Snap(ctx context.Context, req CaptureRequest) (CaptureResult, error) {
	res := CaptureResult{Token: req.Token}
	res.Filename, res.Image, res.Err = c.snap(ctx, req)
	if res.Err == nil && c.opts.Detector != nil {
		res.Faces = c.opts.Detector.Detect(res.Image.Image())
	}
	return res, res.Err
}

func (c *Capturer) snap(ctx context.Context, req CaptureRequest) (string, *Surface, error) {
	format, err := captureFormat(req.Format)
	if err != nil {
		return "", nil, err
	}

	img, err := c.acquire(ctx, req)
	if err != nil {
		return "", nil, err
	}
	if req.Size.X > 0 && req.Size.Y > 0 {
		img = imaging.Fit(img, req.Size.X, req.Size.Y, imaging.Lanczos)
	}
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	// The snapshot goes through an encoded file, so the game sees exactly
	// what a stored capture would contain.
	ext := strings.ToLower(strings.TrimPrefix(req.Format, "."))
	if ext == "" {
		ext = "png"
	}
	f, err := os.CreateTemp(c.opts.Dir, "snap-*."+ext)
	if err != nil {
		return "", nil, fmt.Errorf("unable to create snapshot file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if err := imaging.Encode(f, img, format); err != nil {
		f.Close()
		return name, nil, fmt.Errorf("unable to encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return name, nil, err
	}

	loaded, err := imaging.Open(name)
	if err != nil {
		return name, nil, fmt.Errorf("unable to load snapshot: %w", err)
	}
	return name, SurfaceFromImage(loaded), nil
}

func (c *Capturer) acquire(ctx context.Context, req CaptureRequest) (image.Image, error) {
	src := req.Source
	if src == "" {
		src = c.opts.DefaultSource
	}
	switch sourceAliases[strings.ToLower(src)] {
	case SourceTest:
		size := req.Size
		if size.X <= 0 || size.Y <= 0 {
			size = image.Pt(320, 240)
		}
		return testPattern(size), nil
	case SourceCamera:
		return nil, fmt.Errorf("%w: %s", ErrNoCaptureDevice, src)
	}

	if utils.IsValidUrl(src) {
		f, err := utils.DownloadImage(ctx, src, c.opts.Dir)
		if err != nil {
			return nil, err
		}
		defer os.Remove(f.Name())
		defer f.Close()

		img, err := imaging.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("could not decode %s: %w", src, err)
		}
		return img, nil
	}

	img, err := imaging.Open(filepath.Clean(src))
	if err != nil {
		return nil, fmt.Errorf("could not open capture source: %w", err)
	}
	return img, nil
}

func captureFormat(name string) (imaging.Format, error) {
	if name == "" {
		return imaging.PNG, nil
	}
	f, ok := formatAliases[strings.ToLower(strings.TrimPrefix(name, "."))]
	if !ok {
		return 0, fmt.Errorf("unsupported snapshot format %q", name)
	}
	return f, nil
}

// testBars are the colour bars of the generated test picture.
var testBars = []color.NRGBA{
	{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff},
	{R: 0xc0, G: 0xc0, B: 0x00, A: 0xff},
	{R: 0x00, G: 0xc0, B: 0xc0, A: 0xff},
	{R: 0x00, G: 0xc0, B: 0x00, A: 0xff},
	{R: 0xc0, G: 0x00, B: 0xc0, A: 0xff},
	{R: 0xc0, G: 0x00, B: 0x00, A: 0xff},
	{R: 0x00, G: 0x00, B: 0xc0, A: 0xff},
}

func testPattern(size image.Point) image.Image {
	img := imaging.New(size.X, size.Y, color.NRGBA{A: 0xff})
	w := (size.X + len(testBars) - 1) / len(testBars)
	for i, c := range testBars {
		img = imaging.Paste(img, imaging.New(w, size.Y, c), image.Pt(i*w, 0))
	}
	return img
}

// Close cancels the snapshots in flight and stops the workers. Queued
// snapshots that have not started are dropped. It is safe to call twice.
func (c *Capturer) Close() {
	c.cancel()
	c.wg.Wait()
}
