package gamebridge

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/esimov/gamebridge/utils"
)

// maxCaptureWorkers caps the number of concurrent snapshots.
const maxCaptureWorkers = 20

// Hosts that can run a game.
const (
	HostGio    = "gio"
	HostEbiten = "ebiten"
)

// Config holds the settings of a Bridge.
type Config struct {
	// Title is the initial window title.
	Title string
	// Size is the game area in pixels.
	Size image.Point
	// FPS is the frame rate the host repaints at while the game runs.
	FPS int
	// Host selects the toolkit the game runs in.
	Host string

	// CaptureDir receives intermediate snapshot files.
	CaptureDir string
	// CaptureWorkers is the number of concurrent snapshots.
	CaptureWorkers int
	// CaptureSource is the default snapshot source.
	CaptureSource string
	// Cascade is the path of a pigo face cascade. Face detection is off when empty.
	Cascade string
}

// DefaultConfig returns the settings used when a field is left empty.
func DefaultConfig() Config {
	return Config{
		Title:          "Game",
		Size:           image.Pt(1200, 825),
		FPS:            30,
		Host:           HostGio,
		CaptureDir:     filepath.Join(os.TempDir(), "gamebridge"),
		CaptureWorkers: utils.Min(runtime.NumCPU(), maxCaptureWorkers),
		CaptureSource:  SourceTest,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.Size == (image.Point{}) {
		c.Size = d.Size
	}
	if c.FPS == 0 {
		c.FPS = d.FPS
	}
	if c.Host == "" {
		c.Host = d.Host
	}
	if c.CaptureDir == "" {
		c.CaptureDir = d.CaptureDir
	}
	if c.CaptureWorkers == 0 {
		c.CaptureWorkers = d.CaptureWorkers
	}
	if c.CaptureSource == "" {
		c.CaptureSource = d.CaptureSource
	}
	return c
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Size.X <= 0 || c.Size.Y <= 0:
		return fmt.Errorf("%w: size must be positive, got %v", ErrInvalidConfig, c.Size)
	case c.FPS <= 0 || c.FPS > 240:
		return fmt.Errorf("%w: fps must be in (0, 240], got %d", ErrInvalidConfig, c.FPS)
	case c.CaptureWorkers <= 0 || c.CaptureWorkers > maxCaptureWorkers:
		return fmt.Errorf("%w: capture workers must be in (0, %d], got %d", ErrInvalidConfig, maxCaptureWorkers, c.CaptureWorkers)
	}
	switch strings.ToLower(c.Host) {
	case HostGio, HostEbiten:
	default:
		return fmt.Errorf("%w: unknown host %q", ErrInvalidConfig, c.Host)
	}
	return nil
}
