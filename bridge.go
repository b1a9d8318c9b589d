package gamebridge

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Game is the entry point of a game. It runs on its own goroutine and should
// return when it receives a Quit event or ctx is cancelled.
type Game func(ctx context.Context, b *Bridge) error

// active guards the one-bridge-per-process rule.
var active atomic.Bool

// Bridge ties together the pieces a game needs: the event queue, the
// translator feeding it, the display and the capturer. Only one Bridge may be
// open in a process at a time.
type Bridge struct {
	cfg        Config
	queue      *Queue
	translator *Translator
	display    *Display
	capture    *Capturer

	ctx    context.Context
	cancel context.CancelFunc

	startOnce sync.Once
	closeOnce sync.Once
	started   atomic.Bool
	done      chan struct{}

	mu  sync.Mutex
	err error
}

// New validates cfg, filling empty fields with defaults, and opens the bridge.
// It returns ErrBridgeActive while another bridge is open.
func New(cfg Config) (*Bridge, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !active.CompareAndSwap(false, true) {
		return nil, ErrBridgeActive
	}

	b, err := newBridge(cfg)
	if err != nil {
		active.Store(false)
		return nil, err
	}
	return b, nil
}

func newBridge(cfg Config) (*Bridge, error) {
	var detector *FaceDetector
	if cfg.Cascade != "" {
		d, err := LoadFaceDetector(cfg.Cascade)
		if err != nil {
			return nil, err
		}
		detector = d
	}

	q := NewQueue()
	display := NewDisplay(cfg.Size)
	display.SetCaption(cfg.Title)
	q.SetSource(display)

	capture, err := NewCapturer(q, CaptureOptions{
		Dir:           cfg.CaptureDir,
		Workers:       cfg.CaptureWorkers,
		DefaultSource: cfg.CaptureSource,
		Detector:      detector,
	})
	if err != nil {
		return nil, err
	}

	tr := NewTranslator(q)
	tr.Install()

	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		cfg:        cfg,
		queue:      q,
		translator: tr,
		display:    display,
		capture:    capture,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}, nil
}

// Config returns the effective configuration.
func (b *Bridge) Config() Config { return b.cfg }

// Events returns the event API the game polls.
func (b *Bridge) Events() Events { return b.queue }

// Queue returns the underlying event queue.
func (b *Bridge) Queue() *Queue { return b.queue }

// Translator returns the translator a host hooks to its window.
func (b *Bridge) Translator() *Translator { return b.translator }

// Display returns the game display.
func (b *Bridge) Display() *Display { return b.display }

// Capture returns the snapshot service.
func (b *Bridge) Capture() *Capturer { return b.capture }

// Start runs game on a new goroutine. Only the first call has any effect.
// A failing or panicking game is logged with its stack and reported by Err.
func (b *Bridge) Start(game Game) {
	b.startOnce.Do(func() {
		b.started.Store(true)
		Logger().Info("game worker starting")
		go b.run(game)
	})
}

func (b *Bridge) run(game Game) {
	defer close(b.done)

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.Errorf("game panicked: %v", r)
			}
		}()
		if err := game(b.ctx, b); err != nil {
			return errors.WithStack(err)
		}
		return nil
	}()

	if err != nil && !errors.Is(err, context.Canceled) {
		Logger().Error("game worker failed", "err", fmt.Sprintf("%+v", err))
		b.mu.Lock()
		b.err = err
		b.mu.Unlock()
		return
	}
	Logger().Info("game worker finished")
}

// Done is closed once the game returns.
func (b *Bridge) Done() <-chan struct{} { return b.done }

// Err returns the error the game failed with, if any.
func (b *Bridge) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Stop asks the game to finish by posting Quit and cancelling its context.
func (b *Bridge) Stop() {
	b.queue.Post(Event{Type: Quit})
	b.cancel()
}

// Close stops the game, waits for it, releases the capturer and the
// translator, and allows a new Bridge to be opened. It returns the game error.
func (b *Bridge) Close() error {
	b.closeOnce.Do(func() {
		b.Stop()
		if b.started.Load() {
			<-b.done
		}
		b.capture.Close()
		b.translator.Unhook()
		active.Store(false)
	})
	return b.Err()
}
