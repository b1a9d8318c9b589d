package maze

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	gb "github.com/esimov/gamebridge"
	"github.com/esimov/gamebridge/imop"
	"github.com/esimov/gamebridge/utils"
)

const avatarToken = "avatar"

var (
	bgColor    = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	wallColor  = color.NRGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}
	trailColor = color.NRGBA{R: 0x40, G: 0x40, B: 0x60, A: 0xff}
	goalColor  = color.NRGBA{R: 0x00, G: 0xc0, B: 0x40, A: 0xff}
	textColor  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	dimColor   = color.NRGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xff}
)

var moveKeys = map[gb.Key]image.Point{
	gb.KUp:    {0, -1},
	gb.KDown:  {0, 1},
	gb.KLeft:  {-1, 0},
	gb.KRight: {1, 0},
	gb.KW:     {0, -1},
	gb.KS:     {0, 1},
	gb.KA:     {-1, 0},
	gb.KD:     {1, 0},
}

// Options configures a Game.
type Options struct {
	Nick   string
	Colors string
	Seed   int64
	// IdleTimeout pauses the game after this long without input. Zero never pauses.
	IdleTimeout time.Duration
	// CaptureSource is used for the player avatar. Empty uses the bridge default.
	CaptureSource string
}

// Game is the maze game loop.
type Game struct {
	opts Options
	now  func() time.Time
	ctx  context.Context

	b      *gb.Bridge
	font   *gb.Font
	maze   *Maze
	player *Player
	avatar *gb.Surface

	level   int
	started time.Time
	paused  bool
	// dt is the length of a frame in seconds.
	dt float32
}

// NewGame creates a game for a single player.
func NewGame(opts Options) (*Game, error) {
	if opts.Nick == "" {
		opts.Nick = "player"
	}
	p, err := NewPlayer(opts.Nick, opts.Colors)
	if err != nil {
		return nil, err
	}
	return &Game{opts: opts, player: p, now: time.Now}, nil
}

// Run is the game entry point; pass it to Bridge.Start or a host's Run.
func (g *Game) Run(ctx context.Context, b *gb.Bridge) error {
	font, err := gb.NewFont(18)
	if err != nil {
		return err
	}
	defer font.Close()

	g.attach(ctx, b, font)
	g.newLevel(1)

	ticker := time.NewTicker(time.Second / time.Duration(b.Config().FPS))
	defer ticker.Stop()

	q := b.Events()
	for {
		if g.idle(q) {
			g.paused = true
			g.draw()
			e, err := q.WaitContext(ctx)
			if err != nil {
				return err
			}
			if g.handle(e) {
				return nil
			}
			continue
		}

		for _, e := range q.Get() {
			if g.handle(e) {
				return nil
			}
		}
		g.update()
		g.draw()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (g *Game) attach(ctx context.Context, b *gb.Bridge, font *gb.Font) {
	g.ctx = ctx
	g.b = b
	g.font = font
	g.dt = 1 / float32(b.Config().FPS)
}

func (g *Game) idle(q gb.Events) bool {
	if g.paused {
		return true
	}
	if g.opts.IdleTimeout <= 0 || g.player.Direction != (image.Point{}) {
		return false
	}
	return q.LastEventTime() > g.opts.IdleTimeout
}

// cellSize shrinks the cells as the levels go up.
func cellSize(level int) int {
	return utils.Max(8, 48-8*(level-1))
}

func (g *Game) newLevel(level int) {
	size := g.b.Display().Size()
	cell := cellSize(level)
	w, h := size.X/cell, size.Y/cell
	if w%2 == 0 {
		w--
	}
	if h%2 == 0 {
		h--
	}

	g.level = level
	g.maze = New(w, h, g.opts.Seed+int64(level))
	g.player.Reset()
	g.started = g.now()
	g.b.Display().SetCaption(fmt.Sprintf("Maze: level %d", level))
	gb.Logger().Info("level started", "level", level, "width", g.maze.W, "height", g.maze.H)
}

// handle applies one event. It reports whether the game should end.
func (g *Game) handle(e gb.Event) bool {
	switch e.Type {
	case gb.Quit:
		return true
	case gb.KeyDown:
		g.paused = false
		return g.handleKey(e)
	case gb.MouseMotion:
		g.paused = false
	case gb.MouseButtonDown:
		g.paused = false
		if e.Button == gb.ButtonLeft {
			g.steer(g.cellAt(e.Pos))
		}
	case gb.ActiveEvent:
		if e.State&(gb.AppInputFocus|gb.AppActive) != 0 {
			g.paused = !e.Gain
		}
	case gb.CaptureLoad:
		if tok, _ := e.Attr("token"); tok == avatarToken {
			img, _ := e.Attr("image")
			if s, ok := img.(*gb.Surface); ok {
				g.avatar = s
			}
		}
	case gb.CaptureLoadFail:
		err, _ := e.Attr("err")
		gb.Logger().Warn("avatar capture failed", "err", err)
	}
	return false
}

func (g *Game) handleKey(e gb.Event) bool {
	if dir, ok := moveKeys[e.Key]; ok {
		if g.player.CanGo(dir, g.maze) {
			g.player.Direction = dir
		}
		return false
	}
	switch e.Key {
	case gb.KEscape:
		return true
	case gb.KEquals, gb.KPlus:
		g.newLevel(g.level + 1)
	case gb.KMinus:
		g.newLevel(utils.Max(1, g.level-1))
	case gb.KC:
		cell := cellSize(g.level)
		err := g.b.Capture().SnapAsync(g.ctx, gb.CaptureRequest{
			Source: g.opts.CaptureSource,
			Size:   image.Pt(cell, cell),
			Token:  avatarToken,
		})
		if err != nil {
			gb.Logger().Warn("avatar capture not started", "err", err)
		}
	}
	return false
}

// steer points the player toward a cell in a straight line from it.
func (g *Game) steer(target image.Point) {
	d := target.Sub(g.player.Position)
	var dir image.Point
	switch {
	case d.X == 0 && d.Y == 0:
		return
	case utils.Abs(d.X) >= utils.Abs(d.Y):
		dir.X = d.X / utils.Abs(d.X)
	default:
		dir.Y = d.Y / utils.Abs(d.Y)
	}
	if g.player.CanGo(dir, g.maze) {
		g.player.Direction = dir
	}
}

// origin returns the pixel offset that centres the maze on the display.
func (g *Game) origin() image.Point {
	cell := cellSize(g.level)
	return g.b.Display().Size().Sub(image.Pt(g.maze.W*cell, g.maze.H*cell)).Div(2)
}

// cellAt maps a display position to the nearest maze cell.
func (g *Game) cellAt(pos image.Point) image.Point {
	c := pos.Sub(g.origin()).Div(cellSize(g.level))
	return image.Pt(utils.Clamp(c.X, 0, g.maze.W-1), utils.Clamp(c.Y, 0, g.maze.H-1))
}

func (g *Game) update() {
	prev := g.player.Position
	pos := g.player.Animate(g.maze)
	if pos != prev {
		g.player.Glide(g.dt)
	}
	if pos == g.maze.Exit() && !g.player.Finished() {
		g.player.Finish(g.now().Sub(g.started))
		gb.Logger().Info("level solved", "level", g.level, "player", g.player.Nick,
			"elapsed", utils.FormatTime(*g.player.Elapsed))
		g.newLevel(g.level + 1)
	}
}

func (g *Game) draw() {
	s := g.b.Display().Surface()
	s.Fill(bgColor)

	cell := cellSize(g.level)
	org := g.origin()
	for y := 0; y < g.maze.H; y++ {
		for x := 0; x < g.maze.W; x++ {
			var c color.Color
			switch g.maze.At(x, y) {
			case Wall:
				c = wallColor
			case Seen:
				c = trailColor
			case Goal:
				c = goalColor
			default:
				continue
			}
			at := org.Add(image.Pt(x*cell, y*cell))
			s.FillRect(image.Rectangle{Min: at, Max: at.Add(image.Pt(cell, cell))}, c)
		}
	}

	px, py := g.player.DrawPos(g.dt)
	center := org.Add(image.Pt(int(px*float32(cell)), int(py*float32(cell)))).Add(image.Pt(cell/2, cell/2))
	if g.avatar != nil {
		s.Blit(g.avatar.Image(), center.Sub(g.avatar.Size().Div(2)))
	} else {
		r := cell * 2 / 5
		s.FillCircle(center, r, g.player.Colors[0])
		if len(g.player.Colors) > 1 {
			s.FillCircle(center, r*2/3, g.player.Colors[1])
		}
	}

	if g.font != nil {
		s.Blit(g.font.Render(fmt.Sprintf("Level %d", g.level), textColor, nil).Image(), image.Pt(8, 4))
	}
	if g.paused {
		g.drawPaused(s)
	}
	g.b.Display().Flip()
}

// drawPaused blurs and darkens the frame and writes a notice in the middle.
func (g *Game) drawPaused(s *gb.Surface) {
	backdrop := s.Grayscale().Blurred(3)
	shade := gb.NewSurface(s.Size().X, s.Size().Y)
	shade.Fill(dimColor)
	if err := backdrop.BlitComposite(shade.Image(), image.Point{}, imop.SrcOver, imop.Multiply); err != nil {
		gb.Logger().Warn("pause overlay failed", "err", err)
	}
	s.Blit(backdrop.Image(), image.Point{})

	if g.font == nil {
		return
	}
	txt := g.font.Render("Paused", textColor, nil)
	s.Blit(txt.Image(), s.Size().Sub(txt.Size()).Div(2))
}
