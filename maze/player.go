package maze

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/esimov/gamebridge/utils"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultColors is used for players without a colour preference.
const DefaultColors = "#ff8000,#0080ff"

// Player is a player walking through a maze.
type Player struct {
	Nick string
	// Colors holds the stroke and fill colours of the player.
	Colors []color.NRGBA

	Direction image.Point
	Position  image.Point
	Previous  image.Point
	// Elapsed is set once the player reaches the goal.
	Elapsed *time.Duration

	glideX, glideY *gween.Tween
}

// NewPlayer creates a player. colors is a comma separated list of hex
// colours such as "#ff0000,#00ff00"; an empty string selects DefaultColors.
func NewPlayer(nick, colors string) (*Player, error) {
	if colors == "" {
		colors = DefaultColors
	}
	p := &Player{Nick: nick}
	for _, s := range strings.Split(colors, ",") {
		c, err := utils.HexToRGBA(s)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", nick, err)
		}
		p.Colors = append(p.Colors, c)
	}
	p.Reset()
	return p, nil
}

// Reset puts the player back on the start cell.
func (p *Player) Reset() {
	p.Direction = image.Point{}
	p.Position = image.Pt(1, 1)
	p.Previous = image.Pt(1, 1)
	p.Elapsed = nil
	p.glideX, p.glideY = nil, nil
}

// Finished reports whether the player has reached the goal.
func (p *Player) Finished() bool { return p.Elapsed != nil }

// Finish records the time the player took to solve the maze.
func (p *Player) Finish(d time.Duration) { p.Elapsed = &d }

// Animate advances the player one cell in its current direction and returns
// the new position. A finished player does not move.
func (p *Player) Animate(m *Maze) image.Point {
	if p.Finished() {
		p.Direction = image.Point{}
	}
	if p.Direction == (image.Point{}) {
		return p.Position
	}
	if p.CanGo(p.Direction, m) {
		p.Move(p.Direction, m)
		p.KeepGoing(p.Direction, m)
	} else {
		p.Direction = image.Point{}
	}
	return p.Position
}

// Move steps the player by dir.
func (p *Player) Move(dir image.Point, m *Maze) {
	p.Previous = p.Position
	p.Position = p.Position.Add(dir)
	m.Visit(p.Position)
}

// CanGo reports whether the player can step in dir without hitting a wall.
func (p *Player) CanGo(dir image.Point, m *Maze) bool {
	next := p.Position.Add(dir)
	return m.ValidMove(next.X, next.Y)
}

// CameFrom reports whether stepping in dir leads back to the previous cell.
func (p *Player) CameFrom(dir image.Point) bool {
	return p.Previous == p.Position.Add(dir)
}

// KeepGoing keeps the player moving while only one way forward is open, so
// long corridors need a single key press. Otherwise the player stops.
func (p *Player) KeepGoing(dir image.Point, m *Maze) {
	var open []image.Point
	for _, d := range []image.Point{dir, {dir.Y, dir.X}, {-dir.Y, -dir.X}} {
		if p.CanGo(d, m) {
			open = append(open, d)
		}
	}
	if len(open) == 1 {
		p.Direction = open[0]
	} else {
		p.Direction = image.Point{}
	}
}

// Glide starts a tween of the drawn position from the previous cell to the
// current one, lasting d seconds.
func (p *Player) Glide(d float32) {
	p.glideX = gween.New(float32(p.Previous.X), float32(p.Position.X), d, ease.OutQuad)
	p.glideY = gween.New(float32(p.Previous.Y), float32(p.Position.Y), d, ease.OutQuad)
}

// DrawPos advances the glide by dt seconds and returns the position to draw
// the player at, in cells.
func (p *Player) DrawPos(dt float32) (x, y float32) {
	if p.glideX == nil {
		return float32(p.Position.X), float32(p.Position.Y)
	}
	x, doneX := p.glideX.Update(dt)
	y, doneY := p.glideY.Update(dt)
	if doneX && doneY {
		p.glideX, p.glideY = nil, nil
	}
	return x, y
}
