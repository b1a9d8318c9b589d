// Package maze is a single-player maze game built on gamebridge. The player
// walks from the top-left corner to the goal in the opposite corner; every
// solved maze starts a larger one.
package maze

import (
	"image"
	"math/rand"
)

// Cell states.
type Cell uint8

const (
	Empty Cell = iota
	Seen
	Wall
	Goal
)

// Maze is a grid of cells whose odd coordinates are rooms and whose even
// coordinates are walls or the passages between rooms.
type Maze struct {
	W, H  int
	Seed  int64
	cells []Cell
}

// New generates a perfect maze (exactly one path between any two rooms).
// Both dimensions are rounded up to the next odd number, with a minimum of 5.
func New(w, h int, seed int64) *Maze {
	w, h = oddAtLeast(w, 5), oddAtLeast(h, 5)
	m := &Maze{W: w, H: h, Seed: seed, cells: make([]Cell, w*h)}
	for i := range m.cells {
		m.cells[i] = Wall
	}
	m.carve(rand.New(rand.NewSource(seed)))
	m.set(m.Exit(), Goal)
	return m
}

func oddAtLeast(n, lo int) int {
	if n < lo {
		n = lo
	}
	return n | 1
}

var steps = []image.Point{{0, -2}, {2, 0}, {0, 2}, {-2, 0}}

// carve walks the rooms depth first, knocking down the wall between each room
// and an unvisited neighbour.
func (m *Maze) carve(rnd *rand.Rand) {
	start := m.Start()
	m.set(start, Empty)
	stack := []image.Point{start}

	dirs := make([]image.Point, len(steps))
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		copy(dirs, steps)
		rnd.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })

		moved := false
		for _, d := range dirs {
			next := cur.Add(d)
			if !m.inRoom(next) || m.At(next.X, next.Y) != Wall {
				continue
			}
			m.set(cur.Add(d.Div(2)), Empty)
			m.set(next, Empty)
			stack = append(stack, next)
			moved = true
			break
		}
		if !moved {
			stack = stack[:len(stack)-1]
		}
	}
}

func (m *Maze) inRoom(p image.Point) bool {
	return p.X > 0 && p.Y > 0 && p.X < m.W-1 && p.Y < m.H-1
}

func (m *Maze) set(p image.Point, c Cell) { m.cells[p.Y*m.W+p.X] = c }

// At returns the cell at (x, y). Cells outside the maze are walls.
func (m *Maze) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return Wall
	}
	return m.cells[y*m.W+x]
}

// ValidMove reports whether a player may stand on (x, y).
func (m *Maze) ValidMove(x, y int) bool {
	return m.At(x, y) != Wall
}

// Visit marks an empty cell as seen.
func (m *Maze) Visit(p image.Point) {
	if m.At(p.X, p.Y) == Empty {
		m.set(p, Seen)
	}
}

// Start is the cell every player starts from.
func (m *Maze) Start() image.Point { return image.Pt(1, 1) }

// Exit is the goal cell.
func (m *Maze) Exit() image.Point { return image.Pt(m.W-2, m.H-2) }

// Bounds returns the maze rectangle in cells.
func (m *Maze) Bounds() image.Rectangle { return image.Rect(0, 0, m.W, m.H) }
