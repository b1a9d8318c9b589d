package maze

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

// reachable counts the open cells reachable from the start.
func reachable(m *Maze) int {
	seen := map[image.Point]bool{m.Start(): true}
	todo := []image.Point{m.Start()}
	for len(todo) > 0 {
		p := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		for _, d := range []image.Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
			n := p.Add(d)
			if !seen[n] && m.ValidMove(n.X, n.Y) {
				seen[n] = true
				todo = append(todo, n)
			}
		}
	}
	return len(seen)
}

func TestMaze_ShouldBeFullyConnected(t *testing.T) {
	m := New(21, 15, 42)
	assert.Equal(t, 21, m.W)
	assert.Equal(t, 15, m.H)

	open := 0
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if m.ValidMove(x, y) {
				open++
			}
		}
	}
	assert.Equal(t, open, reachable(m))
	// A perfect maze over r rooms has r-1 passages.
	rooms := (m.W / 2) * (m.H / 2)
	assert.Equal(t, 2*rooms-1, open)
}

func TestMaze_BorderShouldBeWalled(t *testing.T) {
	m := New(11, 9, 1)
	for x := 0; x < m.W; x++ {
		assert.Equal(t, Wall, m.At(x, 0))
		assert.Equal(t, Wall, m.At(x, m.H-1))
	}
	for y := 0; y < m.H; y++ {
		assert.Equal(t, Wall, m.At(0, y))
		assert.Equal(t, Wall, m.At(m.W-1, y))
	}
	assert.Equal(t, Wall, m.At(-1, 3))
	assert.Equal(t, Goal, m.At(m.Exit().X, m.Exit().Y))
	assert.True(t, m.ValidMove(1, 1))
}

func TestMaze_ShouldRoundDimensions(t *testing.T) {
	m := New(10, 2, 7)
	assert.Equal(t, image.Rect(0, 0, 11, 5), m.Bounds())
}

func TestMaze_ShouldBeDeterministicPerSeed(t *testing.T) {
	a, b, c := New(31, 31, 5), New(31, 31, 5), New(31, 31, 6)
	assert.Equal(t, a.cells, b.cells)
	assert.NotEqual(t, a.cells, c.cells)
}

func TestMaze_VisitShouldMarkEmptyCells(t *testing.T) {
	m := New(5, 5, 0)
	m.Visit(m.Start())
	assert.Equal(t, Seen, m.At(1, 1))

	m.Visit(m.Exit())
	assert.Equal(t, Goal, m.At(3, 3))
}
