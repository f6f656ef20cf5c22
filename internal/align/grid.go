package align

import (
	"fmt"

	"github.com/nadzzz/readalong/internal/kana"
)

// Direction is a bitmask of optimal predecessors of a grid cell.
// Several bits are set when candidates tie.
type Direction uint8

const (
	// Left skips one symbol of the first sequence.
	Left Direction = 0b001
	// Top skips one symbol of the second sequence.
	Top Direction = 0b010
	// Diagonal consumes one symbol of each sequence (match or mismatch).
	Diagonal Direction = 0b100
)

const (
	matchScore    = 1
	mismatchScore = -1
	gapScore      = -1
)

// Pos is a grid coordinate: X indexes the first sequence, Y the second.
type Pos struct {
	X int
	Y int
}

func (p Pos) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// Grid holds the score and direction matrices of one alignment, together
// with every cell that attains the maximum score.
type Grid struct {
	t1, t2    []kana.Symbol
	width     int
	score     []int32
	direction []Direction
	max       int32
	endpoints []Pos
}

// Cells returns the number of cells a grid over sequences of length m and n needs.
func Cells(m, n int) int {
	return (m + 1) * (n + 1)
}

// NewGrid fills the grid for t1 against t2.
//
// The maximum is tracked over every interior cell visited during the fill,
// so the best alignment may end before either sequence is consumed. The
// origin seeds the maximum with score 0.
func NewGrid(t1, t2 []kana.Symbol) *Grid {
	xSize := len(t1) + 1
	ySize := len(t2) + 1
	g := &Grid{
		t1:        t1,
		t2:        t2,
		width:     xSize,
		score:     make([]int32, xSize*ySize),
		direction: make([]Direction, xSize*ySize),
		endpoints: []Pos{{0, 0}},
	}

	for x := 1; x < xSize; x++ {
		g.score[x] = g.score[x-1] + gapScore
		g.direction[x] = Left
	}
	for y := 1; y < ySize; y++ {
		g.score[y*xSize] = g.score[(y-1)*xSize] + gapScore
		g.direction[y*xSize] = Top
	}

	for y := 1; y < ySize; y++ {
		row := y * xSize
		prev := (y - 1) * xSize
		for x := 1; x < xSize; x++ {
			left := g.score[row+x-1] + gapScore
			top := g.score[prev+x] + gapScore
			diag := g.score[prev+x-1] + mismatchScore
			if t1[x-1] == t2[y-1] {
				diag = g.score[prev+x-1] + matchScore
			}

			v := max(left, top, diag)
			var d Direction
			if left == v {
				d |= Left
			}
			if top == v {
				d |= Top
			}
			if diag == v {
				d |= Diagonal
			}
			g.score[row+x] = v
			g.direction[row+x] = d

			switch {
			case v == g.max:
				g.endpoints = append(g.endpoints, Pos{x, y})
			case v > g.max:
				g.max = v
				g.endpoints = []Pos{{x, y}}
			}
		}
	}
	return g
}

// Width is len(t1)+1.
func (g *Grid) Width() int { return g.width }

// Height is len(t2)+1.
func (g *Grid) Height() int { return len(g.t2) + 1 }

// Score returns the score at (x, y).
func (g *Grid) Score(x, y int) int32 { return g.score[y*g.width+x] }

// Dir returns the direction bitmask at (x, y).
func (g *Grid) Dir(x, y int) Direction { return g.direction[y*g.width+x] }

// Max is the highest score found anywhere in the grid.
func (g *Grid) Max() int32 { return g.max }

// Endpoints lists every cell scoring Max, in discovery (row-major) order.
func (g *Grid) Endpoints() []Pos {
	return append([]Pos(nil), g.endpoints...)
}

// Best is the first endpoint discovered.
func (g *Grid) Best() Pos { return g.endpoints[0] }
