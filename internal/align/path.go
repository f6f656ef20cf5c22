package align

import (
	"fmt"
	"slices"

	"github.com/nadzzz/readalong/internal/kana"
)

// Path is the sequence of steps from the origin to an endpoint, one
// direction bitmask per step, in chronological order.
type Path []Direction

// Backtrack follows direction pointers from p back to the origin.
//
// When a cell has several bits set the diagonal is preferred, then top,
// then left. Changing this order selects a different one of several
// equally optimal alignments.
func (g *Grid) Backtrack(p Pos) (Path, error) {
	if p.X < 0 || p.X >= g.width || p.Y < 0 || p.Y >= g.Height() {
		return nil, fmt.Errorf("backtrack: position %s outside %dx%d grid", p, g.width, g.Height())
	}
	x, y := p.X, p.Y
	var steps Path
	for {
		d := g.Dir(x, y)
		if d == 0 {
			if x != 0 || y != 0 {
				return nil, &InvalidDirectionError{Direction: d, Pos: &Pos{x, y}}
			}
			break
		}
		steps = append(steps, d)
		switch {
		case d&Diagonal != 0:
			x--
			y--
		case d&Top != 0:
			y--
		case d&Left != 0:
			x--
		default:
			return nil, &InvalidDirectionError{Direction: d, Pos: &Pos{x, y}}
		}
	}
	slices.Reverse(steps)
	return steps, nil
}

// Paths backtracks one path per endpoint, in endpoint order.
func (g *Grid) Paths() ([]Path, error) {
	paths := make([]Path, 0, len(g.endpoints))
	for _, p := range g.endpoints {
		path, err := g.Backtrack(p)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// AlignSymbols fills a grid for t1 against t2 and backtracks from its
// first endpoint.
func AlignSymbols(t1, t2 []kana.Symbol) (*Grid, Path, error) {
	g := NewGrid(t1, t2)
	path, err := g.Backtrack(g.Best())
	if err != nil {
		return nil, nil, err
	}
	return g, path, nil
}

// AlignKana encodes two kana strings and returns the best alignment path.
func AlignKana(text1, text2 string) (Path, error) {
	t1, err := kana.Encode(text1)
	if err != nil {
		return nil, fmt.Errorf("encoding first sequence: %w", err)
	}
	t2, err := kana.Encode(text2)
	if err != nil {
		return nil, fmt.Errorf("encoding second sequence: %w", err)
	}
	_, path, err := AlignSymbols(t1, t2)
	return path, err
}

// PathScore replays path from the origin and sums the score it implies:
// +1 per matching diagonal, -1 per mismatch or skip.
func PathScore(path Path, t1, t2 []kana.Symbol) (int, error) {
	var x, y, score int
	for _, d := range path {
		switch {
		case d&Diagonal != 0:
			if x >= len(t1) || y >= len(t2) {
				return 0, fmt.Errorf("path score: step past end at %d, %d", x, y)
			}
			if t1[x] == t2[y] {
				score += matchScore
			} else {
				score += mismatchScore
			}
			x++
			y++
		case d&Top != 0:
			score += gapScore
			y++
		case d&Left != 0:
			score += gapScore
			x++
		default:
			return 0, &InvalidDirectionError{Direction: d}
		}
	}
	return score, nil
}

// Consumed returns how many symbols of each sequence path consumes.
func (p Path) Consumed() (first, second int) {
	for _, d := range p {
		switch {
		case d&Diagonal != 0:
			first++
			second++
		case d&Top != 0:
			second++
		case d&Left != 0:
			first++
		}
	}
	return first, second
}
