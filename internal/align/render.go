package align

import (
	"fmt"
	"io"
	"strings"

	"github.com/nadzzz/readalong/internal/kana"
)

// RenderGrid writes the score matrix, clipped to maxX columns and maxY rows,
// with the glyphs of each sequence along the axes.
func RenderGrid(w io.Writer, g *Grid, maxX, maxY int) error {
	cols := min(maxX, len(g.t1))
	rows := min(maxY, len(g.t2))

	var sb strings.Builder
	sb.WriteString("   ")
	for _, s := range g.t1[:cols] {
		fmt.Fprintf(&sb, " %3s", glyph(s))
	}
	sb.WriteByte('\n')
	for y := 1; y <= rows; y++ {
		sb.WriteString(glyph(g.t2[y-1]))
		sb.WriteString(" ")
		for x := 1; x <= cols; x++ {
			fmt.Fprintf(&sb, " %3d", g.Score(x, y))
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderPath writes one line per step: the glyph pair for a diagonal, or a
// blank on the skipped side.
func RenderPath(w io.Writer, path Path, t1, t2 []kana.Symbol) error {
	var x, y int
	for _, d := range path {
		var line string
		switch {
		case d&Diagonal != 0:
			line = glyph(t1[x]) + " " + glyph(t2[y])
			x++
			y++
		case d&Top != 0:
			line = "　 " + glyph(t2[y])
			y++
		case d&Left != 0:
			line = glyph(t1[x]) + " 　"
			x++
		default:
			return &InvalidDirectionError{Direction: d, Pos: &Pos{x, y}}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderPaths writes every endpoint's path with a header line.
func RenderPaths(w io.Writer, g *Grid) error {
	paths, err := g.Paths()
	if err != nil {
		return err
	}
	for i, p := range paths {
		e := g.endpoints[i]
		if _, err := fmt.Fprintf(w, "Path %d/%d for position: %d %d\n", i+1, len(paths), e.X, e.Y); err != nil {
			return err
		}
		if err := RenderPath(w, p, g.t1, g.t2); err != nil {
			return err
		}
	}
	return nil
}

func glyph(s kana.Symbol) string {
	r, err := kana.Rune(s)
	if err != nil {
		return "?"
	}
	return string(r)
}
