package align

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/nadzzz/readalong/internal/kana"
)

func mustEncode(t *testing.T, s string) []kana.Symbol {
	t.Helper()
	seq, err := kana.Encode(s)
	if err != nil {
		t.Fatalf("Encode(%q): %v", s, err)
	}
	return seq
}

func TestNewGridBoundary(t *testing.T) {
	g := NewGrid(mustEncode(t, "アイウ"), mustEncode(t, "アイ"))
	if g.Width() != 4 || g.Height() != 3 {
		t.Fatalf("unexpected shape %dx%d", g.Width(), g.Height())
	}
	if g.Score(0, 0) != 0 || g.Dir(0, 0) != 0 {
		t.Errorf("origin = %d/%03b, want 0/000", g.Score(0, 0), g.Dir(0, 0))
	}
	for x := 1; x < g.Width(); x++ {
		if g.Score(x, 0) != int32(-x) || g.Dir(x, 0) != Left {
			t.Errorf("row boundary (%d,0) = %d/%03b", x, g.Score(x, 0), g.Dir(x, 0))
		}
	}
	for y := 1; y < g.Height(); y++ {
		if g.Score(0, y) != int32(-y) || g.Dir(0, y) != Top {
			t.Errorf("column boundary (0,%d) = %d/%03b", y, g.Score(0, y), g.Dir(0, y))
		}
	}
}

func TestNewGridIdentical(t *testing.T) {
	seq := mustEncode(t, "コレハ")
	g := NewGrid(seq, seq)
	if g.Max() != 3 {
		t.Errorf("Max = %d, want 3", g.Max())
	}
	if want := []Pos{{3, 3}}; !reflect.DeepEqual(g.Endpoints(), want) {
		t.Errorf("Endpoints = %v, want %v", g.Endpoints(), want)
	}
	want := [][]int32{
		{0, -1, -2, -3},
		{-1, 1, 0, -1},
		{-2, 0, 2, 1},
		{-3, -1, 1, 3},
	}
	for y, row := range want {
		for x, v := range row {
			if g.Score(x, y) != v {
				t.Errorf("Score(%d,%d) = %d, want %d", x, y, g.Score(x, y), v)
			}
		}
	}
}

func TestNewGridTiedEndpoints(t *testing.T) {
	g := NewGrid(mustEncode(t, "アイ"), mustEncode(t, "イア"))
	if g.Max() != 0 {
		t.Fatalf("Max = %d, want 0", g.Max())
	}
	want := []Pos{{0, 0}, {2, 1}, {1, 2}}
	if !reflect.DeepEqual(g.Endpoints(), want) {
		t.Errorf("Endpoints = %v, want %v", g.Endpoints(), want)
	}
	if g.Best() != (Pos{0, 0}) {
		t.Errorf("Best = %v, want origin", g.Best())
	}
	if d := g.Dir(2, 2); d != Left|Top {
		t.Errorf("Dir(2,2) = %03b, want 011", d)
	}
}

func TestNewGridTrailingMismatchDiscounted(t *testing.T) {
	g := NewGrid(mustEncode(t, "コレハアアア"), mustEncode(t, "コレハ"))
	if g.Max() != 3 {
		t.Errorf("Max = %d, want 3", g.Max())
	}
	if g.Best() != (Pos{3, 3}) {
		t.Errorf("Best = %v, want (3, 3)", g.Best())
	}
	if g.Score(6, 3) >= g.Max() {
		t.Errorf("corner score %d should be below the maximum", g.Score(6, 3))
	}
}

func TestNewGridEmpty(t *testing.T) {
	g := NewGrid(nil, mustEncode(t, "ア"))
	if g.Max() != 0 || g.Best() != (Pos{0, 0}) {
		t.Errorf("empty grid: Max %d Best %v", g.Max(), g.Best())
	}
	path, err := g.Backtrack(g.Best())
	if err != nil {
		t.Fatalf("Backtrack: %v", err)
	}
	if len(path) != 0 {
		t.Errorf("expected empty path, got %v", path)
	}
}

func TestCells(t *testing.T) {
	if got := Cells(3, 4); got != 20 {
		t.Errorf("Cells(3,4) = %d, want 20", got)
	}
}

func TestBacktrackIdentical(t *testing.T) {
	path, err := AlignKana("ワタクシ", "ワタクシ")
	if err != nil {
		t.Fatalf("AlignKana: %v", err)
	}
	if len(path) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(path))
	}
	for i, d := range path {
		if d != Diagonal {
			t.Errorf("step %d = %03b, want diagonal", i, d)
		}
	}
}

func TestBacktrackPrefersDiagonal(t *testing.T) {
	g := NewGrid(mustEncode(t, "アア"), mustEncode(t, "ア"))
	if d := g.Dir(2, 1); d != Left|Diagonal {
		t.Fatalf("Dir(2,1) = %03b, want 101", d)
	}
	path, err := g.Backtrack(Pos{2, 1})
	if err != nil {
		t.Fatalf("Backtrack: %v", err)
	}
	if want := (Path{Left, Left | Diagonal}); !slices.Equal(path, want) {
		t.Errorf("path = %v, want %v", path, want)
	}
}

func TestPaths(t *testing.T) {
	g := NewGrid(mustEncode(t, "アイ"), mustEncode(t, "イア"))
	paths, err := g.Paths()
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	want := []Path{
		{},
		{Left, Diagonal},
		{Top, Diagonal},
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d paths, got %d", len(want), len(paths))
	}
	for i := range want {
		if !slices.Equal(paths[i], want[i]) {
			t.Errorf("path %d = %v, want %v", i, paths[i], want[i])
		}
	}
}

func TestBacktrackOutOfRange(t *testing.T) {
	g := NewGrid(mustEncode(t, "ア"), mustEncode(t, "ア"))
	if _, err := g.Backtrack(Pos{5, 0}); err == nil {
		t.Error("expected error for position outside grid")
	}
}

func TestBacktrackInvalidDirection(t *testing.T) {
	g := NewGrid(mustEncode(t, "アイ"), mustEncode(t, "アイ"))
	g.direction[1*g.width+1] = 0
	_, err := g.Backtrack(Pos{2, 2})
	if !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("expected ErrInvalidDirection, got %v", err)
	}
	var ide *InvalidDirectionError
	if !errors.As(err, &ide) || ide.Pos == nil || *ide.Pos != (Pos{1, 1}) {
		t.Errorf("expected error at (1, 1), got %v", err)
	}
}

func TestAlignKanaUnknownSymbol(t *testing.T) {
	_, err := AlignKana("コレ", "これ")
	if !errors.Is(err, kana.ErrUnknownSymbol) {
		t.Errorf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestPathScoreEqualsMax(t *testing.T) {
	pairs := [][2]string{
		{"コレハ", "コレハ"},
		{"コレハワタクシガ", "コレワタシガ"},
		{"ムラノモヘイトイウオジイサン", "ムラノモヘートユウオジーサン"},
		{"アイ", "イア"},
		{"ア", "イ"},
		{"", "アイウ"},
		{"キツネ、「ゴン」。", "ゴンギツネ"},
	}
	for _, p := range pairs {
		t1, t2 := mustEncode(t, p[0]), mustEncode(t, p[1])
		g, path, err := AlignSymbols(t1, t2)
		if err != nil {
			t.Fatalf("AlignSymbols(%q, %q): %v", p[0], p[1], err)
		}
		score, err := PathScore(path, t1, t2)
		if err != nil {
			t.Fatalf("PathScore: %v", err)
		}
		if int32(score) != g.Max() {
			t.Errorf("%q/%q: path score %d, grid max %d", p[0], p[1], score, g.Max())
		}
		x, y := path.Consumed()
		if g.Best() != (Pos{x, y}) {
			t.Errorf("%q/%q: path ends at (%d, %d), best is %v", p[0], p[1], x, y, g.Best())
		}
	}
}

func TestAlignKanaDeterministic(t *testing.T) {
	a := "オハナシデスムラノモヘイ"
	b := "オハナシデスムラモヘイ"
	first, err := AlignKana(a, b)
	if err != nil {
		t.Fatalf("AlignKana: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := AlignKana(a, b)
		if err != nil {
			t.Fatalf("AlignKana: %v", err)
		}
		if !slices.Equal(first, again) {
			t.Fatalf("non-deterministic path: %v vs %v", first, again)
		}
	}
}
