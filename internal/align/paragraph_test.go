package align

import (
	"reflect"
	"strings"
	"testing"
)

func TestFindParagraphIntervals(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Interval
	}{
		{"single", "abc", []Interval{{0, 3}}},
		{"leading newlines", "\n\nabc", []Interval{{2, 5}}},
		{"trailing newlines", "abc\n\n", []Interval{{0, 3}}},
		{"surrounding newlines", "\n\nabc\n\n", []Interval{{2, 5}}},
		{"multiple", "abc\ndef\n\nghi", []Interval{{0, 3}, {4, 7}, {9, 12}}},
		{"empty", "", []Interval{}},
		{"only newlines", "\n\n\n", []Interval{}},
		{"japanese", "一行目\n二行目", []Interval{{0, 3}, {4, 7}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindParagraphIntervals(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindParagraphIntervalsPartition(t *testing.T) {
	text := "\nごんぎつね\n\n新美南吉\n\n\n一\nこれは、私が小さいときに\n"
	runes := []rune(text)
	got := FindParagraphIntervals(text)
	for i, p := range got {
		if strings.ContainsRune(string(runes[p.Start:p.End]), '\n') {
			t.Errorf("paragraph %d %v contains a newline", i, p)
		}
		if i > 0 && got[i-1].End >= p.Start {
			t.Errorf("paragraphs %d and %d are adjacent or overlap", i-1, i)
		}
	}
	if len(got) != 4 {
		t.Errorf("expected 4 paragraphs, got %d", len(got))
	}
}
