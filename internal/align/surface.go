package align

import (
	"strings"
	"unicode/utf8"
)

// OpenQuote is the opening quotation mark that always starts a new window.
const OpenQuote = "「"

// Unit is one tokenizer output as seen by the aligners: the literal
// surface and its kana reading, empty for punctuation and symbols.
type Unit struct {
	Surface string
	Kana    string
}

// AlignBySurface locates each unit's surface in text, the string the units
// were produced from. The result has one entry per unit.
//
// A unit with a reading opens a window at the next occurrence of its
// surface. Units without a reading are folded into the open window and get
// a nil entry, emitted after the window that absorbed them. A unit right
// after an opening quote is folded into the quote's window even when it has
// a reading, and an opening quote always starts its own window.
//
// Joining the text of all non-nil intervals reproduces text without its
// newlines, including any leading ones.
func AlignBySurface(units []Unit, text string) ([]*Interval, error) {
	intervals := make([]*Interval, 0, len(units))
	if len(units) == 0 {
		return intervals, nil
	}
	idx := newRuneIndex(text)

	start := idx.index(units[0].Surface, 0)
	if start < 0 {
		return nil, &SurfaceNotFoundError{Index: 0, Surface: units[0].Surface, From: 0}
	}
	end := start + utf8.RuneCountInString(units[0].Surface)
	last := units[0].Surface
	pending := 0

	for i := 1; i < len(units); i++ {
		u := units[i]
		switch {
		case u.Kana != "" && last != OpenQuote:
			intervals = append(intervals, &Interval{Start: start, End: end})
			intervals = appendNil(intervals, pending)
			pending = 0
			s := idx.index(u.Surface, end)
			if s < 0 {
				return nil, &SurfaceNotFoundError{Index: i, Surface: u.Surface, From: end}
			}
			start, end = s, s+utf8.RuneCountInString(u.Surface)
		case u.Surface == OpenQuote:
			intervals = append(intervals, &Interval{Start: start, End: end})
			s := idx.index(u.Surface, end)
			if s < 0 {
				return nil, &SurfaceNotFoundError{Index: i, Surface: u.Surface, From: end}
			}
			start, end = s, s+utf8.RuneCountInString(u.Surface)
		default:
			pending++
			end += utf8.RuneCountInString(u.Surface)
		}
		last = u.Surface
	}

	intervals = append(intervals, &Interval{Start: start, End: end})
	return appendNil(intervals, pending), nil
}

// AlignByKana locates each kana word in kanaText, searching forward from
// the end of the previous match. A word that cannot be found gets nil and
// leaves the search position unchanged.
func AlignByKana(kanaWords []string, kanaText string) []*Interval {
	idx := newRuneIndex(kanaText)
	intervals := make([]*Interval, 0, len(kanaWords))
	end := 0
	for _, w := range kanaWords {
		start := idx.index(w, end)
		if start < 0 {
			intervals = append(intervals, nil)
			continue
		}
		end = start + utf8.RuneCountInString(w)
		intervals = append(intervals, &Interval{Start: start, End: end})
	}
	return intervals
}

func appendNil(intervals []*Interval, n int) []*Interval {
	for i := 0; i < n; i++ {
		intervals = append(intervals, nil)
	}
	return intervals
}

// runeIndex searches a string by rune offsets.
type runeIndex struct {
	text    string
	offsets []int // byte offset of each rune, plus len(text)
}

func newRuneIndex(text string) runeIndex {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))
	return runeIndex{text: text, offsets: offsets}
}

func (ri runeIndex) len() int { return len(ri.offsets) - 1 }

// index returns the rune offset of the first occurrence of sub at or after
// rune offset from, or -1.
func (ri runeIndex) index(sub string, from int) int {
	if from > ri.len() {
		if sub == "" {
			return ri.len()
		}
		return -1
	}
	rest := ri.text[ri.offsets[from]:]
	b := strings.Index(rest, sub)
	if b < 0 {
		return -1
	}
	return from + utf8.RuneCountInString(rest[:b])
}
