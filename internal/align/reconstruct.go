package align

import (
	"fmt"
	"unicode/utf8"
)

// Cursor tracks a position inside a list of words measured in symbols:
// the current word and how many of its symbols were consumed.
type Cursor struct {
	Word int
	Char int
}

// Step describes one Cursor.Advance: words in [SkipFrom, SkipTo) were
// empty and passed over, and Completed is the word the consumed symbol
// finished, or -1.
type Step struct {
	SkipFrom  int
	SkipTo    int
	Completed int
}

// Advance consumes one symbol from a side whose words have the given
// symbol lengths. Empty words in front of the cursor are passed over first.
func (c *Cursor) Advance(lengths []int) (Step, error) {
	st := Step{SkipFrom: c.Word, Completed: -1}
	for c.Word < len(lengths) && lengths[c.Word] == 0 {
		c.Word++
	}
	st.SkipTo = c.Word
	if c.Word >= len(lengths) {
		return st, ErrCursorOverrun
	}
	c.Char++
	if c.Char >= lengths[c.Word] {
		st.Completed = c.Word
		c.Word++
		c.Char = 0
	}
	return st, nil
}

// Reconstruct replays path against the text-side words (textKana, with
// their intervals into the original text) and the recognized words
// (wordKana), returning one interval or nil per recognized word.
//
// Intervals of finished text words collect in a shared buffer; when a
// recognized word finishes, the buffer is merged into a single interval
// for that word and cleared. Text words finished after the last
// recognized word produce nothing.
func Reconstruct(path Path, textKana []string, textIntervals []*Interval, wordKana []string) ([]*Interval, error) {
	if err := CheckLength("text intervals", len(textKana), len(textIntervals)); err != nil {
		return nil, err
	}
	r := &replay{
		textLens:      runeLengths(textKana),
		wordLens:      runeLengths(wordKana),
		textIntervals: textIntervals,
		result:        make([]*Interval, len(wordKana)),
	}
	for i, d := range path {
		var err error
		switch {
		case d&Diagonal != 0:
			if err = r.stepText(); err == nil {
				err = r.stepWord()
			}
		case d&Top != 0:
			err = r.stepWord()
		case d&Left != 0:
			err = r.stepText()
		default:
			err = &InvalidDirectionError{Direction: d}
		}
		if err != nil {
			return nil, fmt.Errorf("reconstruct step %d: %w", i, err)
		}
	}
	return r.result, nil
}

// replay is the state of one Reconstruct call.
type replay struct {
	text, word    Cursor
	textLens      []int
	wordLens      []int
	textIntervals []*Interval
	shared        []Interval
	result        []*Interval
}

func (r *replay) stepText() error {
	st, err := r.text.Advance(r.textLens)
	for i := st.SkipFrom; i < st.SkipTo; i++ {
		r.flush(i)
	}
	if err != nil {
		return fmt.Errorf("text side: %w", err)
	}
	if st.Completed >= 0 {
		r.flush(st.Completed)
	}
	return nil
}

func (r *replay) flush(textWord int) {
	if iv := r.textIntervals[textWord]; iv != nil {
		r.shared = append(r.shared, *iv)
	}
}

func (r *replay) stepWord() error {
	st, err := r.word.Advance(r.wordLens)
	if err != nil {
		return fmt.Errorf("word side: %w", err)
	}
	if st.Completed >= 0 && len(r.shared) > 0 {
		r.result[st.Completed] = &Interval{
			Start: r.shared[0].Start,
			End:   r.shared[len(r.shared)-1].End,
		}
		r.shared = r.shared[:0]
	}
	return nil
}

func runeLengths(words []string) []int {
	lens := make([]int, len(words))
	for i, w := range words {
		lens[i] = utf8.RuneCountInString(w)
	}
	return lens
}
