package align

import (
	"encoding/json"
	"fmt"
)

// Interval is a half-open [Start, End) range of rune offsets into a string.
// A nil *Interval stands for "no corresponding span".
type Interval struct {
	Start int
	End   int
}

// Len returns the number of runes covered.
func (iv Interval) Len() int { return iv.End - iv.Start }

func (iv Interval) String() string { return fmt.Sprintf("[%d,%d)", iv.Start, iv.End) }

// MarshalJSON encodes the interval as a two-element array.
func (iv Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{iv.Start, iv.End})
}

// UnmarshalJSON decodes a two-element array.
func (iv *Interval) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decoding interval: %w", err)
	}
	if pair[1] < pair[0] {
		return fmt.Errorf("decoding interval: end %d before start %d", pair[1], pair[0])
	}
	iv.Start, iv.End = pair[0], pair[1]
	return nil
}

// Words returns the substrings of text covered by the non-nil intervals, in order.
func Words(text string, intervals []*Interval) []string {
	runes := []rune(text)
	words := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		if iv == nil {
			continue
		}
		start := min(max(iv.Start, 0), len(runes))
		end := min(max(iv.End, start), len(runes))
		words = append(words, string(runes[start:end]))
	}
	return words
}
