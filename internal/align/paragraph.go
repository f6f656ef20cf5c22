package align

// FindParagraphIntervals returns the rune intervals of the maximal runs of
// text between newlines. Empty runs are skipped.
func FindParagraphIntervals(text string) []Interval {
	intervals := make([]Interval, 0)
	start, end := 0, 0
	for _, r := range text {
		if r == '\n' {
			if start != end {
				intervals = append(intervals, Interval{Start: start, End: end})
			}
			start = end + 1
		}
		end++
	}
	if start != end {
		intervals = append(intervals, Interval{Start: start, End: end})
	}
	return intervals
}
