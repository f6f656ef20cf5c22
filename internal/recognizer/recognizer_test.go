package recognizer

import (
	"errors"
	"testing"
)

var sample = []Result{
	{
		Text: "ごん 狐",
		Result: []WordResult{
			{Word: "ごん", Start: 0.3, End: 0.6, Conf: 1},
			{Word: "狐", Start: 0.6, End: 1.02, Conf: 0.9},
		},
	},
	{Text: ""},
	{
		Text:   "これ は",
		Result: []WordResult{{Word: "これ"}, {Word: "は"}},
	},
}

func TestExtractWords(t *testing.T) {
	got := ExtractWords(sample)
	want := []string{"ごん", "狐", "これ", "は"}
	if len(got) != len(want) {
		t.Fatalf("ExtractWords = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d = %q, want %q", i, got[i], want[i])
		}
	}
	if ExtractWords(nil) != nil {
		t.Error("ExtractWords(nil) should be nil")
	}
}

func TestFlatten(t *testing.T) {
	if got := Flatten(sample); got != "ごん狐これは" {
		t.Errorf("Flatten = %q", got)
	}
}

func TestOptionsReport(t *testing.T) {
	var calls []int
	opts := Options{Progress: func(_ string, i int) { calls = append(calls, i) }}
	opts.Report("a", 0)
	opts.Report("b", 1)
	if len(calls) != 2 || calls[1] != 1 {
		t.Errorf("calls = %v", calls)
	}
	Options{}.Report("ignored", 0)
}

func TestRecognitionError(t *testing.T) {
	cause := errors.New("closed")
	err := error(&RecognitionError{Backend: "vosk", Err: cause})
	if !errors.Is(err, ErrRecognition) || !errors.Is(err, cause) {
		t.Errorf("errors.Is failed for %v", err)
	}
}
