package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/nadzzz/readalong/internal/align"
	"github.com/nadzzz/readalong/internal/config"
	"github.com/nadzzz/readalong/internal/tokenizer"
	"github.com/nadzzz/readalong/internal/tokenizer/mecab"
	"github.com/nadzzz/readalong/internal/tokenizer/remote"
)

// mecabOutput is canned IPADIC output keyed by input text.
var mecabOutput = map[string]string{
	sampleText: "これ\t名詞,代名詞,一般,*,*,*,これ,コレ,コレ\n" +
		"は\t助詞,係助詞,*,*,*,*,は,ハ,ワ\n" +
		"、\t記号,読点,*,*,*,*,、,、,、\n" +
		"私\t名詞,代名詞,一般,*,*,*,私,ワタクシ,ワタクシ\nEOS\n",
	"これは": "これ\t名詞,代名詞,一般,*,*,*,これ,コレ,コレ\n" +
		"は\t助詞,係助詞,*,*,*,*,は,ハ,ワ\nEOS\n",
	"私": "私\t名詞,代名詞,一般,*,*,*,私,ワタクシ,ワタクシ\nEOS\n",
}

// cannedMecab runs mecab.Parse over mecabOutput instead of a process.
type cannedMecab struct{}

func (cannedMecab) Name() string { return "mecab" }

func (cannedMecab) Tokenize(_ context.Context, text string) ([]tokenizer.Token, error) {
	out, ok := mecabOutput[text]
	if !ok {
		return nil, &tokenizer.TokenizationError{Backend: "mecab", Err: fmt.Errorf("no output for %q", text)}
	}
	return mecab.Parse(strings.NewReader(out), 7)
}

func (cannedMecab) Close() error { return nil }

// remoteServer answers like a service that echoes punctuation as its reading.
func remoteServer(t *testing.T) *httptest.Server {
	t.Helper()
	responses := map[string][]tokenizer.Token{
		sampleText: {{Surface: "これ", Kana: "コレ"}, {Surface: "は", Kana: "ハ"}, {Surface: "、", Kana: "、"}, {Surface: "私", Kana: "ワタクシ"}},
		"これは":      {{Surface: "これ", Kana: "コレ"}, {Surface: "は", Kana: "ハ"}},
		"私":        {{Surface: "私", Kana: "ワタクシ"}},
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		tokens, ok := responses[req.Text]
		if !ok {
			http.Error(w, "unknown text", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"tokens": tokens})
	}))
}

func TestAlignWordsToTextPunctuationAcrossBackends(t *testing.T) {
	srv := remoteServer(t)
	defer srv.Close()

	backends := []tokenizer.Tokenizer{
		sampleTokenizer(),
		cannedMecab{},
		remote.New(config.RemoteConfig{Endpoint: srv.URL}),
	}
	want := []*align.Interval{iv(0, 4), iv(4, 5)}
	for _, tok := range backends {
		t.Run(tok.Name(), func(t *testing.T) {
			defer tok.Close()
			tokens, err := tok.Tokenize(context.Background(), sampleText)
			if err != nil {
				t.Fatalf("Tokenize: %v", err)
			}
			if len(tokens) != 4 || tokens[2].Kana != "" {
				t.Fatalf("tokens = %+v, want punctuation without reading", tokens)
			}
			got, err := AlignWordsToText(context.Background(), tok, []string{"これは", "私"}, sampleText)
			if err != nil {
				t.Fatalf("AlignWordsToText: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}
