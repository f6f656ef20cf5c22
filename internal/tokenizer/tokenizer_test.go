package tokenizer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nadzzz/readalong/internal/align"
)

func TestKanaHelpers(t *testing.T) {
	tokens := []Token{
		{Surface: " これ", Kana: "コレ "},
		{Surface: "、", Kana: ""},
		{Surface: "私", Kana: "ワタクシ"},
	}
	kana := Kana(tokens)
	if len(kana) != 3 || kana[0] != "コレ" || kana[1] != "" {
		t.Errorf("Kana = %q", kana)
	}
	if got := JoinKana(tokens); got != "コレワタクシ" {
		t.Errorf("JoinKana = %q", got)
	}
	units := Units(tokens)
	if units[0] != (align.Unit{Surface: "これ", Kana: "コレ"}) {
		t.Errorf("Units[0] = %+v", units[0])
	}
}

func TestPunctuation(t *testing.T) {
	for s, want := range map[string]bool{
		"、": true, "。": true, "「": true, "」": true, "，": true, "!?": true,
		"": false, "これ": false, "ー": false, "、あ": false,
	} {
		if got := Punctuation(s); got != want {
			t.Errorf("Punctuation(%q) = %v, want %v", s, got, want)
		}
	}
	if !SymbolPOS("記号") || !SymbolPOS("補助記号") || SymbolPOS("名詞") {
		t.Error("SymbolPOS misclassified a part of speech")
	}
}

func TestTokenizationError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&TokenizationError{Backend: "x", Err: cause})
	if !errors.Is(err, ErrTokenization) || !errors.Is(err, cause) {
		t.Errorf("errors.Is failed for %v", err)
	}
	if err.Error() != "x tokenizer: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestStatic(t *testing.T) {
	s := NewStatic(map[string][]Token{"これ": {{Surface: "これ", Kana: "コレ"}}})
	tokens, err := s.Tokenize(context.Background(), "これ")
	if err != nil || len(tokens) != 1 {
		t.Fatalf("Tokenize = %+v, %v", tokens, err)
	}
	if _, err := s.Tokenize(context.Background(), "それ"); !errors.Is(err, ErrTokenization) {
		t.Errorf("missing text err = %v", err)
	}
	if s.Calls() != 2 {
		t.Errorf("Calls = %d, want 2", s.Calls())
	}
}

type memCache struct {
	mu      sync.Mutex
	data    map[string][]Token
	failGet bool
	failPut bool
}

func (m *memCache) Get(_ context.Context, key string, v any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return false, errors.New("get failed")
	}
	tokens, ok := m.data[key]
	if ok {
		*(v.(*[]Token)) = tokens
	}
	return ok, nil
}

func (m *memCache) Put(_ context.Context, key string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return errors.New("put failed")
	}
	m.data[key] = v.([]Token)
	return nil
}

func TestCached(t *testing.T) {
	inner := NewStatic(map[string][]Token{"これ": {{Surface: "これ", Kana: "コレ"}}})
	cache := &memCache{data: map[string][]Token{}}
	c := NewCached(inner, cache)

	if c.Name() != "static" {
		t.Errorf("Name = %q", c.Name())
	}
	for i := 0; i < 3; i++ {
		tokens, err := c.Tokenize(context.Background(), "これ")
		if err != nil {
			t.Fatalf("Tokenize: %v", err)
		}
		if len(tokens) != 1 || tokens[0].Kana != "コレ" {
			t.Errorf("tokens = %+v", tokens)
		}
	}
	if inner.Calls() != 1 {
		t.Errorf("inner calls = %d, want 1", inner.Calls())
	}
}

func TestCachedFallsThrough(t *testing.T) {
	inner := NewStatic(map[string][]Token{"これ": {{Surface: "これ", Kana: "コレ"}}})
	cache := &memCache{data: map[string][]Token{}, failGet: true, failPut: true}
	c := NewCached(inner, cache)

	for i := 0; i < 2; i++ {
		if _, err := c.Tokenize(context.Background(), "これ"); err != nil {
			t.Fatalf("Tokenize: %v", err)
		}
	}
	if inner.Calls() != 2 {
		t.Errorf("inner calls = %d, want 2", inner.Calls())
	}
	if _, err := c.Tokenize(context.Background(), "それ"); !errors.Is(err, ErrTokenization) {
		t.Errorf("err = %v", err)
	}
}
