package vosk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nadzzz/readalong/internal/config"
	"github.com/nadzzz/readalong/internal/recognizer"
)

var upgrader = websocket.Upgrader{}

type frameLog struct {
	mu    sync.Mutex
	sizes []int
}

func (f *frameLog) add(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sizes = append(f.sizes, n)
}

func (f *frameLog) get() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.sizes...)
}

// fakeServer mimics vosk-server: a partial for every audio frame, a final
// result every other frame, and a last result after eof.
func fakeServer(t *testing.T, received *frameLog) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("reading config: %v", err)
			return
		}
		var cfg struct {
			Config struct {
				SampleRate int `json:"sample_rate"`
				Words      int `json:"words"`
			} `json:"config"`
		}
		if err := json.Unmarshal(data, &cfg); err != nil || cfg.Config.SampleRate != recognizer.SampleRate || cfg.Config.Words != 1 {
			t.Errorf("bad config message %s", data)
		}

		frames := 0
		for {
			kind, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if kind == websocket.TextMessage && strings.Contains(string(data), "eof") {
				_ = conn.WriteMessage(websocket.TextMessage,
					[]byte(`{"result":[{"conf":1,"start":2.0,"end":2.5,"word":"です"}],"text":"です"}`))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			received.add(len(data))
			frames++
			if frames%2 == 0 {
				_ = conn.WriteMessage(websocket.TextMessage,
					[]byte(`{"result":[{"conf":0.9,"start":0.1,"end":0.4,"word":"これ"},{"conf":1,"start":0.4,"end":0.5,"word":"は"}],"text":"これ は"}`))
			} else {
				_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"partial":"これ"}`))
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestRecognize(t *testing.T) {
	var log frameLog
	srv := fakeServer(t, &log)
	defer srv.Close()

	rec := New(config.VoskConfig{Endpoint: wsURL(srv), ChunkSize: 4})
	defer rec.Close()

	type event struct {
		text  string
		index int
	}
	var events []event
	opts := recognizer.Options{Progress: func(text string, index int) {
		events = append(events, event{text, index})
	}}

	results, err := rec.Recognize(context.Background(), make([]byte, 10), opts)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}

	received := log.get()
	if len(received) != 3 || received[0] != 4 || received[2] != 2 {
		t.Errorf("frames = %v, want [4 4 2]", received)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v, want 2", results)
	}
	if got := recognizer.Flatten(results); got != "これはです" {
		t.Errorf("Flatten = %q", got)
	}
	if results[0].Result[0].End != 0.4 {
		t.Errorf("timing lost: %+v", results[0].Result[0])
	}

	want := []event{{"これ", 0}, {"これ は", 0}, {"これ", 1}, {"です", 1}}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, events[i], want[i])
		}
	}
}

func TestRecognizeDialError(t *testing.T) {
	rec := New(config.VoskConfig{Endpoint: "ws://127.0.0.1:1"})
	_, err := rec.Recognize(context.Background(), []byte{0, 0}, recognizer.Options{})
	if !errors.Is(err, recognizer.ErrRecognition) {
		t.Fatalf("err = %v, want ErrRecognition", err)
	}
}

func TestRecognizeCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// Never answer.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := New(config.VoskConfig{Endpoint: wsURL(srv)}).Recognize(ctx, make([]byte, 16), recognizer.Options{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}
