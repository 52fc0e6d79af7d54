package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// slowStreamServer emits chat-completion chunks on an interval until the
// client goes away.
func slowStreamServer(t *testing.T, interval time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fl, ok := w.(http.Flusher)
		if !ok {
			t.Error("response writer does not support flushing")
			return
		}
		for i := 0; i < 1000; i++ {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(interval):
			}
			fmt.Fprintf(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"m\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"tok%d \"}}]}\n\n", i)
			fl.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIProvider_StreamEndsAfterConsumerCancels(t *testing.T) {
	srv := slowStreamServer(t, 20*time.Millisecond)
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test", Model: "m", BaseURL: srv.URL}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.GenerateStream(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, ok := <-ch
	if !ok || first.Done {
		t.Fatalf("expected a delta chunk first, got %+v (open=%v)", first, ok)
	}

	// Walk away from the channel entirely. The producer must notice the
	// cancellation on its own, close its HTTP stream, and exit.
	cancel()
	time.Sleep(300 * time.Millisecond)

	select {
	case c, open := <-ch:
		if open {
			t.Fatalf("producer still sending after cancellation: %+v", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stream channel not closed after cancellation")
	}
}

func TestOpenAIProvider_GenerateHonorsConfiguredTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-block:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(block) })

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test", Model: "m", BaseURL: srv.URL}, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := time.Now()
	_, err = p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("call ran %v before failing, want the 50ms bound applied", elapsed)
	}
}
