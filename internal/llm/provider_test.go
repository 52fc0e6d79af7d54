package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
	)

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected recorded system prompt, got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_Stream(t *testing.T) {
	mock := NewMockProvider()
	mock.StreamChunks = []Chunk{{Delta: "The "}, {Delta: "merger "}, {Delta: "closed."}}

	ch, err := mock.GenerateStream(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var b strings.Builder
	for chunk := range ch {
		if chunk.Err != nil {
			t.Fatalf("unexpected chunk error: %v", chunk.Err)
		}
		b.WriteString(chunk.Delta)
		if chunk.Done {
			break
		}
	}
	if got := b.String(); got != "The merger closed." {
		t.Fatalf("expected assembled text, got %q", got)
	}
}

func TestFallbackStream_SingleChunk(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`The revenue grew.`)},
	)

	fs := FallbackStream{Provider: mock}
	ch, err := fs.GenerateStream(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var deltas []string
	for chunk := range ch {
		if chunk.Delta != "" {
			deltas = append(deltas, chunk.Delta)
		}
	}
	if len(deltas) != 1 || deltas[0] != "The revenue grew." {
		t.Fatalf("expected whole content as one chunk, got %v", deltas)
	}
}

func TestAsStream_PrefersNativeStreaming(t *testing.T) {
	mock := NewMockProvider()
	sp := AsStream(mock)
	if _, ok := sp.(FallbackStream); ok {
		t.Fatal("expected native streaming provider, got fallback")
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := WithPurpose(context.Background(), "verification")
	if got := PurposeFrom(ctx); got != "verification" {
		t.Fatalf("expected purpose 'verification', got %q", got)
	}
	if got := PurposeFrom(context.Background()); got != "unknown" {
		t.Fatalf("expected default purpose 'unknown', got %q", got)
	}
}
