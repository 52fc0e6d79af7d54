package llm

import (
	"context"
	"encoding/json"
	"time"
)

// withCallTimeout applies the provider's per-call bound when one is set.
func withCallTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// Provider is the abstraction over remote text-generation endpoints.
// Consumers send a Request and receive structured JSON back.
type Provider interface {
	// Generate sends a prompt and returns the model's output. When the
	// request carries a Schema the provider asks for a JSON object and the
	// returned Content is validated against that schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured for.
	ModelID() string
}

// StreamProvider is implemented by providers that can yield incremental
// partial output. Providers without native streaming are wrapped by
// FallbackStream, which emits the complete response as a single chunk.
type StreamProvider interface {
	Provider

	// GenerateStream starts a streaming request. The returned channel
	// yields zero or more chunks and is closed when the stream ends;
	// the terminal chunk has Done set, with Err carrying any failure.
	// Cancelling ctx tears the stream down.
	GenerateStream(ctx context.Context, req Request) (<-chan Chunk, error)
}

// Chunk is one increment of streamed output.
type Chunk struct {
	// Delta is the text appended by this chunk.
	Delta string

	// Done marks the terminal chunk. Delta is empty when Done is set.
	Done bool

	// Err is non-nil on the terminal chunk if the stream failed.
	Err error
}

// Request describes one call to the remote endpoint.
type Request struct {
	// System sets the model's role, e.g. "You are an expert TOEIC Part 5
	// item writer."
	System string

	// Messages is the conversation. Generation and verification are both
	// single-turn: one user message.
	Messages []Message

	// Schema, when set, requests strict JSON output (response_format
	// json_object on OpenAI-compatible endpoints) and validates the
	// response against the schema definition.
	Schema *Schema

	// MaxTokens bounds the response length. Zero means provider default.
	MaxTokens int

	// Temperature and TopP tune sampling. Zero values are omitted from
	// the wire request.
	Temperature float64
	TopP        float64
}

// Message is a single chat turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema the response must conform to.
type Schema struct {
	// Name identifies the schema, kebab-case, e.g. "question-batch".
	Name string

	// Description is sent to providers that accept one.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response is the model's output.
type Response struct {
	// Content is the message body. With a Schema set this is the
	// validated JSON object; otherwise raw text.
	Content json.RawMessage

	// Usage reports token consumption.
	Usage Usage

	// Model is the model that actually served the request.
	Model string
}

// Usage tracks token consumption for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// FallbackStream adapts a plain Provider into a StreamProvider by emitting
// the whole response as one chunk followed by the terminal chunk.
type FallbackStream struct {
	Provider
}

func (f FallbackStream) GenerateStream(ctx context.Context, req Request) (<-chan Chunk, error) {
	ch := make(chan Chunk, 2)
	go func() {
		defer close(ch)
		resp, err := f.Generate(ctx, req)
		if err != nil {
			ch <- Chunk{Done: true, Err: err}
			return
		}
		ch <- Chunk{Delta: string(resp.Content)}
		ch <- Chunk{Done: true}
	}()
	return ch, nil
}

// AsStream returns p as a StreamProvider, wrapping with FallbackStream
// when the provider has no native streaming support.
func AsStream(p Provider) StreamProvider {
	if sp, ok := p.(StreamProvider); ok {
		return sp
	}
	return FallbackStream{Provider: p}
}
