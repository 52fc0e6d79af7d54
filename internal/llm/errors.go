package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrEmptyContent indicates the response arrived without a message body.
type ErrEmptyContent struct{}

func (e *ErrEmptyContent) Error() string {
	return "response had no message content"
}

// ErrHTTPStatus indicates a non-2xx status from the endpoint. The raw body
// is captured for the error surface.
type ErrHTTPStatus struct {
	Status int
	Body   string
}

func (e *ErrHTTPStatus) Error() string {
	return fmt.Sprintf("HTTP error (status=%d): %s", e.Status, e.Body)
}

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates content that does not decode as, or conform
// to, the requested JSON shape.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid model response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider unavailable: %v", e.Err)
	}
	return "provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }
