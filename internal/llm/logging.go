package llm

import (
	"context"
	"log/slog"
	"time"
)

// LoggingProvider is a decorator that records every LLM request via slog.
type LoggingProvider struct {
	inner Provider
	log   *slog.Logger
}

// WithLogging wraps a Provider with structured request logging.
func WithLogging(p Provider, log *slog.Logger) Provider {
	if sp, ok := p.(StreamProvider); ok {
		return &loggingStreamProvider{
			LoggingProvider: LoggingProvider{inner: p, log: log},
			innerStream:     sp,
		}
	}
	return &LoggingProvider{inner: p, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	attrs := []any{
		slog.String("model", l.inner.ModelID()),
		slog.String("purpose", purpose),
		slog.Int64("latency_ms", time.Since(start).Milliseconds()),
	}
	if resp != nil {
		attrs = append(attrs,
			slog.Int("input_tokens", resp.Usage.InputTokens),
			slog.Int("output_tokens", resp.Usage.OutputTokens),
		)
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		l.log.Warn("llm request failed", attrs...)
	} else {
		l.log.Debug("llm request", attrs...)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// loggingStreamProvider preserves streaming support through the decorator.
type loggingStreamProvider struct {
	LoggingProvider
	innerStream StreamProvider
}

func (l *loggingStreamProvider) GenerateStream(ctx context.Context, req Request) (<-chan Chunk, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	ch, err := l.innerStream.GenerateStream(ctx, req)
	if err != nil {
		l.log.Warn("llm stream failed",
			slog.String("model", l.inner.ModelID()),
			slog.String("purpose", purpose),
			slog.String("error", err.Error()))
		return nil, err
	}

	l.log.Debug("llm stream started",
		slog.String("model", l.inner.ModelID()),
		slog.String("purpose", purpose),
		slog.Int64("setup_ms", time.Since(start).Milliseconds()))
	return ch, nil
}
