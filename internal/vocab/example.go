package vocab

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ktnk/toeiq/internal/dataset"
	"github.com/ktnk/toeiq/internal/llm"
)

const (
	// exampleAttempts bounds regeneration when the sentence fails the
	// whole-word check.
	exampleAttempts = 5

	// exampleTimeout bounds each streaming attempt.
	exampleTimeout = 5 * time.Second
)

const exampleInstructions = `あなたはTOEIC対策の英語講師です。与えられた英単語を使った自然なビジネス英語の例文を1文だけ作成してください。
- 例文の後に日本語訳を1行添えてください。
- 指定された単語をそのままの形で文中に含めてください。
- 前置きや解説は不要です。`

// ExampleUpdate is one snapshot of a streamed example sentence. Text is
// cumulative; a retry restarts it from empty.
type ExampleUpdate struct {
	Text string
	Done bool
}

// ExampleStreamer generates example sentences for drilled words,
// token-streamed so the UI can render as tokens arrive.
type ExampleStreamer struct {
	provider llm.StreamProvider
}

func NewExampleStreamer(p llm.Provider) *ExampleStreamer {
	return &ExampleStreamer{provider: llm.AsStream(p)}
}

// Stream produces example sentence snapshots for the word. A finished
// sentence must contain the word on a word boundary; otherwise the attempt
// is discarded and regenerated, up to exampleAttempts times. The channel
// always ends with a Done update, even when every attempt fell short:
// partial text is still worth showing.
func (s *ExampleStreamer) Stream(ctx context.Context, word dataset.NgslWord) <-chan ExampleUpdate {
	out := make(chan ExampleUpdate)
	go func() {
		defer close(out)

		prompt := fmt.Sprintf("入力された語彙は「%s」です。", word.Word)
		req := llm.Request{
			System:    exampleInstructions,
			Messages:  []llm.Message{{Role: llm.RoleUser, Content: prompt}},
			MaxTokens: 512,
		}

		var text string
		for attempt := 0; attempt < exampleAttempts; attempt++ {
			text = s.streamOnce(ctx, req, out)
			if containsWholeWord(text, word.Word) {
				break
			}
			if ctx.Err() != nil {
				break
			}
		}
		select {
		case out <- ExampleUpdate{Text: text, Done: true}:
		case <-ctx.Done():
		}
	}()
	return out
}

// streamOnce runs a single bounded streaming attempt, forwarding
// cumulative snapshots, and returns the assembled text.
func (s *ExampleStreamer) streamOnce(ctx context.Context, req llm.Request, out chan<- ExampleUpdate) string {
	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, "vocab-example"), exampleTimeout)
	defer cancel()

	ch, err := s.provider.GenerateStream(ctx, req)
	if err != nil {
		return ""
	}

	var b strings.Builder
	for chunk := range ch {
		if chunk.Err != nil || chunk.Done {
			break
		}
		b.WriteString(chunk.Delta)
		select {
		case out <- ExampleUpdate{Text: b.String()}:
		case <-ctx.Done():
			return b.String()
		}
	}
	return b.String()
}

// containsWholeWord matches the word case-insensitively on a simple word
// boundary: preceded by start or whitespace, followed by whitespace, end,
// or basic punctuation.
func containsWholeWord(text, word string) bool {
	if text == "" || word == "" {
		return false
	}
	pattern := `(?i)(^|\s)` + regexp.QuoteMeta(word) + `(\s|$|[.,!?;:])`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}
