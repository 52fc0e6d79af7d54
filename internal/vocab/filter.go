// Package vocab builds word-drill queues from the bundled NGSL lists:
// range selection, progress filtering, choice building, and streamed
// example sentences.
package vocab

import (
	"context"

	"github.com/google/uuid"

	"github.com/ktnk/toeiq/internal/billing"
	"github.com/ktnk/toeiq/internal/dataset"
	"github.com/ktnk/toeiq/internal/history"
)

// FilterMode narrows a word range by study progress.
type FilterMode string

const (
	FilterAll           FilterMode = "all"
	FilterIncorrectOnly FilterMode = "incorrectOnly"
	FilterUnlearnedOnly FilterMode = "unlearnedOnly"
)

// Title returns the mode's display label.
func (m FilterMode) Title() string {
	switch m {
	case FilterIncorrectOnly:
		return "不正解のみ"
	case FilterUnlearnedOnly:
		return "未学習のみ"
	default:
		return "すべて"
	}
}

// History is the slice of the attempt tracker the filter needs.
type History interface {
	RecentOutcomes(ctx context.Context, questionID uuid.UUID, limit int) []bool
	IsFavorite(ctx context.Context, questionID uuid.UUID) bool
}

// QueueOptions selects and narrows the word queue.
type QueueOptions struct {
	Mode FilterMode

	// FavoritesOnly keeps only favorited words. Ignored unless the
	// entitlements unlock it.
	FavoritesOnly bool
}

// Progress summarizes a word list against the history.
type Progress struct {
	Total     int
	Correct   int
	Incorrect int
	Unlearned int
}

// BuildQueue filters words by the last recorded outcome of each. A word's
// history row is keyed by the hash of its meaning, the same ID the drill
// records attempts under.
func BuildQueue(ctx context.Context, words []dataset.NgslWord, opts QueueOptions, hist History, ent billing.Entitlements) []dataset.NgslWord {
	favoritesOnly := opts.FavoritesOnly && ent.FavoritesOnly()

	var out []dataset.NgslWord
	for _, w := range words {
		id := history.WordID(w.Meaning)
		if favoritesOnly && !hist.IsFavorite(ctx, id) {
			continue
		}
		switch opts.Mode {
		case FilterIncorrectOnly:
			last := hist.RecentOutcomes(ctx, id, 1)
			if len(last) == 0 || last[0] {
				continue
			}
		case FilterUnlearnedOnly:
			if len(hist.RecentOutcomes(ctx, id, 1)) > 0 {
				continue
			}
		}
		out = append(out, w)
	}
	return out
}

// Summarize counts study progress over a word list.
func Summarize(ctx context.Context, words []dataset.NgslWord, hist History) Progress {
	p := Progress{Total: len(words)}
	for _, w := range words {
		last := hist.RecentOutcomes(ctx, history.WordID(w.Meaning), 1)
		switch {
		case len(last) == 0:
			p.Unlearned++
		case last[0]:
			p.Correct++
		default:
			p.Incorrect++
		}
	}
	return p
}
