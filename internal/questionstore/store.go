// Package questionstore persists generated Part 5 batches in a shared
// remote cache so devices can reuse each other's questions instead of
// paying for fresh generation.
package questionstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ktnk/toeiq/internal/toeic"
)

// ErrNotFound is returned when a question ID has no stored document.
var ErrNotFound = errors.New("question not found")

// saveSpacing is the timestamp offset applied to consecutive items of one
// batch, so items sort stably and a batch's items stay adjacent.
const saveSpacing = 60 * time.Second

// PageQuery selects a slice of stored questions.
type PageQuery struct {
	Level toeic.Level

	// Types filters results; empty means all types.
	Types []toeic.QuestionType

	// After and Before bound CreatedAt exclusively; zero means unbounded.
	After  time.Time
	Before time.Time

	// Cursor is the CreatedAt of the last item of the previous page,
	// exclusive. Zero starts from the boundary.
	Cursor time.Time

	// Limit caps the page size. Zero means no cap.
	Limit int

	// Desc orders newest-first when set.
	Desc bool
}

// Store is the remote question cache.
type Store interface {
	// Save persists a batch. Items receive server timestamps spaced
	// saveSpacing apart in batch order.
	Save(ctx context.Context, items []toeic.Question, level toeic.Level) error

	// FetchLatestCached returns the newest questions for the level,
	// filtered to the given types, newest-first.
	FetchLatestCached(ctx context.Context, level toeic.Level, types []toeic.QuestionType, limit int) ([]toeic.Question, error)

	// FetchPage returns a filtered, cursored page.
	FetchPage(ctx context.Context, q PageQuery) ([]toeic.Question, error)

	// ExistsNewerThan reports whether any question of the given types
	// was created strictly after t.
	ExistsNewerThan(ctx context.Context, level toeic.Level, t time.Time, types []toeic.QuestionType) (bool, error)

	// IncrementChoice bumps the pick counter for one option of a stored
	// question.
	IncrementChoice(ctx context.Context, level toeic.Level, id uuid.UUID, choice int) error

	// ChoiceCounts returns the per-option pick counters for a question.
	ChoiceCounts(ctx context.Context, level toeic.Level, id uuid.UUID) ([4]int64, error)
}

// matchesTypes reports whether q's type is in types; empty types match all.
func matchesTypes(q toeic.Question, types []toeic.QuestionType) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if q.Type == t {
			return true
		}
	}
	return false
}

// stampBatch assigns spaced timestamps to a batch in place.
func stampBatch(items []toeic.Question, now time.Time) {
	for i := range items {
		ts := now.Add(time.Duration(i) * saveSpacing)
		items[i].CreatedAt = ts
		items[i].UpdatedAt = ts
	}
}
