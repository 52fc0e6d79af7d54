package history

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Tracker wraps a Store for use inside study sessions: history writes are
// best-effort and must never interrupt answering, so failures are logged
// and swallowed, and reads degrade to empty results.
type Tracker struct {
	store *Store
	log   *slog.Logger
}

func NewTracker(store *Store, log *slog.Logger) *Tracker {
	return &Tracker{store: store, log: log}
}

func (t *Tracker) RecordAttempt(ctx context.Context, questionID uuid.UUID, correct bool) {
	if err := t.store.RecordAttempt(ctx, questionID, correct); err != nil {
		t.log.Warn("recording attempt failed",
			slog.String("question", questionID.String()),
			slog.String("error", err.Error()))
	}
}

func (t *Tracker) RecentOutcomes(ctx context.Context, questionID uuid.UUID, limit int) []bool {
	out, err := t.store.RecentOutcomes(ctx, questionID, limit)
	if err != nil {
		t.log.Warn("reading outcomes failed",
			slog.String("question", questionID.String()),
			slog.String("error", err.Error()))
		return nil
	}
	return out
}

func (t *Tracker) SetFavorite(ctx context.Context, questionID uuid.UUID, favorite bool) {
	if err := t.store.SetFavorite(ctx, questionID, favorite); err != nil {
		t.log.Warn("setting favorite failed",
			slog.String("question", questionID.String()),
			slog.String("error", err.Error()))
	}
}

func (t *Tracker) IsFavorite(ctx context.Context, questionID uuid.UUID) bool {
	fav, err := t.store.IsFavorite(ctx, questionID)
	if err != nil {
		t.log.Warn("reading favorite failed",
			slog.String("question", questionID.String()),
			slog.String("error", err.Error()))
		return false
	}
	return fav
}

func (t *Tracker) Summary(ctx context.Context, questionID uuid.UUID) Summary {
	s, err := t.store.Summary(ctx, questionID)
	if err != nil {
		t.log.Warn("reading summary failed",
			slog.String("question", questionID.String()),
			slog.String("error", err.Error()))
		return Summary{QuestionID: questionID}
	}
	return s
}
