package questionstore

import (
	"context"
	"fmt"

	"github.com/ktnk/toeiq/internal/toeic"
)

// CheckLatest resolves the freshest batch for a level without generating
// anything: look at the newest cached item, and if the store holds
// questions created after it, page those in ascending order; otherwise
// page from the beginning.
func CheckLatest(ctx context.Context, store Store, level toeic.Level, types []toeic.QuestionType, pageSize int) ([]toeic.Question, error) {
	cached, err := store.FetchLatestCached(ctx, level, types, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch latest cached: %w", err)
	}

	if len(cached) > 0 {
		newest := cached[0]
		hasNewer, err := store.ExistsNewerThan(ctx, level, newest.UpdatedAt, types)
		if err != nil {
			return nil, fmt.Errorf("check newer: %w", err)
		}
		if hasNewer {
			return store.FetchPage(ctx, PageQuery{
				Level: level,
				Types: types,
				After: newest.UpdatedAt,
				Limit: pageSize,
			})
		}
	}

	return store.FetchPage(ctx, PageQuery{
		Level: level,
		Types: types,
		Limit: pageSize,
	})
}
