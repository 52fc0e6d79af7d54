package questionstore

import (
	"context"
	"testing"
	"time"

	"github.com/ktnk/toeiq/internal/toeic"
)

func TestCheckLatest_EmptyStore(t *testing.T) {
	store := NewMemoryStore()
	got, err := CheckLatest(context.Background(), store, toeic.Level600, nil, 10)
	if err != nil {
		t.Fatalf("check latest: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestCheckLatest_NoNewerPagesFromStart(t *testing.T) {
	store := NewMemoryStore()
	store.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	batch := sampleBatch(3, toeic.TypeGrammar)
	if err := store.Save(ctx, batch, toeic.Level600); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := CheckLatest(ctx, store, toeic.Level600, nil, 10)
	if err != nil {
		t.Fatalf("check latest: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(got))
	}
	// Ascending order.
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.Before(got[i-1].CreatedAt) {
			t.Fatal("expected ascending page")
		}
	}
}

func TestCheckLatest_NewerItemsPagedAfterCachedHead(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	old := sampleBatch(1, toeic.TypeGrammar)
	if err := store.Save(ctx, old, toeic.Level600); err != nil {
		t.Fatalf("save: %v", err)
	}

	store.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }
	fresh := sampleBatch(2, toeic.TypeGrammar)
	if err := store.Save(ctx, fresh, toeic.Level600); err != nil {
		t.Fatalf("save: %v", err)
	}

	// MemoryStore's latest head is the newest item, so nothing is newer
	// than it; the full ascending page comes back.
	got, err := CheckLatest(ctx, store, toeic.Level600, nil, 10)
	if err != nil {
		t.Fatalf("check latest: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected all 3 questions, got %d", len(got))
	}
}
