package vocab

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/ktnk/toeiq/internal/billing"
	"github.com/ktnk/toeiq/internal/dataset"
	"github.com/ktnk/toeiq/internal/history"
)

type fakeHistory struct {
	outcomes  map[uuid.UUID][]bool
	favorites map[uuid.UUID]bool
}

func (f *fakeHistory) RecentOutcomes(_ context.Context, id uuid.UUID, limit int) []bool {
	out := f.outcomes[id]
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakeHistory) IsFavorite(_ context.Context, id uuid.UUID) bool {
	return f.favorites[id]
}

func testWords() []dataset.NgslWord {
	return []dataset.NgslWord{
		{Word: "negotiate", Meaning: "交渉する", POS: "動詞"},
		{Word: "revenue", Meaning: "収益", POS: "名詞"},
		{Word: "temporary", Meaning: "一時的な", POS: "形容詞"},
	}
}

func historyFor(words []dataset.NgslWord) *fakeHistory {
	h := &fakeHistory{
		outcomes:  map[uuid.UUID][]bool{},
		favorites: map[uuid.UUID]bool{},
	}
	// negotiate: last attempt correct; revenue: last attempt wrong;
	// temporary: never studied.
	h.outcomes[history.WordID(words[0].Meaning)] = []bool{true, false}
	h.outcomes[history.WordID(words[1].Meaning)] = []bool{false, true}
	return h
}

func TestBuildQueue_All(t *testing.T) {
	words := testWords()
	got := BuildQueue(context.Background(), words, QueueOptions{Mode: FilterAll}, historyFor(words), billing.Static{})
	if len(got) != 3 {
		t.Fatalf("expected all 3 words, got %d", len(got))
	}
}

func TestBuildQueue_IncorrectOnly(t *testing.T) {
	words := testWords()
	got := BuildQueue(context.Background(), words, QueueOptions{Mode: FilterIncorrectOnly}, historyFor(words), billing.Static{})
	if len(got) != 1 || got[0].Word != "revenue" {
		t.Fatalf("expected only the word last answered wrong, got %v", got)
	}
}

func TestBuildQueue_UnlearnedOnly(t *testing.T) {
	words := testWords()
	got := BuildQueue(context.Background(), words, QueueOptions{Mode: FilterUnlearnedOnly}, historyFor(words), billing.Static{})
	if len(got) != 1 || got[0].Word != "temporary" {
		t.Fatalf("expected only the unstudied word, got %v", got)
	}
}

func TestBuildQueue_FavoritesRequireEntitlement(t *testing.T) {
	words := testWords()
	h := historyFor(words)
	h.favorites[history.WordID(words[0].Meaning)] = true

	opts := QueueOptions{Mode: FilterAll, FavoritesOnly: true}

	// Without the entitlement the favorites filter is ignored.
	got := BuildQueue(context.Background(), words, opts, h, billing.Static{Premium: false})
	if len(got) != 3 {
		t.Fatalf("expected filter ignored without entitlement, got %d words", len(got))
	}

	got = BuildQueue(context.Background(), words, opts, h, billing.Static{Premium: true})
	if len(got) != 1 || got[0].Word != "negotiate" {
		t.Fatalf("expected only the favorite, got %v", got)
	}
}

func TestSummarize(t *testing.T) {
	words := testWords()
	p := Summarize(context.Background(), words, historyFor(words))
	if p.Total != 3 || p.Correct != 1 || p.Incorrect != 1 || p.Unlearned != 1 {
		t.Fatalf("unexpected progress %+v", p)
	}
}
