package questionstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ktnk/toeiq/internal/toeic"
)

// MemoryStore is an in-process Store used when no Redis endpoint is
// configured. Contents vanish on exit.
type MemoryStore struct {
	mu     sync.RWMutex
	byLvl  map[toeic.Level][]toeic.Question
	counts map[uuid.UUID]*[4]int64
	now    func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byLvl:  make(map[toeic.Level][]toeic.Question),
		counts: make(map[uuid.UUID]*[4]int64),
		now:    time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, items []toeic.Question, level toeic.Level) error {
	if len(items) == 0 {
		return nil
	}
	stampBatch(items, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byLvl[level] = append(s.byLvl[level], items...)
	slices.SortFunc(s.byLvl[level], func(a, b toeic.Question) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return nil
}

func (s *MemoryStore) FetchLatestCached(ctx context.Context, level toeic.Level, types []toeic.QuestionType, limit int) ([]toeic.Question, error) {
	return s.FetchPage(ctx, PageQuery{Level: level, Types: types, Limit: limit, Desc: true})
}

func (s *MemoryStore) FetchPage(_ context.Context, q PageQuery) ([]toeic.Question, error) {
	s.mu.RLock()
	all := slices.Clone(s.byLvl[q.Level])
	s.mu.RUnlock()

	if q.Desc {
		slices.Reverse(all)
	}

	var out []toeic.Question
	for _, item := range all {
		if !inWindow(item.CreatedAt, q) || !matchesTypes(item, q.Types) {
			continue
		}
		out = append(out, item)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) ExistsNewerThan(ctx context.Context, level toeic.Level, t time.Time, types []toeic.QuestionType) (bool, error) {
	page, err := s.FetchPage(ctx, PageQuery{Level: level, Types: types, After: t, Limit: 1})
	if err != nil {
		return false, err
	}
	return len(page) > 0, nil
}

func (s *MemoryStore) IncrementChoice(_ context.Context, level toeic.Level, id uuid.UUID, choice int) error {
	if choice < 0 || choice > 3 {
		return ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.has(level, id) {
		return ErrNotFound
	}
	c, ok := s.counts[id]
	if !ok {
		c = &[4]int64{}
		s.counts[id] = c
	}
	c[choice]++
	return nil
}

func (s *MemoryStore) ChoiceCounts(_ context.Context, level toeic.Level, id uuid.UUID) ([4]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.has(level, id) {
		return [4]int64{}, ErrNotFound
	}
	if c, ok := s.counts[id]; ok {
		return *c, nil
	}
	return [4]int64{}, nil
}

func (s *MemoryStore) has(level toeic.Level, id uuid.UUID) bool {
	for _, q := range s.byLvl[level] {
		if q.ID == id {
			return true
		}
	}
	return false
}

func inWindow(ts time.Time, q PageQuery) bool {
	if !q.After.IsZero() && !ts.After(q.After) {
		return false
	}
	if !q.Before.IsZero() && !ts.Before(q.Before) {
		return false
	}
	if !q.Cursor.IsZero() {
		if q.Desc {
			if !ts.Before(q.Cursor) {
				return false
			}
		} else if !ts.After(q.Cursor) {
			return false
		}
	}
	return true
}
