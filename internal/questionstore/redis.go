package questionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ktnk/toeiq/internal/toeic"
)

// RedisStore keeps each question as a hash and indexes IDs in per-level
// sorted sets scored by timestamp:
//
//	HSET part5:{level}:doc:{id}  json {serialized} choice:0 {count} ...
//	ZADD part5:{level}:byCreated {createdAt ms} {id}
//	ZADD part5:{level}:byUpdated {updatedAt ms} {id}
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store on an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) docKey(level toeic.Level, id uuid.UUID) string {
	return fmt.Sprintf("part5:%s:doc:%s", level, id)
}

func (s *RedisStore) createdKey(level toeic.Level) string {
	return fmt.Sprintf("part5:%s:byCreated", level)
}

func (s *RedisStore) updatedKey(level toeic.Level) string {
	return fmt.Sprintf("part5:%s:byUpdated", level)
}

func (s *RedisStore) Save(ctx context.Context, items []toeic.Question, level toeic.Level) error {
	if len(items) == 0 {
		return nil
	}
	stampBatch(items, s.now())

	pipe := s.client.Pipeline()
	for _, q := range items {
		doc, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("encode question %s: %w", q.ID, err)
		}
		pipe.HSet(ctx, s.docKey(level, q.ID), "json", doc)
		pipe.ZAdd(ctx, s.createdKey(level), redis.Z{
			Score:  float64(q.CreatedAt.UnixMilli()),
			Member: q.ID.String(),
		})
		pipe.ZAdd(ctx, s.updatedKey(level), redis.Z{
			Score:  float64(q.UpdatedAt.UnixMilli()),
			Member: q.ID.String(),
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save batch: %w", err)
	}
	return nil
}

func (s *RedisStore) FetchLatestCached(ctx context.Context, level toeic.Level, types []toeic.QuestionType, limit int) ([]toeic.Question, error) {
	return s.FetchPage(ctx, PageQuery{
		Level: level,
		Types: types,
		Limit: limit,
		Desc:  true,
	})
}

func (s *RedisStore) FetchPage(ctx context.Context, q PageQuery) ([]toeic.Question, error) {
	lo, hi := scoreBounds(q)

	ids, err := s.client.ZRangeByScore(ctx, s.createdKey(q.Level), &redis.ZRangeBy{
		Min: lo,
		Max: hi,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("scan index: %w", err)
	}
	if q.Desc {
		slices.Reverse(ids)
	}

	out := make([]toeic.Question, 0, len(ids))
	for _, id := range ids {
		qid, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		item, err := s.load(ctx, q.Level, qid)
		if err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		if !matchesTypes(item, q.Types) {
			continue
		}
		out = append(out, item)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (s *RedisStore) ExistsNewerThan(ctx context.Context, level toeic.Level, t time.Time, types []toeic.QuestionType) (bool, error) {
	page, err := s.FetchPage(ctx, PageQuery{
		Level: level,
		Types: types,
		After: t,
		Limit: 1,
		Desc:  true,
	})
	if err != nil {
		return false, err
	}
	return len(page) > 0, nil
}

func (s *RedisStore) IncrementChoice(ctx context.Context, level toeic.Level, id uuid.UUID, choice int) error {
	if choice < 0 || choice > 3 {
		return fmt.Errorf("choice index %d out of range", choice)
	}
	key := s.docKey(level, id)
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("check question: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	if err := s.client.HIncrBy(ctx, key, "choice:"+strconv.Itoa(choice), 1).Err(); err != nil {
		return fmt.Errorf("increment choice: %w", err)
	}
	return nil
}

func (s *RedisStore) ChoiceCounts(ctx context.Context, level toeic.Level, id uuid.UUID) ([4]int64, error) {
	var counts [4]int64
	fields, err := s.client.HGetAll(ctx, s.docKey(level, id)).Result()
	if err != nil {
		return counts, fmt.Errorf("read question: %w", err)
	}
	if len(fields) == 0 {
		return counts, ErrNotFound
	}
	for i := range counts {
		if v, ok := fields["choice:"+strconv.Itoa(i)]; ok {
			counts[i], _ = strconv.ParseInt(v, 10, 64)
		}
	}
	return counts, nil
}

func (s *RedisStore) load(ctx context.Context, level toeic.Level, id uuid.UUID) (toeic.Question, error) {
	var q toeic.Question
	doc, err := s.client.HGet(ctx, s.docKey(level, id), "json").Result()
	if err == redis.Nil {
		return q, ErrNotFound
	}
	if err != nil {
		return q, fmt.Errorf("read question %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(doc), &q); err != nil {
		return q, fmt.Errorf("decode question %s: %w", id, err)
	}
	return q, nil
}

// scoreBounds renders the exclusive time window of a query as ZRANGEBYSCORE
// bounds. Cursor tightens the boundary on the iteration side.
func scoreBounds(q PageQuery) (string, string) {
	lo := "-inf"
	hi := "+inf"
	if !q.After.IsZero() {
		lo = fmt.Sprintf("(%d", q.After.UnixMilli())
	}
	if !q.Before.IsZero() {
		hi = fmt.Sprintf("(%d", q.Before.UnixMilli())
	}
	if !q.Cursor.IsZero() {
		if q.Desc {
			hi = fmt.Sprintf("(%d", q.Cursor.UnixMilli())
		} else {
			lo = fmt.Sprintf("(%d", q.Cursor.UnixMilli())
		}
	}
	return lo, hi
}
