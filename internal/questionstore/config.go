package questionstore

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Open builds the question cache from TOEIQ_REDIS_* env vars. Without an
// address, or when the endpoint does not answer a ping, it falls back to
// the in-process store so study sessions still work offline.
func Open(ctx context.Context, log *slog.Logger) Store {
	addr := os.Getenv("TOEIQ_REDIS_ADDR")
	if addr == "" {
		return NewMemoryStore()
	}

	db := 0
	if v := os.Getenv("TOEIQ_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("TOEIQ_REDIS_PASSWORD"),
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("question cache unreachable, using in-memory store",
			slog.String("addr", addr),
			slog.String("error", err.Error()))
		return NewMemoryStore()
	}

	log.Debug("question cache connected", slog.String("addr", addr))
	return NewRedisStore(client)
}
