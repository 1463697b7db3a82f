package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/chrisvdg/trivia-backend/internal/logger"
)

// RedisStore is a DocStore over plain Redis string keys, iterated with SCAN.
//
// Update is a read-then-write: two concurrent updates to the same key can
// interleave and the second write wins, which on question documents means
// one party's update_history entry is lost. This matches the behavior of
// the store the schema was ported from and is the documented trade-off of
// this backend; use the Postgres backend where the race matters.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a RedisStore over an existing client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	doc, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *RedisStore) Scan(ctx context.Context, prefix string) ([][]byte, error) {
	var docs [][]byte

	iter := s.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		doc, err := s.rdb.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			// Key expired or deleted between SCAN and GET.
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	logger.Log.Debugw("store scan", "prefix", prefix, "count", len(docs))
	return docs, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, doc []byte) error {
	return s.rdb.Set(ctx, key, doc, 0).Err()
}

func (s *RedisStore) Update(ctx context.Context, key string, fn UpdateFunc) ([]byte, error) {
	current, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	if err := s.rdb.Set(ctx, key, next, 0).Err(); err != nil {
		return nil, err
	}

	logger.Log.Debugw("store update", "key", key)
	return next, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) (bool, error) {
	deleted, err := s.rdb.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}
