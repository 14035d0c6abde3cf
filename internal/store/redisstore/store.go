package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avachat/chatbot-service/internal/catalog"
)

const kbCacheKey = "catalog:knowledge_bases"

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr, password string, db int, ttl time.Duration) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

// GetKnowledgeBases returns the cached listing, or (nil, nil) on a cache miss.
func (s *Store) GetKnowledgeBases(ctx context.Context) ([]catalog.KnowledgeBase, error) {
	raw, err := s.rdb.Get(ctx, kbCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var kbs []catalog.KnowledgeBase
	if err := json.Unmarshal(raw, &kbs); err != nil {
		return nil, err
	}
	return kbs, nil
}

func (s *Store) SetKnowledgeBases(ctx context.Context, kbs []catalog.KnowledgeBase) error {
	raw, err := json.Marshal(kbs)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, kbCacheKey, raw, s.ttl).Err()
}
