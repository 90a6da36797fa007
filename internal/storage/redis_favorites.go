package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every key written by RedisFavorites.
const DefaultRedisPrefix = "tagdeck:"

// RedisFavorites keeps favorites in one sorted set per viewer, scored by the
// time a tag was added so listing preserves insertion order.
type RedisFavorites struct {
	client *redis.Client
	prefix string
}

func NewRedisFavorites(redisURL, prefix string) (*RedisFavorites, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisFavoritesWithClient(client, prefix), nil
}

func NewRedisFavoritesWithClient(client *redis.Client, prefix string) *RedisFavorites {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisFavorites{client: client, prefix: prefix}
}

func (s *RedisFavorites) key(viewer uuid.UUID) string {
	return s.prefix + "favorites:" + viewer.String()
}

func (s *RedisFavorites) IsFavorite(ctx context.Context, viewer uuid.UUID, tagID string) (bool, error) {
	err := s.client.ZScore(ctx, s.key(viewer), tagID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query favorite %s: %w", tagID, err)
	}
	return true, nil
}

func (s *RedisFavorites) AddFavorite(ctx context.Context, viewer uuid.UUID, tagID string) error {
	err := s.client.ZAddNX(ctx, s.key(viewer), redis.Z{
		Score:  float64(time.Now().UnixNano()),
		Member: tagID,
	}).Err()
	if err != nil {
		return fmt.Errorf("add favorite %s: %w", tagID, err)
	}
	return nil
}

func (s *RedisFavorites) RemoveFavorite(ctx context.Context, viewer uuid.UUID, tagID string) error {
	if err := s.client.ZRem(ctx, s.key(viewer), tagID).Err(); err != nil {
		return fmt.Errorf("remove favorite %s: %w", tagID, err)
	}
	return nil
}

func (s *RedisFavorites) Favorites(ctx context.Context, viewer uuid.UUID) ([]string, error) {
	ids, err := s.client.ZRange(ctx, s.key(viewer), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return ids, nil
}

func (s *RedisFavorites) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisFavorites) Close() error {
	return s.client.Close()
}
