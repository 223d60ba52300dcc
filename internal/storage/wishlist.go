package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// WishlistReader reports how many entries the persisted wishlist holds.
type WishlistReader interface {
	CurrentCount(ctx context.Context) (int, error)
}

// WishlistKey returns the storage key of a visitor's wishlist entry.
func WishlistKey(base, visitor string) string {
	if visitor == "" {
		return base
	}
	return base + ":" + visitor
}

type redisWishlist struct {
	redisClient *redis.Client
	key         string
}

// NewRedisWishlist reads the wishlist stored as a JSON array under key.
func NewRedisWishlist(redisClient *redis.Client, key string) WishlistReader {
	return &redisWishlist{
		redisClient: redisClient,
		key:         key,
	}
}

func (w *redisWishlist) CurrentCount(ctx context.Context) (int, error) {
	val, err := w.redisClient.Get(ctx, w.key).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil // Nothing saved yet
		}
		return 0, fmt.Errorf("failed to read wishlist %s: %w", w.key, err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return 0, fmt.Errorf("failed to parse wishlist %s: %w", w.key, err)
	}

	return len(entries), nil
}
