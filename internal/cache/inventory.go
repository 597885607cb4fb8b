package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	PostKeyPrefix     = "post:%d"
	PublishedListKey  = "posts:published"
	SettingsKeyPrefix = "settings:%s"
)

const (
	PostTTL     = 30 * time.Minute
	ListTTL     = 1 * time.Minute
	SettingsTTL = 5 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func SettingsKey(name string) string {
	return fmt.Sprintf(SettingsKeyPrefix, name)
}

// Aside implements the cache-aside pattern: on hit, unmarshal into dest; on
// miss, run fetch (which must populate dest) and store the result. Cache
// failures are silent; the database is always authoritative.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() error) error {
	if client != nil {
		raw, err := client.Get(ctx, key).Bytes()
		if err == nil {
			if unmarshalErr := json.Unmarshal(raw, dest); unmarshalErr == nil {
				return nil
			}
			// Corrupt entry: drop it and fall through to fetch.
			client.Del(ctx, key)
		} else if err != redis.Nil {
			// Redis unavailable: fail open to the database.
		}
	}

	if err := fetch(); err != nil {
		return err
	}

	if client != nil {
		if raw, err := json.Marshal(dest); err == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}
	return nil
}

// Invalidate removes a single cache key.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost drops a post's detail entry and the published list.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, PublishedListKey)
}

// InvalidatePublishedList drops only the published list entry.
func InvalidatePublishedList(ctx context.Context) {
	Invalidate(ctx, PublishedListKey)
}

// InvalidateSettings drops a settings document entry.
func InvalidateSettings(ctx context.Context, name string) {
	Invalidate(ctx, SettingsKey(name))
}
