package spacetraveling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPagePrefix namespaces page keys in a shared Redis database.
const RedisPagePrefix = "spacetraveling:page:"

// RedisStore keeps generated pages in Redis hashes.
type RedisStore struct {
	rdb *redis.Client
}

var _ PageStore = (*RedisStore)(nil)

// NewRedisStore connects to the Redis server at url and verifies it answers.
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (Page, bool, error) {
	vals, err := s.rdb.HMGet(ctx, RedisPagePrefix+key, "html", "generated_at").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Page{}, false, nil
		}
		return Page{}, false, err
	}
	html, ok := vals[0].(string)
	if !ok {
		return Page{}, false, nil
	}
	var generated int64
	if raw, ok := vals[1].(string); ok {
		generated, _ = strconv.ParseInt(raw, 10, 64)
	}
	return Page{Key: key, HTML: []byte(html), GeneratedAt: time.UnixMilli(generated)}, true, nil
}

func (s *RedisStore) Put(ctx context.Context, p Page) error {
	return s.rdb.HSet(ctx, RedisPagePrefix+p.Key,
		"html", p.HTML,
		"generated_at", p.GeneratedAt.UnixMilli(),
	).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, RedisPagePrefix+key).Err()
}

// Keys scans the page namespace. It is O(N) over the keyspace and meant for
// invalidation and sitemaps, not request paths.
func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, RedisPagePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val()[len(RedisPagePrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
