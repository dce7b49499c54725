package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "ld4p-deploy"

// RedisClient is the subset of the go-redis client the store uses.
type RedisClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	Close() error
}

// RedisStoreOptions are the `history.options` for the redis store.
type RedisStoreOptions struct {
	URL    *string `mapstructure:"url"`
	Prefix *string `mapstructure:"prefix"`
}

// RedisStore keeps records as a capped list of JSON documents, one list per application.
type RedisStore struct {
	redisClient RedisClient
	key         string
	limit       int
}

// Ensure RedisStore implements the Store interface.
var _ Store = (*RedisStore)(nil)

// NewRedisStore connects lazily: go-redis dials on the first command.
// Without a url option REDIS_URL is used.
func NewRedisStore(options RedisStoreOptions, application string, limit int) (*RedisStore, error) {
	url := os.Getenv("REDIS_URL")
	if options.URL != nil && *options.URL != "" {
		url = *options.URL
	}
	if url == "" {
		return nil, fmt.Errorf("redis store: url option or REDIS_URL is required")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis store: failed to parse url: %w", err)
	}

	prefix := defaultRedisPrefix
	if options.Prefix != nil && *options.Prefix != "" {
		prefix = *options.Prefix
	}

	return &RedisStore{
		redisClient: redis.NewClient(opts),
		key:         fmt.Sprintf("%s:%s:runs", prefix, application),
		limit:       limit,
	}, nil
}

func (s *RedisStore) Save(ctx context.Context, record RunRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	if err := s.redisClient.LPush(ctx, s.key, string(data)).Err(); err != nil {
		return fmt.Errorf("failed to save run record %s: %w", record.ID, err)
	}

	if s.limit > 0 {
		if err := s.redisClient.LTrim(ctx, s.key, 0, int64(s.limit-1)).Err(); err != nil {
			return fmt.Errorf("failed to trim run history: %w", err)
		}
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, limit int) ([]RunRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	values, err := s.redisClient.LRange(ctx, s.key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read run history: %w", err)
	}

	records := make([]RunRecord, 0, len(values))
	for _, v := range values {
		var r RunRecord
		if err := json.Unmarshal([]byte(v), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}

// Close closes the redis connection pool.
func (s *RedisStore) Close() error {
	if err := s.redisClient.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	return nil
}
