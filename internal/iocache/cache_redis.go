package iocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/redis/go-redis/v9"
)

// redisTimeout bounds every Redis round trip.
const redisTimeout = 5 * time.Second

// Hash fields of a cached entry.
const (
	fieldValue     = "value"
	fieldVersion   = "version"
	fieldTimestamp = "ts"
)

// RedisCacheStore keeps signal cache entries as Redis hashes under a key prefix.
type RedisCacheStore struct {
	client *redis.Client
	prefix string
}

var _ contract.CacheStore = &RedisCacheStore{} // Compile-time check

// NewRedisCacheStore connects to the Redis server described by a redis:// URL.
func NewRedisCacheStore(namespace, url string) (*RedisCacheStore, error) {
	if err := validateTableName(namespace); err != nil {
		return nil, err
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w. Check connection format: redis://[:password@]host:port/db", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return newRedisCacheStore(client, namespace), nil
}

func newRedisCacheStore(client *redis.Client, namespace string) *RedisCacheStore {
	return &RedisCacheStore{client: client, prefix: "toolrank:" + namespace + ":"}
}

// Get retrieves a value by key. A missing key returns sql.ErrNoRows so callers
// treat every backend alike.
func (rs *RedisCacheStore) Get(key string) ([]byte, int, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	vals, err := rs.client.HMGet(ctx, rs.prefix+key, fieldValue, fieldVersion, fieldTimestamp).Result()
	if err != nil {
		return nil, 0, 0, err
	}
	if len(vals) != 3 || vals[0] == nil || vals[1] == nil || vals[2] == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	value, _ := vals[0].(string)
	version, err := strconv.Atoi(fmt.Sprint(vals[1]))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt cache version for %s: %w", key, err)
	}
	ts, err := strconv.ParseInt(fmt.Sprint(vals[2]), 10, 64)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt cache timestamp for %s: %w", key, err)
	}
	return []byte(value), version, ts, nil
}

// Set inserts or replaces a key/value pair.
func (rs *RedisCacheStore) Set(key string, value []byte, version int, timestamp int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	return rs.client.HSet(ctx, rs.prefix+key,
		fieldValue, value,
		fieldVersion, version,
		fieldTimestamp, timestamp,
	).Err()
}

// GetStatus scans the namespace and reports entry counts and sizes.
func (rs *RedisCacheStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(schema.RedisBackend),
		Connected: rs.client != nil,
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	var oldest, newest int64
	iter := rs.client.Scan(ctx, 0, rs.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		ts, err := rs.client.HGet(ctx, key, fieldTimestamp).Int64()
		if err != nil {
			continue
		}
		size, err := rs.client.HStrLen(ctx, key, fieldValue).Result()
		if err == nil {
			status.TableSizeBytes += size
		}
		status.TotalEntries++
		if oldest == 0 || ts < oldest {
			oldest = ts
		}
		if ts > newest {
			newest = ts
		}
	}
	if err := iter.Err(); err != nil {
		return status, fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if status.TotalEntries > 0 {
		status.OldestEntryTime = time.Unix(oldest, 0)
		status.LastEntryTime = time.Unix(newest, 0)
	}
	return status, nil
}

// Clear deletes every key in the namespace.
func (rs *RedisCacheStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	iter := rs.client.Scan(ctx, 0, rs.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := rs.client.Del(ctx, keys...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

// Close closes the client.
func (rs *RedisCacheStore) Close() error {
	if rs.client != nil {
		return rs.client.Close()
	}
	return nil
}
