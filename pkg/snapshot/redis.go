package snapshot

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/peakflow-tools/spconf/pkg/util"
)

// KeyPrefix is the hash key namespace, "SP_CONFIG|<host>".
const KeyPrefix = "SP_CONFIG"

// Hash fields
const (
	fieldDump      = "dump"
	fieldFetchedAt = "fetched_at"
	fieldLines     = "lines"
)

// RedisStore keeps each snapshot in one Redis hash.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store on the given Redis address and database.
func NewRedisStore(addr string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
	}
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Connect tests the connection
func (r *RedisStore) Connect(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("snapshot store %s: %w", r.client.Options().Addr, err)
	}
	return nil
}

// Close closes the connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func redisKey(host string) string {
	return KeyPrefix + "|" + host
}

func (r *RedisStore) Put(ctx context.Context, s *Snapshot) error {
	key := redisKey(s.Host)
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key,
		fieldDump, s.Dump,
		fieldFetchedAt, s.FetchedAt.UTC().Format(time.RFC3339Nano),
		fieldLines, strconv.Itoa(s.Lines),
	)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store snapshot %s: %w", s.Host, err)
	}
	util.WithDevice(s.Host).Debugf("cached %d lines", s.Lines)
	return nil
}

func (r *RedisStore) Get(ctx context.Context, host string) (*Snapshot, error) {
	vals, err := r.client.HGetAll(ctx, redisKey(host)).Result()
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", host, err)
	}
	if len(vals) == 0 {
		return nil, notFound(host)
	}

	s := &Snapshot{Host: host, Dump: vals[fieldDump]}
	if ts := vals[fieldFetchedAt]; ts != "" {
		if s.FetchedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("snapshot %s: bad %s %q: %w", host, fieldFetchedAt, ts, err)
		}
	}
	if n := vals[fieldLines]; n != "" {
		if s.Lines, err = strconv.Atoi(n); err != nil {
			return nil, fmt.Errorf("snapshot %s: bad %s %q: %w", host, fieldLines, n, err)
		}
	}
	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, host string) error {
	n, err := r.client.Del(ctx, redisKey(host)).Result()
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", host, err)
	}
	if n == 0 {
		return notFound(host)
	}
	return nil
}

// List returns the cached hosts in ascending order.
func (r *RedisStore) List(ctx context.Context) ([]string, error) {
	keys, err := r.scanKeys(ctx, KeyPrefix+"|*")
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	hosts := make([]string, 0, len(keys))
	for _, key := range keys {
		hosts = append(hosts, strings.TrimPrefix(key, KeyPrefix+"|"))
	}
	sort.Strings(hosts)
	return hosts, nil
}

// scanKeys collects the keys matching pattern with cursor SCAN.
func (r *RedisStore) scanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}
