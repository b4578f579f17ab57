//go:build integration

package testutil

import (
	"context"
	"testing"

	"github.com/go-redis/redis/v8"
)

// WriteEntry writes a hash at "TABLE|key" with the given fields.
func WriteEntry(t *testing.T, client *redis.Client, table, key string, fields map[string]string) {
	t.Helper()

	redisKey := table + "|" + key
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	if err := client.HSet(context.Background(), redisKey, args...).Err(); err != nil {
		t.Fatalf("writing %s: %v", redisKey, err)
	}
}

// ReadEntry reads the hash at "TABLE|key".
func ReadEntry(t *testing.T, client *redis.Client, table, key string) map[string]string {
	t.Helper()

	redisKey := table + "|" + key
	vals, err := client.HGetAll(context.Background(), redisKey).Result()
	if err != nil {
		t.Fatalf("reading %s: %v", redisKey, err)
	}
	return vals
}

// EntryExists checks if "TABLE|key" exists.
func EntryExists(t *testing.T, client *redis.Client, table, key string) bool {
	t.Helper()

	redisKey := table + "|" + key
	n, err := client.Exists(context.Background(), redisKey).Result()
	if err != nil {
		t.Fatalf("checking existence of %s: %v", redisKey, err)
	}
	return n > 0
}
