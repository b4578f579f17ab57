//go:build integration

package snapshot_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/peakflow-tools/spconf/internal/testutil"
	"github.com/peakflow-tools/spconf/pkg/snapshot"
	"github.com/peakflow-tools/spconf/pkg/util"
)

func newStore(t *testing.T) *snapshot.RedisStore {
	t.Helper()
	testutil.SkipIfNoRedis(t)
	return snapshot.NewRedisStoreFromClient(testutil.RedisClient(t))
}

func TestRedisPutGet(t *testing.T) {
	store := newStore(t)
	ctx := testutil.Context(t)

	want := snapshot.New("sp-leader", testutil.SampleDump)
	if err := store.Put(ctx, want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "sp-leader")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Dump != want.Dump || got.Lines != want.Lines {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
	if !got.FetchedAt.Equal(want.FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, want.FetchedAt)
	}
}

func TestRedisHashLayout(t *testing.T) {
	store := newStore(t)
	client := testutil.RedisClient(t)
	ctx := testutil.Context(t)

	s := &snapshot.Snapshot{Host: "sp-east", Dump: "x", FetchedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), Lines: 1}
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	vals := testutil.ReadEntry(t, client, snapshot.KeyPrefix, "sp-east")
	want := map[string]string{"dump": "x", "fetched_at": "2024-01-02T03:04:05Z", "lines": "1"}
	if !reflect.DeepEqual(vals, want) {
		t.Errorf("hash = %v, want %v", vals, want)
	}
}

func TestRedisListDelete(t *testing.T) {
	store := newStore(t)
	ctx := testutil.Context(t)

	for _, host := range testutil.SampleHosts {
		if err := store.Put(ctx, snapshot.New(host, testutil.SampleDump)); err != nil {
			t.Fatalf("Put %s failed: %v", host, err)
		}
	}

	hosts, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !reflect.DeepEqual(hosts, []string{"sp-east", "sp-leader", "sp-west"}) {
		t.Errorf("List = %v", hosts)
	}

	if err := store.Delete(ctx, "sp-east"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "sp-east"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("Get after Delete error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "sp-east"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}
