package snapshot

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/peakflow-tools/spconf/pkg/util"
)

func TestNew(t *testing.T) {
	s := New("sp1", "a\n\n  \nb\r\nc\n")
	if s.Lines != 3 {
		t.Errorf("Lines = %d, want 3", s.Lines)
	}
	if s.Host != "sp1" {
		t.Errorf("Host = %q, want sp1", s.Host)
	}
	if s.Age() < 0 || s.Age() > time.Minute {
		t.Errorf("Age() = %v, want just now", s.Age())
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if _, err := m.Get(ctx, "sp1"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	s := New("sp1", "line")
	if err := m.Put(ctx, s); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	s.Dump = "mutated"
	if err := m.Put(ctx, New("sp0", "x")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := m.Get(ctx, "sp1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Dump != "line" {
		t.Errorf("Dump = %q, store should keep its own copy", got.Dump)
	}

	hosts, _ := m.List(ctx)
	if !reflect.DeepEqual(hosts, []string{"sp0", "sp1"}) {
		t.Errorf("List() = %v, want [sp0 sp1]", hosts)
	}

	if err := m.Delete(ctx, "sp1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := m.Delete(ctx, "sp1"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestStoreInterface(t *testing.T) {
	var _ Store = NewMemoryStore()
	var _ Store = &RedisStore{}
}

func TestRedisKey(t *testing.T) {
	if got := redisKey("sp-leader"); got != "SP_CONFIG|sp-leader" {
		t.Errorf("redisKey() = %q", got)
	}
}
