// Package snapshot caches fetched configuration dumps per appliance.
package snapshot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/peakflow-tools/spconf/pkg/util"
)

// Snapshot is one cached configuration dump.
type Snapshot struct {
	Host      string    `json:"host"`
	Dump      string    `json:"dump"`
	FetchedAt time.Time `json:"fetched_at"`
	Lines     int       `json:"lines"`
}

// New stamps a snapshot of dump taken now.
func New(host, dump string) *Snapshot {
	return &Snapshot{
		Host:      host,
		Dump:      dump,
		FetchedAt: time.Now().UTC(),
		Lines:     countLines(dump),
	}
}

// Age returns how long ago the snapshot was taken.
func (s *Snapshot) Age() time.Duration {
	return time.Since(s.FetchedAt)
}

func countLines(dump string) int {
	n := 0
	for _, line := range strings.Split(dump, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// Store persists snapshots keyed by host. Get and Delete return an error
// wrapping util.ErrNotFound for unknown hosts.
type Store interface {
	Put(ctx context.Context, s *Snapshot) error
	Get(ctx context.Context, host string) (*Snapshot, error)
	Delete(ctx context.Context, host string) error
	List(ctx context.Context) ([]string, error)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]Snapshot)}
}

func (m *MemoryStore) Put(_ context.Context, s *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[s.Host] = *s
	return nil
}

func (m *MemoryStore) Get(_ context.Context, host string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snaps[host]
	if !ok {
		return nil, notFound(host)
	}
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, host string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snaps[host]; !ok {
		return notFound(host)
	}
	delete(m.snaps, host)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hosts := make([]string, 0, len(m.snaps))
	for host := range m.snaps {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts, nil
}

func notFound(host string) error {
	return fmt.Errorf("snapshot %s: %w", host, util.ErrNotFound)
}
