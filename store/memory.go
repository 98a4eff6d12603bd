package store

import (
	"context"
	"sync"
	"time"

	"github.com/rushteam/tabprep/core"
)

// MemoryStore 是内存实现的 HashStore，用于测试/开发/离线调试。
// 支持 TTL（过期时间），但进程重启后数据丢失。
type MemoryStore struct {
	mu     sync.RWMutex
	hashes map[string]*entry
	clean  *time.Ticker
	done   chan struct{}
	once   sync.Once
}

type entry struct {
	fields map[string][]byte
	ttl    *time.Time
}

func (e *entry) expired(now time.Time) bool {
	return e.ttl != nil && now.After(*e.ttl)
}

func NewMemoryStore() *MemoryStore {
	return newMemoryStore(10 * time.Second)
}

func newMemoryStore(interval time.Duration) *MemoryStore {
	ms := &MemoryStore{
		hashes: make(map[string]*entry),
		clean:  time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go ms.cleanup()
	return ms
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.hashes, key)
	return nil
}

func (m *MemoryStore) HMSet(ctx context.Context, key string, fields map[string][]byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.hashes[key]
	if !ok || e.expired(time.Now()) {
		e = &entry{fields: make(map[string][]byte, len(fields))}
		m.hashes[key] = e
	}
	for f, v := range fields {
		e.fields[f] = v
	}
	if exp := expiration(ttl); exp > 0 {
		t := time.Now().Add(exp)
		e.ttl = &t
	}
	return nil
}

func (m *MemoryStore) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.hashes[key]
	if !ok || e.expired(time.Now()) {
		return nil, ErrNotFound
	}
	result := make(map[string][]byte, len(e.fields))
	for f, v := range e.fields {
		result[f] = v
	}
	return result, nil
}

// Keys 返回所有未过期 Hash 的 key（无序），用于调试与测试。
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	keys := make([]string, 0, len(m.hashes))
	for k, e := range m.hashes {
		if !e.expired(now) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Close 停止过期清理协程，可重复调用。
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		m.clean.Stop()
		close(m.done)
	})
	return nil
}

func (m *MemoryStore) cleanup() {
	for {
		select {
		case <-m.clean.C:
			m.evict(time.Now())
		case <-m.done:
			return
		}
	}
}

func (m *MemoryStore) evict(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.hashes {
		if e.expired(now) {
			delete(m.hashes, k)
		}
	}
}

var _ core.HashStore = (*MemoryStore)(nil)
