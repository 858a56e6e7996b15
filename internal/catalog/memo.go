// internal/catalog/memo.go
package catalog

import (
	"container/list"
	"sync"
)

const defaultMemoSize = 256

// memo is a small LRU of filtered results keyed by state fingerprint.
type memo struct {
	mu      sync.Mutex
	size    int
	entries map[string]*list.Element
	lru     *list.List

	hits   uint64
	misses uint64
}

type memoEntry struct {
	key      string
	products []int
}

func newMemo(size int) *memo {
	return &memo{
		size:    size,
		entries: make(map[string]*list.Element),
		lru:     list.New(),
	}
}

func (m *memo) get(key string) ([]int, bool) {
	if m.size <= 0 {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		m.misses++
		return nil, false
	}
	m.lru.MoveToFront(el)
	m.hits++
	return el.Value.(*memoEntry).products, true
}

func (m *memo) put(key string, products []int) {
	if m.size <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		el.Value.(*memoEntry).products = products
		m.lru.MoveToFront(el)
		return
	}
	m.entries[key] = m.lru.PushFront(&memoEntry{key: key, products: products})
	for m.lru.Len() > m.size {
		oldest := m.lru.Back()
		m.lru.Remove(oldest)
		delete(m.entries, oldest.Value.(*memoEntry).key)
	}
}

func (m *memo) stats() (hits, misses uint64, entries int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses, m.lru.Len()
}
