// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"maps"
	"sync"
)

// Map is a map safe for concurrent use, for results produced by concurrent
// workers.
type Map[K comparable, V any] struct {
	m     map[K]V
	mutex sync.RWMutex
}

func NewMapWithLen[K comparable, V any](size int) *Map[K, V] {
	return &Map[K, V]{
		m: make(map[K]V, size),
	}
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	value, found := m.m[key]
	return value, found
}

func (m *Map[K, V]) Set(key K, value V) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.m[key] = value
}

func (m *Map[K, V]) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.m)
}

// GetMap returns a copy of the map content.
func (m *Map[K, V]) GetMap() map[K]V {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return maps.Clone(m.m)
}
