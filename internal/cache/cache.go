// Package cache реализует ограниченный кеш результатов отчётов.
package cache

import (
	"sync"
	"time"
)

// ReportCache хранит результаты отчётов по явному ключу (вид отчёта и
// значения фильтров). Записи живут не дольше TTL; при переполнении
// вытесняется самая старая запись. Доступ защищён мьютексом: две сессии
// могут одновременно обращаться к одному ключу.
type ReportCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]entry

	now func() time.Time
}

type entry struct {
	value    any
	storedAt time.Time
}

// New создаёт кеш с указанным TTL и максимальным числом записей.
func New(ttl time.Duration, capacity int) *ReportCache {
	return &ReportCache{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]entry),
		now:      time.Now,
	}
}

// Get возвращает сохранённое значение, если оно есть и не устарело.
func (c *ReportCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set сохраняет значение по ключу, при необходимости вытесняя самую
// старую запись.
func (c *ReportCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.capacity {
		c.evictOldest()
	}

	c.entries[key] = entry{value: value, storedAt: c.now()}
}

// Len возвращает текущее число записей в кеше.
func (c *ReportCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ReportCache) evictOldest() {
	var oldestKey string
	var oldestAt time.Time

	for k, e := range c.entries {
		if oldestKey == "" || e.storedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.storedAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
