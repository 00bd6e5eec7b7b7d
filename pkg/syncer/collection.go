package syncer

import (
	"sort"
	"time"
)

// Keyed is anything a Collection can hold.
type Keyed interface {
	Key() string
	SortTime() time.Time
}

// Collection is an insertion-ordered set deduplicated by key. An optimistic
// local insert and its echo from the change feed land on the same key, so
// the second write updates in place instead of duplicating.
type Collection[T Keyed] struct {
	order []string
	items map[string]T
}

func NewCollection[T Keyed]() *Collection[T] {
	return &Collection[T]{items: make(map[string]T)}
}

// Upsert stores the item, reporting whether the key was new.
func (c *Collection[T]) Upsert(item T) bool {
	key := item.Key()
	_, exists := c.items[key]
	c.items[key] = item
	if !exists {
		c.order = append(c.order, key)
	}
	return !exists
}

func (c *Collection[T]) Get(key string) (T, bool) {
	item, ok := c.items[key]
	return item, ok
}

func (c *Collection[T]) Remove(key string) bool {
	if _, ok := c.items[key]; !ok {
		return false
	}
	delete(c.items, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *Collection[T]) Len() int {
	return len(c.items)
}

func (c *Collection[T]) Clear() {
	c.order = c.order[:0]
	c.items = make(map[string]T)
}

// Items returns the contents ordered by their timestamp; ties keep
// insertion order, so optimistic entries stay put when the echo lands.
func (c *Collection[T]) Items() []T {
	result := make([]T, 0, len(c.items))
	for _, key := range c.order {
		result = append(result, c.items[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SortTime().Before(result[j].SortTime())
	})
	return result
}
