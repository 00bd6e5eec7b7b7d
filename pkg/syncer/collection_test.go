package syncer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func msg(id string, at time.Time) *Message {
	return &Message{Id: id, CreatedAt: at}
}

func TestCollectionDeduplicatesByKey(t *testing.T) {
	c := NewCollection[*Message]()
	at := time.Now()

	assert.True(t, c.Upsert(msg("a", at)))
	assert.False(t, c.Upsert(msg("a", at)))
	assert.Equal(t, 1, c.Len())
}

func TestCollectionUpsertReplacesInPlace(t *testing.T) {
	c := NewCollection[*Message]()
	at := time.Now()

	first := msg("a", at)
	first.Pending = true
	c.Upsert(first)

	second := msg("a", at)
	second.Content = "confirmed"
	c.Upsert(second)

	items := c.Items()
	assert.Len(t, items, 1)
	assert.False(t, items[0].Pending)
	assert.Equal(t, "confirmed", items[0].Content)
}

func TestCollectionOrdersByTimestamp(t *testing.T) {
	c := NewCollection[*Message]()
	base := time.Now()

	c.Upsert(msg("late", base.Add(2*time.Second)))
	c.Upsert(msg("early", base))
	c.Upsert(msg("middle", base.Add(time.Second)))

	items := c.Items()
	assert.Equal(t, []string{"early", "middle", "late"}, []string{items[0].Id, items[1].Id, items[2].Id})
}

func TestCollectionTiesKeepInsertionOrder(t *testing.T) {
	c := NewCollection[*Message]()
	at := time.Now()

	c.Upsert(msg("first", at))
	c.Upsert(msg("second", at))

	items := c.Items()
	assert.Equal(t, "first", items[0].Id)
	assert.Equal(t, "second", items[1].Id)
}

func TestCollectionRemove(t *testing.T) {
	c := NewCollection[*Message]()
	at := time.Now()

	c.Upsert(msg("a", at))
	c.Upsert(msg("b", at.Add(time.Second)))

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	assert.Equal(t, 1, c.Len())

	// Re-adding a removed key must work.
	assert.True(t, c.Upsert(msg("a", at)))
	assert.Equal(t, 2, c.Len())
}

func TestCollectionClear(t *testing.T) {
	c := NewCollection[*Message]()
	c.Upsert(msg("a", time.Now()))
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Items())
}
