package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitscout/fitscout/models"
)

func TestKey_DistinguishesQueries(t *testing.T) {
	a := Key(models.Query{Product: "Whey", Weight: "1kg", Flavor: "Chocolate"})
	b := Key(models.Query{Product: "Whey", Weight: "1kg", Flavor: "Vanilla"})
	c := Key(models.Query{Product: "Whey", Weight: "1kg", Flavor: "Chocolate"})

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)
}

func TestGetSet(t *testing.T) {
	c := New(10)
	key := Key(models.Query{Product: "Whey", Weight: "1kg", Flavor: "Chocolate"})
	results := []models.Product{{Name: "x", Price: "100", URL: "u", Site: "Amazon"}}

	_, hit := c.Get(key, time.Minute)
	assert.False(t, hit)

	c.Set(key, results)
	got, hit := c.Get(key, time.Minute)
	require.True(t, hit)
	assert.Equal(t, results, got)
}

func TestGet_ZeroMaxAgeDisablesLookup(t *testing.T) {
	c := New(10)
	key := Key(models.Query{Product: "a", Weight: "b", Flavor: "c"})
	c.Set(key, []models.Product{{Name: "x", Price: "1", URL: "u", Site: "s"}})

	_, hit := c.Get(key, 0)
	assert.False(t, hit)
}

func TestGet_ExpiredEntryMisses(t *testing.T) {
	c := New(10)
	key := Key(models.Query{Product: "a", Weight: "b", Flavor: "c"})
	c.Set(key, []models.Product{{Name: "x", Price: "1", URL: "u", Site: "s"}})

	c.mu.Lock()
	c.store[key].createdAt = time.Now().Add(-2 * time.Minute)
	c.mu.Unlock()

	_, hit := c.Get(key, time.Minute)
	assert.False(t, hit)
}

func TestSet_EvictsAtCapacity(t *testing.T) {
	c := New(2)
	c.Set("k1", nil)
	c.Set("k2", nil)
	c.Set("k3", nil)

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.Len(t, c.store, 2)
}
