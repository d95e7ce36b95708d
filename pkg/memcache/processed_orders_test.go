package memcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProcessedOrders(t *testing.T) {
	store := NewProcessedOrders()

	assert.False(t, store.Seen("ORDER_1"))

	store.Mark("ORDER_1", time.Minute)
	assert.True(t, store.Seen("ORDER_1"))
	assert.False(t, store.Seen("ORDER_2"))

	store.Mark("ORDER_3", -time.Second)
	assert.False(t, store.Seen("ORDER_3"), "expired entries are misses")
}
