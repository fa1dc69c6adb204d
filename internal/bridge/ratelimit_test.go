package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter()
	rl.now = func() time.Time { return now }

	assert.True(t, rl.ShouldPublish("fnv", 1000), "first publication always passes")
	assert.False(t, rl.ShouldPublish("fnv", 1000))
	assert.True(t, rl.ShouldPublish("fo3", 1000), "hosts are limited independently")

	now = now.Add(999 * time.Millisecond)
	assert.False(t, rl.ShouldPublish("fnv", 1000))

	now = now.Add(time.Millisecond)
	assert.True(t, rl.ShouldPublish("fnv", 1000))

	last, ok := rl.LastPublish("fnv")
	assert.True(t, ok)
	assert.Equal(t, now, last)

	rl.Forget("fnv")
	_, ok = rl.LastPublish("fnv")
	assert.False(t, ok)
}

func TestRateLimiter_ZeroInterval(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.ShouldPublish("fnv", 0))
	}
}
