package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinCapacity(t *testing.T) {
	rl := New(1, 3, time.Hour)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("a"), "request %d should pass", i)
	}
	assert.False(t, rl.Allow("a"), "bucket should be empty")
}

func TestIdentitiesAreIndependent(t *testing.T) {
	rl := New(1, 1, time.Hour)
	defer rl.Stop()

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestRefill(t *testing.T) {
	rl := New(100, 1, time.Hour)
	defer rl.Stop()

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	// 100 tokens/s refills a single-token bucket within 10ms.
	time.Sleep(50 * time.Millisecond)
	assert.True(t, rl.Allow("a"))
}

func TestExpirationCleansUpLimiter(t *testing.T) {
	rl := New(1, 1, 20*time.Millisecond)
	defer rl.Stop()

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	// After the idle expiration the bucket is recreated at full capacity.
	time.Sleep(100 * time.Millisecond)
	assert.True(t, rl.Allow("a"))
}

func TestConcurrentAccess(t *testing.T) {
	rl := New(1, 1000, time.Hour)
	defer rl.Stop()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				rl.Allow("shared")
			}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	// 500 requests against a 1000-token bucket: none should have been refused.
	assert.True(t, rl.Allow("shared"))
}
