package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nezumiya/chat/internal/core"
)

func TestJoinRateLimiterCapsAttempts(t *testing.T) {
	rl := NewJoinRateLimiter(3, time.Minute)
	sid := core.SessionID("s1")

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(sid), "attempt %d should pass", i+1)
	}
	assert.False(t, rl.Allow(sid), "fourth attempt should be blocked")
}

func TestJoinRateLimiterPerSession(t *testing.T) {
	rl := NewJoinRateLimiter(1, time.Minute)

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestJoinRateLimiterWindowExpiry(t *testing.T) {
	rl := NewJoinRateLimiter(1, 10*time.Millisecond)
	sid := core.SessionID("s1")

	assert.True(t, rl.Allow(sid))
	assert.False(t, rl.Allow(sid))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, rl.Allow(sid), "attempt after window should pass")
}

func TestJoinRateLimiterDisabled(t *testing.T) {
	rl := NewJoinRateLimiter(0, time.Minute)
	for i := 0; i < 50; i++ {
		assert.True(t, rl.Allow("s1"))
	}
}
