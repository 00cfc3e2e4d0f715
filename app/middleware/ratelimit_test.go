package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowLocal(t *testing.T) {
	t.Run("blocks after limit within window", func(t *testing.T) {
		rl := &RateLimiter{windows: make(map[string]*localWindow)}

		assert.True(t, rl.allowLocal("ingest", "1.2.3.4", 2))
		assert.True(t, rl.allowLocal("ingest", "1.2.3.4", 2))
		assert.False(t, rl.allowLocal("ingest", "1.2.3.4", 2))
	})

	t.Run("counters are scoped per route", func(t *testing.T) {
		rl := &RateLimiter{windows: make(map[string]*localWindow)}

		assert.True(t, rl.allowLocal("ingest", "1.2.3.4", 1))
		assert.False(t, rl.allowLocal("ingest", "1.2.3.4", 1))
		assert.True(t, rl.allowLocal("chat", "1.2.3.4", 1))
	})

	t.Run("counters are scoped per client", func(t *testing.T) {
		rl := &RateLimiter{windows: make(map[string]*localWindow)}

		assert.True(t, rl.allowLocal("ingest", "1.2.3.4", 1))
		assert.False(t, rl.allowLocal("ingest", "1.2.3.4", 1))
		assert.True(t, rl.allowLocal("ingest", "5.6.7.8", 1))
	})
}
