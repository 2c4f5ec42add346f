package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmit_UnderCeiling(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewLimiter(time.Minute, 3, clock)

	for i := 0; i < 3; i++ {
		d := l.Admit("client-a")
		assert.True(t, d.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 2-i, d.Remaining)
	}
}

func TestAdmit_CeilingExceeded(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewLimiter(time.Minute, 5, clock)

	for i := 0; i < 5; i++ {
		require.True(t, l.Admit("client-a").Allowed)
	}

	d := l.Admit("client-a")
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
}

func TestAdmit_DeniedDoesNotConsumeQuota(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewLimiter(time.Minute, 2, clock)

	require.True(t, l.Admit("client-a").Allowed)
	require.True(t, l.Admit("client-a").Allowed)

	// Repeated denials never alter the stored count.
	for i := 0; i < 10; i++ {
		assert.False(t, l.Admit("client-a").Allowed)
	}

	clock.Advance(time.Minute)
	assert.True(t, l.Admit("client-a").Allowed)
}

func TestAdmit_WindowReset(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewLimiter(time.Minute, 1, clock)

	require.True(t, l.Admit("client-a").Allowed)
	require.False(t, l.Admit("client-a").Allowed)

	clock.Advance(time.Minute)

	d := l.Admit("client-a")
	assert.True(t, d.Allowed, "fresh window should admit again")
	assert.Equal(t, clock.Now().Add(time.Minute), d.ResetAt)
}

func TestAdmit_ClientsAreIndependent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewLimiter(time.Minute, 1, clock)

	require.True(t, l.Admit("client-a").Allowed)
	require.False(t, l.Admit("client-a").Allowed)

	assert.True(t, l.Admit("client-b").Allowed)
}

func TestAdmit_SweepRemovesExpiredRecords(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewLimiter(time.Minute, 10, clock)

	for i := 0; i < 50; i++ {
		l.Admit(fmt.Sprintf("client-%d", i))
	}
	assert.Equal(t, 50, l.TrackedClients())

	// All windows expire well before the sweep cadence elapses.
	clock.Advance(sweepEvery + time.Second)
	l.Admit("client-new")

	assert.Equal(t, 1, l.TrackedClients())
}

func TestAdmit_ConcurrentSameKey(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewLimiter(time.Minute, 100, clock)

	var wg sync.WaitGroup
	allowed := make([]bool, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			allowed[i] = l.Admit("client-a").Allowed
		}(i)
	}
	wg.Wait()

	count := 0
	for _, ok := range allowed {
		if ok {
			count++
		}
	}
	assert.Equal(t, 100, count, "exactly the ceiling should be admitted")
}
