package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountersAreConcurrencySafe(t *testing.T) {
	s := Get()
	s.Reset()
	t.Cleanup(s.Reset)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.IncrementAPICalls()
			s.AddCommits(2)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), s.GetAPICalls())
	assert.Equal(t, int64(100), s.GetCommits())
}

func TestRateLimitSnapshot(t *testing.T) {
	s := Get()
	s.Reset()
	t.Cleanup(s.Reset)

	reset := time.Now().Add(time.Hour)
	s.UpdateRateLimit(5000, 4321, reset)

	got := s.GetRateLimit()
	assert.Equal(t, int64(5000), got.Limit)
	assert.Equal(t, int64(4321), got.Remaining)
	assert.Equal(t, reset, got.Reset)

	s.Reset()
	assert.Zero(t, s.GetRateLimit().Limit)
}
