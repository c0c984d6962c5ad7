package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_Frozen(t *testing.T) {
	clock := At(2026, time.October, 15, 9, 30, 0)

	first := clock.Now()
	assert.Equal(t, first, clock.Now())
	assert.Equal(t, 15, first.Day())
}

func TestFixedClock_NextDay(t *testing.T) {
	clock := At(2026, time.October, 15, 23, 59, 0)
	clock.NextDay()

	assert.Equal(t, "2026-10-16", clock.Now().Format("2006-01-02"))
}

func TestFixedClock_Set(t *testing.T) {
	clock := At(2026, time.October, 15, 0, 0, 0)
	target := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	clock.Set(target)

	assert.Equal(t, target, clock.Now())
}

func TestFixedClock_ThreadSafe(t *testing.T) {
	clock := At(2026, time.October, 15, 0, 0, 0)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				clock.Advance(time.Second)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, "00:16:40", clock.Now().Format("15:04:05"))
}

func TestSequentialIDs(t *testing.T) {
	ids := NewSequentialIDs("")
	assert.Equal(t, "sale-0001", ids.Generate())
	assert.Equal(t, "sale-0002", ids.Generate())

	custom := NewSequentialIDs("inv")
	assert.Equal(t, "inv-0001", custom.Generate())
}
