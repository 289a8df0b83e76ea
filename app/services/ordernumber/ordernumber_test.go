package ordernumber

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var shape = regexp.MustCompile(`^BAR-\d{6}-[A-HJ-NP-Z2-9]{6}$`)

func TestRandomShape(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		n := Random(now)
		assert.Regexp(t, shape, n)
		assert.LessOrEqual(t, len(n), 20)
		assert.Equal(t, "BAR-260302-", n[:11])
		seen[n] = true
	}
	assert.Greater(t, len(seen), 190)
}

func TestSequenceRepeatsLast(t *testing.T) {
	gen := Sequence("AAAAAA", "BBBBBB")
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "BAR-260302-AAAAAA", gen(now))
	assert.Equal(t, "BAR-260302-BBBBBB", gen(now))
	assert.Equal(t, "BAR-260302-BBBBBB", gen(now))
}

func TestSequenceSharedAcrossGoroutines(t *testing.T) {
	gen := Sequence("AAAAAA", "BBBBBB", "CCCCCC")
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got = map[string]int{}
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := gen(now)
			mu.Lock()
			got[n]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, got["BAR-260302-AAAAAA"])
	assert.Equal(t, 1, got["BAR-260302-BBBBBB"])
	assert.Equal(t, 8, got["BAR-260302-CCCCCC"])
}

func TestEmptySequence(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "BAR-260302-", Sequence()(now))
}
