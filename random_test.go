package spanz

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGeneratorFunc(t *testing.T) {
	g := IDGeneratorFunc(func() int64 { return 42 })
	assert.Equal(t, int64(42), g.NextID())
}

func TestNewIDGeneratorNonNegative(t *testing.T) {
	g := NewIDGenerator(nil)
	for i := 0; i < 1000; i++ {
		assert.GreaterOrEqual(t, g.NextID(), int64(0))
	}
}

func TestNewIDGeneratorDistinct(t *testing.T) {
	g := NewIDGenerator(nil)
	seen := make(map[int64]bool, 1000)
	for i := 0; i < 1000; i++ {
		seen[g.NextID()] = true
	}
	// 1000 draws from a 63-bit space should never collide.
	require.Len(t, seen, 1000)
}

func TestNewIDGeneratorConcurrent(t *testing.T) {
	g := NewIDGenerator(nil)

	const goroutines = 16
	var wg sync.WaitGroup
	wg.Add(goroutines)
	results := make([][]int64, goroutines)
	for i := 0; i < goroutines; i++ {
		i := i
		go func() {
			defer wg.Done()
			ids := make([]int64, 100)
			for j := range ids {
				ids[j] = g.NextID()
			}
			results[i] = ids
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for _, ids := range results {
		for _, id := range ids {
			assert.GreaterOrEqual(t, id, int64(0))
			seen[id] = true
		}
	}
	assert.Len(t, seen, goroutines*100)
}
