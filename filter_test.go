package spanz

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceFilterFunc(t *testing.T) {
	var gotSpanID int64
	var gotName string
	f := TraceFilterFunc(func(spanID int64, name string) bool {
		gotSpanID = spanID
		gotName = name
		return true
	})

	assert.True(t, f.Trace(42, "get-user"))
	assert.Equal(t, int64(42), gotSpanID)
	assert.Equal(t, "get-user", gotName)
}

func TestFixedSampleRateFilterNever(t *testing.T) {
	f := NewFixedSampleRateFilter(0)
	for i := 0; i < 5; i++ {
		assert.False(t, f.Trace(int64(i), "op"))
	}
}

func TestFixedSampleRateFilterAlways(t *testing.T) {
	f := NewFixedSampleRateFilter(1)
	for i := 0; i < 5; i++ {
		assert.True(t, f.Trace(int64(i), "op"))
	}
}

func TestFixedSampleRateFilterCadence(t *testing.T) {
	f := NewFixedSampleRateFilter(3)
	var got []bool
	for i := 0; i < 7; i++ {
		got = append(got, f.Trace(int64(i), "op"))
	}
	assert.Equal(t, []bool{true, false, false, true, false, false, true}, got)
}

func TestFixedSampleRateFilterConcurrent(t *testing.T) {
	const (
		rate       = 10
		goroutines = 8
		perG       = 1000
	)
	f := NewFixedSampleRateFilter(rate)

	var traced atomic.Int64
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				if f.Trace(int64(i), "op") {
					traced.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(goroutines*perG/rate), traced.Load())
}
