package spanz

import "sync/atomic"

// TraceFilter is a sampling predicate consulted when a span starts and no
// sampling decision exists yet for the request. Filters run in their
// configured order and short-circuit on the first rejection, so order is
// part of the configuration contract, not a hint.
//
// Filters are shared across all requests a tracer handles and must be
// safe for concurrent use.
type TraceFilter interface {
	// Trace reports whether the request should be traced, given the
	// candidate span id and the request name.
	Trace(spanID int64, requestName string) bool
}

// TraceFilterFunc adapts a function to the TraceFilter interface.
type TraceFilterFunc func(spanID int64, requestName string) bool

// Trace calls f.
func (f TraceFilterFunc) Trace(spanID int64, requestName string) bool {
	return f(spanID, requestName)
}

// FixedSampleRateFilter traces 1 out of every rate requests, counted
// across all requests that reach it. Safe for concurrent use.
type FixedSampleRateFilter struct {
	rate    int64
	counter atomic.Int64
}

// NewFixedSampleRateFilter creates a filter with the given rate:
// rate <= 0 traces nothing, rate == 1 traces everything, rate == n traces
// the first request and every n-th after it.
func NewFixedSampleRateFilter(rate int) *FixedSampleRateFilter {
	return &FixedSampleRateFilter{rate: int64(rate)}
}

// Trace implements TraceFilter.
func (f *FixedSampleRateFilter) Trace(_ int64, _ string) bool {
	if f.rate <= 0 {
		return false
	}
	if f.rate == 1 {
		return true
	}
	return (f.counter.Add(1)-1)%f.rate == 0
}
