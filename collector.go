package spanz

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// SpanCollector is the sink for finished spans. Collect is
// fire-and-forget: it must not block the caller and must tolerate
// concurrent calls, since many requests finish spans simultaneously.
// The tracer hands each span off exactly once; downstream retry or
// deduplication behavior is the collector's concern.
type SpanCollector interface {
	Collect(span *Span)
}

// CollectorFunc adapts a function to the SpanCollector interface.
type CollectorFunc func(span *Span)

// Collect calls f.
func (f CollectorFunc) Collect(span *Span) { f(span) }

// BufferedCollector buffers finished spans in memory for batch export.
// Spans arrive through a bounded channel so collection never blocks the
// tracing hot path; when the channel is full, spans are dropped and
// counted. Safe for concurrent use by multiple goroutines.
type BufferedCollector struct {
	spans    []Span
	spansCh  chan Span
	stopCh   chan struct{}
	done     chan struct{}
	dropped  atomic.Int64
	logger   *zap.Logger
	mu       sync.Mutex
	closed   atomic.Bool
	syncMode bool
}

// NewBufferedCollector creates a collector whose channel holds up to
// bufferSize spans in flight. A nil logger disables drop and shutdown
// diagnostics.
func NewBufferedCollector(bufferSize int, logger *zap.Logger) *BufferedCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &BufferedCollector{
		spans:   make([]Span, 0, 8),
		spansCh: make(chan Span, bufferSize),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		logger:  logger,
	}
	go c.loop()
	return c
}

// loop receives spans from the channel and buffers them until Close.
func (c *BufferedCollector) loop() {
	defer close(c.done)
	for {
		select {
		case <-c.stopCh:
			// Drain whatever is still queued before shutdown.
			for {
				select {
				case span := <-c.spansCh:
					c.buffer(span)
				default:
					return
				}
			}
		case span := <-c.spansCh:
			c.buffer(span)
		}
	}
}

// Collect implements SpanCollector. The span is deep-copied so the
// collector's view is immune to any later mutation by a misbehaving
// caller. In sync mode the copy is buffered directly, which makes tests
// deterministic.
func (c *BufferedCollector) Collect(span *Span) {
	if span == nil {
		c.drop()
		return
	}
	spanCopy := *span
	if span.Annotations != nil {
		spanCopy.Annotations = make([]Annotation, len(span.Annotations))
		copy(spanCopy.Annotations, span.Annotations)
	}
	if span.BinaryAnnotations != nil {
		spanCopy.BinaryAnnotations = make([]BinaryAnnotation, len(span.BinaryAnnotations))
		copy(spanCopy.BinaryAnnotations, span.BinaryAnnotations)
	}

	if c.syncMode {
		if c.closed.Load() {
			c.drop()
			return
		}
		c.buffer(spanCopy)
		return
	}

	select {
	case c.spansCh <- spanCopy:
	default:
		// Channel full. Dropping beats blocking the request path.
		c.drop()
	}
}

func (c *BufferedCollector) drop() {
	n := c.dropped.Add(1)
	// Log the first drop and every 1000th after it, to avoid flooding.
	if n == 1 || n%1000 == 0 {
		c.logger.Debug("dropping span, collector buffer full", zap.Int64("dropped", n))
	}
}

func (c *BufferedCollector) buffer(span Span) {
	c.mu.Lock()
	c.spans = append(c.spans, span)
	c.mu.Unlock()
}

// Export returns a copy of all buffered spans and clears the buffer. The
// returned slice is safe to modify.
func (c *BufferedCollector) Export() []Span {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.spans) == 0 {
		return nil
	}
	result := make([]Span, len(c.spans))
	copy(result, c.spans)
	c.spans = c.spans[:0]
	return result
}

// Count returns the number of currently buffered spans.
func (c *BufferedCollector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.spans)
}

// Dropped returns the total number of spans dropped due to backpressure.
func (c *BufferedCollector) Dropped() int64 {
	return c.dropped.Load()
}

// SetSyncMode enables synchronous collection: spans are buffered directly
// instead of passing through the channel, eliminating async timing from
// tests. Call it before any Collect.
func (c *BufferedCollector) SetSyncMode(sync bool) {
	c.syncMode = sync
}

// Close shuts the collector down, draining queued spans first. Spans
// collected after Close may be dropped.
func (c *BufferedCollector) Close() {
	if c.closed.Swap(true) {
		return
	}
	close(c.stopCh)
	select {
	case <-c.done:
	case <-time.After(100 * time.Millisecond):
		c.logger.Warn("collector shutdown timed out, spans may be lost")
	}
}
