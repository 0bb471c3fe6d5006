package spanz

import "fmt"

// SpanID is the immutable identity of a span within a trace.
// A SpanID without a parent is a trace root; roots are constructed with
// SpanID equal to TraceID. SpanIDs compare by value with ==.
type SpanID struct {
	TraceID   int64
	SpanID    int64
	ParentID  int64
	HasParent bool
}

// NewRootSpanID returns the identity for the first span of a new trace.
func NewRootSpanID(id int64) SpanID {
	return SpanID{TraceID: id, SpanID: id}
}

// NewChildSpanID returns the identity for a span continuing an existing
// trace under the given parent span.
func NewChildSpanID(traceID, spanID, parentID int64) SpanID {
	return SpanID{TraceID: traceID, SpanID: spanID, ParentID: parentID, HasParent: true}
}

// Root reports whether this span starts its trace.
func (id SpanID) Root() bool {
	return !id.HasParent
}

func (id SpanID) String() string {
	if !id.HasParent {
		return fmt.Sprintf("[trace=%d span=%d]", id.TraceID, id.SpanID)
	}
	return fmt.Sprintf("[trace=%d span=%d parent=%d]", id.TraceID, id.SpanID, id.ParentID)
}
