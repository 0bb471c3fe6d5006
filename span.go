package spanz

import (
	"fmt"
	"time"
)

// Zipkin core annotation values.
const (
	// ClientSend marks the start of a client span.
	ClientSend = "cs"
	// ClientRecv marks the end of a client span.
	ClientRecv = "cr"
	// ServerRecv marks the start of a server span.
	ServerRecv = "sr"
	// ServerSend marks the end of a server span.
	ServerSend = "ss"
	// ServerAddr is the binary annotation key describing the remote
	// server a client span is calling.
	ServerAddr = "sa"
	// ClientAddr is the binary annotation key describing the remote
	// client a server span is serving.
	ClientAddr = "ca"
)

// UnknownServiceName labels endpoints whose service could not be
// determined. Address annotations never carry an empty service name.
const UnknownServiceName = "unknown"

// Endpoint is the network identity of a traced participant.
type Endpoint struct {
	// IPv4 holds the address as a 32-bit integer, e.g. 1.2.3.4 is
	// (1 << 24) | (2 << 16) | (3 << 8) | 4.
	IPv4 uint32
	// Port is the listen port, or 0 if unknown.
	Port uint16
	// ServiceName is the lowercase name of the service.
	ServiceName string
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%d.%d.%d.%d:%d/%s",
		byte(e.IPv4>>24), byte(e.IPv4>>16), byte(e.IPv4>>8), byte(e.IPv4),
		e.Port, e.ServiceName)
}

// Annotation is a timestamped event attached to a span.
type Annotation struct {
	Timestamp time.Time
	Value     string
	Host      *Endpoint
}

// BinaryAnnotation is a key/value pair attached to a span, typically
// carrying address metadata.
type BinaryAnnotation struct {
	Key   string
	Value string
	Host  *Endpoint
}

// Span is one timed unit of work within a trace.
//
// A span is mutable while in flight: it is owned by the state holder and
// modified only through annotation submission. Ownership transfers to the
// collector at handoff; a span is handed off at most once and must not be
// mutated afterward. Spans are NOT safe for concurrent modification.
type Span struct {
	TraceID           int64
	SpanID            int64
	ParentID          int64
	HasParent         bool
	Name              string
	Annotations       []Annotation
	BinaryAnnotations []BinaryAnnotation
}

func newSpan(id SpanID, name string) *Span {
	return &Span{
		TraceID:   id.TraceID,
		SpanID:    id.SpanID,
		ParentID:  id.ParentID,
		HasParent: id.HasParent,
		Name:      name,
	}
}

// ID returns the span's identity as a SpanID value.
func (s *Span) ID() SpanID {
	return SpanID{TraceID: s.TraceID, SpanID: s.SpanID, ParentID: s.ParentID, HasParent: s.HasParent}
}
