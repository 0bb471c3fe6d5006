// Package spanz implements the client-side span lifecycle of a
// Dapper/Zipkin-model tracing library.
//
// spanz decides whether a unit of work should be traced (sampling),
// derives trace/span/parent identifiers consistent with the surrounding
// call chain, tracks an in-flight span through its start and completion
// annotations, and hands each finished span to a pluggable collector
// exactly once. Wire encoding and transport to a tracing backend are the
// collector's concern, not this package's.
//
// Core Components:
//   - ClientTracer: starts client spans and records cs/cr events.
//   - ServerTracer: adopts inbound trace state and records sr/ss events.
//   - RequestState: per-request holder for the current spans and the
//     sampling decision.
//   - TraceFilter: ordered predicates that decide sampling when no
//     decision has been made yet.
//   - SpanCollector: sink for finished spans; BufferedCollector is an
//     in-memory implementation with backpressure protection.
//
// Basic Usage:
//
//	state := spanz.NewRequestState(spanz.Endpoint{ServiceName: "frontend"})
//	tracer, err := spanz.NewClientTracer(spanz.Config{
//		State:     state,
//		Random:    spanz.NewIDGenerator(nil),
//		Collector: collector,
//	})
//	if err != nil {
//		// missing collaborators
//	}
//
//	id, err := tracer.StartNewSpan("get-user")
//	if id != nil {
//		tracer.SetClientSent()
//		// ... remote call ...
//		tracer.SetClientReceived()
//	}
//
// A nil span id from StartNewSpan means sampling suppressed the span;
// the cs/cr calls are then harmless no-ops.
//
// Thread Safety:
//
// One RequestState belongs to one logical request at a time and must not
// be shared across concurrently executing requests. The IDGenerator, the
// filter list, and the SpanCollector are shared across requests and must
// be safe for concurrent use.
package spanz
