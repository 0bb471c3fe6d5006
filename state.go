package spanz

// SampleDecision is the tri-state sampling decision for one logical
// request. Undecided defers the decision to the trace filter chain; once
// NotSampled, no further span in the request creates tracing state.
type SampleDecision int

const (
	// Undecided means no sampling determination exists yet for this
	// request; the filter chain decides on the next span start.
	Undecided SampleDecision = iota
	// Sampled means the request is traced.
	Sampled
	// NotSampled means the request is not traced. The decision is
	// sticky for the remainder of the request.
	NotSampled
)

func (d SampleDecision) String() string {
	switch d {
	case Sampled:
		return "sampled"
	case NotSampled:
		return "not-sampled"
	default:
		return "undecided"
	}
}

// ClientSpanState is the view of per-request state consumed by a
// ClientTracer. The server-span and local-span slots are read-only parent
// sources; the client-span and client-service-name slots are owned by the
// client tracer.
type ClientSpanState interface {
	// Sample returns the current sampling decision for the request.
	Sample() SampleDecision
	// CurrentServerSpan returns the span set by inbound request
	// instrumentation, or nil.
	CurrentServerSpan() *Span
	// CurrentLocalSpan returns the span set by intra-process span
	// instrumentation, or nil. It takes precedence over the server
	// span as a parent source.
	CurrentLocalSpan() *Span

	CurrentClientSpan() *Span
	SetCurrentClientSpan(span *Span)

	CurrentClientServiceName() string
	SetCurrentClientServiceName(name string)

	// ClientEndpoint returns the local network identity used on client
	// span annotations, honoring any service-name override.
	ClientEndpoint() Endpoint
}

// ServerSpanState is the view of per-request state consumed by a
// ServerTracer.
type ServerSpanState interface {
	Sample() SampleDecision
	SetSample(decision SampleDecision)

	CurrentServerSpan() *Span
	SetCurrentServerSpan(span *Span)

	// ServerEndpoint returns the local network identity used on server
	// span annotations.
	ServerEndpoint() Endpoint
}

// RequestState holds the mutable tracing state of one logical request:
// the current server, local and client spans, the client service-name
// override, and the sampling decision.
//
// One RequestState belongs to one request and is expected to be touched
// by a single goroutine at a time; it must NOT be shared across
// concurrently executing requests.
type RequestState struct {
	endpoint          Endpoint
	serverSpan        *Span
	localSpan         *Span
	clientSpan        *Span
	clientServiceName string
	decision          SampleDecision
}

var (
	_ ClientSpanState = (*RequestState)(nil)
	_ ServerSpanState = (*RequestState)(nil)
)

// NewRequestState creates the tracing state for a new logical request.
// The endpoint is the local service identity attached to annotations.
func NewRequestState(endpoint Endpoint) *RequestState {
	return &RequestState{endpoint: endpoint}
}

// Sample returns the current sampling decision.
func (s *RequestState) Sample() SampleDecision { return s.decision }

// SetSample records the sampling decision for the request.
func (s *RequestState) SetSample(decision SampleDecision) { s.decision = decision }

// CurrentServerSpan returns the current server span, or nil.
func (s *RequestState) CurrentServerSpan() *Span { return s.serverSpan }

// SetCurrentServerSpan installs or clears the server span slot.
func (s *RequestState) SetCurrentServerSpan(span *Span) { s.serverSpan = span }

// CurrentLocalSpan returns the current local span, or nil.
func (s *RequestState) CurrentLocalSpan() *Span { return s.localSpan }

// SetCurrentLocalSpan installs or clears the local span slot. It is
// called by local-span instrumentation, not by the tracers in this
// package.
func (s *RequestState) SetCurrentLocalSpan(span *Span) { s.localSpan = span }

// CurrentClientSpan returns the current client span, or nil.
func (s *RequestState) CurrentClientSpan() *Span { return s.clientSpan }

// SetCurrentClientSpan installs or clears the client span slot.
func (s *RequestState) SetCurrentClientSpan(span *Span) { s.clientSpan = span }

// CurrentClientServiceName returns the service-name override for client
// span annotations, or "" when none is set.
func (s *RequestState) CurrentClientServiceName() string { return s.clientServiceName }

// SetCurrentClientServiceName sets or clears ("") the service-name
// override for client span annotations.
func (s *RequestState) SetCurrentClientServiceName(name string) { s.clientServiceName = name }

// ClientEndpoint returns the local endpoint with the service-name
// override applied when present.
func (s *RequestState) ClientEndpoint() Endpoint {
	ep := s.endpoint
	if s.clientServiceName != "" {
		ep.ServiceName = s.clientServiceName
	}
	return ep
}

// ServerEndpoint returns the local endpoint.
func (s *RequestState) ServerEndpoint() Endpoint { return s.endpoint }
