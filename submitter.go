package spanz

import "github.com/zoobzio/clockz"

// spanAccess is the seam that lets the annotation engine serve any span
// role: it yields the role's current span (nil when sampling suppressed
// span creation) and the endpoint stamped onto annotations.
type spanAccess interface {
	Current() *Span
	Endpoint() Endpoint
}

// submitter is the annotation engine shared by the client and server
// tracers. Every operation is a silent no-op when no span is open for the
// role; suppressed tracing is a normal outcome of sampling, not an error.
type submitter struct {
	access spanAccess
	clock  clockz.Clock
}

// submitAnnotation appends a timestamped annotation carrying the role
// endpoint to the current span.
func (s submitter) submitAnnotation(value string) {
	span := s.access.Current()
	if span == nil {
		return
	}
	host := s.access.Endpoint()
	span.Annotations = append(span.Annotations, Annotation{
		Timestamp: s.clock.Now(),
		Value:     value,
		Host:      &host,
	})
}

// submitStartAnnotation opens the timed portion of the current span.
func (s submitter) submitStartAnnotation(value string) {
	s.submitAnnotation(value)
}

// submitEndAnnotation appends the closing annotation and hands the span
// to the collector. It reports true when a span was closed, in which case
// the caller must clear the role's span slots; ownership of the span has
// transferred to the collector and it must not be mutated again.
func (s submitter) submitEndAnnotation(value string, collector SpanCollector) bool {
	span := s.access.Current()
	if span == nil {
		return false
	}
	host := s.access.Endpoint()
	span.Annotations = append(span.Annotations, Annotation{
		Timestamp: s.clock.Now(),
		Value:     value,
		Host:      &host,
	})
	collector.Collect(span)
	return true
}

// submitAddress attaches a binary annotation describing a remote
// endpoint. An empty service name is replaced with UnknownServiceName so
// the emitted annotation never carries an empty label.
func (s submitter) submitAddress(key string, ipv4 uint32, port uint16, serviceName string) {
	span := s.access.Current()
	if span == nil {
		return
	}
	if serviceName == "" {
		serviceName = UnknownServiceName
	}
	span.BinaryAnnotations = append(span.BinaryAnnotations, BinaryAnnotation{
		Key:   key,
		Value: "true",
		Host:  &Endpoint{IPv4: ipv4, Port: port, ServiceName: serviceName},
	})
}

// submitBinaryAnnotation attaches a custom key/value pair carrying the
// role endpoint.
func (s submitter) submitBinaryAnnotation(key, value string) {
	span := s.access.Current()
	if span == nil {
		return
	}
	host := s.access.Endpoint()
	span.BinaryAnnotations = append(span.BinaryAnnotations, BinaryAnnotation{
		Key:   key,
		Value: value,
		Host:  &host,
	})
}
