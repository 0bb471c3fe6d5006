package spanz

import (
	"errors"

	"github.com/hashicorp/go-multierror"
	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// ErrEmptyRequestName is returned by StartNewSpan when the request name
// is empty. A nameless span is never useful downstream, so the tracer
// fails fast instead of proceeding.
var ErrEmptyRequestName = errors.New("spanz: request name must not be empty")

// Config enumerates the collaborators of a ClientTracer. State, Random
// and Collector are required; Clock defaults to the real clock and Logger
// to a nop logger.
type Config struct {
	// State is the per-request span state holder. The tracer only
	// borrows it; the request owns its lifecycle.
	State ClientSpanState
	// Random generates trace and span identifiers. Shared across
	// requests; must be safe for concurrent use.
	Random IDGenerator
	// Collector receives each finished span exactly once. Must accept
	// concurrent Collect calls.
	Collector SpanCollector
	// Filters decide sampling, in order, when no decision exists yet.
	Filters []TraceFilter
	// Clock stamps annotations. Defaults to clockz.RealClock.
	Clock clockz.Clock
	// Logger receives internal diagnostics. Defaults to a nop logger.
	Logger *zap.Logger
}

// ClientTracer deals with the client side of a request: deciding on
// tracing or not (sampling), and recording the client-send and
// client-receive annotations that delimit a client span.
//
// A ClientTracer may serve many requests concurrently as long as each
// request brings its own state holder; see Config.
type ClientTracer struct {
	submitter
	state     ClientSpanState
	random    IDGenerator
	collector SpanCollector
	filters   []TraceFilter
	logger    *zap.Logger
}

// clientSpanAccess points the shared annotation engine at the
// client-span slot and the client endpoint.
type clientSpanAccess struct {
	state ClientSpanState
}

func (a clientSpanAccess) Current() *Span     { return a.state.CurrentClientSpan() }
func (a clientSpanAccess) Endpoint() Endpoint { return a.state.ClientEndpoint() }

// NewClientTracer validates cfg and builds a tracer. All missing required
// collaborators are reported in one aggregated error.
func NewClientTracer(cfg Config) (*ClientTracer, error) {
	var errs *multierror.Error
	if cfg.State == nil {
		errs = multierror.Append(errs, errors.New("spanz: Config.State is required"))
	}
	if cfg.Random == nil {
		errs = multierror.Append(errs, errors.New("spanz: Config.Random is required"))
	}
	if cfg.Collector == nil {
		errs = multierror.Append(errs, errors.New("spanz: Config.Collector is required"))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockz.RealClock
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	filters := make([]TraceFilter, len(cfg.Filters))
	copy(filters, cfg.Filters)
	return &ClientTracer{
		submitter: submitter{access: clientSpanAccess{state: cfg.State}, clock: clock},
		state:     cfg.State,
		random:    cfg.Random,
		collector: cfg.Collector,
		filters:   filters,
		logger:    logger,
	}, nil
}

// StartNewSpan starts a new client span for the given request name.
//
// The request name should be lowercase and not empty. A nil SpanID with a
// nil error means the request is not traced, either because the sampling
// decision is already NotSampled or because a trace filter rejected it;
// both paths leave the client-span and client-service-name slots cleared.
// Starting a span while one is already open silently overwrites the slot.
func (t *ClientTracer) StartNewSpan(requestName string) (*SpanID, error) {
	if requestName == "" {
		return nil, ErrEmptyRequestName
	}

	decision := t.state.Sample()
	if decision == NotSampled {
		t.clearClientState()
		return nil, nil
	}

	id := t.newSpanID()
	if decision == Undecided {
		// No prior determination for this request: the filter chain
		// decides, in order, short-circuiting on the first rejection.
		for _, f := range t.filters {
			if !f.Trace(id.SpanID, requestName) {
				t.logger.Debug("client span suppressed by trace filter",
					zap.String("request", requestName))
				t.clearClientState()
				return nil, nil
			}
		}
	}

	t.state.SetCurrentClientSpan(newSpan(id, requestName))
	return &id, nil
}

// SetCurrentServiceName overrides the service name submitted on client
// span annotations. Call it after StartNewSpan and before SetClientSent;
// the name should be lowercase and not empty.
func (t *ClientTracer) SetCurrentServiceName(serviceName string) {
	t.state.SetCurrentClientServiceName(serviceName)
}

// SetClientSent records the client-send event for the current span.
func (t *ClientTracer) SetClientSent() {
	t.submitStartAnnotation(ClientSend)
}

// SetClientSentRemote is like SetClientSent, except it first attaches a
// server-address binary annotation describing the remote endpoint being
// called. serviceName may be "" if unknown.
func (t *ClientTracer) SetClientSentRemote(ipv4 uint32, port uint16, serviceName string) {
	t.submitAddress(ServerAddr, ipv4, port, serviceName)
	t.submitStartAnnotation(ClientSend)
}

// SetClientReceived records the client-receive event. Receiving the
// response finishes the span: it is handed to the collector and the
// client-span and client-service-name slots are cleared.
func (t *ClientTracer) SetClientReceived() {
	if t.submitEndAnnotation(ClientRecv, t.collector) {
		t.clearClientState()
	}
}

// SubmitAnnotation attaches a custom timestamped annotation to the
// current client span.
func (t *ClientTracer) SubmitAnnotation(value string) {
	t.submitAnnotation(value)
}

// SubmitBinary attaches a custom key/value annotation to the current
// client span.
func (t *ClientTracer) SubmitBinary(key, value string) {
	t.submitBinaryAnnotation(key, value)
}

// newSpanID derives the identity of the next client span. The current
// local span is the preferred parent, then the current server span; with
// no parent the span roots a new trace (span id == trace id).
func (t *ClientTracer) newSpanID() SpanID {
	parent := t.state.CurrentLocalSpan()
	if parent == nil {
		parent = t.state.CurrentServerSpan()
	}
	id := t.random.NextID()
	if parent == nil {
		return NewRootSpanID(id)
	}
	return NewChildSpanID(parent.TraceID, id, parent.SpanID)
}

// clearClientState resets the slots this tracer owns. Rejection paths run
// it even when the slots are already empty; collaborators may rely on the
// slots being guaranteed-empty after a rejection.
func (t *ClientTracer) clearClientState() {
	t.state.SetCurrentClientSpan(nil)
	t.state.SetCurrentClientServiceName("")
}
