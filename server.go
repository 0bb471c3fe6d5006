package spanz

import (
	"errors"

	"github.com/hashicorp/go-multierror"
	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// ServerConfig enumerates the collaborators of a ServerTracer. State,
// Random and Collector are required; Clock and Logger default like
// Config's.
type ServerConfig struct {
	State     ServerSpanState
	Random    IDGenerator
	Collector SpanCollector
	Filters   []TraceFilter
	Clock     clockz.Clock
	Logger    *zap.Logger
}

// ServerTracer deals with the server side of a request: adopting the
// trace state propagated by the caller (or deciding sampling locally when
// none arrived), and recording the server-receive and server-send
// annotations that delimit a server span.
//
// It shares the annotation engine with ClientTracer; the two differ only
// in which span slot they operate on.
type ServerTracer struct {
	submitter
	state     ServerSpanState
	random    IDGenerator
	collector SpanCollector
	filters   []TraceFilter
	logger    *zap.Logger
}

type serverSpanAccess struct {
	state ServerSpanState
}

func (a serverSpanAccess) Current() *Span     { return a.state.CurrentServerSpan() }
func (a serverSpanAccess) Endpoint() Endpoint { return a.state.ServerEndpoint() }

// NewServerTracer validates cfg and builds a tracer, reporting all
// missing required collaborators in one aggregated error.
func NewServerTracer(cfg ServerConfig) (*ServerTracer, error) {
	var errs *multierror.Error
	if cfg.State == nil {
		errs = multierror.Append(errs, errors.New("spanz: ServerConfig.State is required"))
	}
	if cfg.Random == nil {
		errs = multierror.Append(errs, errors.New("spanz: ServerConfig.Random is required"))
	}
	if cfg.Collector == nil {
		errs = multierror.Append(errs, errors.New("spanz: ServerConfig.Collector is required"))
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
	return &ServerTracer{
		submitter: submitter{access: serverSpanAccess{state: cfg.State}, clock: clock},
		state:     cfg.State,
		random:    cfg.Random,
		collector: cfg.Collector,
		filters:   filters,
		logger:    logger,
	}, nil
}

// SetStateCurrentTrace adopts trace state propagated by the caller: the
// inbound request carried identifiers, so the request is sampled and the
// server span continues the caller's trace.
func (t *ServerTracer) SetStateCurrentTrace(id SpanID, name string) {
	t.state.SetCurrentServerSpan(newSpan(id, name))
	t.state.SetSample(Sampled)
}

// SetStateNoTracing records that the caller decided against tracing. The
// decision is sticky: no span in this request creates tracing state.
func (t *ServerTracer) SetStateNoTracing() {
	t.state.SetCurrentServerSpan(nil)
	t.state.SetSample(NotSampled)
}

// SetStateUnknown handles a request that carried no trace state at all:
// the filter chain decides sampling here. On acceptance the server span
// roots a new trace; on rejection the request is marked NotSampled.
func (t *ServerTracer) SetStateUnknown(requestName string) error {
	if requestName == "" {
		return ErrEmptyRequestName
	}
	id := t.random.NextID()
	for _, f := range t.filters {
		if !f.Trace(id, requestName) {
			t.logger.Debug("server span suppressed by trace filter",
				zap.String("request", requestName))
			t.state.SetCurrentServerSpan(nil)
			t.state.SetSample(NotSampled)
			return nil
		}
	}
	t.state.SetCurrentServerSpan(newSpan(NewRootSpanID(id), requestName))
	t.state.SetSample(Sampled)
	return nil
}

// SetServerReceived records the server-receive event for the current
// server span.
func (t *ServerTracer) SetServerReceived() {
	t.submitStartAnnotation(ServerRecv)
}

// SetServerSend records the server-send event. Sending the response
// finishes the span: it is handed to the collector and the server-span
// slot is cleared. The sampling decision stays untouched so later client
// spans in the same request remain consistent with it.
func (t *ServerTracer) SetServerSend() {
	if t.submitEndAnnotation(ServerSend, t.collector) {
		t.state.SetCurrentServerSpan(nil)
	}
}

// SubmitAnnotation attaches a custom timestamped annotation to the
// current server span.
func (t *ServerTracer) SubmitAnnotation(value string) {
	t.submitAnnotation(value)
}

// SubmitBinary attaches a custom key/value annotation to the current
// server span.
func (t *ServerTracer) SubmitBinary(key, value string) {
	t.submitBinaryAnnotation(key, value)
}
