package dispatch

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/leofalp/airelay/core/spool"
	"github.com/leofalp/airelay/core/sse"
	"github.com/leofalp/airelay/core/transport"
	"github.com/leofalp/airelay/providers/ai"
	"github.com/leofalp/airelay/providers/observability"
)

// ErrJobActive is returned by Start while another request is in flight.
// The dispatcher holds a single job slot; callers decide whether to wait
// for Done or cancel the active job first.
var ErrJobActive = errors.New("a request is already active; cancel it or wait for completion")

// Dispatcher coordinates provider requests: adapter resolution, wire spec
// construction, body spooling, transport submission, and routing of
// transport callbacks into the decode paths. One dispatcher serves one
// request at a time.
type Dispatcher struct {
	registry  *ai.Registry
	transport transport.Transport
	store     *spool.Store
	log       observability.Logger

	mu     sync.Mutex
	active *Job
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTransport replaces the default HTTP transport. Used for testing and
// for hosts that tunnel requests through their own network stack.
func WithTransport(t transport.Transport) Option {
	return func(d *Dispatcher) { d.transport = t }
}

// WithStore replaces the default spool store.
func WithStore(s *spool.Store) Option {
	return func(d *Dispatcher) { d.store = s }
}

// WithLogger replaces the default slog-backed logger.
func WithLogger(l observability.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// New creates a dispatcher resolving providers from registry. Defaults:
// [transport.HTTPTransport], a spool store in the default directory, and a
// dedup-wrapped slog logger.
func New(registry *ai.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry:  registry,
		transport: &transport.HTTPTransport{},
		store:     spool.New("", false),
		log:       observability.NewDeduper(observability.NewSlog(nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Active returns the job currently holding the slot, or nil when idle.
func (d *Dispatcher) Active() *Job {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// CancelActive cancels the in-flight job, if any. With no active job it is
// a no-op.
func (d *Dispatcher) CancelActive() {
	d.mu.Lock()
	job := d.active
	d.mu.Unlock()

	if job != nil {
		job.Cancel()
	}
}

// Start begins one request. Configuration failures (unknown provider,
// missing credential, malformed body) are returned synchronously with no
// network or disk activity and without touching the caller's handlers.
// Once Start returns a Job, the completion handler is guaranteed to fire
// exactly once, from exactly one of: transport error, HTTP error status,
// successful decode, or early adapter completion. Cancelling ctx or the
// returned job aborts the transport call and resolves through the transport
// error path.
func (d *Dispatcher) Start(ctx context.Context, request *ai.PromptRequest, handlers ai.Handlers) (*Job, error) {
	log := observability.LoggerFromContext(ctx)
	if log == nil {
		log = d.log
	}

	// Reserve the single job slot before doing any work, so two callers
	// racing into Start cannot both reach the transport.
	job := &Job{
		id:       uuid.NewString(),
		provider: request.Provider,
		state:    StateBuilding,
		done:     make(chan struct{}),
	}

	d.mu.Lock()
	if d.active != nil {
		d.mu.Unlock()
		return nil, ErrJobActive
	}
	d.active = job
	d.mu.Unlock()

	release := func() {
		d.mu.Lock()
		if d.active == job {
			d.active = nil
		}
		d.mu.Unlock()
	}

	adapter, err := d.registry.Resolve(request.Provider)
	if err != nil {
		release()
		return nil, err
	}

	spec, err := adapter.BuildWireSpec(request)
	if err != nil {
		release()
		return nil, err
	}

	sink := ai.NewSink(handlers)

	// Resolve the decode path up front. Streaming adapters hold exactly one
	// of the two capabilities (the registry rejects both), so this is a
	// plain selection, not a validation.
	var feed func([]byte)
	var flush func()
	if spec.Stream {
		switch decoder := adapter.(type) {
		case ai.RawDecoder:
			feed = func(chunk []byte) { decoder.DecodeRaw(chunk, sink) }
		case ai.StreamDecoder:
			parser := sse.New(decoder, sink)
			feed = parser.Feed
			flush = parser.Flush
		default:
			release()
			return nil, &ai.ConfigError{Provider: request.Provider, Reason: "adapter requests streaming but implements no stream decoder"}
		}
	}

	bodyPath, err := d.store.Write(spec.Body)
	if err != nil {
		if hint := d.store.Diagnose(err); hint != "" {
			log.Warn(ctx, hint, observability.String(observability.AttrLLMProvider, request.Provider))
		}
		release()
		return nil, err
	}

	jobCtx, cancelJob := context.WithCancel(ctx)
	job.mu.Lock()
	job.cancel = cancelJob
	job.state = StateSubmitted
	job.mu.Unlock()

	log.Debug(ctx, "request submitted",
		observability.String(observability.AttrJobID, job.id),
		observability.String(observability.AttrLLMProvider, request.Provider),
		observability.String(observability.AttrLLMEndpoint, spec.URL),
		observability.Bool(observability.AttrLLMStreaming, spec.Stream),
		observability.String(observability.AttrSpoolPath, bodyPath),
	)

	callbacks := transport.Callbacks{
		OnData: func(chunk []byte) {
			// The transport is not trusted to stop after completion.
			if sink.Completed() || feed == nil {
				return
			}
			job.markStreaming()
			feed(chunk)
		},
		OnError: func(err error) {
			if hint := d.store.Diagnose(err); hint != "" {
				log.Warn(jobCtx, hint, observability.String(observability.AttrJobID, job.id))
			}
			if sink.Complete(err) {
				log.Debug(jobCtx, "request failed",
					observability.String(observability.AttrJobID, job.id),
					observability.Error(err),
				)
			}
		},
		OnSuccess: func(status int, body []byte) {
			d.resolveSuccess(jobCtx, log, job, adapter, spec, sink, flush, status, body)
		},
	}

	go func() {
		defer func() {
			cancelJob()
			// Cleanup is deferred to after the transport returns so it can
			// never race the transport's read of the spool file.
			d.store.Cleanup(bodyPath)
			job.finish()
			release()
		}()
		d.transport.Do(jobCtx, spec, bodyPath, callbacks)
	}()

	return job, nil
}

// resolveSuccess handles the transport's success callback: error statuses
// become failures (provider-interpreted when the adapter can), non-streaming
// bodies are decoded in one pass, and streams are flushed and completed.
// Every path funnels into the sink's exactly-once completion guard, so a
// stream that already completed early (message_stop, [DONE]) is untouched.
func (d *Dispatcher) resolveSuccess(ctx context.Context, log observability.Logger, job *Job, adapter ai.Adapter, spec *ai.WireSpec, sink *ai.Sink, flush func(), status int, body []byte) {
	if status >= 400 {
		var message string
		if reporter, ok := adapter.(ai.TransportErrorReporter); ok {
			message = reporter.TransportErrorMessage(status, body)
		} else {
			message = ai.FormatTransportError(status, body)
		}
		if sink.Complete(errors.New(message)) {
			log.Debug(ctx, "request rejected by provider",
				observability.String(observability.AttrJobID, job.id),
				observability.Int(observability.AttrHTTPStatusCode, status),
				observability.Int(observability.AttrHTTPResponseBodySize, len(body)),
			)
		}
		return
	}

	if !spec.Stream {
		adapter.DecodeFullResponse(body, sink)
		sink.Complete(nil)
		return
	}

	if flush != nil {
		flush()
	}
	sink.Complete(nil)
}
