package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/airelay/core/spool"
	"github.com/leofalp/airelay/core/transport"
	"github.com/leofalp/airelay/providers/ai"
)

// fakeAdapter is the base test adapter: a fixed wire spec, a pass-through
// full-response decoder.
type fakeAdapter struct {
	name       string
	stream     bool
	missingKey bool
}

func (a *fakeAdapter) Name() string { return a.name }

func (a *fakeAdapter) BuildWireSpec(request *ai.PromptRequest) (*ai.WireSpec, error) {
	if a.missingKey {
		return nil, &ai.ConfigError{Provider: a.name, Reason: "API key is not set"}
	}
	return &ai.WireSpec{
		URL:    "http://provider.test/v1/messages",
		Body:   map[string]string{"prompt": request.Text()},
		Stream: a.stream,
	}, nil
}

func (a *fakeAdapter) DecodeFullResponse(body []byte, sink *ai.Sink) {
	sink.Chunk(ai.Fragment{Text: string(body)})
}

// streamAdapter decodes event-stream lines: a "stop" event completes the
// request early, everything else becomes a fragment.
type streamAdapter struct{ fakeAdapter }

func (a *streamAdapter) DecodeFragment(data string, event string, sink *ai.Sink) {
	if event == "stop" {
		sink.Complete(nil)
		return
	}
	sink.Chunk(ai.Fragment{Event: event, Text: data})
}

// reporterAdapter additionally interprets HTTP error payloads itself.
type reporterAdapter struct{ streamAdapter }

func (a *reporterAdapter) TransportErrorMessage(status int, body []byte) string {
	return fmt.Sprintf("provider rejected the request (%d): %s", status, body)
}

// scriptedTransport plays back a fixed callback sequence, standing in for the
// HTTP transport. waitCancel makes it block until the context is cancelled,
// then report the abort through OnError like the real transport does.
type scriptedTransport struct {
	chunks     [][]byte
	err        error
	status     int
	body       []byte
	waitCancel bool

	mu       sync.Mutex
	bodyPath string
}

func (t *scriptedTransport) Do(ctx context.Context, spec *ai.WireSpec, bodyPath string, callbacks transport.Callbacks) {
	t.mu.Lock()
	t.bodyPath = bodyPath
	t.mu.Unlock()

	if t.waitCancel {
		<-ctx.Done()
		callbacks.OnError(ctx.Err())
		return
	}
	for _, chunk := range t.chunks {
		callbacks.OnData(chunk)
	}
	if t.err != nil {
		callbacks.OnError(t.err)
		return
	}
	callbacks.OnSuccess(t.status, t.body)
}

func (t *scriptedTransport) spooledPath() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bodyPath
}

// outcome records what reached the caller's handlers. Reads are only safe
// after the job's Done channel closes.
type outcome struct {
	fragments   []ai.Fragment
	completions []error
}

func (o *outcome) handlers() ai.Handlers {
	return ai.Handlers{
		OnChunk:    func(fragment ai.Fragment) { o.fragments = append(o.fragments, fragment) },
		OnComplete: func(err error) { o.completions = append(o.completions, err) },
	}
}

func newTestRegistry(t *testing.T, name string, factory ai.Factory) *ai.Registry {
	t.Helper()
	registry := ai.NewRegistry()
	require.NoError(t, registry.Register(name, factory))
	return registry
}

func newTestDispatcher(t *testing.T, registry *ai.Registry, tr transport.Transport) *Dispatcher {
	t.Helper()
	return New(registry,
		WithTransport(tr),
		WithStore(spool.New(t.TempDir(), false)),
	)
}

// TestDispatcher_StreamingSuccess covers the happy path: chunks decode into
// fragments in arrival order and the completion handler fires exactly once
// with nil.
func TestDispatcher_StreamingSuccess(t *testing.T) {
	registry := newTestRegistry(t, "fake", func() ai.Adapter {
		return &streamAdapter{fakeAdapter{name: "fake", stream: true}}
	})
	tr := &scriptedTransport{
		chunks: [][]byte{
			[]byte("event: delta\ndata: hel"),
			[]byte("lo\ndata: world\n"),
		},
		status: 200,
	}
	dispatcher := newTestDispatcher(t, registry, tr)

	result := &outcome{}
	job, err := dispatcher.Start(context.Background(), &ai.PromptRequest{Provider: "fake", Prompt: []string{"hi"}}, result.handlers())
	require.NoError(t, err)
	<-job.Done()

	require.Len(t, result.fragments, 2)
	assert.Equal(t, "hello", result.fragments[0].Text)
	assert.Equal(t, "world", result.fragments[1].Text)
	assert.Equal(t, "delta", result.fragments[0].Event)

	require.Len(t, result.completions, 1)
	assert.NoError(t, result.completions[0])
	assert.Equal(t, StateCompleted, job.State())
	assert.Nil(t, dispatcher.Active())
}

// TestDispatcher_EarlyCompletion verifies a decoder-signalled stop: fragments
// after the stop event are dropped and the transport's own success callback
// does not fire the handler a second time.
func TestDispatcher_EarlyCompletion(t *testing.T) {
	registry := newTestRegistry(t, "fake", func() ai.Adapter {
		return &streamAdapter{fakeAdapter{name: "fake", stream: true}}
	})
	tr := &scriptedTransport{
		chunks: [][]byte{
			[]byte("event: delta\ndata: kept\n"),
			[]byte("event: stop\ndata: {}\n"),
			[]byte("event: delta\ndata: dropped\n"),
		},
		status: 200,
	}
	dispatcher := newTestDispatcher(t, registry, tr)

	result := &outcome{}
	job, err := dispatcher.Start(context.Background(), &ai.PromptRequest{Provider: "fake"}, result.handlers())
	require.NoError(t, err)
	<-job.Done()

	require.Len(t, result.fragments, 1)
	assert.Equal(t, "kept", result.fragments[0].Text)
	require.Len(t, result.completions, 1)
	assert.NoError(t, result.completions[0])
}

// TestDispatcher_TransportError verifies a network failure reaches the
// completion handler exactly once, as an error.
func TestDispatcher_TransportError(t *testing.T) {
	registry := newTestRegistry(t, "fake", func() ai.Adapter {
		return &streamAdapter{fakeAdapter{name: "fake", stream: true}}
	})
	tr := &scriptedTransport{err: errors.New("connection reset")}
	dispatcher := newTestDispatcher(t, registry, tr)

	result := &outcome{}
	job, err := dispatcher.Start(context.Background(), &ai.PromptRequest{Provider: "fake"}, result.handlers())
	require.NoError(t, err)
	<-job.Done()

	require.Len(t, result.completions, 1)
	assert.ErrorContains(t, result.completions[0], "connection reset")
	assert.Empty(t, result.fragments)
}

// TestDispatcher_HTTPErrorStatus verifies an error status resolves as a
// failure whose message carries the status code.
func TestDispatcher_HTTPErrorStatus(t *testing.T) {
	registry := newTestRegistry(t, "fake", func() ai.Adapter {
		return &streamAdapter{fakeAdapter{name: "fake", stream: true}}
	})
	tr := &scriptedTransport{status: 404, body: []byte(`{"error":"no such model"}`)}
	dispatcher := newTestDispatcher(t, registry, tr)

	result := &outcome{}
	job, err := dispatcher.Start(context.Background(), &ai.PromptRequest{Provider: "fake"}, result.handlers())
	require.NoError(t, err)
	<-job.Done()

	require.Len(t, result.completions, 1)
	assert.ErrorContains(t, result.completions[0], "404")
	assert.ErrorContains(t, result.completions[0], "no such model")
	assert.Empty(t, result.fragments, "error bodies must never reach the decode path")
}

// TestDispatcher_AdapterErrorReporter verifies that an adapter implementing
// its own error interpretation replaces the generic status message.
func TestDispatcher_AdapterErrorReporter(t *testing.T) {
	registry := newTestRegistry(t, "fake", func() ai.Adapter {
		return &reporterAdapter{streamAdapter{fakeAdapter{name: "fake", stream: true}}}
	})
	tr := &scriptedTransport{status: 429, body: []byte("slow down")}
	dispatcher := newTestDispatcher(t, registry, tr)

	result := &outcome{}
	job, err := dispatcher.Start(context.Background(), &ai.PromptRequest{Provider: "fake"}, result.handlers())
	require.NoError(t, err)
	<-job.Done()

	require.Len(t, result.completions, 1)
	assert.ErrorContains(t, result.completions[0], "provider rejected the request (429)")
}

// TestDispatcher_NonStreaming verifies the buffered path: the full body is
// decoded once and completion follows immediately.
func TestDispatcher_NonStreaming(t *testing.T) {
	registry := newTestRegistry(t, "fake", func() ai.Adapter {
		return &fakeAdapter{name: "fake", stream: false}
	})
	tr := &scriptedTransport{status: 200, body: []byte("full answer")}
	dispatcher := newTestDispatcher(t, registry, tr)

	result := &outcome{}
	job, err := dispatcher.Start(context.Background(), &ai.PromptRequest{Provider: "fake"}, result.handlers())
	require.NoError(t, err)
	<-job.Done()

	require.Len(t, result.fragments, 1)
	assert.Equal(t, "full answer", result.fragments[0].Text)
	require.Len(t, result.completions, 1)
	assert.NoError(t, result.completions[0])
}

// TestDispatcher_ConfigErrorsReturnSynchronously verifies that an unknown
// provider and a missing credential both fail before any disk or network
// activity, without touching the caller's handlers.
func TestDispatcher_ConfigErrorsReturnSynchronously(t *testing.T) {
	registry := newTestRegistry(t, "fake", func() ai.Adapter {
		return &fakeAdapter{name: "fake", missingKey: true}
	})
	tr := &scriptedTransport{}
	spoolDir := t.TempDir()
	dispatcher := New(registry, WithTransport(tr), WithStore(spool.New(spoolDir, false)))

	result := &outcome{}

	for _, provider := range []string{"unknown", "fake"} {
		job, err := dispatcher.Start(context.Background(), &ai.PromptRequest{Provider: provider}, result.handlers())
		require.Error(t, err, "provider %q", provider)
		assert.Nil(t, job)

		var configErr *ai.ConfigError
		assert.ErrorAs(t, err, &configErr)
	}

	assert.Empty(t, result.fragments, "handlers must stay untouched on config errors")
	assert.Empty(t, result.completions)
	assert.Empty(t, tr.spooledPath(), "transport must not be reached")

	entries, err := os.ReadDir(spoolDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing should be spooled on config errors")
}

// TestDispatcher_SingleJobSlot verifies the one-at-a-time policy: a second
// Start while a job is in flight fails with ErrJobActive, and the slot frees
// once the first job resolves.
func TestDispatcher_SingleJobSlot(t *testing.T) {
	registry := newTestRegistry(t, "fake", func() ai.Adapter {
		return &streamAdapter{fakeAdapter{name: "fake", stream: true}}
	})
	tr := &scriptedTransport{waitCancel: true}
	dispatcher := newTestDispatcher(t, registry, tr)

	first := &outcome{}
	job, err := dispatcher.Start(context.Background(), &ai.PromptRequest{Provider: "fake"}, first.handlers())
	require.NoError(t, err)

	_, err = dispatcher.Start(context.Background(), &ai.PromptRequest{Provider: "fake"}, ai.Handlers{})
	assert.ErrorIs(t, err, ErrJobActive)

	job.Cancel()
	<-job.Done()

	// The slot frees once the first job resolves.
	job2, err := dispatcher.Start(context.Background(), &ai.PromptRequest{Provider: "fake"}, ai.Handlers{})
	require.NoError(t, err)
	job2.Cancel()
	<-job2.Done()
}

// TestDispatcher_CancelResolvesThroughErrorPath verifies cancellation: the
// completion handler fires once with the abort error, the spool file is
// removed, and the job reaches its terminal state.
func TestDispatcher_CancelResolvesThroughErrorPath(t *testing.T) {
	registry := newTestRegistry(t, "fake", func() ai.Adapter {
		return &streamAdapter{fakeAdapter{name: "fake", stream: true}}
	})
	tr := &scriptedTransport{waitCancel: true}
	dispatcher := newTestDispatcher(t, registry, tr)

	result := &outcome{}
	job, err := dispatcher.Start(context.Background(), &ai.PromptRequest{Provider: "fake"}, result.handlers())
	require.NoError(t, err)

	job.Cancel()
	<-job.Done()

	require.Len(t, result.completions, 1)
	assert.ErrorIs(t, result.completions[0], context.Canceled)
	assert.Equal(t, StateCompleted, job.State())
	assert.Nil(t, dispatcher.Active())

	_, statErr := os.Stat(tr.spooledPath())
	assert.True(t, os.IsNotExist(statErr), "spool file should be cleaned up after cancellation")
}

// TestDispatcher_CancelAfterCompletionIsNoOp verifies the signal disarms
// itself once the request resolves.
func TestDispatcher_CancelAfterCompletionIsNoOp(t *testing.T) {
	registry := newTestRegistry(t, "fake", func() ai.Adapter {
		return &streamAdapter{fakeAdapter{name: "fake", stream: true}}
	})
	tr := &scriptedTransport{status: 200}
	dispatcher := newTestDispatcher(t, registry, tr)

	result := &outcome{}
	job, err := dispatcher.Start(context.Background(), &ai.PromptRequest{Provider: "fake"}, result.handlers())
	require.NoError(t, err)
	<-job.Done()

	job.Cancel()
	job.Cancel()

	require.Len(t, result.completions, 1)
	assert.NoError(t, result.completions[0])
}

// TestDispatcher_CancelActiveIdle verifies cancelling with no job in flight
// is a harmless no-op.
func TestDispatcher_CancelActiveIdle(t *testing.T) {
	registry := newTestRegistry(t, "fake", func() ai.Adapter {
		return &fakeAdapter{name: "fake"}
	})
	dispatcher := newTestDispatcher(t, registry, &scriptedTransport{})

	dispatcher.CancelActive()
	assert.Nil(t, dispatcher.Active())
}

// TestDispatcher_DebugRetainsSpoolFile verifies that retention mode keeps the
// serialized request body on disk after the job resolves.
func TestDispatcher_DebugRetainsSpoolFile(t *testing.T) {
	registry := newTestRegistry(t, "fake", func() ai.Adapter {
		return &streamAdapter{fakeAdapter{name: "fake", stream: true}}
	})
	tr := &scriptedTransport{status: 200}
	dispatcher := New(registry,
		WithTransport(tr),
		WithStore(spool.New(t.TempDir(), true)),
	)

	result := &outcome{}
	job, err := dispatcher.Start(context.Background(), &ai.PromptRequest{Provider: "fake"}, result.handlers())
	require.NoError(t, err)
	<-job.Done()

	payload, readErr := os.ReadFile(tr.spooledPath())
	require.NoError(t, readErr, "retained spool file should survive completion")
	assert.Contains(t, string(payload), "prompt")
}

// TestJob_StateProgression verifies the one-way lifecycle: submitted before
// chunks, streaming after the first chunk, completed at the end.
func TestJob_StateProgression(t *testing.T) {
	registry := newTestRegistry(t, "fake", func() ai.Adapter {
		return &streamAdapter{fakeAdapter{name: "fake", stream: true}}
	})

	tr := &scriptedTransport{chunks: [][]byte{[]byte("data: x\n")}, status: 200}
	dispatcher := newTestDispatcher(t, registry, tr)

	states := make(chan State, 1)
	handlers := ai.Handlers{
		// The chunk callback can fire before Start returns, so the job is
		// read through the dispatcher's slot rather than the return value.
		OnChunk: func(ai.Fragment) {
			if active := dispatcher.Active(); active != nil {
				select {
				case states <- active.State():
				default:
				}
			}
		},
	}

	job, err := dispatcher.Start(context.Background(), &ai.PromptRequest{Provider: "fake"}, handlers)
	require.NoError(t, err)
	<-job.Done()

	assert.Equal(t, StateStreaming, <-states, "state during chunk delivery")
	assert.Equal(t, StateCompleted, job.State())
}
