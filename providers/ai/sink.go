package ai

import "sync"

// Sink wraps a caller's [Handlers] and enforces the completion contract:
// OnComplete fires exactly once, and no fragment is delivered after it.
// Adapters receive the Sink rather than the raw handlers so that early
// completion (an end-of-stream event arriving before transport closure) and
// the transport's own terminal callback cannot race into a double delivery.
//
// The guard is a mutex rather than a convention because cancellation may
// abort the transport from a different goroutine than the one delivering
// chunks.
type Sink struct {
	mu       sync.Mutex
	handlers Handlers
	done     bool
}

// NewSink wraps handlers in a completion-guarded Sink.
func NewSink(handlers Handlers) *Sink {
	return &Sink{handlers: handlers}
}

// Chunk delivers one fragment to the caller. Fragments arriving after
// completion are dropped; the transport is not trusted to stop calling back.
func (s *Sink) Chunk(fragment Fragment) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	onChunk := s.handlers.OnChunk
	s.mu.Unlock()

	if onChunk != nil {
		onChunk(fragment)
	}
}

// Complete finalizes the request with err (nil for success). Only the first
// call has any effect; it reports whether this call was the one that fired.
func (s *Sink) Complete(err error) bool {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return false
	}
	s.done = true
	onComplete := s.handlers.OnComplete
	s.mu.Unlock()

	if onComplete != nil {
		onComplete(err)
	}
	return true
}

// Completed reports whether the request has already been finalized.
func (s *Sink) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}
