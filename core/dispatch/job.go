package dispatch

import (
	"context"
	"sync"
)

// State is the position of a job in its lifecycle. Transitions move in one
// direction only; Completed is terminal and entered exactly once.
type State int

const (
	// StateBuilding covers adapter resolution and wire spec construction.
	StateBuilding State = iota
	// StateSubmitted means the request has been handed to the transport.
	StateSubmitted
	// StateStreaming means at least one response chunk has arrived.
	StateStreaming
	// StateCompleted is terminal: the caller's completion handler has
	// fired (or the job failed before submission).
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateSubmitted:
		return "submitted"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Job is the handle for one in-flight request. At most one job exists per
// dispatcher at a time; the handle outlives the request and stays safe to
// query or cancel after completion.
type Job struct {
	id       string
	provider string

	mu        sync.Mutex
	state     State
	cancelled bool
	cancel    context.CancelFunc

	done chan struct{}
}

// ID returns the job's unique identifier.
func (j *Job) ID() string { return j.id }

// Provider returns the provider key the job was started with.
func (j *Job) Provider() string { return j.provider }

// State returns the job's current lifecycle state.
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Done returns a channel closed when the job has fully resolved: the
// completion handler has fired and the spooled request body is cleaned up.
func (j *Job) Done() <-chan struct{} { return j.done }

// Cancel requests termination of the in-flight transport call. It only acts
// while the job is submitted or streaming; before submission there is
// nothing to abort and after completion it is a no-op, so the signal
// self-disarms once the request resolves. Cancel does not invoke the
// caller's completion handler itself — the transport's own error callback
// fires with the abort error and drives the normal completion path.
//
// Cancellation is asynchronous: the transport may deliver chunks that were
// already in flight before its terminal callback fires.
func (j *Job) Cancel() {
	j.mu.Lock()
	active := j.state == StateSubmitted || j.state == StateStreaming
	if !active || j.cancelled {
		j.mu.Unlock()
		return
	}
	j.cancelled = true
	cancel := j.cancel
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// markStreaming advances Submitted to Streaming on the first chunk.
func (j *Job) markStreaming() {
	j.mu.Lock()
	if j.state == StateSubmitted {
		j.state = StateStreaming
	}
	j.mu.Unlock()
}

// finish moves the job to Completed and closes the done channel.
func (j *Job) finish() {
	j.mu.Lock()
	already := j.state == StateCompleted
	j.state = StateCompleted
	j.mu.Unlock()

	if !already {
		close(j.done)
	}
}
