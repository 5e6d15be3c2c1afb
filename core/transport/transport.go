package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/leofalp/airelay/providers/ai"
)

// maxResponseBodySize caps buffered response bodies (10 MB). Enforced via
// io.LimitReader to prevent unbounded memory allocation from rogue responses.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// readChunkSize is the buffer size for streaming response reads.
const readChunkSize = 4 * 1024

// Callbacks receive the transport events for one request. All three are
// invoked sequentially from a single goroutine: OnData zero or more times in
// arrival order, then exactly one of OnError or OnSuccess as the terminal
// callback.
//
// OnSuccess carries the HTTP status even when it indicates failure; status
// interpretation belongs to the dispatcher, not the transport. In streaming
// mode with a 2xx status, body is nil (chunks were already delivered through
// OnData); otherwise body holds the full response.
type Callbacks struct {
	OnData    func(chunk []byte)
	OnError   func(err error)
	OnSuccess func(status int, body []byte)
}

// Transport executes one wire request, streaming the serialized body from
// bodyPath. Cancelling ctx aborts the call; the abort surfaces through
// OnError like any other network failure.
type Transport interface {
	Do(ctx context.Context, spec *ai.WireSpec, bodyPath string, callbacks Callbacks)
}

// HTTPTransport is the default [Transport] backed by net/http. The zero
// value is ready to use; Timeout bounds the whole call including streaming
// reads (zero means no limit, streaming responses can legitimately run for
// minutes).
type HTTPTransport struct {
	Timeout time.Duration
}

var _ Transport = (*HTTPTransport)(nil)

// Do implements [Transport]. It runs synchronously in the calling goroutine;
// the dispatcher decides where that goroutine lives.
func (t *HTTPTransport) Do(ctx context.Context, spec *ai.WireSpec, bodyPath string, callbacks Callbacks) {
	client, err := t.client(spec)
	if err != nil {
		callbacks.OnError(err)
		return
	}

	body, err := os.Open(bodyPath)
	if err != nil {
		callbacks.OnError(fmt.Errorf("failed to open spooled request body: %w", err))
		return
	}
	defer body.Close()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, spec.URL, body)
	if err != nil {
		callbacks.OnError(fmt.Errorf("failed to create request: %w", err))
		return
	}

	request.Header.Set("Content-Type", "application/json")
	if spec.Stream {
		request.Header.Set("Accept", "text/event-stream")
	}
	for key, value := range spec.Headers {
		request.Header.Set(key, value)
	}

	response, err := client.Do(request)
	if err != nil {
		callbacks.OnError(fmt.Errorf("request failed: %w", err))
		return
	}
	defer response.Body.Close()

	// Buffer the body whenever we are not going to stream it: non-streaming
	// specs always, and streaming specs on an error status, where the body
	// is the provider's error payload rather than an event stream.
	if !spec.Stream || response.StatusCode >= 400 {
		payload, readErr := io.ReadAll(io.LimitReader(response.Body, maxResponseBodySize))
		if readErr != nil {
			callbacks.OnError(fmt.Errorf("failed to read response body: %w", readErr))
			return
		}
		callbacks.OnSuccess(response.StatusCode, payload)
		return
	}

	buffer := make([]byte, readChunkSize)
	for {
		n, readErr := response.Body.Read(buffer)
		if n > 0 && callbacks.OnData != nil {
			callbacks.OnData(buffer[:n])
		}
		if readErr == io.EOF {
			callbacks.OnSuccess(response.StatusCode, nil)
			return
		}
		if readErr != nil {
			callbacks.OnError(fmt.Errorf("stream read failed: %w", readErr))
			return
		}
	}
}

// client builds an http.Client honouring the spec's proxy and TLS settings.
func (t *HTTPTransport) client(spec *ai.WireSpec) (*http.Client, error) {
	httpTransport := &http.Transport{}

	if spec.Proxy != "" {
		proxyURL, err := url.Parse(spec.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", spec.Proxy, err)
		}
		httpTransport.Proxy = http.ProxyURL(proxyURL)
	}

	if spec.InsecureTLS {
		httpTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- explicit per-provider opt-in
	}

	return &http.Client{Transport: httpTransport, Timeout: t.Timeout}, nil
}
