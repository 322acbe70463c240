package internal

import (
	"bufio"
	"net"
	"net/http"
	"sync"
)

// ResponseWriter wraps http.ResponseWriter so the framework can see
// what a handler did: the status and byte count for logging, and a
// last chance to act before the first byte leaves the process. Session
// flushing hangs off that hook, since a Set-Cookie written after the
// headers are gone would be lost.
type ResponseWriter struct {
	http.ResponseWriter
	status      int
	size        int64
	written     bool
	beforeWrite []func()
	mu          sync.Mutex
}

// NewResponseWriter wraps w. The status starts as 200, which is what
// the client sees when a handler writes a body without an explicit
// WriteHeader.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{
		ResponseWriter: w,
		status:         http.StatusOK,
	}
}

// OnBeforeWrite queues fn to run right before the response commits.
// Hooks run in registration order. Registering after the commit is a
// no-op; the moment to act has passed.
func (w *ResponseWriter) OnBeforeWrite(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.beforeWrite = append(w.beforeWrite, fn)
}

// start performs the one-time transition to written and hands back the
// queued hooks. Hooks must run outside the lock so they can touch the
// writer (set headers, read status) without deadlocking. A status of
// zero keeps whatever is pending.
func (w *ResponseWriter) start(status int) ([]func(), bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.written {
		return nil, false
	}
	w.written = true
	if status > 0 {
		w.status = status
	}
	hooks := w.beforeWrite
	w.beforeWrite = nil
	return hooks, true
}

// WriteHeader commits the response with code. Only the first call
// counts; later calls are dropped rather than panicking.
func (w *ResponseWriter) WriteHeader(code int) {
	hooks, first := w.start(code)
	if !first {
		return
	}
	for _, fn := range hooks {
		fn()
	}
	w.ResponseWriter.WriteHeader(code)
}

// Write commits with the pending status if nothing has been sent yet,
// then forwards the body bytes.
func (w *ResponseWriter) Write(b []byte) (int, error) {
	if hooks, first := w.start(0); first {
		for _, fn := range hooks {
			fn()
		}
		w.ResponseWriter.WriteHeader(w.status)
	}

	n, err := w.ResponseWriter.Write(b)
	w.size += int64(n)
	return n, err
}

// Status returns the response status, or the pending one before the
// commit.
func (w *ResponseWriter) Status() int {
	return w.status
}

// Size returns how many body bytes have been written so far.
func (w *ResponseWriter) Size() int64 {
	return w.size
}

// Written reports whether the response has committed.
func (w *ResponseWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Flush, Hijack, and Push forward to the underlying writer when it
// supports them, so streaming responses and WebSocket upgrades work
// through the wrapper.

func (w *ResponseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

func (w *ResponseWriter) Push(target string, opts *http.PushOptions) error {
	if pusher, ok := w.ResponseWriter.(http.Pusher); ok {
		return pusher.Push(target, opts)
	}
	return http.ErrNotSupported
}

// Unwrap exposes the original writer for middleware that needs it.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
