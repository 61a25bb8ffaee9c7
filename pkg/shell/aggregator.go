package shell

import (
	"bytes"
	"sync"
)

// aggregator accumulates one stream of a session and mirrors every chunk to
// the registered handler. Both aggregators of a session share the session's
// mutex, so handler callbacks across the two streams never interleave with
// each other or with final result assembly.
type aggregator struct {
	mu      *sync.Mutex
	buf     bytes.Buffer
	handler StreamHandler
}

// append adds chunk to the accumulator and forwards it to the handler. An
// empty chunk is valid and is still forwarded: end of stream is signalled by
// the read side, not by a zero-length read.
func (a *aggregator) append(chunk []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.buf.Write(chunk)
	if a.handler != nil {
		a.handler.OnChunk(chunk)
	}
}

// finish delivers the end notification to handlers that want one. Called
// once per stream, after draining has completed.
func (a *aggregator) finish() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if h, ok := a.handler.(StreamEndHandler); ok {
		h.OnEnd()
	}
}
