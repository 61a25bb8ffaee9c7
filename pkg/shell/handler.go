package shell

import "os"

// StreamHandler receives live output chunks from a running command. Chunks
// arrive in the order the process wrote them; the slice passed to OnChunk is
// only valid for the duration of the call. Implementations must not block:
// the handler runs inside the session's critical section and a blocking
// handler stalls draining of both streams.
type StreamHandler interface {
	OnChunk(chunk []byte)
}

// StreamEndHandler is implemented by handlers that also want to know when
// their stream has been fully drained. The notification fires exactly once,
// after the last chunk and before Run returns.
type StreamEndHandler interface {
	OnEnd()
}

// FileHandler streams chunks to an open file.
type FileHandler struct {
	File *os.File
}

func (h *FileHandler) OnChunk(chunk []byte) {
	_, _ = h.File.Write(chunk)
}

// OnEnd closes the file, unless it is one of the process's standard streams.
func (h *FileHandler) OnEnd() {
	switch h.File {
	case os.Stdin, os.Stdout, os.Stderr:
	default:
		_ = h.File.Close()
	}
}
