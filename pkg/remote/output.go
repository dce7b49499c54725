package remote

import (
	"bytes"
	"io"
	"sync"
)

// outputBuffer collects stdout and stderr of one command, which may be written
// from two goroutines, and optionally copies it to a live writer.
type outputBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
	tee io.Writer
}

func newOutputBuffer(tee io.Writer) *outputBuffer {
	return &outputBuffer{tee: tee}
}

func (o *outputBuffer) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.tee != nil {
		// Live output is best effort; the captured copy is what gets reported.
		_, _ = o.tee.Write(p)
	}
	return o.buf.Write(p)
}

func (o *outputBuffer) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.String()
}
