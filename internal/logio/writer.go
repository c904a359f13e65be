package logio

import (
	"bytes"
	"sync"
)

// Writer turns written text into log lines: each newline terminated line is
// passed to Logf as one message, so that multi-line output like a VM dump
// comes out as one log entry per line.
type Writer struct {
	Logf func(string, ...interface{})

	mu      sync.Mutex
	partial []byte
}

// Write logs every line that p completes, holding on to any trailing partial
// line.
func (lw *Writer) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	rest := p
	for {
		line, after, found := bytes.Cut(rest, []byte{'\n'})
		if !found {
			lw.partial = append(lw.partial, line...)
			return len(p), nil
		}
		if len(lw.partial) > 0 {
			line = append(lw.partial, line...)
			lw.partial = lw.partial[:0]
		}
		lw.Logf("%s", line)
		rest = after
	}
}

// Flush logs any partial line.
func (lw *Writer) Flush() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	if len(lw.partial) > 0 {
		lw.Logf("%s", lw.partial)
		lw.partial = lw.partial[:0]
	}
	return nil
}

// Close flushes.
func (lw *Writer) Close() error { return lw.Flush() }
