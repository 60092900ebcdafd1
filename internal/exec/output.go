package exec

import (
	"bytes"
	"io"
	"sync"
)

// syncBuffer is a mutex-guarded capture buffer. The interleaved Output
// capture is one syncBuffer shared by both stream pipelines, so arrival
// order is preserved.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write appends raw chunk bytes with no normalization.
func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns the captured bytes as a string.
func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// prefixWriter forwards stream chunks to a terminal sink as whole,
// labeled lines. Chunks may be fragmented arbitrarily; a carry-over
// buffer holds the trailing partial line between writes. Each complete
// line is emitted in a single sink write under a mutex shared with the
// sibling stream's writer, so concurrent invocations never interleave
// partial lines.
type prefixWriter struct {
	sink  io.Writer
	mu    *sync.Mutex
	label string
	carry []byte
}

// newPrefixWriter creates a prefixWriter. The mutex must be shared by all
// writers emitting to the same sink.
func newPrefixWriter(sink io.Writer, mu *sync.Mutex, label string) *prefixWriter {
	return &prefixWriter{
		sink:  sink,
		mu:    mu,
		label: label,
	}
}

// Write buffers p and emits every complete line it can extract.
// Carriage-return-only line breaks count as line breaks, so progress-bar
// style output renders as discrete lines. This normalization affects only
// the displayed copy; captures receive raw bytes through separate writers.
func (w *prefixWriter) Write(p []byte) (int, error) {
	w.carry = append(w.carry, p...)

	for {
		i := bytes.IndexAny(w.carry, "\r\n")
		if i < 0 {
			break
		}

		// A trailing \r may be the first half of \r\n; hold it until the
		// next chunk decides.
		if w.carry[i] == '\r' && i == len(w.carry)-1 {
			break
		}

		line := w.carry[:i]
		skip := 1
		if w.carry[i] == '\r' && w.carry[i+1] == '\n' {
			skip = 2
		}

		if err := w.emit(line); err != nil {
			return len(p), err
		}
		w.carry = w.carry[i+skip:]
	}

	return len(p), nil
}

// Close flushes a retained partial line as a final labeled line, so
// output lacking a trailing newline is never dropped.
func (w *prefixWriter) Close() error {
	line := bytes.TrimSuffix(w.carry, []byte{'\r'})
	w.carry = nil
	if len(line) == 0 {
		return nil
	}
	return w.emit(line)
}

// emit writes one labeled line in a single sink write.
func (w *prefixWriter) emit(line []byte) error {
	out := make([]byte, 0, len(w.label)+len(line)+1)
	out = append(out, w.label...)
	out = append(out, line...)
	out = append(out, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := w.sink.Write(out)
	return err
}
