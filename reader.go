package xpipe

import (
	"os"
	"time"
)

// streamReader performs single deadline-aware reads on a descriptor.
//
// Deadlines ride on the runtime poller via SetReadDeadline, re-armed with an
// absolute time point on every call. Descriptors the poller cannot service
// (regular files) are detected once at construction; reads on those never
// block indefinitely, so they are issued without a deadline.
type streamReader struct {
	f           *os.File
	hasDeadline bool
}

func newStreamReader(f *os.File) *streamReader {
	// Probing with the zero time also leaves the descriptor with no
	// deadline armed.
	err := f.SetReadDeadline(time.Time{})
	return &streamReader{f: f, hasDeadline: err == nil}
}

// tryRead reads at most len(p) bytes. A zero deadline blocks until data
// arrives or the stream ends. Returns io.EOF at end of stream and an error
// matching os.ErrDeadlineExceeded when the deadline passes with no data
// ready. Short reads are not retried; interrupted system calls are retried
// by the runtime.
func (r *streamReader) tryRead(p []byte, deadline time.Time) (int, error) {
	if r.hasDeadline {
		if err := r.f.SetReadDeadline(deadline); err != nil {
			return 0, err
		}
	}
	n, err := r.f.Read(p)
	if n > 0 {
		// Data wins over any error; end of stream is reported again by
		// the next call.
		return n, nil
	}
	return 0, err
}
