package xpipe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
)

// ErrBufferFull reports that the buffer filled up with no line boundary to
// flush at: the configured capacity is smaller than the longest line in the
// stream.
var ErrBufferFull = errors.New("xpipe: buffer full without line boundary")

const defaultBufferSize = 8192

// Config configures a Runner.
type Config struct {
	// BufferSize is the accumulation buffer capacity in bytes. Values
	// <= 0 select the default of 8192.
	BufferSize int

	// Timeout is the quiet-period flush timeout. Once the buffer turns
	// nonempty, pending data is flushed after at most Timeout even without
	// a trailing newline. Zero disables the timeout; reads then block
	// until more data arrives or the stream ends.
	Timeout time.Duration

	// Command is the argv of the child process spawned for every flush.
	// The child receives the flushed bytes on stdin; its stdout and
	// stderr are inherited from the parent.
	Command []string
}

// Option adjusts a Runner.
type Option func(*Runner)

// WithInput sets the descriptor the Runner consumes. Default os.Stdin.
func WithInput(f *os.File) Option {
	return func(r *Runner) { r.input = f }
}

// WithLogger sets the logger used for flush tracing. Default no-op.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// Runner owns the accumulation buffer and drives the read/flush loop to
// completion. A Runner is single-threaded: at most one child process is
// alive at any instant, and the buffer is never touched while a flush is in
// flight.
type Runner struct {
	cfg    Config
	input  *os.File
	logger *zap.Logger
	flush  func(data []byte) error
}

// New validates cfg and creates a Runner reading from os.Stdin.
func New(cfg Config, opts ...Option) (*Runner, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("xpipe: empty command")
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("xpipe: negative timeout %s", cfg.Timeout)
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}

	r := &Runner{
		cfg:    cfg,
		input:  os.Stdin,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.flush == nil {
		r.flush = func(data []byte) error {
			return runCommand(r.cfg.Command, data)
		}
	}
	return r, nil
}

// Run consumes the input stream to exhaustion, spawning one child per flush.
// It returns nil once the stream ended and every flush succeeded. Any I/O
// failure, spawn failure, nonzero child exit, or ErrBufferFull aborts the
// run; a failed flush is not retried.
func (r *Runner) Run() error {
	buf := newFlushBuffer(r.cfg.BufferSize)
	in := newStreamReader(r.input)

	// The deadline is armed at the start of a quiet period (buffer turns
	// or stays nonempty with no deadline pending) and cleared by every
	// flush, so total quiescence before a flush is bounded by Timeout no
	// matter how many partial reads happen in between.
	var deadline time.Time
	for {
		if r.cfg.Timeout > 0 && deadline.IsZero() && !buf.empty() {
			deadline = time.Now().Add(r.cfg.Timeout)
		}

		n, err := in.tryRead(buf.writable(), deadline)
		timedOut := errors.Is(err, os.ErrDeadlineExceeded)
		eof := errors.Is(err, io.EOF)
		if err != nil && !timedOut && !eof {
			return fmt.Errorf("read input: %w", err)
		}
		buf.commit(n)

		if buf.full() || timedOut || eof {
			if err := r.drain(buf, timedOut); err != nil {
				return err
			}
			deadline = time.Time{}
			if buf.full() {
				return ErrBufferFull
			}
		}
		if eof {
			break
		}
	}

	// Residual bytes at end of stream go out unconditionally as a final
	// partial chunk.
	if !buf.empty() {
		if err := r.flushChunk(buf.pending(), true); err != nil {
			return err
		}
		buf.discard(len(buf.pending()))
	}
	return nil
}

// drain flushes the longest newline-terminated prefix of the buffer. On a
// timeout with no newline anywhere in the buffer the whole content goes out
// as one partial chunk instead, so a quiet producer never strands data.
func (r *Runner) drain(buf *flushBuffer, timedOut bool) error {
	pending := buf.pending()
	if i := bytes.LastIndexByte(pending, '\n'); i >= 0 {
		if err := r.flushChunk(pending[:i+1], false); err != nil {
			return err
		}
		buf.discard(i + 1)
		return nil
	}
	if timedOut && !buf.empty() {
		if err := r.flushChunk(pending, true); err != nil {
			return err
		}
		buf.discard(len(pending))
	}
	return nil
}

func (r *Runner) flushChunk(data []byte, partial bool) error {
	r.logger.Debug("flush",
		zap.Int("bytes", len(data)),
		zap.Bool("partial", partial),
	)
	if err := r.flush(data); err != nil {
		return fmt.Errorf("flush %d bytes: %w", len(data), err)
	}
	return nil
}
