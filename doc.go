package xpipe

// Package xpipe accumulates an unbounded byte stream in a bounded buffer and
// pipes complete lines to a freshly spawned command. Data without a trailing
// newline is piped only once a configurable quiet period elapses or the stream
// ends, so a bursty producer can feed a line-oriented consumer without the
// bridge ever growing memory or losing bytes.
