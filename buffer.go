package xpipe

// flushBuffer is a fixed-capacity accumulation buffer. Bytes waiting to be
// flushed occupy [0, avail); the rest of the backing array is writable.
// Discarding a flushed prefix shifts the leftover bytes back to the front, so
// the pending region stays contiguous.
type flushBuffer struct {
	data  []byte
	avail int
}

// newFlushBuffer creates a buffer with the given capacity in bytes.
func newFlushBuffer(size int) *flushBuffer {
	return &flushBuffer{data: make([]byte, size)}
}

// pending returns the filled region.
func (b *flushBuffer) pending() []byte {
	return b.data[:b.avail]
}

// writable returns the free region following the filled one.
func (b *flushBuffer) writable() []byte {
	return b.data[b.avail:]
}

// commit records n bytes written into the writable region.
func (b *flushBuffer) commit(n int) {
	b.avail += n
}

// discard drops the first n pending bytes and compacts the remainder.
func (b *flushBuffer) discard(n int) {
	if n == 0 {
		return
	}
	copy(b.data, b.data[n:b.avail])
	b.avail -= n
}

// empty returns true if no bytes are pending.
func (b *flushBuffer) empty() bool {
	return b.avail == 0
}

// full returns true if the buffer has no writable space left.
func (b *flushBuffer) full() bool {
	return b.avail == len(b.data)
}
