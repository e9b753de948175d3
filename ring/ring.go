// Package ring implements the single-producer/single-consumer record buffer
// that sits between one logging producer and the background drain loop.
//
// Capacity is pinned at construction and must be a power of two so that
// index arithmetic reduces to a mask. Exactly one goroutine may call
// TryPush, and exactly one goroutine (the drain loop) may call TryPop;
// mixing producers or consumers breaks the lock-free head/tail protocol.
package ring

import (
	"sync/atomic"
	"time"
)

// Record is the unit of transport carried by a Buffer slot.
//
// Go has no move-only types, so "ownership transfer" is expressed as a
// value copy out of the slot on TryPop: the only synchronization needed is
// that the copy happens-after the producer's release-store of tail, which
// sync/atomic's sequentially consistent Load/Store already guarantees.
type Record struct {
	Message   string
	Level     int8
	Timestamp time.Time
	Module    string
	File      string
	Line      int
	ThreadID  uint64
}

// cacheLinePad keeps fields written by different goroutines on separate
// cache lines, avoiding false sharing between producer and consumer.
type cacheLinePad [64]byte

// Buffer is a fixed-capacity SPSC ring of Record, sized to a power of two.
type Buffer struct {
	mask  uint64
	slots []Record

	_    cacheLinePad
	head atomic.Uint64 // consumer-owned, advanced by TryPop
	_    cacheLinePad
	tail atomic.Uint64 // producer-owned, advanced by TryPush
	_    cacheLinePad

	active atomic.Bool
}

// DefaultCapacity is the recommended slot count for one producer buffer.
const DefaultCapacity = 1 << 16

// New creates a Buffer of the given capacity, rounded up to the next power
// of two if it is not already one. The buffer starts active.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	capacity = nextPowerOfTwo(capacity)

	b := &Buffer{
		mask:  uint64(capacity - 1),
		slots: make([]Record, capacity),
	}
	b.active.Store(true)
	return b
}

func nextPowerOfTwo(n int) int {
	if n&(n-1) == 0 {
		return n
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Cap returns the buffer's fixed capacity.
func (b *Buffer) Cap() int {
	return int(b.mask + 1)
}

// TryPush attempts to enqueue rec. It must only ever be called by the one
// owning producer goroutine. It never blocks and never allocates: it
// returns false immediately if the buffer is full.
func (b *Buffer) TryPush(rec Record) bool {
	tail := b.tail.Load()
	head := b.head.Load()

	// Full once Cap() records are queued: all slots are usable, none is
	// held back to tell full from empty.
	if tail-head >= uint64(b.Cap()) {
		return false
	}

	b.slots[tail&b.mask] = rec
	b.tail.Store(tail + 1)
	return true
}

// TryPop attempts to dequeue one record into out. It must only ever be
// called by the one drain/consumer goroutine.
func (b *Buffer) TryPop(out *Record) bool {
	head := b.head.Load()
	tail := b.tail.Load()

	if head == tail {
		return false
	}

	*out = b.slots[head&b.mask]
	b.head.Store(head + 1)
	return true
}

// Size returns the approximate number of records currently queued. Treat
// it as a point-in-time estimate: the producer or consumer may be
// concurrently advancing its own cursor while this reads the other.
func (b *Buffer) Size() int {
	tail := b.tail.Load()
	head := b.head.Load()
	return int(tail - head)
}

// NearlyFull reports whether the buffer is at or above 90% occupancy.
func (b *Buffer) NearlyFull() bool {
	return b.Size()*10 >= b.Cap()*9
}

// Active reports whether the owning producer still considers this buffer
// live. The drain loop keeps draining a buffer even after it goes
// inactive, to collect any records pushed just before deactivation.
func (b *Buffer) Active() bool {
	return b.active.Load()
}

// Deactivate clears the active flag. Called once, by the owning producer,
// when it is done emitting (goroutine exit or explicit detach).
func (b *Buffer) Deactivate() {
	b.active.Store(false)
}
