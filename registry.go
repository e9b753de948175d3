package log

import (
	"sync"
	"sync/atomic"

	"github.com/Pp3ng/blitz-logger/ring"
)

// atomicString is a tiny atomic.Value wrapper fixed to the string type, so
// callers never need a type assertion at the call site.
type atomicString struct {
	v atomic.Value
}

func (a *atomicString) Store(s string) { a.v.Store(s) }

func (a *atomicString) Load() string {
	if v, ok := a.v.Load().(string); ok {
		return v
	}
	return ""
}

// producerSlot is one goroutine's attachment point: its ring buffer, its
// current module tag, and bookkeeping the drain loop uses to decide when
// a buffer has gone idle long enough to reclaim.
type producerSlot struct {
	gid        uint64
	buf        *ring.Buffer
	module     atomicString
	idleCycles int
}

// BufferRegistry tracks every producer buffer currently attached to the
// logger. Producers attach lazily on first log call (one buffer per
// goroutine). Every registry operation takes one short-held mutex; the
// drain loop iterates a copied snapshot, so popping records from the
// buffers themselves stays lock-free.
type BufferRegistry struct {
	mu   sync.Mutex
	byID map[uint64]*producerSlot
}

func newBufferRegistry() *BufferRegistry {
	return &BufferRegistry{byID: make(map[uint64]*producerSlot)}
}

// attach returns the slot for goroutine gid, creating and registering one
// with a fresh ring.Buffer of the given capacity if this is its first log
// call.
func (r *BufferRegistry) attach(gid uint64, capacity int) *producerSlot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slot, ok := r.byID[gid]; ok {
		return slot
	}

	slot := &producerSlot{gid: gid, buf: ring.New(capacity)}
	slot.module.Store(defaultModuleName)
	r.byID[gid] = slot
	return slot
}

// lookup returns the slot for gid without creating one, so callers that
// only want to act on an already-attached buffer (e.g. deactivating it on
// goroutine exit) don't accidentally register a fresh one for a goroutine
// that never logged anything.
func (r *BufferRegistry) lookup(gid uint64) (*producerSlot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.byID[gid]
	return slot, ok
}

// snapshot returns the current set of registered slots for the drain loop
// to poll. The slice is a fresh copy: buffers may be added concurrently by
// producer goroutines while the drain loop works through one cycle, and a
// torn read of the map itself would be a race.
func (r *BufferRegistry) snapshot() []*producerSlot {
	r.mu.Lock()
	defer r.mu.Unlock()

	slots := make([]*producerSlot, 0, len(r.byID))
	for _, slot := range r.byID {
		slots = append(slots, slot)
	}
	return slots
}

// reap removes a slot whose buffer has gone inactive and sat empty for
// long enough that its owning goroutine is assumed to have exited. Go
// gives us no goroutine-exit hook to deregister deterministically, so the
// drain loop calls this once a slot's idle-cycle counter crosses a
// threshold, substituting idle detection for the reachable destructor the
// original thread-local design relied on.
func (r *BufferRegistry) reap(gid uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, gid)
}

const defaultModuleName = "Default Module"
