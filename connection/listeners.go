package connection

import "sync"

// Listener receives every newly published State.
type Listener func(State)

type listenerEntry struct {
	id uint64
	fn Listener
}

// listenerRegistry keeps listeners in subscription order. It has its own
// lock so listeners can (un)subscribe while being notified.
type listenerRegistry struct {
	mu      sync.Mutex
	next    uint64
	entries []listenerEntry
}

func (r *listenerRegistry) add(fn Listener) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.entries = append(r.entries, listenerEntry{id: r.next, fn: fn})
	return r.next
}

func (r *listenerRegistry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			return
		}
	}
}

func (r *listenerRegistry) clear() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}

func (r *listenerRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *listenerRegistry) notify(s State) {
	r.mu.Lock()
	fns := make([]Listener, len(r.entries))
	for i, e := range r.entries {
		fns[i] = e.fn
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
