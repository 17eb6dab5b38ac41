package fanout

import "sync"

// Listener is notified exactly once when every child operation of an
// aggregate future has reached a terminal state. The future itself is the
// sole argument, so the listener can inspect the final classification.
type Listener func(*Future)

// ListenerRegistration is the removal token returned by Future.AddListener.
// Go function values are not comparable, so removal goes through the token
// rather than the listener value itself.
type ListenerRegistration struct {
	fn Listener
}

// listenerRegistry is an ordered, two-phase listener list: open until the
// aggregate completes, then frozen. Freezing happens in the same critical
// section that rejects late adds, so a listener is either in the frozen
// list (fired by the completer, in registration order) or reported back to
// the caller for immediate firing, never both and never neither.
type listenerRegistry struct {
	mu      sync.Mutex
	frozen  bool
	entries []*ListenerRegistration
}

// add appends the listener and returns its removal token. If the registry
// is already frozen the listener is not stored and added reports false; the
// caller must fire it itself, on the same dispatch discipline as normal
// completion notification.
func (r *listenerRegistry) add(fn Listener) (reg *ListenerRegistration, added bool) {
	reg = &ListenerRegistration{fn: fn}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return reg, false
	}
	r.entries = append(r.entries, reg)
	return reg, true
}

// remove excises a previously added registration. After freezing, or for an
// unknown token, it is a silent no-op and reports false.
func (r *listenerRegistry) remove(reg *ListenerRegistration) bool {
	if reg == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return false
	}
	for i, e := range r.entries {
		if e == reg {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// freeze closes the registry and drains the entries in insertion order.
// Called exactly once, by the unique completer.
func (r *listenerRegistry) freeze() []*ListenerRegistration {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frozen = true
	entries := r.entries
	r.entries = nil
	return entries
}
