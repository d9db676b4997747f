package runtime

import (
	"direct-chat/contract"
	"sync"
)

type handleSet map[contract.EventSink]struct{}

type Registry struct {
	mu          sync.RWMutex
	connections map[string]handleSet          // user id -> live handles
	owners      map[contract.EventSink]string // handle -> user id
	listeners   handleSet                     // broadcast topic
}

func NewRegistry() *Registry {
	return &Registry{
		connections: make(map[string]handleSet),
		owners:      make(map[contract.EventSink]string),
		listeners:   make(handleSet),
	}
}

// Register binds a live handle to a user.
// Registering the same handle twice is a no-op. A handle already bound to
// another user is moved, so it is never visible under two users.
func (r *Registry) Register(userID string, handle contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.owners[handle]; ok {
		if owner == userID {
			return
		}
		r.detach(owner, handle)
	}
	set, ok := r.connections[userID]
	if !ok {
		set = make(handleSet)
		r.connections[userID] = set
	}
	set[handle] = struct{}{}
	r.owners[handle] = userID
}

// Unregister removes a handle from whichever user holds it.
// Unknown handles are ignored, so a double unregister is harmless.
func (r *Registry) Unregister(handle contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, ok := r.owners[handle]
	if !ok {
		return
	}
	r.detach(owner, handle)
}

// detach must be called with the write lock held.
func (r *Registry) detach(userID string, handle contract.EventSink) {
	delete(r.owners, handle)
	set, ok := r.connections[userID]
	if !ok {
		return
	}
	delete(set, handle)
	if len(set) == 0 {
		delete(r.connections, userID)
	}
}

// Lookup returns a snapshot of the user's handles. Empty means offline.
func (r *Registry) Lookup(userID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return snapshot(r.connections[userID])
}

func (r *Registry) Subscribe(listener contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[listener] = struct{}{}
}

func (r *Registry) Unsubscribe(listener contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listeners, listener)
}

func (r *Registry) Listeners() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return snapshot(r.listeners)
}

// ConnectionCount is the number of registered handles, all users included.
func (r *Registry) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.owners)
}

func snapshot(set handleSet) []contract.EventSink {
	if len(set) == 0 {
		return nil
	}
	sinks := make([]contract.EventSink, 0, len(set))
	for h := range set {
		sinks = append(sinks, h)
	}
	return sinks
}
