package queue

import "sync"

// Registry hands out one queue per collector endpoint. It replaces the
// implicit module-level singleton of the original client: the composition
// root owns a Registry, and repeated requests for the same endpoint return
// the same instance until Reset.
type Registry struct {
	mu       sync.Mutex
	queues   map[string]*Queue
	newQueue func(endpoint string) *Queue
}

// NewRegistry builds a registry; newQueue constructs the queue for an
// endpoint on first use.
func NewRegistry(newQueue func(endpoint string) *Queue) *Registry {
	return &Registry{
		queues:   make(map[string]*Queue),
		newQueue: newQueue,
	}
}

// For returns the queue for endpoint, constructing it on first use.
func (r *Registry) For(endpoint string) *Queue {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.queues[endpoint]; ok {
		return q
	}
	q := r.newQueue(endpoint)
	r.queues[endpoint] = q
	return q
}

// Reset destroys every queue and forgets it. Test-only escape hatch.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for endpoint, q := range r.queues {
		q.Destroy()
		delete(r.queues, endpoint)
	}
}
