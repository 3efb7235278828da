package memory

import "sync"

// LockRegistry hands out one mutex per session so that concurrent turns
// against the same session serialize while distinct sessions proceed in
// parallel. Entries are reference counted and removed once the last
// holder releases, so the registry does not grow with session churn.
type LockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewLockRegistry() *LockRegistry {
	return &LockRegistry{
		locks: make(map[string]*sessionLock),
	}
}

// Acquire blocks until the session lock is held. The returned function
// releases it and must be called exactly once.
func (r *LockRegistry) Acquire(sessionID string) func() {
	r.mu.Lock()
	l, ok := r.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		r.locks[sessionID] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()

			r.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(r.locks, sessionID)
			}
			r.mu.Unlock()
		})
	}
}

// Len reports the number of sessions currently contended or held.
func (r *LockRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}
