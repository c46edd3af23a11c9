package application

import "sync"

// SessionLocks serializes mutations per session id. Distinct sessions take
// distinct mutexes and mutate concurrently.
type SessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSessionLocks() *SessionLocks {
	return &SessionLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the session's mutex and returns its unlock func.
func (l *SessionLocks) Lock(sessionID string) func() {
	l.mu.Lock()
	lock, exists := l.locks[sessionID]
	if !exists {
		lock = &sync.Mutex{}
		l.locks[sessionID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
