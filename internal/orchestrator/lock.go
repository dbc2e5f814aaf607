package orchestrator

import "sync"

// keyedLock serializes work per string key. Locks are never removed; the key
// space (namespace/application pairs) is small and process-lifetime bounded.
type keyedLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// lock acquires the mutex for key and returns its release function.
func (l *keyedLock) lock(key string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
