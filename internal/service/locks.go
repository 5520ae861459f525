package service

import "sync"

// RequestLocks serializes the append-and-check critical section per request.
// Both the validation and revision paths must share one instance so a
// revision cannot interleave with an in-flight validation append.
type RequestLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRequestLocks creates an empty lock table
func NewRequestLocks() *RequestLocks {
	return &RequestLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for a request id, creating it on first use
func (l *RequestLocks) Lock(requestID string) {
	l.mu.Lock()
	m, ok := l.locks[requestID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[requestID] = m
	}
	l.mu.Unlock()
	m.Lock()
}

// Unlock releases the mutex for a request id
func (l *RequestLocks) Unlock(requestID string) {
	l.mu.Lock()
	m := l.locks[requestID]
	l.mu.Unlock()
	if m != nil {
		m.Unlock()
	}
}
