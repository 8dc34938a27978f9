package service

import "sync"

// subjectLocks serializes cart mutations and guest-cart reconciliation per
// subject, so a concurrent add during a merge lands either before or after
// it but is never dropped. Entries live for the process lifetime.
type subjectLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSubjectLocks() *subjectLocks {
	return &subjectLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for a subject, creating it on first use.
func (l *subjectLocks) get(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	return lock
}
