package conversation

import "sync"

// contactLocks serializes message processing per contact id. Different
// contacts proceed in parallel; two messages from the same contact are
// handled one at a time to keep the session read-modify-write safe.
type contactLocks struct {
	mu    sync.Mutex
	locks map[string]*contactLock
}

type contactLock struct {
	mu   sync.Mutex
	refs int
}

func newContactLocks() *contactLocks {
	return &contactLocks{locks: make(map[string]*contactLock)}
}

// Acquire blocks until the contact's lock is held and returns the release
// function. The entry is dropped from the map once the last holder releases.
func (c *contactLocks) Acquire(contactID string) func() {
	c.mu.Lock()
	l, ok := c.locks[contactID]
	if !ok {
		l = &contactLock{}
		c.locks[contactID] = l
	}
	l.refs++
	c.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, contactID)
		}
		c.mu.Unlock()
	}
}
