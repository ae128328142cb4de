package auth

import (
	"sync"
	"time"
)

type failures struct {
	count    int
	lockedAt time.Time
}

// LockoutTracker refuses logins from a key (the client IP) after too many
// consecutive failures, for a fixed cool-down.
type LockoutTracker struct {
	mu       sync.Mutex
	attempts map[string]*failures
	maxFails int
	lockDur  time.Duration
	now      func() time.Time
}

func NewLockoutTracker(maxFailedAttempts int, lockoutDuration time.Duration) *LockoutTracker {
	return &LockoutTracker{
		attempts: make(map[string]*failures),
		maxFails: maxFailedAttempts,
		lockDur:  lockoutDuration,
		now:      time.Now,
	}
}

func (lt *LockoutTracker) IsLocked(key string) bool {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	f, ok := lt.attempts[key]
	if !ok || f.count < lt.maxFails {
		return false
	}
	if lt.now().Sub(f.lockedAt) < lt.lockDur {
		return true
	}
	delete(lt.attempts, key)
	return false
}

func (lt *LockoutTracker) RecordFailure(key string) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	f, ok := lt.attempts[key]
	if !ok {
		f = &failures{}
		lt.attempts[key] = f
	}
	f.count++
	if f.count == lt.maxFails {
		f.lockedAt = lt.now()
	}
}

// Reset forgets a key after a successful login.
func (lt *LockoutTracker) Reset(key string) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	delete(lt.attempts, key)
}
