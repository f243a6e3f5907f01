package exchange

import "sync"

// userLocks serializes wallet mutations per user. The read-modify-write in
// a trade is not safe against a concurrent trade for the same user, so the
// entire span from balance check through ledger append runs under the
// user's lock. Entries are never evicted; the map is bounded by the number
// of distinct users seen.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *userLocks) lock(userId string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[userId]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userId] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
