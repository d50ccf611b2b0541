package main

import (
	"math"
	"sync"
	"time"
)

const chatCooldown = 10 * time.Second

var chatCooldowns = newCooldownTracker()

// cooldownTracker records the timestamp of the last allowed send per
// connection. check is a single read-modify-write under the mutex so
// two sends from the same connection cannot both land inside one
// window.
type cooldownTracker struct {
	mu       sync.Mutex
	lastSend map[string]time.Time
}

func newCooldownTracker() *cooldownTracker {
	return &cooldownTracker{lastSend: make(map[string]time.Time)}
}

// check reports whether a send at now is allowed for the connection.
// The window is measured from the last allowed send; a denied attempt
// does not reset it.
func (t *cooldownTracker) check(clientUUID string, now time.Time) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if last, ok := t.lastSend[clientUUID]; ok {
		if elapsed := now.Sub(last); elapsed < chatCooldown {
			return chatCooldown - elapsed, false
		}
	}
	t.lastSend[clientUUID] = now
	return 0, true
}

func (t *cooldownTracker) clear(clientUUID string) {
	if clientUUID == "" {
		return
	}
	t.mu.Lock()
	delete(t.lastSend, clientUUID)
	t.mu.Unlock()
}

func cooldownSeconds(remaining time.Duration) int {
	return int(math.Ceil(remaining.Seconds()))
}
