package handler

import (
	"sync"
	"time"
)

// sessionTimers holds one idle timer per live session. Every button press
// resets the timer; when it fires the session is expired.
type sessionTimers struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newSessionTimers() *sessionTimers {
	return &sessionTimers{timers: make(map[string]*time.Timer)}
}

// start arms a timer that runs onIdle after d unless reset or stopped.
func (t *sessionTimers) start(sessionID string, d time.Duration, onIdle func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if old, ok := t.timers[sessionID]; ok {
		old.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		current := t.timers[sessionID] == timer
		if current {
			delete(t.timers, sessionID)
		}
		t.mu.Unlock()
		if current {
			onIdle()
		}
	})
	t.timers[sessionID] = timer
}

// reset pushes the deadline of a running timer back to d from now.
func (t *sessionTimers) reset(sessionID string, d time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	timer, ok := t.timers[sessionID]
	if !ok || !timer.Stop() {
		return false
	}
	timer.Reset(d)
	return true
}

// stop cancels the timer for a finished session.
func (t *sessionTimers) stop(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[sessionID]; ok {
		timer.Stop()
		delete(t.timers, sessionID)
	}
}

func (t *sessionTimers) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}
