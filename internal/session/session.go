// Package session keeps at most one live multi-turn game per user and
// drives each game's state machine one action at a time.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"casino-bot/internal/pkg/lock"
)

// Registry errors.
var (
	ErrAlreadyActive   = errors.New("a game session is already active")
	ErrNoActiveSession = errors.New("no active game session")
	ErrNotOwner        = errors.New("session belongs to another user")
)

// Kind identifies the game behind a session.
type Kind string

const (
	KindRussianRoulette Kind = "russian_roulette"
	KindBlackjack       Kind = "blackjack"
)

// Action is a player input to a session.
type Action string

const (
	ActionFire  Action = "fire"
	ActionQuit  Action = "quit"
	ActionHit   Action = "hit"
	ActionStand Action = "stand"
)

// Settlement is the ledger change a transition asks for.
type Settlement struct {
	Delta  int64 // balance change
	Gamble bool  // count one gamble
}

// IsZero reports whether the settlement changes nothing.
func (s Settlement) IsZero() bool {
	return s.Delta == 0 && !s.Gamble
}

// Outcome is the result of applying one action.
type Outcome struct {
	Terminal   bool
	Settlement Settlement
	Snapshot   any // game-specific view of the post-step state
}

// Machine is a multi-turn game state machine. Apply is never called
// concurrently for the same machine.
type Machine interface {
	Kind() Kind
	Apply(a Action) (*Outcome, error)
}

// Handle identifies a live session.
type Handle struct {
	ID        string
	UserID    int64
	Kind      Kind
	StartedAt time.Time
}

// Step is what Registry.Step returns: the session and the outcome of the action.
type Step struct {
	Handle
	Outcome *Outcome
}

type entry struct {
	handle  Handle
	machine Machine
}

// Registry owns live sessions keyed by user id and by session id.
type Registry struct {
	mu     sync.Mutex
	byUser map[int64]*entry
	byID   map[string]*entry
	locks  *lock.UserLock
	now    func() time.Time
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[int64]*entry),
		byID:   make(map[string]*entry),
		locks:  lock.NewUserLock(),
		now:    time.Now,
	}
}

// TryStart registers m for userID unless the user already has a live session
// of any kind.
func (r *Registry) TryStart(userID int64, m Machine) (Handle, error) {
	r.locks.Lock(userID)
	defer r.locks.Unlock(userID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUser[userID]; ok {
		return Handle{}, ErrAlreadyActive
	}

	e := &entry{
		handle: Handle{
			ID:        uuid.NewString(),
			UserID:    userID,
			Kind:      m.Kind(),
			StartedAt: r.now(),
		},
		machine: m,
	}
	r.byUser[userID] = e
	r.byID[e.handle.ID] = e
	return e.handle, nil
}

// lookup returns the live entry for sessionID.
func (r *Registry) lookup(sessionID string) (*entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[sessionID]
	return e, ok
}

// remove drops e if it is still registered.
func (r *Registry) remove(e *entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[e.handle.ID] != e {
		return false
	}
	delete(r.byID, e.handle.ID)
	if r.byUser[e.handle.UserID] == e {
		delete(r.byUser, e.handle.UserID)
	}
	return true
}

// Step applies action to the session on behalf of actorID. Terminal outcomes
// remove the session. A rejected action leaves the session as it was.
func (r *Registry) Step(actorID int64, sessionID string, action Action) (*Step, error) {
	e, ok := r.lookup(sessionID)
	if !ok {
		return nil, ErrNoActiveSession
	}
	if e.handle.UserID != actorID {
		return nil, ErrNotOwner
	}

	r.locks.Lock(actorID)
	defer r.locks.Unlock(actorID)

	// The session may have finished or expired while we waited.
	if cur, ok := r.lookup(sessionID); !ok || cur != e {
		return nil, ErrNoActiveSession
	}

	out, err := e.machine.Apply(action)
	if err != nil {
		return nil, err
	}
	if out.Terminal {
		r.remove(e)
	}
	return &Step{Handle: e.handle, Outcome: out}, nil
}

// Expire removes the user's session if its id is sessionID. No settlement
// happens. It reports whether a session was removed; stale ids are ignored.
func (r *Registry) Expire(userID int64, sessionID string) bool {
	r.locks.Lock(userID)
	defer r.locks.Unlock(userID)

	r.mu.Lock()
	e, ok := r.byUser[userID]
	r.mu.Unlock()
	if !ok || e.handle.ID != sessionID {
		return false
	}
	return r.remove(e)
}

// Active returns the user's live session, if any.
func (r *Registry) Active(userID int64) (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byUser[userID]
	if !ok {
		return Handle{}, false
	}
	return e.handle, true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
