// Package runtime holds the mutable core of the chat service: the presence
// registry and the fanout over the transport. It contains no business text
// or wire concerns.
package runtime

import (
	"chat-rooms/domain"
	"chat-rooms/errors"
	"sync"
)

// PresenceRegistry is the authoritative mapping from connection identity to
// (username, room). It is the only mutable shared state in the core.
//
// The duplicate-name check and the insert happen under one lock so that two
// simultaneous joins with the same name and room can never both succeed.
type PresenceRegistry struct {
	mu    sync.RWMutex
	users map[string]domain.User // connID -> User
	order []string               // connIDs in insertion order, drives roster order
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		users: make(map[string]domain.User),
	}
}

// AddUser normalizes the username and room, validates them, checks uniqueness
// of (username, room) among other active connections and inserts, all as one
// indivisible operation. Failure leaves the registry untouched.
func (r *PresenceRegistry) AddUser(connID, username, room string) (domain.User, error) {
	username = domain.Normalize(username)
	room = domain.Normalize(room)

	if username == "" || room == "" {
		return domain.User{}, errors.ErrValidation
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[connID]; ok {
		return domain.User{}, errors.ErrAlreadyJoined
	}

	for _, id := range r.order {
		u := r.users[id]
		if u.Username == username && u.Room == room {
			return domain.User{}, errors.ErrNameTaken
		}
	}

	user := domain.User{ConnID: connID, Username: username, Room: room}
	r.users[connID] = user
	r.order = append(r.order, connID)
	return user, nil
}

// RemoveUser removes and returns the user for connID. Idempotent: a second
// call for the same connection reports false without error.
func (r *PresenceRegistry) RemoveUser(connID string) (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[connID]
	if !ok {
		return domain.User{}, false
	}

	delete(r.users, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return user, true
}

// GetUser resolves the user registered for connID.
func (r *PresenceRegistry) GetUser(connID string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[connID]
	if !ok {
		return domain.User{}, errors.ErrNotJoined
	}
	return user, nil
}

// UsersInRoom returns the roster of the normalized room, in join order.
// Unknown rooms yield an empty slice, never an error.
func (r *PresenceRegistry) UsersInRoom(room string) []domain.User {
	room = domain.Normalize(room)

	r.mu.RLock()
	defer r.mu.RUnlock()

	roster := make([]domain.User, 0)
	for _, id := range r.order {
		if u := r.users[id]; u.Room == room {
			roster = append(roster, u)
		}
	}
	return roster
}

// Count reports the number of active users across all rooms.
func (r *PresenceRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
