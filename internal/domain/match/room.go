package match

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Room is the authoritative state of one multiplayer session: its members in
// join order, the playlist it was bootstrapped with, and the active ruleset.
//
// One mutex serializes every mutating operation. The lock is held for the full
// span of validate, mutate and the dispatch of the resulting notification, so
// no two operations on the same room interleave and an observer never sees a
// state change whose notification has not been dispatched in program order.
// Different rooms share no state and proceed fully in parallel.
type Room struct {
	ID uuid.UUID

	mu        sync.Mutex
	users     []*User
	playlist  []PlaylistItem
	matchType MatchType
	ruleset   Ruleset
	state     RoomState
	callbacks Callbacks
}

// NewRoom builds a room from its bootstrap data. The initial ruleset is head
// to head.
func NewRoom(id uuid.UUID, playlist []PlaylistItem, callbacks Callbacks) *Room {
	r := &Room{
		ID:        id,
		playlist:  playlist,
		matchType: MatchTypeHeadToHead,
		callbacks: callbacks,
	}

	// newRuleset cannot fail for a known match type.
	r.ruleset, _ = newRuleset(MatchTypeHeadToHead, r)

	return r
}

// AddUser appends the user to the room, lets the active ruleset establish its
// per-user state, and emits one user-state-changed notification. Joining is
// itself an observable change, so the notification fires even when the
// ruleset set no state.
func (r *Room) AddUser(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findUser(u.ID) != nil {
		return fmt.Errorf("add user %s: %w", u.ID, ErrDuplicateUser)
	}

	r.users = append(r.users, u)
	r.ruleset.UserJoined(u)

	r.callbacks.NotifyUserStateChanged(ctx, r.ID, *u)

	return nil
}

// RemoveUser removes the user and runs the ruleset cleanup hook. Remaining
// users are not rebalanced. One user-state-changed notification is emitted
// for the departing user.
func (r *Room) RemoveUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.findUser(userID)
	if u == nil {
		return fmt.Errorf("remove user %s: %w", userID, ErrUserNotFound)
	}

	for i, member := range r.users {
		if member.ID == userID {
			r.users = append(r.users[:i], r.users[i+1:]...)
			break
		}
	}

	r.ruleset.UserLeft(u)

	r.callbacks.NotifyUserStateChanged(ctx, r.ID, *u)

	return nil
}

// ChangeMatchType activates a fresh ruleset for the given type, initializes
// it over the current members in join order, and atomically swaps it in. Per-
// user state that is still shape-compatible with the new ruleset survives the
// swap untouched. One room-state-changed notification is emitted.
func (r *Room) ChangeMatchType(ctx context.Context, t MatchType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ruleset, err := newRuleset(t, r)
	if err != nil {
		return err
	}

	ruleset.Initialize(r.users)

	r.matchType = t
	r.ruleset = ruleset

	r.callbacks.NotifyRoomStateChanged(ctx, r.ID, r.matchType, r.state)

	return nil
}

// HandleUserRequest delegates the request to the active ruleset. On success
// exactly one user-state-changed notification is emitted; on failure the
// error is returned unchanged and nothing else happens.
func (r *Room) HandleUserRequest(ctx context.Context, userID uuid.UUID, req Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.findUser(userID)
	if u == nil {
		return fmt.Errorf("handle request for user %s: %w", userID, ErrUserNotFound)
	}

	if err := r.ruleset.HandleUserRequest(u, req); err != nil {
		return err
	}

	r.callbacks.NotifyUserStateChanged(ctx, r.ID, *u)

	return nil
}

// BroadcastEvent sends an ephemeral event to the room. No state changes.
func (r *Room) BroadcastEvent(ctx context.Context, event MatchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.callbacks.SendMatchEvent(ctx, r.ID, event)
}

// Users returns a snapshot of the members in join order.
func (r *Room) Users() []User {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}

	return users
}

// MatchType returns the active match type tag.
func (r *Room) MatchType() MatchType {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.matchType
}

// Playlist returns the bootstrap playlist.
func (r *Room) Playlist() []PlaylistItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	playlist := make([]PlaylistItem, len(r.playlist))
	copy(playlist, r.playlist)

	return playlist
}

// Empty reports whether the room has no members left.
func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.users) == 0
}

func (r *Room) findUser(id uuid.UUID) *User {
	for _, u := range r.users {
		if u.ID == id {
			return u
		}
	}

	return nil
}
