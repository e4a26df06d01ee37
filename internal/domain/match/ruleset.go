package match

import "fmt"

// Ruleset is the pluggable match-type strategy of a room. A fresh instance is
// bound to exactly one room at activation and replaced wholesale on every
// match type change; any state it wants to survive must live on Room or User
// fields.
//
// Rulesets do no locking of their own: every method is invoked by the room
// while its critical section is held.
type Ruleset interface {
	// UserJoined is called after the user was added to the room. It may set
	// user.State.
	UserJoined(u *User)

	// UserLeft is a cleanup hook called after the user was removed.
	UserLeft(u *User)

	// Initialize (re)establishes room- and user-level state for the users
	// already present when this ruleset is activated, in join order. It must
	// be idempotent with respect to already-compatible per-user state.
	Initialize(users []*User)

	// HandleUserRequest validates and applies a user request. A failing
	// request returns InvalidStateError and mutates nothing.
	HandleUserRequest(u *User, req Request) error
}

func newRuleset(t MatchType, room *Room) (Ruleset, error) {
	switch t {
	case MatchTypeHeadToHead:
		return headToHead{}, nil
	case MatchTypeTeamVersus:
		return &teamVersus{room: room}, nil
	default:
		return nil, invalidState(fmt.Sprintf("unknown match type %q", t))
	}
}
