package events

import (
	"encoding/json"

	"github.com/qrave1/MatchRoom/internal/domain/match"
)

// Message is the envelope of every websocket message, inbound and outbound.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound message types.
const (
	TypeJoin         = "join"
	TypeLeave        = "leave"
	TypeChangeType   = "change_type"
	TypeMatchRequest = "match_request"
	TypeMatchEvent   = "match_event"
	TypePing         = "ping"
)

// Outbound message types.
const (
	TypeUserState = "match_user_state"
	TypeRoomState = "match_room_state"
	TypeError     = "error"
)

// JoinEvent asks to join a room.
type JoinEvent struct {
	RoomID string `json:"room_id"`
}

// ChangeTypeEvent asks to switch the room's match type.
type ChangeTypeEvent struct {
	MatchType string `json:"match_type"`
}

// MatchRequestEvent carries a ruleset-specific request.
type MatchRequestEvent struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data,omitempty"`
}

// UserStateEvent reports a committed change to one user's match state
// (including join and leave).
type UserStateEvent struct {
	RoomID string          `json:"room_id"`
	UserID string          `json:"user_id"`
	State  match.UserState `json:"state,omitempty"`
}

// RoomStateEvent reports a committed change to room-level match state.
type RoomStateEvent struct {
	RoomID    string          `json:"room_id"`
	MatchType string          `json:"match_type"`
	State     match.RoomState `json:"state,omitempty"`
}

// ErrorEvent is delivered only to the client whose request was rejected.
type ErrorEvent struct {
	Message string `json:"message"`
}
