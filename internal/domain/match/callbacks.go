package match

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// MatchEvent is an ephemeral broadcast with no persisted effect on room or
// user state. Operations that are meant to persist go through user or room
// state changes instead.
type MatchEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Callbacks is the boundary through which a room reports committed changes to
// the transport layer. Every successful mutating room operation triggers
// exactly one of the two notify calls; a failed operation triggers none.
//
// Callbacks run inside the room's critical section, so per-room notification
// order matches mutation order. Implementations must not call back into the
// room; everything they need is passed as arguments.
type Callbacks interface {
	// NotifyUserStateChanged reports that user's match state changed, or that
	// the user joined or left the room (membership itself is observable state).
	NotifyUserStateChanged(ctx context.Context, roomID uuid.UUID, user User)

	// NotifyRoomStateChanged reports that the room-level match state or active
	// match type changed.
	NotifyRoomStateChanged(ctx context.Context, roomID uuid.UUID, matchType MatchType, state RoomState)

	// SendMatchEvent broadcasts an ephemeral event to the room.
	SendMatchEvent(ctx context.Context, roomID uuid.UUID, event MatchEvent)
}
