package runtime

import "github.com/google/uuid"

// ActiveUser tracks which room a connected user currently occupies.
type ActiveUser struct {
	ID     uuid.UUID `json:"id"`
	RoomID uuid.UUID `json:"room_id"`
}
