package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/MatchRoom/internal/domain/input"
)

// Room is the persisted bootstrap record of a match room. Live match state
// never touches the database; only the settings a new room is constructed
// from do.
type Room struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatorID uuid.UUID `json:"creator_id" db:"creator_id"`
	Name      string    `json:"name" db:"name"`
	MatchType string    `json:"match_type" db:"match_type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PlaylistItem is one persisted playlist entry of a room.
type PlaylistItem struct {
	ID        int64     `json:"id" db:"id"`
	RoomID    uuid.UUID `json:"room_id" db:"room_id"`
	BeatmapID int64     `json:"beatmap_id" db:"beatmap_id"`
	Checksum  string    `json:"checksum" db:"checksum"`
	Position  int       `json:"position" db:"position"`
}

func NewRoom(in *input.CreateRoomInput) *Room {
	return &Room{
		ID:        uuid.New(),
		CreatorID: in.CreatorID,
		Name:      in.Name,
		MatchType: "head_to_head",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
