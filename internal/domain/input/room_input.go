package input

import "github.com/google/uuid"

type CreateRoomInput struct {
	CreatorID uuid.UUID
	Name      string
	Playlist  []CreateRoomPlaylistItem
}

type CreateRoomPlaylistItem struct {
	BeatmapID int64
	Checksum  string
}
