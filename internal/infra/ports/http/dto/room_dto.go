package dto

import "github.com/google/uuid"

type CreateRoomRequest struct {
	Name     string                    `json:"name"`
	Playlist []CreateRoomPlaylistEntry `json:"playlist"`
}

type CreateRoomPlaylistEntry struct {
	BeatmapID int64  `json:"beatmap_id"`
	Checksum  string `json:"checksum"`
}

type CreateRoomResponse struct {
	ID uuid.UUID `json:"id"`
}
