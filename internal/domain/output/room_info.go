package output

import "github.com/qrave1/MatchRoom/internal/domain/match"

// RoomInfo is the snapshot of a room returned over the REST API. For a live
// room it reflects the in-memory state; for an inactive one, the persisted
// bootstrap record.
type RoomInfo struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	MatchType string             `json:"match_type"`
	Active    bool               `json:"active"`
	Users     []RoomUserInfo     `json:"users"`
	Playlist  []PlaylistItemInfo `json:"playlist"`
}

type RoomUserInfo struct {
	ID    string          `json:"id"`
	State match.UserState `json:"state,omitempty"`
}

type PlaylistItemInfo struct {
	BeatmapID int64  `json:"beatmap_id"`
	Checksum  string `json:"checksum"`
}
