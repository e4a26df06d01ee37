package match

import "github.com/google/uuid"

// MatchType tags the active ruleset of a room.
type MatchType string

const (
	MatchTypeHeadToHead MatchType = "head_to_head"
	MatchTypeTeamVersus MatchType = "team_versus"
)

func (t MatchType) Valid() bool {
	switch t {
	case MatchTypeHeadToHead, MatchTypeTeamVersus:
		return true
	}
	return false
}

// UserState is the per-user match payload. Its concrete shape is defined by
// the ruleset that wrote it. It is not reset when the room switches to another
// match type: readers must check the concrete type and tolerate a stale
// variant left over from a previous ruleset.
type UserState interface {
	isUserState()
}

// RoomState is the room-level match payload. Nil unless the active ruleset
// maintains room-wide state.
type RoomState interface {
	isRoomState()
}

// TeamVersusUserState assigns a user to a team. TeamID is in [0, TeamCount).
// Values are replaced wholesale on change, never mutated in place, so a
// snapshot taken under the room lock stays valid afterwards.
type TeamVersusUserState struct {
	TeamID int `json:"team_id"`
}

func (*TeamVersusUserState) isUserState() {}

// User is a member of a room. State is only written by the room's active
// ruleset while the room lock is held.
type User struct {
	ID    uuid.UUID `json:"id"`
	State UserState `json:"state,omitempty"`
}

// PlaylistItem is one entry of a room's playlist, obtained from the bootstrap
// gateway at room construction.
type PlaylistItem struct {
	BeatmapID int64  `json:"beatmap_id"`
	Checksum  string `json:"checksum"`
}
