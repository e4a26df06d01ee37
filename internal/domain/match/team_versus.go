package match

import "fmt"

// TeamCount is the fixed number of teams in a team versus match.
const TeamCount = 2

// teamVersus splits the room into TeamCount teams. New users are assigned to
// the least populated team unless they already carry a team assignment from a
// previous activation of this ruleset.
type teamVersus struct {
	room *Room
}

func (t *teamVersus) UserJoined(u *User) {
	t.ensureTeam(u)
}

func (t *teamVersus) UserLeft(*User) {
	// Remaining users keep their teams; rebalancing happens only on join and
	// activation.
}

func (t *teamVersus) Initialize(users []*User) {
	// Sequential on purpose: each assignment sees the counts produced by the
	// previous ones, so a cold start alternates teams in join order.
	for _, u := range users {
		t.ensureTeam(u)
	}
}

func (t *teamVersus) HandleUserRequest(u *User, req Request) error {
	switch req := req.(type) {
	case ChangeTeamRequest:
		if req.TeamID < 0 || req.TeamID >= TeamCount {
			return invalidState(fmt.Sprintf("team %d out of range [0, %d)", req.TeamID, TeamCount))
		}

		u.State = &TeamVersusUserState{TeamID: req.TeamID}

		return nil
	default:
		return invalidState(fmt.Sprintf("team versus does not accept %T", req))
	}
}

// ensureTeam keeps a shape-compatible assignment untouched and balances the
// user onto the least populated team otherwise.
func (t *teamVersus) ensureTeam(u *User) {
	if _, ok := u.State.(*TeamVersusUserState); ok {
		return
	}

	u.State = &TeamVersusUserState{TeamID: LeastPopulatedTeam(t.teamCounts())}
}

// teamCounts counts current members per team. Users without a compatible team
// state (fresh joins, stale state from another ruleset) are not counted.
func (t *teamVersus) teamCounts() []int {
	counts := make([]int, TeamCount)

	for _, u := range t.room.users {
		if s, ok := u.State.(*TeamVersusUserState); ok && s.TeamID >= 0 && s.TeamID < TeamCount {
			counts[s.TeamID]++
		}
	}

	return counts
}
