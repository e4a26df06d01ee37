package match_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrave1/MatchRoom/internal/domain/match"
)

func TestUserRequestsValidTeamChange(t *testing.T) {
	for _, team := range []int{0, 1} {
		t.Run(fmt.Sprintf("team_%d", team), func(t *testing.T) {
			room, callbacks := newTestRoom()
			ctx := context.Background()

			require.NoError(t, room.ChangeMatchType(ctx, match.MatchTypeTeamVersus))

			user := &match.User{ID: uuid.New()}
			require.NoError(t, room.AddUser(ctx, user))
			require.Equal(t, 1, callbacks.userCount(user.ID))

			require.NoError(t, room.HandleUserRequest(ctx, user.ID, match.ChangeTeamRequest{TeamID: team}))

			assert.Equal(t, team, teamOf(t, room.Users()[0]))
			assert.Equal(t, 2, callbacks.userCount(user.ID))
		})
	}
}

func TestUserRequestsInvalidTeamChange(t *testing.T) {
	for _, team := range []int{-1, 2, 3} {
		room, callbacks := newTestRoom()
		ctx := context.Background()

		require.NoError(t, room.ChangeMatchType(ctx, match.MatchTypeTeamVersus))

		user := &match.User{ID: uuid.New()}
		require.NoError(t, room.AddUser(ctx, user))
		require.Equal(t, 1, callbacks.userCount(user.ID))

		previousTeam := teamOf(t, room.Users()[0])

		err := room.HandleUserRequest(ctx, user.ID, match.ChangeTeamRequest{TeamID: team})

		var invalid *match.InvalidStateError
		require.ErrorAs(t, err, &invalid, "team %d must be rejected", team)

		// Rejected request changes nothing and notifies nobody.
		assert.Equal(t, previousTeam, teamOf(t, room.Users()[0]))
		assert.Equal(t, 1, callbacks.userCount(user.ID))
	}
}

func TestFirstUserJoinsTeamZero(t *testing.T) {
	room, callbacks := newTestRoom()
	ctx := context.Background()

	require.NoError(t, room.ChangeMatchType(ctx, match.MatchTypeTeamVersus))

	user := &match.User{ID: uuid.New()}
	require.NoError(t, room.AddUser(ctx, user))

	assert.Equal(t, 0, teamOf(t, room.Users()[0]))
	assert.Equal(t, 1, callbacks.userCount(user.ID))
}

func TestInitialUsersAssignedToTeamsEqually(t *testing.T) {
	room, _ := newTestRoom()
	ctx := context.Background()

	// Users join while the room is still head to head.
	for i := 0; i < 5; i++ {
		require.NoError(t, room.AddUser(ctx, &match.User{ID: uuid.New()}))
	}

	require.NoError(t, room.ChangeMatchType(ctx, match.MatchTypeTeamVersus))

	teams := make([]int, 0, 5)
	for _, u := range room.Users() {
		teams = append(teams, teamOf(t, u))
	}

	assert.Equal(t, []int{0, 1, 0, 1, 0}, teams)
}

func TestStateMaintainedBetweenRulesetSwitch(t *testing.T) {
	room, _ := newTestRoom()
	ctx := context.Background()

	require.NoError(t, room.ChangeMatchType(ctx, match.MatchTypeTeamVersus))

	for i := 0; i < 5; i++ {
		require.NoError(t, room.AddUser(ctx, &match.User{ID: uuid.New()}))
	}

	expected := []int{0, 1, 0, 1, 0}

	teams := func() []int {
		var teams []int
		for _, u := range room.Users() {
			teams = append(teams, teamOf(t, u))
		}
		return teams
	}

	require.Equal(t, expected, teams())

	// Switching away does not clear team state; switching back finds it
	// shape-compatible and leaves it untouched.
	require.NoError(t, room.ChangeMatchType(ctx, match.MatchTypeHeadToHead))
	require.NoError(t, room.ChangeMatchType(ctx, match.MatchTypeTeamVersus))

	assert.Equal(t, expected, teams())
}

func TestNewUsersAssignedToTeamWithFewerUsers(t *testing.T) {
	room, _ := newTestRoom()
	ctx := context.Background()

	require.NoError(t, room.ChangeMatchType(ctx, match.MatchTypeTeamVersus))

	users := make([]*match.User, 5)
	for i := range users {
		users[i] = &match.User{ID: uuid.New()}
		require.NoError(t, room.AddUser(ctx, users[i]))
	}

	// Skew the room: everyone on team 0.
	for _, u := range users {
		require.NoError(t, room.HandleUserRequest(ctx, u.ID, match.ChangeTeamRequest{TeamID: 0}))
	}

	for _, u := range room.Users() {
		require.Equal(t, 0, teamOf(t, u))
	}

	// Five sequential joins all land on the minority team; counts never catch
	// up to 5 before the last join.
	for i := 0; i < 5; i++ {
		newUser := &match.User{ID: uuid.New()}
		require.NoError(t, room.AddUser(ctx, newUser))

		members := room.Users()
		assert.Equal(t, 1, teamOf(t, members[len(members)-1]))
	}
}

func TestHeadToHeadRejectsAllRequests(t *testing.T) {
	room, callbacks := newTestRoom()
	ctx := context.Background()

	user := &match.User{ID: uuid.New()}
	require.NoError(t, room.AddUser(ctx, user))

	err := room.HandleUserRequest(ctx, user.ID, match.ChangeTeamRequest{TeamID: 0})

	var invalid *match.InvalidStateError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, callbacks.userCount(user.ID))
	assert.Nil(t, room.Users()[0].State)
}
