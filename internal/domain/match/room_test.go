package match_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrave1/MatchRoom/internal/domain/match"
)

// recordingCallbacks counts notifications the way the transport layer would
// observe them.
type recordingCallbacks struct {
	mu sync.Mutex

	userNotifications map[uuid.UUID]int
	lastUserState     map[uuid.UUID]match.User
	roomNotifications int
	events            []match.MatchEvent
}

func newRecordingCallbacks() *recordingCallbacks {
	return &recordingCallbacks{
		userNotifications: make(map[uuid.UUID]int),
		lastUserState:     make(map[uuid.UUID]match.User),
	}
}

func (c *recordingCallbacks) NotifyUserStateChanged(_ context.Context, _ uuid.UUID, user match.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.userNotifications[user.ID]++
	c.lastUserState[user.ID] = user
}

func (c *recordingCallbacks) NotifyRoomStateChanged(_ context.Context, _ uuid.UUID, _ match.MatchType, _ match.RoomState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.roomNotifications++
}

func (c *recordingCallbacks) SendMatchEvent(_ context.Context, _ uuid.UUID, event match.MatchEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, event)
}

func (c *recordingCallbacks) userCount(id uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.userNotifications[id]
}

func (c *recordingCallbacks) lastUser(id uuid.UUID) match.User {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastUserState[id]
}

func (c *recordingCallbacks) roomCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.roomNotifications
}

func newTestRoom() (*match.Room, *recordingCallbacks) {
	callbacks := newRecordingCallbacks()
	room := match.NewRoom(
		uuid.New(),
		[]match.PlaylistItem{{BeatmapID: 3333, Checksum: "3333"}},
		callbacks,
	)

	return room, callbacks
}

func teamOf(t *testing.T, u match.User) int {
	t.Helper()

	state, ok := u.State.(*match.TeamVersusUserState)
	require.True(t, ok, "user %s has no team versus state (got %T)", u.ID, u.State)

	return state.TeamID
}

func TestNewRoomDefaultsToHeadToHead(t *testing.T) {
	room, _ := newTestRoom()

	assert.Equal(t, match.MatchTypeHeadToHead, room.MatchType())
	assert.True(t, room.Empty())
	assert.Equal(t, []match.PlaylistItem{{BeatmapID: 3333, Checksum: "3333"}}, room.Playlist())
}

func TestAddUserNotifiesOnceEvenWithoutState(t *testing.T) {
	room, callbacks := newTestRoom()
	ctx := context.Background()

	user := &match.User{ID: uuid.New()}
	require.NoError(t, room.AddUser(ctx, user))

	// Head to head sets no state, but membership itself is observable.
	assert.Equal(t, 1, callbacks.userCount(user.ID))
	assert.Nil(t, room.Users()[0].State)
}

func TestAddUserDuplicate(t *testing.T) {
	room, callbacks := newTestRoom()
	ctx := context.Background()

	user := &match.User{ID: uuid.New()}
	require.NoError(t, room.AddUser(ctx, user))

	err := room.AddUser(ctx, &match.User{ID: user.ID})
	require.ErrorIs(t, err, match.ErrDuplicateUser)

	assert.Len(t, room.Users(), 1)
	assert.Equal(t, 1, callbacks.userCount(user.ID), "rejected join must not notify")
}

func TestRemoveUserNotFound(t *testing.T) {
	room, callbacks := newTestRoom()

	err := room.RemoveUser(context.Background(), uuid.New())
	require.ErrorIs(t, err, match.ErrUserNotFound)
	assert.Equal(t, 0, callbacks.roomCount())
}

func TestRemoveUserKeepsRemainingTeams(t *testing.T) {
	room, callbacks := newTestRoom()
	ctx := context.Background()

	require.NoError(t, room.ChangeMatchType(ctx, match.MatchTypeTeamVersus))

	users := make([]*match.User, 4)
	for i := range users {
		users[i] = &match.User{ID: uuid.New()}
		require.NoError(t, room.AddUser(ctx, users[i]))
	}

	// Teams alternate 0,1,0,1 on join; removing a team 0 member must not
	// reshuffle anyone else.
	require.NoError(t, room.RemoveUser(ctx, users[0].ID))

	remaining := room.Users()
	require.Len(t, remaining, 3)
	assert.Equal(t, 1, teamOf(t, remaining[0]))
	assert.Equal(t, 0, teamOf(t, remaining[1]))
	assert.Equal(t, 1, teamOf(t, remaining[2]))

	// The departing user gets the one notification for the leave operation,
	// still carrying the team they left with.
	assert.Equal(t, 2, callbacks.userCount(users[0].ID))
	assert.Equal(t, 0, teamOf(t, callbacks.lastUser(users[0].ID)))
}

func TestChangeMatchTypeUnknown(t *testing.T) {
	room, callbacks := newTestRoom()

	err := room.ChangeMatchType(context.Background(), match.MatchType("royale"))

	var invalid *match.InvalidStateError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, match.MatchTypeHeadToHead, room.MatchType())
	assert.Equal(t, 0, callbacks.roomCount())
}

func TestChangeMatchTypeNotifiesRoomStateOnce(t *testing.T) {
	room, callbacks := newTestRoom()
	ctx := context.Background()

	require.NoError(t, room.ChangeMatchType(ctx, match.MatchTypeTeamVersus))

	assert.Equal(t, match.MatchTypeTeamVersus, room.MatchType())
	assert.Equal(t, 1, callbacks.roomCount())
}

func TestHandleUserRequestUnknownUser(t *testing.T) {
	room, _ := newTestRoom()

	err := room.HandleUserRequest(context.Background(), uuid.New(), match.ChangeTeamRequest{TeamID: 0})
	require.ErrorIs(t, err, match.ErrUserNotFound)
}

func TestBroadcastEvent(t *testing.T) {
	room, callbacks := newTestRoom()

	room.BroadcastEvent(context.Background(), match.MatchEvent{Type: "countdown"})

	require.Len(t, callbacks.events, 1)
	assert.Equal(t, "countdown", callbacks.events[0].Type)
}

func TestConcurrentRequestsSerializeAndNotifyPerSuccess(t *testing.T) {
	room, callbacks := newTestRoom()
	ctx := context.Background()

	require.NoError(t, room.ChangeMatchType(ctx, match.MatchTypeTeamVersus))

	user := &match.User{ID: uuid.New()}
	require.NoError(t, room.AddUser(ctx, user))

	const requests = 100

	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(team int) {
			defer wg.Done()
			assert.NoError(t, room.HandleUserRequest(ctx, user.ID, match.ChangeTeamRequest{TeamID: team}))
		}(i % match.TeamCount)
	}
	wg.Wait()

	// One notification for the join plus one per accepted request.
	assert.Equal(t, requests+1, callbacks.userCount(user.ID))

	team := teamOf(t, room.Users()[0])
	assert.GreaterOrEqual(t, team, 0)
	assert.Less(t, team, match.TeamCount)
}
