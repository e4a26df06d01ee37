package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrave1/MatchRoom/internal/application/config"
	"github.com/qrave1/MatchRoom/internal/domain/events"
	"github.com/qrave1/MatchRoom/internal/domain/input"
	"github.com/qrave1/MatchRoom/internal/domain/match"
	"github.com/qrave1/MatchRoom/internal/domain/models"
	"github.com/qrave1/MatchRoom/internal/domain/output"
	"github.com/qrave1/MatchRoom/internal/infra/adapters/memory"
	"github.com/qrave1/MatchRoom/internal/infra/appctx"
	"github.com/qrave1/MatchRoom/internal/infra/ports/http/handlers"
	"github.com/qrave1/MatchRoom/internal/usecase"
)

// stubRoomUsecase records join/leave calls so tests can observe what the
// websocket read loop decided to do.
type stubRoomUsecase struct {
	mu     sync.Mutex
	joins  int
	leaves int
}

var _ usecase.RoomUsecase = (*stubRoomUsecase)(nil)

func (s *stubRoomUsecase) CreateRoom(context.Context, *input.CreateRoomInput) (*models.Room, error) {
	return nil, nil
}

func (s *stubRoomUsecase) ListRooms(context.Context) ([]*models.Room, error) {
	return nil, nil
}

func (s *stubRoomUsecase) GetRoomInfo(context.Context, uuid.UUID) (*output.RoomInfo, error) {
	return nil, nil
}

func (s *stubRoomUsecase) JoinRoom(_ context.Context, _, _ uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.joins++
	return nil
}

func (s *stubRoomUsecase) LeaveRoom(_ context.Context, _ uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.leaves++
	return nil
}

func (s *stubRoomUsecase) ChangeMatchType(context.Context, uuid.UUID, match.MatchType) error {
	return nil
}

func (s *stubRoomUsecase) HandleUserRequest(context.Context, uuid.UUID, match.Request) error {
	return nil
}

func (s *stubRoomUsecase) SendMatchEvent(context.Context, uuid.UUID, match.MatchEvent) error {
	return nil
}

func (s *stubRoomUsecase) counts() (joins, leaves int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.joins, s.leaves
}

func newWSServer(t *testing.T, uc usecase.RoomUsecase) *httptest.Server {
	t.Helper()

	h := handlers.NewWebSocketHandler(&config.Config{Debug: true}, uc, memory.NewWSConnectionRepository())

	userID := uuid.New()

	e := echo.New()
	e.GET("/ws", func(c echo.Context) error {
		c.SetRequest(c.Request().WithContext(appctx.WithUserID(c.Request().Context(), userID)))
		return h.Handle(c)
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })

	return conn
}

func joinMessage() events.Message {
	return events.Message{
		Type: events.TypeJoin,
		Data: json.RawMessage(`{"room_id":"` + uuid.NewString() + `"}`),
	}
}

func TestMalformedMessageAnswersSenderAndKeepsSession(t *testing.T) {
	stub := &stubRoomUsecase{}
	srv := newWSServer(t, stub)
	conn := dialWS(t, srv)

	require.NoError(t, conn.WriteJSON(joinMessage()))
	require.Eventually(t, func() bool {
		joins, _ := stub.counts()
		return joins == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	// The sender gets an error reply; the read loop processes frames in
	// order, so once the reply arrives the session is known to be intact.
	var reply events.Message
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, events.TypeError, reply.Type)

	_, leaves := stub.counts()
	assert.Equal(t, 0, leaves, "a malformed frame must not remove the user from their room")

	// The connection still serves requests.
	require.NoError(t, conn.WriteJSON(events.Message{Type: events.TypeLeave}))
	require.Eventually(t, func() bool {
		_, leaves := stub.counts()
		return leaves == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDisconnectLeavesRoom(t *testing.T) {
	stub := &stubRoomUsecase{}
	srv := newWSServer(t, stub)
	conn := dialWS(t, srv)

	require.NoError(t, conn.WriteJSON(joinMessage()))
	require.Eventually(t, func() bool {
		joins, _ := stub.counts()
		return joins == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		_, leaves := stub.counts()
		return leaves == 1
	}, 2*time.Second, 10*time.Millisecond)
}
