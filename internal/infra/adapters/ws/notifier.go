package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/qrave1/MatchRoom/internal/application/constant"
	"github.com/qrave1/MatchRoom/internal/application/metric"
	"github.com/qrave1/MatchRoom/internal/domain/events"
	"github.com/qrave1/MatchRoom/internal/domain/match"
	"github.com/qrave1/MatchRoom/internal/infra/adapters/memory"
)

// Notifier delivers match notifications to the room's connected clients over
// websocket. It is invoked inside the room's critical section, which is what
// keeps per-room notification order equal to mutation order.
type Notifier struct {
	wsRepo         memory.WebsocketConnectionRepository
	activeUserRepo memory.ActiveUserRepository
}

var _ match.Callbacks = (*Notifier)(nil)

func NewNotifier(
	wsRepo memory.WebsocketConnectionRepository,
	activeUserRepo memory.ActiveUserRepository,
) *Notifier {
	return &Notifier{
		wsRepo:         wsRepo,
		activeUserRepo: activeUserRepo,
	}
}

func (n *Notifier) NotifyUserStateChanged(ctx context.Context, roomID uuid.UUID, user match.User) {
	n.broadcast(ctx, roomID, events.TypeUserState, events.UserStateEvent{
		RoomID: roomID.String(),
		UserID: user.ID.String(),
		State:  user.State,
	})

	metric.RecordNotification("user_state")
}

func (n *Notifier) NotifyRoomStateChanged(ctx context.Context, roomID uuid.UUID, matchType match.MatchType, state match.RoomState) {
	n.broadcast(ctx, roomID, events.TypeRoomState, events.RoomStateEvent{
		RoomID:    roomID.String(),
		MatchType: string(matchType),
		State:     state,
	})

	metric.RecordNotification("room_state")
}

func (n *Notifier) SendMatchEvent(ctx context.Context, roomID uuid.UUID, event match.MatchEvent) {
	n.broadcast(ctx, roomID, events.TypeMatchEvent, event)

	metric.RecordNotification("match_event")
}

func (n *Notifier) broadcast(ctx context.Context, roomID uuid.UUID, msgType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error(
			"marshal notification payload",
			slog.Any(constant.Error, err),
			slog.Any(constant.RoomID, roomID),
		)
		return
	}

	msg := events.Message{Type: msgType, Data: data}

	for _, activeUser := range n.activeUserRepo.GetInRoom(ctx, roomID) {
		n.wsRepo.Write(activeUser.ID, msg)
	}
}
