package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/qrave1/MatchRoom/internal/application/config"
	"github.com/qrave1/MatchRoom/internal/application/constant"
	"github.com/qrave1/MatchRoom/internal/application/metric"
	"github.com/qrave1/MatchRoom/internal/domain/events"
	"github.com/qrave1/MatchRoom/internal/domain/match"
	"github.com/qrave1/MatchRoom/internal/infra/adapters/memory"
	"github.com/qrave1/MatchRoom/internal/infra/appctx"
	"github.com/qrave1/MatchRoom/internal/usecase"
)

type WebSocketHandler struct {
	upgrader *websocket.Upgrader

	roomUsecase usecase.RoomUsecase

	wsConnRepo memory.WebsocketConnectionRepository
}

func NewWebSocketHandler(cfg *config.Config, roomUsecase usecase.RoomUsecase, wsConnRepo memory.WebsocketConnectionRepository) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.Debug {
					return true
				}

				return r.Header.Get("Origin") == cfg.Domain
			},
		},
		roomUsecase: roomUsecase,
		wsConnRepo:  wsConnRepo,
	}
}

func (h *WebSocketHandler) Handle(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"WebSocket upgrade error",
			slog.Any(constant.Error, err),
		)
		return err
	}
	defer ws.Close()

	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return fmt.Errorf("get user id from context")
	}

	h.wsConnRepo.Add(userID, ws)
	defer h.wsConnRepo.Remove(userID)

	err = ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	if err != nil {
		return err
	}
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
					slog.Error("ping failed", slog.Any(constant.Error, err))
					return
				}
			case <-c.Request().Context().Done():
				return
			}
		}
	}()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		default:
			_, msg, err := ws.ReadMessage()
			if err != nil {
				h.handleWebsocketError(c.Request().Context(), err)

				// Disconnect counts as leaving the room.
				if err = h.roomUsecase.LeaveRoom(c.Request().Context(), userID); err != nil && !errors.Is(err, match.ErrUserNotFound) {
					slog.Error(
						"handle leave while reading websocket message",
						slog.Any(constant.Error, err),
						slog.Any(constant.UserID, userID),
					)
				}

				return nil
			}

			message := new(events.Message)

			if err = json.Unmarshal(msg, &message); err != nil {
				slog.Warn(
					"unmarshal websocket message",
					slog.Any(constant.Error, err),
					slog.Any(constant.UserID, userID),
				)

				// A malformed frame is a rejection like any other: answer the
				// sender and keep the connection and room membership intact.
				h.wsConnRepo.Write(userID, errorMessage(errors.New("malformed message")))

				continue
			}

			if err = h.handleMessage(c.Request().Context(), userID, message); err != nil {
				slog.Warn(
					"handle message",
					slog.Any(constant.Error, err),
					slog.Any(constant.UserID, userID),
				)

				// Rejections concern only the originating client; nobody
				// else hears about them.
				h.wsConnRepo.Write(userID, errorMessage(err))
			}
		}
	}
}

func (h *WebSocketHandler) handleMessage(
	ctx context.Context,
	userID uuid.UUID,
	msg *events.Message,
) error {
	switch msg.Type {
	case events.TypeJoin:
		var joinEvent events.JoinEvent

		if err := json.Unmarshal(msg.Data, &joinEvent); err != nil {
			return fmt.Errorf("unmarshal join event: %w", err)
		}

		roomID, err := uuid.Parse(joinEvent.RoomID)
		if err != nil {
			return fmt.Errorf("parse room id: %w", err)
		}

		if err := h.roomUsecase.JoinRoom(ctx, userID, roomID); err != nil {
			return fmt.Errorf("handle join: %w", err)
		}

	case events.TypeLeave:
		if err := h.roomUsecase.LeaveRoom(ctx, userID); err != nil {
			return fmt.Errorf("handle leave: %w", err)
		}

	case events.TypeChangeType:
		var changeEvent events.ChangeTypeEvent

		if err := json.Unmarshal(msg.Data, &changeEvent); err != nil {
			return fmt.Errorf("unmarshal change type event: %w", err)
		}

		if err := h.roomUsecase.ChangeMatchType(ctx, userID, match.MatchType(changeEvent.MatchType)); err != nil {
			return fmt.Errorf("handle change type: %w", err)
		}

	case events.TypeMatchRequest:
		var requestEvent events.MatchRequestEvent

		if err := json.Unmarshal(msg.Data, &requestEvent); err != nil {
			return fmt.Errorf("unmarshal match request event: %w", err)
		}

		req, err := match.DecodeRequest(requestEvent.Kind, requestEvent.Data)
		if err != nil {
			metric.RecordMatchRequest(requestEvent.Kind, err)
			return fmt.Errorf("decode match request: %w", err)
		}

		err = h.roomUsecase.HandleUserRequest(ctx, userID, req)
		metric.RecordMatchRequest(requestEvent.Kind, err)
		if err != nil {
			return fmt.Errorf("handle match request: %w", err)
		}

	case events.TypeMatchEvent:
		var event match.MatchEvent

		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return fmt.Errorf("unmarshal match event: %w", err)
		}

		if err := h.roomUsecase.SendMatchEvent(ctx, userID, event); err != nil {
			return fmt.Errorf("handle match event: %w", err)
		}

	case events.TypePing:
		// Keepalive only.

	default:
		return errors.New("unknown message type")
	}

	return nil
}

func (h *WebSocketHandler) handleWebsocketError(ctx context.Context, err error) {
	userID, ok := appctx.UserID(ctx)
	if !ok {
		userID = uuid.Nil
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseNormalClosure, websocket.CloseGoingAway:
			slog.Info("user disconnected from websocket", slog.Any(constant.UserID, userID))
		default:
			slog.Error("websocket close error")
		}
	} else {
		slog.Error(
			"websocket read",
			slog.Any(constant.Error, err),
		)
	}
}

func errorMessage(err error) events.Message {
	data, marshalErr := json.Marshal(events.ErrorEvent{Message: err.Error()})
	if marshalErr != nil {
		data = nil
	}

	return events.Message{Type: events.TypeError, Data: data}
}
