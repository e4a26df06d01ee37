package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/qrave1/MatchRoom/internal/application/constant"
	"github.com/qrave1/MatchRoom/internal/domain/input"
	"github.com/qrave1/MatchRoom/internal/infra/appctx"
	"github.com/qrave1/MatchRoom/internal/infra/ports/http/dto"
	"github.com/qrave1/MatchRoom/internal/usecase"
)

type RoomHandler struct {
	roomUsecase usecase.RoomUsecase
}

func NewRoomHandler(roomUsecase usecase.RoomUsecase) *RoomHandler {
	return &RoomHandler{roomUsecase: roomUsecase}
}

func (h *RoomHandler) CreateRoomHandler(c echo.Context) error {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user ID in context"})
	}

	var req dto.CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "room name is required"})
	}

	in := &input.CreateRoomInput{
		CreatorID: userID,
		Name:      req.Name,
		Playlist:  make([]input.CreateRoomPlaylistItem, 0, len(req.Playlist)),
	}

	for _, item := range req.Playlist {
		in.Playlist = append(in.Playlist, input.CreateRoomPlaylistItem{
			BeatmapID: item.BeatmapID,
			Checksum:  item.Checksum,
		})
	}

	room, err := h.roomUsecase.CreateRoom(c.Request().Context(), in)
	if err != nil {
		slog.Error("create room failed", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create room"})
	}

	return c.JSON(http.StatusCreated, dto.CreateRoomResponse{ID: room.ID})
}

func (h *RoomHandler) ListRoomsHandler(c echo.Context) error {
	rooms, err := h.roomUsecase.ListRooms(c.Request().Context())
	if err != nil {
		slog.Error("list rooms failed", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not list rooms"})
	}

	return c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) GetRoomHandler(c echo.Context) error {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid room id"})
	}

	info, err := h.roomUsecase.GetRoomInfo(c.Request().Context(), roomID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
	}

	return c.JSON(http.StatusOK, info)
}
