package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/qrave1/MatchRoom/internal/application/constant"
	"github.com/qrave1/MatchRoom/internal/domain/input"
	"github.com/qrave1/MatchRoom/internal/domain/match"
	"github.com/qrave1/MatchRoom/internal/domain/models"
	"github.com/qrave1/MatchRoom/internal/domain/output"
	"github.com/qrave1/MatchRoom/internal/domain/runtime"
	"github.com/qrave1/MatchRoom/internal/infra/adapters/memory"
	"github.com/qrave1/MatchRoom/internal/infra/adapters/postgres/repository"
)

type RoomUsecase interface {
	// Persisted bootstrap data
	CreateRoom(ctx context.Context, in *input.CreateRoomInput) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*models.Room, error)
	GetRoomInfo(ctx context.Context, roomID uuid.UUID) (*output.RoomInfo, error)

	// Live match coordination
	JoinRoom(ctx context.Context, userID, roomID uuid.UUID) error
	LeaveRoom(ctx context.Context, userID uuid.UUID) error
	ChangeMatchType(ctx context.Context, userID uuid.UUID, matchType match.MatchType) error
	HandleUserRequest(ctx context.Context, userID uuid.UUID, req match.Request) error
	SendMatchEvent(ctx context.Context, userID uuid.UUID, event match.MatchEvent) error
}

type roomUsecase struct {
	roomRepo       repository.RoomRepository
	activeRoomRepo memory.ActiveRoomRepository
	activeUserRepo memory.ActiveUserRepository
	callbacks      match.Callbacks

	// registryMu serializes registry membership transitions: hydration and
	// join-registration on one side, last-leave eviction on the other. A
	// join therefore lands either before the empty check that evicts a room
	// or after it, against a freshly hydrated instance, never in between.
	registryMu sync.Mutex
}

func NewRoomUsecase(
	roomRepo repository.RoomRepository,
	activeRoomRepo memory.ActiveRoomRepository,
	activeUserRepo memory.ActiveUserRepository,
	callbacks match.Callbacks,
) RoomUsecase {
	return &roomUsecase{
		roomRepo:       roomRepo,
		activeRoomRepo: activeRoomRepo,
		activeUserRepo: activeUserRepo,
		callbacks:      callbacks,
	}
}

func (uc *roomUsecase) CreateRoom(ctx context.Context, in *input.CreateRoomInput) (*models.Room, error) {
	room := models.NewRoom(in)

	playlist := make([]models.PlaylistItem, 0, len(in.Playlist))
	for i, item := range in.Playlist {
		playlist = append(playlist, models.PlaylistItem{
			RoomID:    room.ID,
			BeatmapID: item.BeatmapID,
			Checksum:  item.Checksum,
			Position:  i,
		})
	}

	if err := uc.roomRepo.Create(ctx, room, playlist); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	return room, nil
}

func (uc *roomUsecase) ListRooms(ctx context.Context) ([]*models.Room, error) {
	return uc.roomRepo.List(ctx)
}

func (uc *roomUsecase) GetRoomInfo(ctx context.Context, roomID uuid.UUID) (*output.RoomInfo, error) {
	if room, ok := uc.activeRoomRepo.GetByID(ctx, roomID); ok {
		info := liveRoomInfo(room)

		// The name only lives in the bootstrap record.
		if stored, err := uc.roomRepo.GetByID(ctx, roomID); err == nil {
			info.Name = stored.Name
		}

		return info, nil
	}

	stored, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room by id: %w", err)
	}

	playlist, err := uc.roomRepo.GetPlaylist(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}

	info := &output.RoomInfo{
		ID:        stored.ID.String(),
		Name:      stored.Name,
		MatchType: stored.MatchType,
		Users:     []output.RoomUserInfo{},
		Playlist:  make([]output.PlaylistItemInfo, 0, len(playlist)),
	}

	for _, item := range playlist {
		info.Playlist = append(info.Playlist, output.PlaylistItemInfo{
			BeatmapID: item.BeatmapID,
			Checksum:  item.Checksum,
		})
	}

	return info, nil
}

func (uc *roomUsecase) JoinRoom(ctx context.Context, userID, roomID uuid.UUID) error {
	if active, ok := uc.activeUserRepo.GetByID(ctx, userID); ok {
		if active.RoomID == roomID {
			return fmt.Errorf("join room %s: %w", roomID, match.ErrDuplicateUser)
		}

		// Implicit leave of the previous room.
		if err := uc.LeaveRoom(ctx, userID); err != nil {
			return fmt.Errorf("leave previous room: %w", err)
		}
	}

	uc.registryMu.Lock()
	defer uc.registryMu.Unlock()

	room, err := uc.getOrHydrateRoom(ctx, roomID)
	if err != nil {
		return err
	}

	// Register for fan-out before joining so the user receives their own join
	// notification.
	uc.activeUserRepo.Add(ctx, runtime.ActiveUser{ID: userID, RoomID: roomID})

	if err := room.AddUser(ctx, &match.User{ID: userID}); err != nil {
		uc.activeUserRepo.Remove(ctx, userID)
		return fmt.Errorf("add user to room: %w", err)
	}

	return nil
}

func (uc *roomUsecase) LeaveRoom(ctx context.Context, userID uuid.UUID) error {
	active, ok := uc.activeUserRepo.GetByID(ctx, userID)
	if !ok {
		return fmt.Errorf("leave room: %w", match.ErrUserNotFound)
	}

	room, ok := uc.activeRoomRepo.GetByID(ctx, active.RoomID)
	if !ok {
		uc.activeUserRepo.Remove(ctx, userID)
		return fmt.Errorf("leave room: %w", match.ErrUserNotFound)
	}

	if err := room.RemoveUser(ctx, userID); err != nil {
		uc.activeUserRepo.Remove(ctx, userID)
		return fmt.Errorf("remove user from room: %w", err)
	}

	uc.activeUserRepo.Remove(ctx, userID)

	uc.registryMu.Lock()
	defer uc.registryMu.Unlock()

	if room.Empty() {
		uc.activeRoomRepo.Remove(ctx, room.ID)
	}

	return nil
}

func (uc *roomUsecase) ChangeMatchType(ctx context.Context, userID uuid.UUID, matchType match.MatchType) error {
	room, err := uc.roomOf(ctx, userID)
	if err != nil {
		return err
	}

	if err := room.ChangeMatchType(ctx, matchType); err != nil {
		return err
	}

	// Settings persistence is best effort; the live room stays authoritative.
	if err := uc.roomRepo.UpdateMatchType(ctx, room.ID, string(matchType)); err != nil {
		slog.Error(
			"persist match type",
			slog.Any(constant.Error, err),
			slog.Any(constant.RoomID, room.ID),
		)
	}

	return nil
}

func (uc *roomUsecase) HandleUserRequest(ctx context.Context, userID uuid.UUID, req match.Request) error {
	room, err := uc.roomOf(ctx, userID)
	if err != nil {
		return err
	}

	return room.HandleUserRequest(ctx, userID, req)
}

func (uc *roomUsecase) SendMatchEvent(ctx context.Context, userID uuid.UUID, event match.MatchEvent) error {
	room, err := uc.roomOf(ctx, userID)
	if err != nil {
		return err
	}

	room.BroadcastEvent(ctx, event)

	return nil
}

// getOrHydrateRoom returns the live room, constructing it from the bootstrap
// gateway on first use. The caller must hold registryMu.
func (uc *roomUsecase) getOrHydrateRoom(ctx context.Context, roomID uuid.UUID) (*match.Room, error) {
	if room, ok := uc.activeRoomRepo.GetByID(ctx, roomID); ok {
		return room, nil
	}

	stored, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room by id: %w", err)
	}

	storedPlaylist, err := uc.roomRepo.GetPlaylist(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}

	playlist := make([]match.PlaylistItem, 0, len(storedPlaylist))
	for _, item := range storedPlaylist {
		playlist = append(playlist, match.PlaylistItem{
			BeatmapID: item.BeatmapID,
			Checksum:  item.Checksum,
		})
	}

	room := match.NewRoom(roomID, playlist, uc.callbacks)

	if t := match.MatchType(stored.MatchType); t.Valid() && t != room.MatchType() {
		// The room is empty at this point, so restoring the persisted type
		// notifies nobody.
		if err := room.ChangeMatchType(ctx, t); err != nil {
			return nil, fmt.Errorf("restore match type: %w", err)
		}
	}

	uc.activeRoomRepo.Add(ctx, room)

	return room, nil
}

func (uc *roomUsecase) roomOf(ctx context.Context, userID uuid.UUID) (*match.Room, error) {
	active, ok := uc.activeUserRepo.GetByID(ctx, userID)
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, match.ErrUserNotFound)
	}

	room, ok := uc.activeRoomRepo.GetByID(ctx, active.RoomID)
	if !ok {
		return nil, fmt.Errorf("room %s: %w", active.RoomID, match.ErrUserNotFound)
	}

	return room, nil
}

func liveRoomInfo(room *match.Room) *output.RoomInfo {
	users := room.Users()
	playlist := room.Playlist()

	info := &output.RoomInfo{
		ID:        room.ID.String(),
		MatchType: string(room.MatchType()),
		Active:    true,
		Users:     make([]output.RoomUserInfo, 0, len(users)),
		Playlist:  make([]output.PlaylistItemInfo, 0, len(playlist)),
	}

	for _, u := range users {
		info.Users = append(info.Users, output.RoomUserInfo{
			ID:    u.ID.String(),
			State: u.State,
		})
	}

	for _, item := range playlist {
		info.Playlist = append(info.Playlist, output.PlaylistItemInfo{
			BeatmapID: item.BeatmapID,
			Checksum:  item.Checksum,
		})
	}

	return info
}
