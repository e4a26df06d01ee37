package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/qrave1/MatchRoom/internal/application/metric"
	"github.com/qrave1/MatchRoom/internal/domain/match"
)

// ActiveRoomRepository holds the live rooms. A room enters the registry when
// the first user joins it and leaves when the last one does; its bootstrap
// record stays in postgres either way.
type ActiveRoomRepository interface {
	Add(ctx context.Context, room *match.Room)
	Remove(ctx context.Context, roomID uuid.UUID)

	GetByID(ctx context.Context, roomID uuid.UUID) (*match.Room, bool)
}

type activeRoomRepository struct {
	rooms map[uuid.UUID]*match.Room
	mu    sync.RWMutex
}

func NewActiveRoomRepository() ActiveRoomRepository {
	return &activeRoomRepository{
		rooms: make(map[uuid.UUID]*match.Room),
	}
}

func (r *activeRoomRepository) Add(ctx context.Context, room *match.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[room.ID]; !exists {
		metric.IncrementActiveRooms()
	}

	r.rooms[room.ID] = room
}

func (r *activeRoomRepository) Remove(ctx context.Context, roomID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[roomID]; exists {
		delete(r.rooms, roomID)

		metric.DecrementActiveRooms()
	}
}

func (r *activeRoomRepository) GetByID(ctx context.Context, roomID uuid.UUID) (*match.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomID]
	return room, ok
}
