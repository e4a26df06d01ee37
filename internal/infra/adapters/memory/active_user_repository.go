package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/qrave1/MatchRoom/internal/domain/runtime"
)

type ActiveUserRepository interface {
	// Add an active user to a room
	Add(ctx context.Context, activeUser runtime.ActiveUser)

	// Remove an active user from a room
	Remove(ctx context.Context, userID uuid.UUID)

	// Get all active users in a room, in the order they were added
	GetInRoom(ctx context.Context, roomID uuid.UUID) []runtime.ActiveUser

	// Get active user by ID
	GetByID(ctx context.Context, userID uuid.UUID) (runtime.ActiveUser, bool)
}

type activeUserRepository struct {
	activeUsers map[uuid.UUID]runtime.ActiveUser
	order       []uuid.UUID
	mu          sync.RWMutex
}

func NewActiveUserRepository() ActiveUserRepository {
	return &activeUserRepository{
		activeUsers: make(map[uuid.UUID]runtime.ActiveUser),
	}
}

func (r *activeUserRepository) Add(ctx context.Context, activeUser runtime.ActiveUser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.activeUsers[activeUser.ID]; !exists {
		r.order = append(r.order, activeUser.ID)
	}

	r.activeUsers[activeUser.ID] = activeUser
}

func (r *activeUserRepository) Remove(ctx context.Context, userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.activeUsers[userID]; !exists {
		return
	}

	delete(r.activeUsers, userID)

	for i, id := range r.order {
		if id == userID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *activeUserRepository) GetInRoom(ctx context.Context, roomID uuid.UUID) []runtime.ActiveUser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var activeUsers []runtime.ActiveUser

	for _, id := range r.order {
		if activeUser := r.activeUsers[id]; activeUser.RoomID == roomID {
			activeUsers = append(activeUsers, activeUser)
		}
	}

	return activeUsers
}

func (r *activeUserRepository) GetByID(ctx context.Context, userID uuid.UUID) (runtime.ActiveUser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activeUser, exists := r.activeUsers[userID]

	return activeUser, exists
}
