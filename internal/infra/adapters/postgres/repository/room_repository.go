package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/qrave1/MatchRoom/internal/domain/models"
)

// RoomRepository is the bootstrap gateway: it persists the data a live room
// is constructed from (settings and playlist), never live match state.
type RoomRepository interface {
	Create(ctx context.Context, room *models.Room, playlist []models.PlaylistItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	List(ctx context.Context) ([]*models.Room, error)

	GetPlaylist(ctx context.Context, roomID uuid.UUID) ([]models.PlaylistItem, error)
	UpdateMatchType(ctx context.Context, roomID uuid.UUID, matchType string) error
}

type roomRepo struct {
	db *sqlx.DB
}

func NewRoomRepo(db *sqlx.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *models.Room, playlist []models.PlaylistItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		"INSERT INTO rooms (id, creator_id, name, match_type) VALUES ($1, $2, $3, $4)",
		room.ID,
		room.CreatorID,
		room.Name,
		room.MatchType,
	)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}

	for _, item := range playlist {
		_, err = tx.ExecContext(
			ctx,
			"INSERT INTO playlist_items (room_id, beatmap_id, checksum, position) VALUES ($1, $2, $3, $4)",
			item.RoomID,
			item.BeatmapID,
			item.Checksum,
			item.Position,
		)
		if err != nil {
			return fmt.Errorf("create playlist item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func (r *roomRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room

	err := r.db.GetContext(ctx, &room, "SELECT * FROM rooms WHERE id = $1", id)
	if err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *roomRepo) List(ctx context.Context) ([]*models.Room, error) {
	var rooms []*models.Room

	err := r.db.SelectContext(ctx, &rooms, "SELECT * FROM rooms ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}

	return rooms, nil
}

func (r *roomRepo) GetPlaylist(ctx context.Context, roomID uuid.UUID) ([]models.PlaylistItem, error) {
	var items []models.PlaylistItem

	query := "SELECT * FROM playlist_items WHERE room_id = $1 ORDER BY position"

	err := r.db.SelectContext(ctx, &items, query, roomID)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *roomRepo) UpdateMatchType(ctx context.Context, roomID uuid.UUID, matchType string) error {
	_, err := r.db.ExecContext(
		ctx,
		"UPDATE rooms SET match_type = $1, updated_at = now() WHERE id = $2",
		matchType,
		roomID,
	)

	return err
}
