package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/piresc/ramein/internal/pkg/models"
)

const (
	getUserQuery           = `SELECT id, full_name, email, phone FROM users WHERE id = $1`
	getEventQuery          = `SELECT id, title, price FROM events WHERE id = $1`
	participantExistsQuery = `SELECT EXISTS (SELECT 1 FROM participants WHERE user_id = $1 AND event_id = $2)`
)

// DirectoryRepo reads users, events and participants owned by other services
type DirectoryRepo struct {
	db *sqlx.DB
}

func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepo {
	return &DirectoryRepo{db: db}
}

func (r *DirectoryRepo) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, getUserQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *DirectoryRepo) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.GetContext(ctx, &event, getEventQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

func (r *DirectoryRepo) ParticipantExists(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, participantExistsQuery, userID, eventID); err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	return exists, nil
}
