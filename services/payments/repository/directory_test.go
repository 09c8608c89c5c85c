package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/piresc/ramein/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDirectoryRepo(t *testing.T) (*DirectoryRepo, sqlmock.Sqlmock, func()) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewDirectoryRepository(sqlx.NewDb(mockDB, "sqlmock")), mock, func() { mockDB.Close() }
}

func TestGetUser(t *testing.T) {
	repo, mock, done := setupDirectoryRepo(t)
	defer done()

	userID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(getUserQuery)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "phone"}).
			AddRow(userID.String(), "Sari Wulandari", "sari@example.com", "+6281234567890"))

	user, err := repo.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "sari@example.com", user.Email)
}

func TestGetUser_NotFound(t *testing.T) {
	repo, mock, done := setupDirectoryRepo(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(getUserQuery)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestGetEvent(t *testing.T) {
	repo, mock, done := setupDirectoryRepo(t)
	defer done()

	eventID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(getEventQuery)).
		WithArgs(eventID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price"}).
			AddRow(eventID.String(), "Kajian Akbar", 150000))
	mock.ExpectQuery(regexp.QuoteMeta(getEventQuery)).
		WillReturnError(sql.ErrNoRows)

	event, err := repo.GetEvent(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, int64(150000), event.Price)

	_, err = repo.GetEvent(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestParticipantExists(t *testing.T) {
	repo, mock, done := setupDirectoryRepo(t)
	defer done()

	userID, eventID := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(participantExistsQuery)).
		WithArgs(userID, eventID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ParticipantExists(context.Background(), userID, eventID)
	require.NoError(t, err)
	assert.True(t, exists)
}
