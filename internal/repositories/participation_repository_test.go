package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByInterviewAndUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "interview_id", "user_id", "completed", "completed_at", "created_at", "updated_at",
	}).AddRow(id, "interview-1", "user-1", false, nil, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("interview-1", "user-1").
		WillReturnRows(rows)

	repo := NewParticipationRepository(db)
	p, err := repo.GetByInterviewAndUser(context.Background(), "interview-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.False(t, p.Completed)
	assert.Nil(t, p.CompletedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByInterviewAndUserNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("interview-1", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewParticipationRepository(db)
	_, err = repo.GetByInterviewAndUser(context.Background(), "interview-1", "missing")
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestMarkCompleted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE interview_participants")).
		WithArgs("interview-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewParticipationRepository(db)
	require.NoError(t, repo.MarkCompleted(context.Background(), "interview-1", "user-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
