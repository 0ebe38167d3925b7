package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hirevision/interview-service/internal/models"
)

var ErrParticipantNotFound = errors.New("interview participant not found")

type ParticipationRepository struct {
	db *sql.DB
}

func NewParticipationRepository(db *sql.DB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

// Get participant row for an interview/user pair
func (r *ParticipationRepository) GetByInterviewAndUser(ctx context.Context, interviewID, userID string) (*models.Participant, error) {
	const query = `
	SELECT
		id,
		interview_id,
		user_id,
		completed,
		completed_at,
		created_at,
		updated_at
	FROM interview_participants
	WHERE interview_id = $1 AND user_id = $2
	LIMIT 1
	`

	var p models.Participant
	err := r.db.QueryRowContext(ctx, query, interviewID, userID).Scan(
		&p.ID,
		&p.InterviewID,
		&p.UserID,
		&p.Completed,
		&p.CompletedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Mark the participation record completed once the interview finishes
func (r *ParticipationRepository) MarkCompleted(ctx context.Context, interviewID, userID string) error {
	const query = `
	UPDATE interview_participants
	SET completed = true, completed_at = NOW(), updated_at = NOW()
	WHERE interview_id = $1 AND user_id = $2
	`

	_, err := r.db.ExecContext(ctx, query, interviewID, userID)
	return err
}
