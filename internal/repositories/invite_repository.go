package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/hirevision/interview-service/internal/models"
)

var ErrInviteNotFound = errors.New("invite not found")

type InviteRepository struct {
	db *sql.DB
}

func NewInviteRepository(db *sql.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

// Create a new invite
func (r *InviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	const query = `
	INSERT INTO interview_invites (
		id,
		interview_id,
		email,
		code_hash,
		status,
		created_at,
		updated_at
	)
	VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	RETURNING created_at, updated_at
	`

	return r.db.QueryRowContext(
		ctx,
		query,
		invite.ID,
		invite.InterviewID,
		invite.Email,
		invite.CodeHash,
		invite.Status,
	).Scan(&invite.CreatedAt, &invite.UpdatedAt)
}

// Get invite by ID
func (r *InviteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invite, error) {
	const query = `
	SELECT
		id,
		interview_id,
		email,
		code_hash,
		status,
		created_at,
		updated_at
	FROM interview_invites
	WHERE id = $1
	LIMIT 1
	`

	var invite models.Invite
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&invite.ID,
		&invite.InterviewID,
		&invite.Email,
		&invite.CodeHash,
		&invite.Status,
		&invite.CreatedAt,
		&invite.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}

	return &invite, nil
}

// Update invite status
func (r *InviteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.InviteStatus) error {
	const query = `
	UPDATE interview_invites
	SET status = $1, updated_at = NOW()
	WHERE id = $2
	`

	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}
