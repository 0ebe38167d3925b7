package models

import (
	"time"

	"github.com/google/uuid"
)

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusExpired  InviteStatus = "expired"
)

// Invite is a recruiter-issued interview invitation. The code handed to the
// candidate is "<id>.<secret>"; only a bcrypt hash of the secret is stored.
type Invite struct {
	ID          uuid.UUID    `db:"id"`
	InterviewID string       `db:"interview_id"`
	Email       string       `db:"email"`
	CodeHash    string       `db:"code_hash"`
	Status      InviteStatus `db:"status"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}
