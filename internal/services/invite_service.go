package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hirevision/interview-service/internal/models"
	"github.com/hirevision/interview-service/internal/repositories"
)

// Invites older than this are rejected and marked expired.
const inviteValidity = 30 * 24 * time.Hour

var (
	ErrInvalidInviteCode = errors.New("invalid invite code")
	ErrInviteExpired     = errors.New("invite has expired")
	ErrInviteUsed        = errors.New("invite has already been used")
)

// InviteStore is the persistence slice the invite service needs.
type InviteStore interface {
	Create(ctx context.Context, invite *models.Invite) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invite, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.InviteStatus) error
}

// InviteService issues and validates interview invite codes. A code is
// "<invite-id>.<secret>"; the secret is stored only as a bcrypt hash, so a
// leaked invites table cannot be replayed.
type InviteService struct {
	invites InviteStore
	logger  zerolog.Logger
	now     func() time.Time
}

func NewInviteService(invites InviteStore, logger zerolog.Logger) *InviteService {
	return &InviteService{
		invites: invites,
		logger:  logger.With().Str("component", "invite_service").Logger(),
		now:     time.Now,
	}
}

// Issue creates an invite for a candidate and returns the one-time code to
// send them. The plaintext secret is never stored.
func (s *InviteService) Issue(ctx context.Context, interviewID, email string) (string, error) {
	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("failed to generate invite secret: %w", err)
	}
	plaintext := hex.EncodeToString(secret)

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash invite secret: %w", err)
	}

	invite := &models.Invite{
		ID:          uuid.New(),
		InterviewID: interviewID,
		Email:       email,
		CodeHash:    string(hash),
		Status:      models.InviteStatusPending,
	}
	if err := s.invites.Create(ctx, invite); err != nil {
		return "", err
	}

	s.logger.Info().
		Str("interview_id", interviewID).
		Str("invite_id", invite.ID.String()).
		Msg("invite issued")
	return fmt.Sprintf("%s.%s", invite.ID, plaintext), nil
}

// Validate checks an invite code and returns the invite it unlocks.
// Expired invites are marked as such on the way out.
func (s *InviteService) Validate(ctx context.Context, code string) (*models.Invite, error) {
	idPart, secret, found := strings.Cut(code, ".")
	if !found {
		return nil, ErrInvalidInviteCode
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return nil, ErrInvalidInviteCode
	}

	invite, err := s.invites.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(invite.CodeHash), []byte(secret)) != nil {
		return nil, ErrInvalidInviteCode
	}

	switch invite.Status {
	case models.InviteStatusExpired:
		return nil, ErrInviteExpired
	case models.InviteStatusAccepted:
		return nil, ErrInviteUsed
	}

	if s.now().Sub(invite.CreatedAt) > inviteValidity {
		if err := s.invites.UpdateStatus(ctx, invite.ID, models.InviteStatusExpired); err != nil {
			s.logger.Warn().Err(err).Str("invite_id", invite.ID.String()).Msg("failed to mark invite expired")
		}
		return nil, ErrInviteExpired
	}

	return invite, nil
}

// Accept marks a validated invite as used.
func (s *InviteService) Accept(ctx context.Context, id uuid.UUID) error {
	return s.invites.UpdateStatus(ctx, id, models.InviteStatusAccepted)
}
