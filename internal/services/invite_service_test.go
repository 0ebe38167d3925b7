package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirevision/interview-service/internal/models"
	"github.com/hirevision/interview-service/internal/repositories"
)

type memoryInviteStore struct {
	invites map[uuid.UUID]*models.Invite
}

func newMemoryInviteStore() *memoryInviteStore {
	return &memoryInviteStore{invites: make(map[uuid.UUID]*models.Invite)}
}

func (s *memoryInviteStore) Create(ctx context.Context, invite *models.Invite) error {
	invite.CreatedAt = time.Now()
	invite.UpdatedAt = invite.CreatedAt
	copied := *invite
	s.invites[invite.ID] = &copied
	return nil
}

func (s *memoryInviteStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Invite, error) {
	invite, ok := s.invites[id]
	if !ok {
		return nil, repositories.ErrInviteNotFound
	}
	copied := *invite
	return &copied, nil
}

func (s *memoryInviteStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.InviteStatus) error {
	if invite, ok := s.invites[id]; ok {
		invite.Status = status
	}
	return nil
}

func TestInviteIssueAndValidate(t *testing.T) {
	store := newMemoryInviteStore()
	svc := NewInviteService(store, zerolog.Nop())

	code, err := svc.Issue(context.Background(), "interview-1", "jo@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, code)

	invite, err := svc.Validate(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, "interview-1", invite.InterviewID)
	assert.Equal(t, "jo@example.com", invite.Email)
	assert.Equal(t, models.InviteStatusPending, invite.Status)
}

func TestInviteValidateRejectsWrongSecret(t *testing.T) {
	store := newMemoryInviteStore()
	svc := NewInviteService(store, zerolog.Nop())

	code, err := svc.Issue(context.Background(), "interview-1", "jo@example.com")
	require.NoError(t, err)

	id, _, found := splitInviteCode(code)
	require.True(t, found)

	_, err = svc.Validate(context.Background(), id+".deadbeefdeadbeefdeadbeefdeadbeef")
	assert.ErrorIs(t, err, ErrInvalidInviteCode)
}

func TestInviteValidateRejectsMalformedCode(t *testing.T) {
	svc := NewInviteService(newMemoryInviteStore(), zerolog.Nop())

	_, err := svc.Validate(context.Background(), "not-a-code")
	assert.ErrorIs(t, err, ErrInvalidInviteCode)

	_, err = svc.Validate(context.Background(), "not-a-uuid.secret")
	assert.ErrorIs(t, err, ErrInvalidInviteCode)

	_, err = svc.Validate(context.Background(), uuid.NewString()+".secret")
	assert.ErrorIs(t, err, ErrInvalidInviteCode)
}

func TestInviteExpiresAfterValidityWindow(t *testing.T) {
	store := newMemoryInviteStore()
	svc := NewInviteService(store, zerolog.Nop())

	code, err := svc.Issue(context.Background(), "interview-1", "jo@example.com")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(inviteValidity + time.Hour) }

	_, err = svc.Validate(context.Background(), code)
	assert.ErrorIs(t, err, ErrInviteExpired)

	// Expiry is persisted; a later check within the window still fails
	svc.now = time.Now
	_, err = svc.Validate(context.Background(), code)
	assert.ErrorIs(t, err, ErrInviteExpired)
}

func TestInviteAcceptedOnlyOnce(t *testing.T) {
	store := newMemoryInviteStore()
	svc := NewInviteService(store, zerolog.Nop())

	code, err := svc.Issue(context.Background(), "interview-1", "jo@example.com")
	require.NoError(t, err)

	invite, err := svc.Validate(context.Background(), code)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(context.Background(), invite.ID))

	_, err = svc.Validate(context.Background(), code)
	assert.ErrorIs(t, err, ErrInviteUsed)
}

func splitInviteCode(code string) (id, secret string, found bool) {
	for i := 0; i < len(code); i++ {
		if code[i] == '.' {
			return code[:i], code[i+1:], true
		}
	}
	return "", "", false
}
