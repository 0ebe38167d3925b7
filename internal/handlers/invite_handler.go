package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hirevision/interview-service/internal/dtos"
	"github.com/hirevision/interview-service/internal/services"
)

type InviteHandler struct {
	invites *services.InviteService
	logger  zerolog.Logger
}

func NewInviteHandler(invites *services.InviteService, logger zerolog.Logger) *InviteHandler {
	return &InviteHandler{
		invites: invites,
		logger:  logger.With().Str("component", "invite_handler").Logger(),
	}
}

// Issue creates an invite code for a candidate.
func (h *InviteHandler) Issue(c *gin.Context) {
	var req dtos.IssueInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, err := h.invites.Issue(c.Request.Context(), req.InterviewID, req.Email)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to issue invite")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue invite"})
		return
	}

	c.JSON(http.StatusCreated, dtos.IssueInviteResponse{InviteCode: code})
}

// Status validates an invite code. Public: candidates check their code
// before signing in.
func (h *InviteHandler) Status(c *gin.Context) {
	invite, err := h.invites.Validate(c.Request.Context(), c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInviteCode),
			errors.Is(err, services.ErrInviteExpired),
			errors.Is(err, services.ErrInviteUsed):
			c.JSON(http.StatusOK, dtos.InviteStatusResponse{Valid: false, Message: err.Error()})
		default:
			h.logger.Error().Err(err).Msg("invite validation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate invite"})
		}
		return
	}

	c.JSON(http.StatusOK, dtos.InviteStatusResponse{
		Valid:       true,
		InterviewID: invite.InterviewID,
	})
}
