package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hirevision/interview-service/internal/dtos"
	"github.com/hirevision/interview-service/internal/media"
	"github.com/hirevision/interview-service/internal/middlewares"
	"github.com/hirevision/interview-service/internal/services"
)

type InterviewHandler struct {
	sessions   *services.InterviewSessionService
	enumerator *media.Enumerator
	logger     zerolog.Logger
}

func NewInterviewHandler(
	sessions *services.InterviewSessionService,
	enumerator *media.Enumerator,
	logger zerolog.Logger,
) *InterviewHandler {
	return &InterviewHandler{
		sessions:   sessions,
		enumerator: enumerator,
		logger:     logger.With().Str("component", "interview_handler").Logger(),
	}
}

// CreateSession opens a new capture session for an interview attempt.
func (h *InterviewHandler) CreateSession(c *gin.Context) {
	var req dtos.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middlewares.CurrentUserID(c)
	session := h.sessions.CreateSession(req.InterviewID, userID)

	c.JSON(http.StatusCreated, dtos.CreateSessionResponse{
		SessionID: session.ID.String(),
	})
}

// GetSession returns a snapshot of session state.
func (h *InterviewHandler) GetSession(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// ListDevices enumerates selectable cameras and microphones.
func (h *InterviewHandler) ListDevices(c *gin.Context) {
	c.JSON(http.StatusOK, h.enumerator.List(c.Request.Context()))
}

// SelectDevices re-initializes the capture session on different devices.
func (h *InterviewHandler) SelectDevices(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	var req dtos.SelectDevicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := session.SelectDevices(c.Request.Context(), req.VideoDeviceID, req.AudioDeviceID); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// Begin starts the interview: camera activation plus question fetch.
func (h *InterviewHandler) Begin(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	if err := session.Begin(c.Request.Context()); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// StartAnswer begins recording the current question's answer.
func (h *InterviewHandler) StartAnswer(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	if err := session.StartAnswer(); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// StopAnswer stops recording and returns the preview URL once the eager
// upload finishes.
func (h *InterviewHandler) StopAnswer(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	previewURL, err := session.StopAnswer(c.Request.Context())
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.StopAnswerResponse{PreviewURL: previewURL})
}

// NextQuestion advances to the next question.
func (h *InterviewHandler) NextQuestion(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	if err := session.NextQuestion(); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// TogglePreview flips camera-preview visibility without touching the
// stream or recording state.
func (h *InterviewHandler) TogglePreview(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dtos.TogglePreviewResponse{
		ShowPreview: session.ToggleCameraPreview(),
	})
}

// RequestFinish enters the finish-confirmation step.
func (h *InterviewHandler) RequestFinish(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	if err := session.RequestFinish(); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// CancelFinish leaves the confirmation step with no state change.
func (h *InterviewHandler) CancelFinish(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	if err := session.CancelFinish(); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// ConfirmFinish runs the finalization pass and completes the interview.
func (h *InterviewHandler) ConfirmFinish(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	if err := session.ConfirmFinish(c.Request.Context()); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

func (h *InterviewHandler) loadSession(c *gin.Context) (*services.InterviewSession, bool) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return nil, false
	}

	session, err := h.sessions.Get(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}

	// Sessions are private to the candidate who opened them.
	if session.UserID != middlewares.CurrentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for this session"})
		return nil, false
	}
	return session, true
}

func (h *InterviewHandler) respondSessionError(c *gin.Context, err error) {
	status := http.StatusConflict
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, media.ErrNoAudioTrack):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
