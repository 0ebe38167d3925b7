package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hirevision/interview-service/internal/analysis"
	"github.com/hirevision/interview-service/internal/media"
	"github.com/hirevision/interview-service/internal/models"
)

var (
	ErrSessionNotFound   = errors.New("interview session not found")
	ErrAlreadyStarted    = errors.New("interview already started")
	ErrNotInProgress     = errors.New("interview is not in progress")
	ErrInterviewFinished = errors.New("interview is already finished")
	ErrNoQuestions       = errors.New("no questions available for this interview")
	ErrAnswerNotRecorded = errors.New("current question has no recorded answer")
	ErrNoNextQuestion    = errors.New("already at the last question")
	ErrNotLastQuestion   = errors.New("finish is only available on the last question")
	ErrNotConfirming     = errors.New("finish has not been requested")
	ErrRecordingActive   = errors.New("recording is still in progress")
)

// Uploader transfers a finished recording and returns its retrieval URLs.
type Uploader interface {
	Upload(ctx context.Context, userID string, blob []byte) (models.UploadResult, error)
}

// AnalysisDispatcher submits one uploaded answer for analysis.
type AnalysisDispatcher interface {
	Dispatch(ctx context.Context, req analysis.Request) error
}

// QuestionFetcher resolves the question set for a session (personalized
// with generic fallback).
type QuestionFetcher interface {
	Fetch(ctx context.Context, userID string) (models.QuestionSet, error)
}

// ParticipantStore marks the backend participation record completed.
type ParticipantStore interface {
	MarkCompleted(ctx context.Context, interviewID, userID string) error
}

// StatusNotifier pushes progress to the candidate's client. Implementations
// must not block.
type StatusNotifier interface {
	NotifyStatus(sessionID uuid.UUID, status string)
	NotifyCompleted(sessionID uuid.UUID, redirectAfter time.Duration)
}

// answerRecord is one recorded answer and its processing flags. The record
// is owned exclusively by the session; upload and dispatch flags are what
// make ConfirmFinish idempotent across cancel and re-confirm.
type answerRecord struct {
	blob       []byte
	recordedAt time.Time
	upload     models.UploadResult
	uploaded   bool
	dispatched bool
}

// InterviewSession sequences device setup, per-question record/upload/
// review and finalization for one interview attempt.
//
// Phases: not_started → in_progress(idx) → confirming_finish → finishing →
// finished. The current index only moves forward, one question at a time.
// Finished is one-way and forbids any further recording.
type InterviewSession struct {
	ID          uuid.UUID
	InterviewID string
	UserID      string

	capture  *media.CaptureSession
	recorder *media.Recorder
	sampler  *media.ChunkSampler
	levels   *media.LevelMonitor

	uploader     Uploader
	questions    QuestionFetcher
	dispatcher   AnalysisDispatcher
	participants ParticipantStore
	notifier     StatusNotifier

	redirectDelay time.Duration
	logger        zerolog.Logger

	mu             sync.Mutex
	starting       bool
	phase          models.InterviewPhase
	questionSet    models.QuestionSet
	currentIndex   int
	answers        map[int]*answerRecord
	previewURL     string
	showPreview    bool
	status         string
	analysisDone   bool
}

// Begin starts the interview. If the camera is not yet active the call
// activates it first and waits for acquisition before the first question
// is shown; a device failure keeps the session in not_started so the
// candidate can re-select a device and try again. Questions come from the
// two-tier fetch: personalized once, generic otherwise.
//
// The starting flag is held across the unlocked camera and question awaits
// so a concurrent Begin is rejected instead of racing the first one into a
// second question fetch.
func (s *InterviewSession) Begin(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != models.PhaseNotStarted || s.starting {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.starting = true
	videoID, audioID := s.capture.SelectedDevices()
	needsCamera := !s.capture.Active()
	s.mu.Unlock()

	var beginErr error
	if needsCamera {
		beginErr = s.capture.Initialize(ctx, videoID, audioID)
	}

	var set models.QuestionSet
	if beginErr == nil {
		set, beginErr = s.questions.Fetch(ctx, s.UserID)
		if beginErr == nil && set.Len() == 0 {
			beginErr = ErrNoQuestions
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.starting = false
	if beginErr != nil {
		return beginErr
	}

	s.questionSet = set
	s.currentIndex = 0
	s.phase = models.PhaseInProgress
	s.logger.Info().
		Int("questions", set.Len()).
		Bool("personalized", set.Personalized).
		Msg("interview started")
	return nil
}

// SelectDevices switches the capture session to different devices. The
// capture layer stops the old stream before acquiring the new one, so at
// most one live stream exists at any point.
func (s *InterviewSession) SelectDevices(ctx context.Context, videoDeviceID, audioDeviceID string) error {
	s.mu.Lock()
	if s.phase == models.PhaseFinished || s.phase == models.PhaseFinishing {
		s.mu.Unlock()
		return ErrInterviewFinished
	}
	if s.recorder.Recording() {
		s.mu.Unlock()
		return ErrRecordingActive
	}
	s.mu.Unlock()

	return s.capture.Initialize(ctx, videoDeviceID, audioDeviceID)
}

// StartAnswer begins recording the answer for the current question.
// Re-recording before advancing overwrites the previous take for this
// index. Starting without an initialized stream is a guarded no-op inside
// the recorder; it never crashes the session.
func (s *InterviewSession) StartAnswer() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case models.PhaseFinished, models.PhaseFinishing, models.PhaseConfirmingFinish:
		return ErrInterviewFinished
	case models.PhaseInProgress:
	default:
		return ErrNotInProgress
	}

	if err := s.recorder.Start(s.capture.Stream()); err != nil {
		return err
	}

	// A fresh take invalidates the previous answer and preview for this
	// index. Recording and "answer recorded" are mutually exclusive.
	delete(s.answers, s.currentIndex)
	s.previewURL = ""
	return nil
}

// PushChunk feeds one recorded media chunk into the current recording and
// the level meter. The meter is independent of recording state.
func (s *InterviewSession) PushChunk(chunk []byte) {
	s.sampler.Push(chunk)
	s.recorder.Push(chunk)
}

// StopAnswer stops the current recording, stores the answer for the
// current question and eagerly uploads it so a playback preview is
// available before the candidate advances. An upload failure keeps the
// answer; the finish pass retries it.
func (s *InterviewSession) StopAnswer(ctx context.Context) (string, error) {
	s.mu.Lock()
	blob, err := s.recorder.Stop()
	if err != nil {
		s.mu.Unlock()
		return "", err
	}

	index := s.currentIndex
	record := &answerRecord{blob: blob, recordedAt: time.Now()}
	s.answers[index] = record
	s.mu.Unlock()

	// Upload outside the lock: recording the next answer may overlap this
	// upload, and each upload call carries its own state.
	result, uploadErr := s.uploader.Upload(ctx, s.UserID, blob)

	s.mu.Lock()
	defer s.mu.Unlock()

	if uploadErr != nil {
		s.logger.Error().Err(uploadErr).Int("question_index", index).Msg("eager answer upload failed")
		return "", nil
	}

	// Drop the result if this take was overwritten while uploading.
	if current, ok := s.answers[index]; !ok || current != record {
		return "", nil
	}

	record.upload = result
	record.uploaded = true
	if index == s.currentIndex {
		s.previewURL = result.SignedURL
	}
	return result.SignedURL, nil
}

// NextQuestion advances to the following question. The index never
// decreases and never jumps by more than one; advancing requires a
// recorded answer and clears the preview state for the new index.
func (s *InterviewSession) NextQuestion() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != models.PhaseInProgress {
		return ErrNotInProgress
	}
	if s.recorder.Recording() {
		return ErrRecordingActive
	}
	if _, ok := s.answers[s.currentIndex]; !ok {
		return ErrAnswerNotRecorded
	}
	if s.currentIndex+1 >= s.questionSet.Len() {
		return ErrNoNextQuestion
	}

	s.currentIndex++
	s.previewURL = ""
	return nil
}

// RequestFinish enters the finish confirmation step. Only available once
// the last question has a recorded answer.
func (s *InterviewSession) RequestFinish() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != models.PhaseInProgress {
		return ErrNotInProgress
	}
	if s.recorder.Recording() {
		return ErrRecordingActive
	}
	if s.currentIndex != s.questionSet.Len()-1 {
		return ErrNotLastQuestion
	}
	if _, ok := s.answers[s.currentIndex]; !ok {
		return ErrAnswerNotRecorded
	}

	s.phase = models.PhaseConfirmingFinish
	return nil
}

// CancelFinish returns from the confirmation step with no state change.
// The confirmation is re-enterable without re-processing anything.
func (s *InterviewSession) CancelFinish() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != models.PhaseConfirmingFinish {
		return ErrNotConfirming
	}
	s.phase = models.PhaseInProgress
	return nil
}

// ConfirmFinish processes every recorded answer in index order: answers
// whose eager upload failed are uploaded again, then each is dispatched
// for analysis. Answers already dispatched in a previous confirm are
// skipped, so cancel plus re-confirm yields exactly one dispatch per
// answer. Per-answer failures are logged and never halt the remaining
// answers. Afterwards the participation record is marked completed, the
// stream's tracks are stopped and the session is finished regardless of
// individual outcomes.
func (s *InterviewSession) ConfirmFinish(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != models.PhaseConfirmingFinish {
		s.mu.Unlock()
		return ErrNotConfirming
	}
	s.phase = models.PhaseFinishing
	s.setStatusLocked("Uploading and analyzing your interview responses...")

	total := len(s.answers)
	indices := make([]int, 0, total)
	for i := 0; i < s.questionSet.Len(); i++ {
		if _, ok := s.answers[i]; ok {
			indices = append(indices, i)
		}
	}
	s.mu.Unlock()

	for _, index := range indices {
		s.processAnswer(ctx, index, total)
	}

	if err := s.participants.MarkCompleted(ctx, s.InterviewID, s.UserID); err != nil {
		// Best effort: the candidate still reaches the completion screen.
		s.logger.Error().Err(err).
			Str("interview_id", s.InterviewID).
			Msg("failed to mark interview participation completed")
	}

	s.capture.Teardown()
	s.levels.Stop()

	s.mu.Lock()
	s.phase = models.PhaseFinished
	s.analysisDone = true
	s.setStatusLocked("All responses have been uploaded and sent for analysis!")
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.NotifyCompleted(s.ID, s.redirectDelay)
	}
	return nil
}

// processAnswer uploads (if needed) and dispatches one answer. Failures
// only keep the processed count from advancing.
func (s *InterviewSession) processAnswer(ctx context.Context, index, total int) {
	s.mu.Lock()
	record, ok := s.answers[index]
	if !ok || record.dispatched {
		s.mu.Unlock()
		return
	}
	uploaded := record.uploaded
	upload := record.upload
	blob := record.blob
	questionText := s.questionSet.Questions[index].Text
	s.mu.Unlock()

	if !uploaded {
		result, err := s.uploader.Upload(ctx, s.UserID, blob)
		if err != nil {
			s.logger.Error().Err(err).Int("question_index", index).Msg("answer upload failed during finish")
			return
		}
		upload = result
		s.mu.Lock()
		record.upload = result
		record.uploaded = true
		s.mu.Unlock()
	}

	err := s.dispatcher.Dispatch(ctx, analysis.Request{
		VideoURL:      upload.SignedURL,
		UserID:        s.UserID,
		QuestionIndex: index,
		QuestionText:  questionText,
		InterviewID:   s.InterviewID,
	})
	if err != nil {
		s.logger.Error().Err(err).Int("question_index", index).Msg("analysis dispatch failed")
		return
	}

	s.mu.Lock()
	record.dispatched = true
	processed := 0
	for _, r := range s.answers {
		if r.dispatched {
			processed++
		}
	}
	s.setStatusLocked(fmt.Sprintf("Processed %d of %d responses...", processed, total))
	s.mu.Unlock()
}

// ToggleCameraPreview flips whether the client renders the live preview.
// It deliberately touches nothing else: the underlying stream and any
// in-flight recording are unaffected.
func (s *InterviewSession) ToggleCameraPreview() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showPreview = !s.showPreview
	return s.showPreview
}

func (s *InterviewSession) setStatusLocked(status string) {
	s.status = status
	if s.notifier != nil {
		s.notifier.NotifyStatus(s.ID, status)
	}
}

// Capture exposes the session's capture layer to transports.
func (s *InterviewSession) Capture() *media.CaptureSession {
	return s.capture
}

// SessionSnapshot is a consistent read of session state for clients.
type SessionSnapshot struct {
	ID               uuid.UUID             `json:"id"`
	InterviewID      string                `json:"interview_id"`
	Phase            models.InterviewPhase `json:"phase"`
	CurrentIndex     int                   `json:"current_index"`
	QuestionCount    int                   `json:"question_count"`
	CurrentQuestion  string                `json:"current_question,omitempty"`
	Personalized     bool                  `json:"personalized"`
	Recording        bool                  `json:"recording"`
	AnswerRecorded   bool                  `json:"answer_recorded"`
	AnsweredCount    int                   `json:"answered_count"`
	PreviewURL       string                `json:"preview_url,omitempty"`
	ShowPreview      bool                  `json:"show_preview"`
	AudioLevel       float64               `json:"audio_level"`
	CameraLoading    bool                  `json:"camera_loading"`
	CameraError      string                `json:"camera_error,omitempty"`
	Status           string                `json:"status,omitempty"`
	AnalysisComplete bool                  `json:"analysis_complete"`
}

// Snapshot returns the current session state.
func (s *InterviewSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := SessionSnapshot{
		ID:               s.ID,
		InterviewID:      s.InterviewID,
		Phase:            s.phase,
		CurrentIndex:     s.currentIndex,
		QuestionCount:    s.questionSet.Len(),
		Personalized:     s.questionSet.Personalized,
		Recording:        s.recorder.Recording(),
		AnsweredCount:    len(s.answers),
		PreviewURL:       s.previewURL,
		ShowPreview:      s.showPreview,
		AudioLevel:       s.levels.Level(),
		CameraLoading:    s.capture.Loading(),
		CameraError:      s.capture.LastError(),
		Status:           s.status,
		AnalysisComplete: s.analysisDone,
	}
	if s.currentIndex < s.questionSet.Len() {
		snap.CurrentQuestion = s.questionSet.Questions[s.currentIndex].Text
	}
	_, snap.AnswerRecorded = s.answers[s.currentIndex]
	return snap
}

// InterviewSessionService creates and tracks interview sessions.
type InterviewSessionService struct {
	provider     media.DeviceProvider
	uploader     Uploader
	questions    QuestionFetcher
	dispatcher   AnalysisDispatcher
	participants ParticipantStore
	notifier     StatusNotifier

	redirectDelay time.Duration
	logger        zerolog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*InterviewSession
}

func NewInterviewSessionService(
	provider media.DeviceProvider,
	uploader Uploader,
	questions QuestionFetcher,
	dispatcher AnalysisDispatcher,
	participants ParticipantStore,
	notifier StatusNotifier,
	redirectDelay time.Duration,
	logger zerolog.Logger,
) *InterviewSessionService {
	return &InterviewSessionService{
		provider:      provider,
		uploader:      uploader,
		questions:     questions,
		dispatcher:    dispatcher,
		participants:  participants,
		notifier:      notifier,
		redirectDelay: redirectDelay,
		logger:        logger,
		sessions:      make(map[uuid.UUID]*InterviewSession),
	}
}

// CreateSession builds a new session for one interview attempt.
func (svc *InterviewSessionService) CreateSession(interviewID, userID string) *InterviewSession {
	sessionLogger := svc.logger.With().
		Str("interview_id", interviewID).
		Str("user_id", userID).
		Logger()

	sampler := &media.ChunkSampler{}
	levels := media.NewLevelMonitor(sampler, sessionLogger)
	levels.Start()

	session := &InterviewSession{
		ID:            uuid.New(),
		InterviewID:   interviewID,
		UserID:        userID,
		capture:       media.NewCaptureSession(svc.provider, sessionLogger),
		recorder:      media.NewRecorder(sessionLogger),
		sampler:       sampler,
		levels:        levels,
		uploader:      svc.uploader,
		questions:     svc.questions,
		dispatcher:    svc.dispatcher,
		participants:  svc.participants,
		notifier:      svc.notifier,
		redirectDelay: svc.redirectDelay,
		logger:        sessionLogger,
		phase:         models.PhaseNotStarted,
		answers:       make(map[int]*answerRecord),
		showPreview:   true,
	}

	svc.mu.Lock()
	svc.sessions[session.ID] = session
	svc.mu.Unlock()
	return session
}

// Get returns a tracked session.
func (svc *InterviewSessionService) Get(id uuid.UUID) (*InterviewSession, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	session, ok := svc.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Close tears down a session's media resources and forgets it. Called on
// client disconnect so camera and microphone locks never outlive the
// candidate's visit.
func (svc *InterviewSessionService) Close(id uuid.UUID) {
	svc.mu.Lock()
	session, ok := svc.sessions[id]
	delete(svc.sessions, id)
	svc.mu.Unlock()

	if ok {
		session.capture.Teardown()
		session.levels.Stop()
	}
}
