package media

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// ErrNoAudioTrack is returned when a freshly acquired stream carries no
// audio track. This is a hard error even when video acquisition succeeded:
// an interview answer without audio is useless.
var ErrNoAudioTrack = errors.New("no audio track found, check your microphone settings")

// CaptureSession owns zero or one live stream bound to the selected
// devices. Only the session stops tracks; borrowers (the recorder, the
// level monitor) never do.
type CaptureSession struct {
	provider DeviceProvider
	logger   zerolog.Logger

	mu            sync.Mutex
	stream        Stream
	videoDeviceID string
	audioDeviceID string
	loading       bool
	lastError     string
}

func NewCaptureSession(provider DeviceProvider, logger zerolog.Logger) *CaptureSession {
	return &CaptureSession{
		provider: provider,
		logger:   logger.With().Str("component", "capture_session").Logger(),
	}
}

// Initialize acquires exclusive access to the given devices (or the
// defaults when IDs are empty), replacing any stream the session already
// holds. The old stream's tracks are stopped before the new acquisition so
// camera and microphone locks are never held twice. A failure leaves the
// session in an error state with no stream; there is no automatic retry —
// the user re-selects a device or reloads.
func (s *CaptureSession) Initialize(ctx context.Context, videoDeviceID, audioDeviceID string) error {
	s.mu.Lock()
	s.loading = true
	s.videoDeviceID = videoDeviceID
	s.audioDeviceID = audioDeviceID
	s.stopStreamLocked()
	s.mu.Unlock()

	stream, err := s.provider.OpenStream(ctx, videoDeviceID, audioDeviceID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.logger.Error().Err(err).Msg("failed to acquire media devices")
		s.lastError = err.Error()
		return err
	}

	if len(stream.AudioTracks()) == 0 {
		for _, t := range stream.Tracks() {
			t.Stop()
		}
		s.logger.Error().Msg("acquired stream has no audio track")
		s.lastError = ErrNoAudioTrack.Error()
		return ErrNoAudioTrack
	}

	s.stream = stream
	s.lastError = ""
	s.logger.Debug().
		Str("video_device", videoDeviceID).
		Str("audio_device", audioDeviceID).
		Msg("media stream acquired")
	return nil
}

// Stream returns the live stream, or nil when the session holds none.
func (s *CaptureSession) Stream() Stream {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream
}

// Active reports whether a live stream is held.
func (s *CaptureSession) Active() bool {
	return s.Stream() != nil
}

// Loading reports whether an Initialize call is in flight.
func (s *CaptureSession) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the terminal error message of the most recent failed
// Initialize, or "".
func (s *CaptureSession) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// SelectedDevices returns the device IDs the session was last initialized
// with.
func (s *CaptureSession) SelectedDevices() (videoDeviceID, audioDeviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.videoDeviceID, s.audioDeviceID
}

// Teardown stops every track of the held stream and releases it. Required
// on interview finish, device re-selection and session close; skipping it
// leaks hardware locks.
func (s *CaptureSession) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopStreamLocked()
}

func (s *CaptureSession) stopStreamLocked() {
	if s.stream == nil {
		return
	}
	for _, t := range s.stream.Tracks() {
		t.Stop()
	}
	s.stream = nil
}
