package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hirevision/interview-service/internal/models"
)

// SignedURLTTL is the validity window of retrieval links. Expired links are
// regenerated with SignedURL for the same filename.
const SignedURLTTL = time.Hour

const recordingContentType = "video/webm"

// Uploader transfers finished recording blobs to object storage and hands
// back retrieval URLs. Every call is self-contained: state such as progress
// lives in the returned result, never in shared flags, so overlapping
// per-answer uploads cannot race each other.
type Uploader struct {
	store  ObjectStore
	logger zerolog.Logger
}

func NewUploader(store ObjectStore, logger zerolog.Logger) *Uploader {
	return &Uploader{
		store:  store,
		logger: logger.With().Str("component", "uploader").Logger(),
	}
}

// Upload stores one recording blob under a timestamp-based filename that
// cannot collide within a session, and returns the public and signed URLs.
// There is no automatic retry; the caller decides per answer.
func (u *Uploader) Upload(ctx context.Context, userID string, blob []byte) (models.UploadResult, error) {
	filename := fmt.Sprintf("%s_%d.webm", userID, time.Now().UnixNano())

	if err := u.store.Put(ctx, filename, blob, recordingContentType); err != nil {
		u.logger.Error().Err(err).Str("filename", filename).Msg("upload failed")
		return models.UploadResult{}, err
	}

	signedURL, err := u.store.PresignGet(ctx, filename, SignedURLTTL)
	if err != nil {
		u.logger.Error().Err(err).Str("filename", filename).Msg("failed to sign URL for uploaded recording")
		return models.UploadResult{}, err
	}

	u.logger.Debug().Str("filename", filename).Int("bytes", len(blob)).Msg("recording uploaded")

	return models.UploadResult{
		PublicURL: u.store.PublicURL(filename),
		SignedURL: signedURL,
		Filename:  filename,
	}, nil
}

// SignedURL regenerates a time-limited retrieval link for a previously
// uploaded recording.
func (u *Uploader) SignedURL(ctx context.Context, filename string) (string, error) {
	return u.store.PresignGet(ctx, filename, SignedURLTTL)
}
