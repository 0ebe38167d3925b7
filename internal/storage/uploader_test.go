package storage_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirevision/interview-service/internal/storage"
)

type fakeObjectStore struct {
	putErr  error
	signErr error

	objects      map[string][]byte
	contentTypes map[string]string
	signedExpiry time.Duration
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (f *fakeObjectStore) Put(ctx context.Context, name string, data []byte, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[name] = data
	f.contentTypes[name] = contentType
	return nil
}

func (f *fakeObjectStore) PresignGet(ctx context.Context, name string, expiry time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	f.signedExpiry = expiry
	return "https://store.local/signed/" + name, nil
}

func (f *fakeObjectStore) PublicURL(name string) string {
	return "https://store.local/public/" + name
}

func TestUploadStoresBlobAndReturnsURLs(t *testing.T) {
	store := newFakeObjectStore()
	u := storage.NewUploader(store, zerolog.Nop())

	result, err := u.Upload(context.Background(), "user-42", []byte("webm-bytes"))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^user-42_\d+\.webm$`), result.Filename)
	assert.Equal(t, "https://store.local/public/"+result.Filename, result.PublicURL)
	assert.Equal(t, "https://store.local/signed/"+result.Filename, result.SignedURL)

	assert.Equal(t, []byte("webm-bytes"), store.objects[result.Filename])
	assert.Equal(t, "video/webm", store.contentTypes[result.Filename])
	assert.Equal(t, storage.SignedURLTTL, store.signedExpiry)
}

func TestUploadFilenamesDoNotCollide(t *testing.T) {
	store := newFakeObjectStore()
	u := storage.NewUploader(store, zerolog.Nop())

	first, err := u.Upload(context.Background(), "user-42", []byte("a"))
	require.NoError(t, err)
	second, err := u.Upload(context.Background(), "user-42", []byte("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Filename, second.Filename)
}

func TestUploadPropagatesPutFailure(t *testing.T) {
	store := newFakeObjectStore()
	store.putErr = errors.New("bucket unreachable")
	u := storage.NewUploader(store, zerolog.Nop())

	_, err := u.Upload(context.Background(), "user-42", []byte("data"))
	assert.ErrorContains(t, err, "bucket unreachable")
}

func TestUploadPropagatesSignFailure(t *testing.T) {
	store := newFakeObjectStore()
	store.signErr = errors.New("signing key missing")
	u := storage.NewUploader(store, zerolog.Nop())

	_, err := u.Upload(context.Background(), "user-42", []byte("data"))
	assert.ErrorContains(t, err, "signing key missing")
}

func TestSignedURLRegeneratesLink(t *testing.T) {
	store := newFakeObjectStore()
	u := storage.NewUploader(store, zerolog.Nop())

	url, err := u.SignedURL(context.Background(), "user-42_1.webm")
	require.NoError(t, err)
	assert.Equal(t, "https://store.local/signed/user-42_1.webm", url)
}
