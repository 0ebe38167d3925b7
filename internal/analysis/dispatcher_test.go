package analysis_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirevision/interview-service/internal/analysis"
)

func newDispatcher(t *testing.T, handler http.HandlerFunc) *analysis.Dispatcher {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return analysis.NewDispatcher(resty.New().SetBaseURL(server.URL), zerolog.Nop())
}

func TestDispatchSendsAnswerPayload(t *testing.T) {
	var got map[string]interface{}
	d := newDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/analyze-video", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	})

	err := d.Dispatch(context.Background(), analysis.Request{
		VideoURL:      "https://storage.local/answer.webm",
		UserID:        "user-3",
		QuestionIndex: 2,
		QuestionText:  "Describe a difficult bug.",
		InterviewID:   "interview-9",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://storage.local/answer.webm", got["video_url"])
	assert.Equal(t, "user-3", got["user_id"])
	assert.Equal(t, float64(2), got["question_index"])
	assert.Equal(t, "Describe a difficult bug.", got["question_text"])
	assert.Equal(t, "interview-9", got["interview_id"])
}

func TestDispatchRejectsNonSuccessStatus(t *testing.T) {
	d := newDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	err := d.Dispatch(context.Background(), analysis.Request{UserID: "user-3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
