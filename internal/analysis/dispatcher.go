package analysis

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Request carries one uploaded answer to the analysis backend.
type Request struct {
	VideoURL      string `json:"video_url"`
	UserID        string `json:"user_id"`
	QuestionIndex int    `json:"question_index"`
	QuestionText  string `json:"question_text"`
	InterviewID   string `json:"interview_id"`
}

// Dispatcher sends recorded answers for analysis. Calls are fire-and-forget
// from the session's perspective: only success or failure is consumed, and
// a failed dispatch never halts the remaining answers.
type Dispatcher struct {
	http   *resty.Client
	logger zerolog.Logger
}

func NewDispatcher(httpClient *resty.Client, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		http:   httpClient,
		logger: logger.With().Str("component", "analysis_dispatcher").Logger(),
	}
}

// Dispatch submits one answer for analysis.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) error {
	resp, err := d.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/analyze-video")
	if err != nil {
		return fmt.Errorf("analysis dispatch failed: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("analysis backend returned status %d", resp.StatusCode())
	}

	d.logger.Debug().
		Int("question_index", req.QuestionIndex).
		Str("interview_id", req.InterviewID).
		Msg("answer dispatched for analysis")
	return nil
}
