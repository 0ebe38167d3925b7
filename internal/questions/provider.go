package questions

import (
	"context"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/hirevision/interview-service/internal/models"
)

// GenericSource supplies the fixed fallback question list.
type GenericSource interface {
	ListGenericQuestions(ctx context.Context) ([]string, error)
}

// Provider fetches the ordered question list for a session. Personalized
// questions (resume-derived) are attempted once; any non-success — an HTTP
// error, a non-2xx status, or a 200 with zero questions — falls back to the
// generic set. The two sources are never merged.
type Provider struct {
	http    *resty.Client
	generic GenericSource
	logger  zerolog.Logger
}

func NewProvider(httpClient *resty.Client, generic GenericSource, logger zerolog.Logger) *Provider {
	return &Provider{
		http:    httpClient,
		generic: generic,
		logger:  logger.With().Str("component", "question_provider").Logger(),
	}
}

type personalizedRequest struct {
	UserID string `json:"user_id"`
}

type personalizedResponse struct {
	Questions []struct {
		Question string `json:"question"`
	} `json:"questions"`
}

// Fetch returns the question set for one session. A fetch failure on the
// personalized path is not an error to the caller, only a reason to fall
// back.
func (p *Provider) Fetch(ctx context.Context, userID string) (models.QuestionSet, error) {
	if userID != "" {
		if set, ok := p.fetchPersonalized(ctx, userID); ok {
			return set, nil
		}
	}
	return p.fetchGeneric(ctx)
}

func (p *Provider) fetchPersonalized(ctx context.Context, userID string) (models.QuestionSet, bool) {
	var body personalizedResponse
	resp, err := p.http.R().
		SetContext(ctx).
		SetBody(personalizedRequest{UserID: userID}).
		SetResult(&body).
		Post("/get-personalized-questions")
	if err != nil {
		p.logger.Warn().Err(err).Msg("personalized question fetch failed, falling back to generic")
		return models.QuestionSet{}, false
	}
	if !resp.IsSuccess() || len(body.Questions) == 0 {
		p.logger.Debug().
			Int("status", resp.StatusCode()).
			Int("questions", len(body.Questions)).
			Msg("no personalized questions available, falling back to generic")
		return models.QuestionSet{}, false
	}

	set := models.QuestionSet{Personalized: true}
	for i, q := range body.Questions {
		set.Questions = append(set.Questions, models.Question{Index: i, Text: q.Question})
	}
	return set, true
}

func (p *Provider) fetchGeneric(ctx context.Context) (models.QuestionSet, error) {
	texts, err := p.generic.ListGenericQuestions(ctx)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to load generic questions")
		return models.QuestionSet{}, err
	}

	set := models.QuestionSet{Personalized: false}
	for i, text := range texts {
		set.Questions = append(set.Questions, models.Question{Index: i, Text: text})
	}
	return set, nil
}
