package models

import (
	"time"

	"github.com/google/uuid"
)

// InterviewPhase tracks where a capture session sits in its lifecycle.
// Finished is a one-way transition; nothing records after it.
type InterviewPhase string

const (
	PhaseNotStarted       InterviewPhase = "not_started"
	PhaseInProgress       InterviewPhase = "in_progress"
	PhaseConfirmingFinish InterviewPhase = "confirming_finish"
	PhaseFinishing        InterviewPhase = "finishing"
	PhaseFinished         InterviewPhase = "finished"
)

// Question is one interview question. Index is 0-based and contiguous
// within a session; the set is immutable once fetched.
type Question struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// QuestionSet is the full ordered list backing one session. A set is either
// personalized (resume-derived) or generic, never a mix.
type QuestionSet struct {
	Questions    []Question `json:"questions"`
	Personalized bool       `json:"personalized"`
}

// Len returns the number of questions in the set.
func (qs QuestionSet) Len() int {
	return len(qs.Questions)
}

// UploadResult is what object storage hands back for one stored recording.
// The signed URL expires and must be regenerated from Filename.
type UploadResult struct {
	PublicURL string `json:"public_url"`
	SignedURL string `json:"signed_url"`
	Filename  string `json:"filename"`
}

// Participant is one candidate's row for one interview.
type Participant struct {
	ID          uuid.UUID  `db:"id"`
	InterviewID string     `db:"interview_id"`
	UserID      string     `db:"user_id"`
	Completed   bool       `db:"completed"`
	CompletedAt *time.Time `db:"completed_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}
