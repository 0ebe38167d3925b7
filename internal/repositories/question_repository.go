package repositories

import (
	"context"
	"database/sql"
)

type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListGenericQuestions returns the fixed fallback question list in order.
func (r *QuestionRepository) ListGenericQuestions(ctx context.Context) ([]string, error) {
	const query = `
	SELECT question
	FROM interview_questions
	ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}
