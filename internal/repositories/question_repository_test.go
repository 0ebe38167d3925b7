package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListGenericQuestionsPreservesOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"question"}).
		AddRow("Tell me about yourself.").
		AddRow("Why do you want this role?").
		AddRow("Describe a challenge you overcame.")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT question")).WillReturnRows(rows)

	repo := NewQuestionRepository(db)
	questions, err := repo.ListGenericQuestions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Tell me about yourself.",
		"Why do you want this role?",
		"Describe a challenge you overcame.",
	}, questions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListGenericQuestionsQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT question")).
		WillReturnError(errors.New("relation does not exist"))

	repo := NewQuestionRepository(db)
	_, err = repo.ListGenericQuestions(context.Background())
	assert.Error(t, err)
}
