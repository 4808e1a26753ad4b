package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"quiz-tube/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

var (
	quizColumns     = []string{"ID", "USER_ID", "TITLE", "DESCRIPTION", "VIDEO_URL", "CREATED_AT", "UPDATED_AT"}
	questionColumns = []string{"ID", "QUIZ_ID", "POSITION", "QUESTION_TITLE", "QUESTION_OPTIONS", "ANSWER", "CREATED_AT", "UPDATED_AT"}
)

func TestCreateQuiz(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizDatabaseAdapter(db)

	quiz := &domain.Quiz{UserID: "42", Title: "T", Description: "", VideoURL: "https://youtu.be/abc"}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quizzes")).
		WithArgs(sqlmock.AnyArg(), "42", "T", nil, "https://youtu.be/abc", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateQuiz(context.Background(), quiz)
	require.NoError(t, err)
	assert.NotEmpty(t, quiz.ID)
	assert.False(t, quiz.CreatedAt.IsZero())
	assert.Equal(t, quiz.CreatedAt, quiz.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateQuestion_StoresOptionsAsJSON(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizDatabaseAdapter(db)

	question := &domain.Question{QuizID: "quiz-1", Position: 3, Title: "Q?", Options: []string{"A", "B", "C", "D"}, Answer: "B"}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO questions")).
		WithArgs(sqlmock.AnyArg(), "quiz-1", 3, "Q?", `["A","B","C","D"]`, "B", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateQuestion(context.Background(), question))
	assert.NotEmpty(t, question.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuizByID(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizDatabaseAdapter(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM quizzes WHERE id = :1")).
		WithArgs("quiz-1").
		WillReturnRows(sqlmock.NewRows(quizColumns).AddRow("quiz-1", "42", "T", "D", nil, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM questions WHERE quiz_id = :1 ORDER BY position")).
		WithArgs("quiz-1").
		WillReturnRows(sqlmock.NewRows(questionColumns).
			AddRow("q-0", "quiz-1", 0, "First?", `["A","B","C","D"]`, "A", now, now).
			AddRow("q-1", "quiz-1", 1, "Second?", `["E","F","G","H"]`, "H", now, now))

	quiz, err := repo.GetQuizByID(context.Background(), "quiz-1")
	require.NoError(t, err)
	require.NotNil(t, quiz)
	assert.Equal(t, "42", quiz.UserID)
	assert.Equal(t, "D", quiz.Description)
	assert.Empty(t, quiz.VideoURL)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, "First?", quiz.Questions[0].Title)
	assert.Equal(t, []string{"A", "B", "C", "D"}, quiz.Questions[0].Options)
	assert.Equal(t, 1, quiz.Questions[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuizByID_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizDatabaseAdapter(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM quizzes WHERE id = :1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(quizColumns))

	quiz, err := repo.GetQuizByID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, quiz)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListQuizzesByUser(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizDatabaseAdapter(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM quizzes WHERE user_id = :1 ORDER BY created_at DESC")).
		WithArgs("42").
		WillReturnRows(sqlmock.NewRows(quizColumns).
			AddRow("quiz-2", "42", "Newer", "D2", "https://youtu.be/b", now, now).
			AddRow("quiz-1", "42", "Older", "D1", "https://youtu.be/a", now.Add(-time.Hour), now))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE z.user_id = :1 ORDER BY q.quiz_id, q.position")).
		WithArgs("42").
		WillReturnRows(sqlmock.NewRows(questionColumns).
			AddRow("q-a", "quiz-1", 0, "A?", `["1","2","3","4"]`, "1", now, now).
			AddRow("q-b", "quiz-2", 0, "B?", `["1","2","3","4"]`, "2", now, now).
			AddRow("q-c", "quiz-2", 1, "C?", `["1","2","3","4"]`, "3", now, now))

	quizzes, err := repo.ListQuizzesByUser(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, quizzes, 2)
	assert.Equal(t, "Newer", quizzes[0].Title)
	assert.Len(t, quizzes[0].Questions, 2)
	assert.Equal(t, "Older", quizzes[1].Title)
	assert.Len(t, quizzes[1].Questions, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListQuizzesByUser_Empty(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizDatabaseAdapter(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM quizzes WHERE user_id = :1")).
		WithArgs("7").
		WillReturnRows(sqlmock.NewRows(quizColumns))

	quizzes, err := repo.ListQuizzesByUser(context.Background(), "7")
	require.NoError(t, err)
	assert.Empty(t, quizzes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateQuiz(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizDatabaseAdapter(db)

	quiz := &domain.Quiz{ID: "quiz-1", Title: "New", Description: "Desc"}
	mock.ExpectExec(regexp.QuoteMeta("UPDATE quizzes SET title = :1, description = :2, updated_at = :3 WHERE id = :4")).
		WithArgs("New", "Desc", sqlmock.AnyArg(), "quiz-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateQuiz(context.Background(), quiz))
	assert.False(t, quiz.UpdatedAt.IsZero())

	mock.ExpectExec(regexp.QuoteMeta("UPDATE quizzes")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateQuiz(context.Background(), &domain.Quiz{ID: "gone", Title: "x"})
	assert.Equal(t, domain.ErrQuizNotFound, domain.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteQuiz_RemovesQuestionsThenQuizInOneTransaction(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizDatabaseAdapter(db)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM questions WHERE quiz_id = :1")).
		WithArgs("quiz-1").
		WillReturnResult(sqlmock.NewResult(0, 10))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM quizzes WHERE id = :1")).
		WithArgs("quiz-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return repo.DeleteQuiz(ctx, "quiz-1")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteQuiz_FailureRollsBack(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizDatabaseAdapter(db)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM questions")).
		WillReturnResult(sqlmock.NewResult(0, 10))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM quizzes")).
		WillReturnError(errors.New("ORA-00054: resource busy"))
	mock.ExpectRollback()

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return repo.DeleteQuiz(ctx, "quiz-1")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORA-00054")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateQuizWithQuestions_AllOrNothing(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizDatabaseAdapter(db)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quizzes")).WillReturnResult(sqlmock.NewResult(0, 1))
	for i := 0; i < 4; i++ {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO questions")).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO questions")).WillReturnError(errors.New("ORA-12899: value too large"))
	mock.ExpectRollback()

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		quiz := &domain.Quiz{UserID: "42", Title: "T", Description: "D"}
		if err := repo.CreateQuiz(ctx, quiz); err != nil {
			return err
		}
		for i := 0; i < domain.RequiredQuestionCount; i++ {
			q := &domain.Question{QuizID: quiz.ID, Position: i, Title: fmt.Sprintf("Q%d", i), Options: []string{"A", "B", "C", "D"}, Answer: "A"}
			if err := repo.CreateQuestion(ctx, q); err != nil {
				return err
			}
		}
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "question 4")
	// No commit was expected; a commit would fail ExpectationsWereMet.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_PanicRollsBack(t *testing.T) {
	db, mock := setupTestDB(t)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = tm.WithTransaction(context.Background(), func(ctx context.Context) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExecutor(t *testing.T) {
	db, mock := setupTestDB(t)
	assert.Equal(t, DBTX(db), GetExecutor(context.Background(), db))

	mock.ExpectBegin()
	tx, err := db.Beginx()
	require.NoError(t, err)
	ctx := context.WithValue(context.Background(), TransactionContextKey, tx)
	assert.Equal(t, DBTX(tx), GetExecutor(ctx, db))
}
