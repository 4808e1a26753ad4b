package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-tube/internal/domain"
	"quiz-tube/internal/repository/models"
	"quiz-tube/internal/util"

	"github.com/jmoiron/sqlx"
)

// Positional :N placeholders are understood by both go-ora and godror.
const (
	insertQuizQuery = `INSERT INTO quizzes (id, user_id, title, description, video_url, created_at, updated_at)
		VALUES (:1, :2, :3, :4, :5, :6, :7)`
	insertQuestionQuery = `INSERT INTO questions (id, quiz_id, position, question_title, question_options, answer, created_at, updated_at)
		VALUES (:1, :2, :3, :4, :5, :6, :7, :8)`
	selectQuizByIDQuery = `SELECT id, user_id, title, description, video_url, created_at, updated_at
		FROM quizzes WHERE id = :1`
	selectQuizzesByUserQuery = `SELECT id, user_id, title, description, video_url, created_at, updated_at
		FROM quizzes WHERE user_id = :1 ORDER BY created_at DESC, id DESC`
	selectQuestionsByQuizQuery = `SELECT id, quiz_id, position, question_title, question_options, answer, created_at, updated_at
		FROM questions WHERE quiz_id = :1 ORDER BY position`
	selectQuestionsByUserQuery = `SELECT q.id, q.quiz_id, q.position, q.question_title, q.question_options, q.answer, q.created_at, q.updated_at
		FROM questions q JOIN quizzes z ON z.id = q.quiz_id
		WHERE z.user_id = :1 ORDER BY q.quiz_id, q.position`
	updateQuizQuery            = `UPDATE quizzes SET title = :1, description = :2, updated_at = :3 WHERE id = :4`
	deleteQuestionsByQuizQuery = `DELETE FROM questions WHERE quiz_id = :1`
	deleteQuizQuery            = `DELETE FROM quizzes WHERE id = :1`
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx against Oracle
type QuizDatabaseAdapter struct {
	db DBTX
}

// NewQuizDatabaseAdapter creates a new quiz repository
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// CreateQuiz inserts the quiz row only. ID and timestamps are assigned when empty.
func (r *QuizDatabaseAdapter) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	now := time.Now().UTC()
	if quiz.ID == "" {
		quiz.ID = util.NewULID()
	}
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = now
	}
	quiz.UpdatedAt = quiz.CreatedAt

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, insertQuizQuery,
		quiz.ID,
		quiz.UserID,
		quiz.Title,
		util.StringToNullString(quiz.Description),
		util.StringToNullString(quiz.VideoURL),
		quiz.CreatedAt,
		quiz.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quiz: %w", err)
	}
	return nil
}

// CreateQuestion inserts one question row of an existing quiz.
func (r *QuizDatabaseAdapter) CreateQuestion(ctx context.Context, question *domain.Question) error {
	if question.ID == "" {
		question.ID = util.NewULID()
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now().UTC()
	}
	question.UpdatedAt = question.CreatedAt

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, insertQuestionQuery,
		question.ID,
		question.QuizID,
		question.Position,
		question.Title,
		models.StringSlice(question.Options),
		question.Answer,
		question.CreatedAt,
		question.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert question %d of quiz %s: %w", question.Position, question.QuizID, err)
	}
	return nil
}

// GetQuizByID returns the quiz with its questions in position order, or nil when absent.
func (r *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	exec := GetExecutor(ctx, r.db)

	var row models.Quiz
	if err := exec.GetContext(ctx, &row, selectQuizByIDQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz %s: %w", id, err)
	}

	var questionRows []models.Question
	if err := exec.SelectContext(ctx, &questionRows, selectQuestionsByQuizQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get questions of quiz %s: %w", id, err)
	}

	quiz := toDomainQuiz(&row)
	for i := range questionRows {
		quiz.Questions = append(quiz.Questions, toDomainQuestion(&questionRows[i]))
	}
	return quiz, nil
}

// ListQuizzesByUser returns the user's quizzes, newest first, each with its questions.
func (r *QuizDatabaseAdapter) ListQuizzesByUser(ctx context.Context, userID string) ([]*domain.Quiz, error) {
	exec := GetExecutor(ctx, r.db)

	var rows []models.Quiz
	if err := exec.SelectContext(ctx, &rows, selectQuizzesByUserQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to list quizzes of user %s: %w", userID, err)
	}
	if len(rows) == 0 {
		return []*domain.Quiz{}, nil
	}

	var questionRows []models.Question
	if err := exec.SelectContext(ctx, &questionRows, selectQuestionsByUserQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to list questions of user %s: %w", userID, err)
	}

	quizzes := make([]*domain.Quiz, 0, len(rows))
	byID := make(map[string]*domain.Quiz, len(rows))
	for i := range rows {
		quiz := toDomainQuiz(&rows[i])
		quizzes = append(quizzes, quiz)
		byID[quiz.ID] = quiz
	}
	for i := range questionRows {
		if quiz, ok := byID[questionRows[i].QuizID]; ok {
			quiz.Questions = append(quiz.Questions, toDomainQuestion(&questionRows[i]))
		}
	}
	return quizzes, nil
}

// UpdateQuiz persists title and description of an existing quiz.
func (r *QuizDatabaseAdapter) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	quiz.UpdatedAt = time.Now().UTC()

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, updateQuizQuery,
		quiz.Title,
		util.StringToNullString(quiz.Description),
		quiz.UpdatedAt,
		quiz.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update quiz %s: %w", quiz.ID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.NewQuizNotFoundError(quiz.ID)
	}
	return nil
}

// DeleteQuiz removes the quiz and its questions. Callers run it inside a
// transaction so both statements commit together.
func (r *QuizDatabaseAdapter) DeleteQuiz(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, r.db)

	if _, err := exec.ExecContext(ctx, deleteQuestionsByQuizQuery, id); err != nil {
		return fmt.Errorf("failed to delete questions of quiz %s: %w", id, err)
	}

	result, err := exec.ExecContext(ctx, deleteQuizQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz %s: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.NewQuizNotFoundError(id)
	}
	return nil
}

func toDomainQuiz(row *models.Quiz) *domain.Quiz {
	return &domain.Quiz{
		ID:          row.ID,
		UserID:      row.UserID,
		Title:       row.Title,
		Description: row.Description.String,
		VideoURL:    row.VideoURL.String,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		Questions:   []*domain.Question{},
	}
}

func toDomainQuestion(row *models.Question) *domain.Question {
	return &domain.Question{
		ID:        row.ID,
		QuizID:    row.QuizID,
		Position:  row.Position,
		Title:     row.QuestionTitle,
		Options:   []string(row.QuestionOptions),
		Answer:    row.Answer,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
