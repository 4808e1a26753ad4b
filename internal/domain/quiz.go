package domain

import (
	"context"
	"strings"
	"time"
)

// RequiredQuestionCount is the number of questions every persisted quiz carries.
const RequiredQuestionCount = 10

// RequiredOptionCount is the number of answer options per question.
const RequiredOptionCount = 4

// Quiz represents a quiz generated from a video and owned by a user
type Quiz struct {
	ID          string
	UserID      string
	Title       string
	Description string
	VideoURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Questions   []*Question
}

// Question represents a single multiple-choice question of a quiz
type Question struct {
	ID        string
	QuizID    string
	Position  int
	Title     string
	Options   []string
	Answer    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy reports whether userID owns the quiz.
func (q *Quiz) IsOwnedBy(userID string) bool {
	return q.UserID != "" && q.UserID == userID
}

// ApplyUpdate applies a partial update. Nil fields are left untouched.
func (q *Quiz) ApplyUpdate(update QuizUpdate) error {
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return NewInvalidInputError("title may not be blank.")
		}
		q.Title = title
	}
	if update.Description != nil {
		q.Description = *update.Description
	}
	return nil
}

// QuizUpdate carries the mutable fields of a quiz
type QuizUpdate struct {
	Title       *string
	Description *string
}

// GeneratedQuiz is a validated, coerced quiz payload ready to be persisted
type GeneratedQuiz struct {
	Title       string
	Description string
	Questions   []GeneratedQuestion
}

// GeneratedQuestion is one question of a GeneratedQuiz
type GeneratedQuestion struct {
	Title   string
	Options []string
	Answer  string
}

// QuizRepository defines the persistence operations for quizzes and their questions.
// GetQuizByID returns (nil, nil) when no quiz has the given id.
type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *Quiz) error
	CreateQuestion(ctx context.Context, question *Question) error
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	ListQuizzesByUser(ctx context.Context, userID string) ([]*Quiz, error)
	UpdateQuiz(ctx context.Context, quiz *Quiz) error
	DeleteQuiz(ctx context.Context, id string) error
}

// TransactionManager runs fn inside a single database transaction.
// The transaction is committed when fn returns nil and rolled back otherwise.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
