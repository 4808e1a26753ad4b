package service

import (
	"context"
	"errors"
	"time"

	"quiz-tube/internal/adapter/quizgen"
	"quiz-tube/internal/domain"
	"quiz-tube/internal/util"
	"quiz-tube/internal/validation"

	"go.uber.org/zap"
)

// WorkDirFunc provides a scratch directory that lives only for the duration of fn.
type WorkDirFunc func(prefix string, fn func(dir string) error) error

// QuizService defines the quiz operations exposed to the HTTP layer
type QuizService interface {
	CreateQuizFromVideo(ctx context.Context, userID, videoURL string) (*domain.Quiz, error)
	ListQuizzes(ctx context.Context, userID string) ([]*domain.Quiz, error)
	GetQuiz(ctx context.Context, userID, quizID string) (*domain.Quiz, error)
	UpdateQuiz(ctx context.Context, userID, quizID string, update domain.QuizUpdate) (*domain.Quiz, error)
	DeleteQuiz(ctx context.Context, userID, quizID string) error
}

// QuizServiceDeps groups the collaborators of the quiz service
type QuizServiceDeps struct {
	Repo          domain.QuizRepository
	TxManager     domain.TransactionManager
	Acquirer      domain.AudioAcquirer
	Transcriber   domain.Transcriber
	Generator     domain.QuizGenerator
	WithWorkDir   WorkDirFunc
	WorkDirPrefix string
	Logger        *zap.Logger
}

type quizService struct {
	repo          domain.QuizRepository
	txManager     domain.TransactionManager
	acquirer      domain.AudioAcquirer
	transcriber   domain.Transcriber
	generator     domain.QuizGenerator
	withWorkDir   WorkDirFunc
	workDirPrefix string
	logger        *zap.Logger
}

// NewQuizService creates a new instance of quizService
func NewQuizService(deps QuizServiceDeps) QuizService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := deps.WorkDirPrefix
	if prefix == "" {
		prefix = "quiz-tube-"
	}
	return &quizService{
		repo:          deps.Repo,
		txManager:     deps.TxManager,
		acquirer:      deps.Acquirer,
		transcriber:   deps.Transcriber,
		generator:     deps.Generator,
		withWorkDir:   deps.WithWorkDir,
		workDirPrefix: prefix,
		logger:        logger,
	}
}

// CreateQuizFromVideo runs the whole pipeline for videoURL and persists the
// resulting quiz for userID. Nothing is written unless every stage succeeds.
func (s *quizService) CreateQuizFromVideo(ctx context.Context, userID, videoURL string) (*domain.Quiz, error) {
	videoID, ok := util.ExtractVideoID(videoURL)
	if !ok {
		return nil, domain.NewInvalidInputError("Invalid YouTube URL.")
	}
	log := s.logger.With(zap.String("video_id", videoID), zap.String("user_id", userID))
	started := time.Now()
	log.Info("Quiz creation started")

	var transcript string
	err := s.withWorkDir(s.workDirPrefix, func(dir string) error {
		stage := time.Now()
		audioPath, err := s.acquirer.Acquire(ctx, videoURL, dir)
		if err != nil {
			return err
		}
		log.Info("Audio acquired", zap.Duration("elapsed", time.Since(stage)))

		stage = time.Now()
		transcript, err = s.transcriber.Transcribe(ctx, audioPath)
		if err != nil {
			return err
		}
		log.Info("Transcription finished", zap.Int("chars", len(transcript)), zap.Duration("elapsed", time.Since(stage)))
		return nil
	})
	if err != nil {
		log.Error("Audio stage failed", zap.Error(err))
		return nil, asInternal("Quiz creation failed.", err)
	}
	if transcript == "" {
		log.Warn("Transcript is empty")
		return nil, domain.NewTranscriptionEmptyError()
	}

	stage := time.Now()
	payload, err := s.generator.Generate(ctx, quizgen.BuildPrompt(transcript))
	if err != nil {
		log.Error("Quiz generation failed", zap.Error(err))
		return nil, asInternal("Quiz creation failed.", err)
	}
	log.Info("Quiz generated", zap.Duration("elapsed", time.Since(stage)))

	generated, err := validation.DecodeQuizPayload(payload)
	if err != nil {
		log.Warn("Generated quiz rejected", zap.Error(err))
		return nil, err
	}

	quiz, err := s.persist(ctx, userID, videoURL, generated)
	if err != nil {
		log.Error("Failed to persist quiz", zap.Error(err))
		return nil, domain.NewPersistenceError(err)
	}

	log.Info("Quiz created",
		zap.String("quiz_id", quiz.ID),
		zap.Int("questions", len(quiz.Questions)),
		zap.Duration("elapsed", time.Since(started)))
	return quiz, nil
}

func (s *quizService) persist(ctx context.Context, userID, videoURL string, generated *domain.GeneratedQuiz) (*domain.Quiz, error) {
	quiz := &domain.Quiz{
		UserID:      userID,
		Title:       generated.Title,
		Description: generated.Description,
		VideoURL:    videoURL,
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateQuiz(txCtx, quiz); err != nil {
			return err
		}
		questions := make([]*domain.Question, 0, len(generated.Questions))
		for i, gq := range generated.Questions {
			question := &domain.Question{
				QuizID:    quiz.ID,
				Position:  i,
				Title:     gq.Title,
				Options:   gq.Options,
				Answer:    gq.Answer,
				CreatedAt: quiz.CreatedAt,
			}
			if err := s.repo.CreateQuestion(txCtx, question); err != nil {
				return err
			}
			questions = append(questions, question)
		}
		quiz.Questions = questions
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

// ListQuizzes returns all quizzes owned by userID
func (s *quizService) ListQuizzes(ctx context.Context, userID string) ([]*domain.Quiz, error) {
	quizzes, err := s.repo.ListQuizzesByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list quizzes", zap.String("user_id", userID), zap.Error(err))
		return nil, domain.NewInternalError("Failed to list quizzes.", err)
	}
	return quizzes, nil
}

// GetQuiz returns the quiz when it exists and belongs to userID
func (s *quizService) GetQuiz(ctx context.Context, userID, quizID string) (*domain.Quiz, error) {
	return s.ownedQuiz(ctx, userID, quizID, "enter")
}

// UpdateQuiz applies a partial update to an owned quiz
func (s *quizService) UpdateQuiz(ctx context.Context, userID, quizID string, update domain.QuizUpdate) (*domain.Quiz, error) {
	quiz, err := s.ownedQuiz(ctx, userID, quizID, "modify")
	if err != nil {
		return nil, err
	}
	if err := quiz.ApplyUpdate(update); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateQuiz(ctx, quiz); err != nil {
		return nil, asInternal("Failed to update quiz.", err)
	}
	s.logger.Info("Quiz updated", zap.String("quiz_id", quizID), zap.String("user_id", userID))
	return quiz, nil
}

// DeleteQuiz removes an owned quiz together with its questions
func (s *quizService) DeleteQuiz(ctx context.Context, userID, quizID string) error {
	if _, err := s.ownedQuiz(ctx, userID, quizID, "delete"); err != nil {
		return err
	}
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.repo.DeleteQuiz(txCtx, quizID)
	})
	if err != nil {
		return asInternal("Failed to delete quiz.", err)
	}
	s.logger.Info("Quiz deleted", zap.String("quiz_id", quizID), zap.String("user_id", userID))
	return nil
}

func (s *quizService) ownedQuiz(ctx context.Context, userID, quizID, action string) (*domain.Quiz, error) {
	quiz, err := s.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		s.logger.Error("Failed to load quiz", zap.String("quiz_id", quizID), zap.Error(err))
		return nil, domain.NewInternalError("Failed to load quiz.", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	if !quiz.IsOwnedBy(userID) {
		s.logger.Warn("Quiz access denied",
			zap.String("quiz_id", quizID),
			zap.String("user_id", userID),
			zap.String("action", action))
		return nil, domain.NewForbiddenError("You have not Permission to " + action + " this Quiz")
	}
	return quiz, nil
}

// asInternal keeps tagged failures and tags anything else as internal.
func asInternal(message string, err error) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return domain.NewInternalError(message, err)
}
