package transcriber

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"quiz-tube/internal/domain"

	"github.com/pemistahl/lingua-go"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// SpeechModel is a loaded speech-to-text model.
type SpeechModel interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// ModelLoader loads the speech model of the given size ("tiny", "base", "small", ...).
type ModelLoader func(modelSize string) (SpeechModel, error)

// LanguageDetector is satisfied by lingua.LanguageDetector.
type LanguageDetector interface {
	DetectLanguageOf(text string) (lingua.Language, bool)
}

// Service transcribes audio with a lazily loaded, process-wide speech model.
// The first successful load is kept for the lifetime of the Service; a failed
// load is retried on the next call.
type Service struct {
	load      ModelLoader
	modelSize string
	logger    *zap.Logger

	mu    sync.Mutex
	model SpeechModel

	sem      *semaphore.Weighted
	detector LanguageDetector
}

type Option func(*Service)

// WithMaxConcurrency bounds the number of transcriptions running at once. n <= 0 means unbounded.
func WithMaxConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithLanguageDetector logs the detected language of every transcript.
func WithLanguageDetector(d LanguageDetector) Option {
	return func(s *Service) { s.detector = d }
}

// NewService creates a transcription service. The model is not loaded until first use.
func NewService(load ModelLoader, modelSize string, logger *zap.Logger, opts ...Option) *Service {
	if modelSize == "" {
		modelSize = "base"
	}
	s := &Service{load: load, modelSize: modelSize, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewLinguaDetector builds a detector for the languages transcripts are expected in.
func NewLinguaDetector() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English, lingua.German, lingua.French, lingua.Spanish, lingua.Italian,
			lingua.Portuguese, lingua.Dutch, lingua.Polish, lingua.Turkish, lingua.Russian,
			lingua.Korean, lingua.Japanese, lingua.Chinese,
		).
		WithLowAccuracyMode().
		Build()
}

func (s *Service) getModel() (SpeechModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model != nil {
		return s.model, nil
	}

	start := time.Now()
	model, err := s.load(s.modelSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load speech model %q: %w", s.modelSize, err)
	}
	s.model = model
	s.logger.Info("Speech model loaded", zap.String("model", s.modelSize), zap.Duration("elapsed", time.Since(start)))
	return model, nil
}

// Transcribe returns the trimmed transcript of the audio file. An empty
// transcript is not an error here; callers decide how to treat it.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (string, error) {
	model, err := s.getModel()
	if err != nil {
		return "", domain.NewTranscriptionError(err)
	}

	if s.sem != nil {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return "", domain.NewTranscriptionError(err)
		}
		defer s.sem.Release(1)
	}

	start := time.Now()
	text, err := model.Transcribe(ctx, audioPath)
	if err != nil {
		return "", domain.NewTranscriptionError(err)
	}
	text = strings.TrimSpace(text)

	fields := []zap.Field{
		zap.String("audio", audioPath),
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	}
	if s.detector != nil && text != "" {
		if lang, ok := s.detector.DetectLanguageOf(text); ok {
			fields = append(fields, zap.String("language", lang.String()))
		}
	}
	s.logger.Info("Audio transcribed", fields...)
	return text, nil
}
