package quizgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"quiz-tube/internal/config"
	"quiz-tube/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// LLMQuizGenerator implements domain.QuizGenerator on top of a langchaingo model.
type LLMQuizGenerator struct {
	llm         llms.Model
	temperature float64
	timeout     time.Duration
	logger      *zap.Logger
}

// NewLLMQuizGenerator creates a generator. A zero timeout means the caller's context governs.
func NewLLMQuizGenerator(llm llms.Model, cfg config.LLMConfig, logger *zap.Logger) *LLMQuizGenerator {
	return &LLMQuizGenerator{
		llm:         llm,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      logger,
	}
}

// Generate sends the prompt and returns the decoded JSON value of the reply.
func (g *LLMQuizGenerator) Generate(ctx context.Context, prompt string) (any, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(g.temperature))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			g.logger.Error("LLM request timed out", zap.Duration("timeout", g.timeout))
			return nil, domain.NewGenerationError("Quiz generation timed out.", err)
		}
		g.logger.Error("LLM request failed", zap.Error(err))
		return nil, domain.NewGenerationError("Quiz generation failed.", err)
	}
	g.logger.Debug("LLM response received",
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(start)))

	payload, err := ParseResponse(text)
	if err != nil {
		g.logger.Warn("LLM response is not JSON", zap.String("response_head", head(text, 200)))
		return nil, err
	}
	return payload, nil
}

// NewLLM builds the configured provider's model.
func NewLLM(ctx context.Context, cfg config.LLMConfig) (llms.Model, error) {
	switch cfg.Provider {
	case "", "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("Gemini API key cannot be empty")
		}
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key cannot be empty")
		}
		opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
		if cfg.ServerURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ServerURL))
		}
		return openai.New(opts...)
	case "ollama":
		httpClient := &http.Client{Timeout: cfg.Timeout}
		return ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ domain.QuizGenerator = (*LLMQuizGenerator)(nil)
