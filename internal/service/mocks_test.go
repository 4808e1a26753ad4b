package service

import (
	"context"
	"sync"
	"time"

	"quiz-tube/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) CreateQuestion(ctx context.Context, question *domain.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) ListQuizzesByUser(ctx context.Context, userID string) ([]*domain.Quiz, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) DeleteQuiz(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockTransactionManager ---
type MockTransactionManager struct{}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- pipeline fakes ---
type fakeAcquirer struct {
	err     error
	workDir string
}

func (f *fakeAcquirer) Acquire(ctx context.Context, videoURL, workDir string) (string, error) {
	f.workDir = workDir
	if f.err != nil {
		return "", f.err
	}
	return workDir + "/audio.mp3", nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return f.text, f.err
}

type fakeGenerator struct {
	payload any
	err     error
	prompt  string
	calls   int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (any, error) {
	f.calls++
	f.prompt = prompt
	return f.payload, f.err
}

// fakeWorkDir records the directory lifecycle without touching the filesystem.
type fakeWorkDir struct {
	created int
	removed int
}

func (f *fakeWorkDir) run(prefix string, fn func(dir string) error) error {
	f.created++
	defer func() { f.removed++ }()
	return fn("/tmp/" + prefix + "test")
}

// --- memoryCache ---
type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
	err  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (c *memoryCache) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.data[key] = value
	c.ttl[key] = expiration
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	_, ok := c.data[key]
	return ok, nil
}

func (c *memoryCache) Ping(ctx context.Context) error {
	return c.err
}
