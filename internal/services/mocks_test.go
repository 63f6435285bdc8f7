package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/cache"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/repositories"
)

// MockRepository hands out the mocked sub-repositories and runs transactions inline.
type MockRepository struct {
	question *MockQuestionRepository
	progress *MockProgressRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		question: new(MockQuestionRepository),
		progress: new(MockProgressRepository),
	}
}

func (m *MockRepository) Question() repositories.QuestionRepository { return m.question }
func (m *MockRepository) Progress() repositories.ProgressRepository { return m.progress }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repo repositories.Repository) error) error {
	return fn(m)
}

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	q, _ := args.Get(0).(*models.Question)
	return q, args.Error(1)
}

func (m *MockQuestionRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error) {
	args := m.Called(ctx, ids)
	qs, _ := args.Get(0).([]*models.Question)
	return qs, args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	args := m.Called(ctx, filters)
	qs, _ := args.Get(0).([]*models.Question)
	return qs, args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) ListByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error) {
	args := m.Called(ctx, quizID)
	qs, _ := args.Get(0).([]*models.Question)
	return qs, args.Error(1)
}

// MockProgressRepository is a mock implementation of ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, sessionID string, questionID uint) (*models.QuestionProgress, error) {
	args := m.Called(ctx, sessionID, questionID)
	p, _ := args.Get(0).(*models.QuestionProgress)
	return p, args.Error(1)
}

func (m *MockProgressRepository) GetForUpdate(ctx context.Context, sessionID string, questionID uint) (*models.QuestionProgress, error) {
	args := m.Called(ctx, sessionID, questionID)
	p, _ := args.Get(0).(*models.QuestionProgress)
	return p, args.Error(1)
}

func (m *MockProgressRepository) CreateIfAbsent(ctx context.Context, progress *models.QuestionProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) Save(ctx context.Context, progress *models.QuestionProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) ListBySession(ctx context.Context, sessionID string) ([]*models.QuestionProgress, error) {
	args := m.Called(ctx, sessionID)
	ps, _ := args.Get(0).([]*models.QuestionProgress)
	return ps, args.Error(1)
}

func (m *MockProgressRepository) ListBySessionAndQuestions(ctx context.Context, sessionID string, questionIDs []uint) ([]*models.QuestionProgress, error) {
	args := m.Called(ctx, sessionID, questionIDs)
	ps, _ := args.Get(0).([]*models.QuestionProgress)
	return ps, args.Error(1)
}

func (m *MockProgressRepository) DeleteByQuestion(ctx context.Context, questionID uint) error {
	args := m.Called(ctx, questionID)
	return args.Error(0)
}

// memoryCache stores JSON like the redis cache does.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	raw, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// capitalsQuestion is worth 5 points and has one true/false and one short text component.
func capitalsQuestion() *models.Question {
	return &models.Question{
		ID:          10,
		QuizID:      3,
		Title:       "Capitals",
		Points:      5,
		MaxAttempts: 2,
		CreatedBy:   "author-1",
		Components: models.Components{
			{ID: 1, Type: models.ComponentText, Label: "Answer both parts"},
			{ID: 2, Type: models.ComponentTrueFalse, Value: true},
			{ID: 3, Type: models.ComponentShortTextAnswer, CorrectAnswer: "Paris"},
		},
	}
}

func rankingQuestion() *models.Question {
	return &models.Question{
		ID:          11,
		QuizID:      3,
		Title:       "Order the planets",
		Points:      3,
		MaxAttempts: 1,
		Components: models.Components{
			{ID: 1, Type: models.ComponentRanking, Items: []any{"Mercury", "Venus", "Earth"}, CorrectOrder: []interface{}{0, 1, 2}},
		},
	}
}
