package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/cache"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/evaluation"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/validator"
)

type questionService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	cacheTTL  time.Duration
	shuffler  *evaluation.Shuffler
	logger    *slog.Logger
	opLogger  *ServiceLogger
	validator *validator.Validator
}

// QuestionServiceOption customizes a question service.
type QuestionServiceOption func(*questionService)

// WithShuffler replaces the time-seeded shuffler, e.g. with a fixed seed in tests.
func WithShuffler(s *evaluation.Shuffler) QuestionServiceOption {
	return func(qs *questionService) {
		qs.shuffler = s
	}
}

func NewQuestionService(repo repositories.Repository, cacheService cache.CacheService, cacheTTL time.Duration,
	logger *slog.Logger, validator *validator.Validator, opts ...QuestionServiceOption) QuestionService {
	if cacheService == nil {
		cacheService = cache.NewNoopCache()
	}
	s := &questionService{
		repo:      repo,
		cache:     cacheService,
		cacheTTL:  cacheTTL,
		shuffler:  evaluation.NewShuffler(nil),
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "question"),
		validator: validator,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ===== CRUD =====

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest, userID string) (q *models.Question, err error) {
	op := s.opLogger.WithOperation(ctx, "create_question", userID)
	defer func() { op.LogResult(resourceID(q), "question", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	maxAttempts := req.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 1
	}

	question := &models.Question{
		QuizID:      req.QuizID,
		Title:       req.Title,
		Order:       req.Order,
		Points:      req.Points,
		MaxAttempts: maxAttempts,
		Components:  req.Components,
		CreatedBy:   userID,
	}
	if err := s.validator.Validate(question); err != nil {
		return nil, err
	}

	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.invalidate(ctx, question.ID, question.QuizID)
	return question, nil
}

// Get reads through the cache.
func (s *questionService) Get(ctx context.Context, id uint) (*models.Question, error) {
	var cached models.Question
	if err := s.cache.Get(ctx, cache.QuestionKey(id), &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Question cache unavailable, reading from database", "question_id", id, "error", err)
	}

	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if err := s.cache.Set(ctx, cache.QuestionKey(id), question, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache question", "question_id", id, "error", err)
	}
	return question, nil
}

func (s *questionService) Update(ctx context.Context, id uint, req *UpdateQuestionRequest, userID string) (q *models.Question, err error) {
	op := s.opLogger.WithOperation(ctx, "update_question", userID)
	defer func() { op.LogResult(id, "question", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(question, userID, "update"); err != nil {
		return nil, err
	}

	if req.Title != nil {
		question.Title = *req.Title
	}
	if req.Order != nil {
		question.Order = *req.Order
	}
	if req.Points != nil {
		question.Points = *req.Points
	}
	if req.MaxAttempts != nil {
		question.MaxAttempts = *req.MaxAttempts
	}
	if req.Components != nil {
		question.Components = req.Components
	}

	if err := s.validator.Validate(question); err != nil {
		return nil, err
	}

	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	s.invalidate(ctx, question.ID, question.QuizID)
	return question, nil
}

func (s *questionService) Delete(ctx context.Context, id uint, userID string) (err error) {
	op := s.opLogger.WithOperation(ctx, "delete_question", userID)
	defer func() { op.LogResult(id, "question", err) }()

	question, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkOwner(question, userID, "delete"); err != nil {
		return err
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Progress().DeleteByQuestion(ctx, id); err != nil {
			return fmt.Errorf("failed to delete question progress: %w", err)
		}
		if err := tx.Question().Delete(ctx, id); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrQuestionNotFound
			}
			return fmt.Errorf("failed to delete question: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, question.ID, question.QuizID)
	return nil
}

func (s *questionService) ListByQuiz(ctx context.Context, quizID uint) (*QuestionListResponse, error) {
	var questions []*models.Question
	key := cache.QuizQuestionsKey(quizID)

	if err := s.cache.Get(ctx, key, &questions); err != nil {
		questions, err = s.repo.Question().ListByQuiz(ctx, quizID)
		if err != nil {
			return nil, fmt.Errorf("failed to list questions: %w", err)
		}
		if err := s.cache.Set(ctx, key, questions, s.cacheTTL); err != nil {
			s.logger.Warn("Failed to cache quiz questions", "quiz_id", quizID, "error", err)
		}
	}

	if questions == nil {
		questions = []*models.Question{}
	}
	return &QuestionListResponse{
		QuizID:      quizID,
		Questions:   questions,
		Total:       len(questions),
		TotalPoints: evaluation.TotalPossibleScore(questions),
	}, nil
}

// ===== EVALUATION =====

func (s *questionService) Evaluate(ctx context.Context, id uint, answers models.QuestionAnswers) (*EvaluationResponse, error) {
	question, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	verdicts := evaluation.EvaluateQuestion(question, answers)
	return &EvaluationResponse{
		QuestionID: question.ID,
		Verdicts:   verdicts,
		Correct:    evaluation.IsQuestionCorrect(verdicts),
	}, nil
}

func (s *questionService) CheckUnanswered(ctx context.Context, id uint, answers models.QuestionAnswers) (*UnansweredResponse, error) {
	question, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	missing := evaluation.UnansweredComponents(question, models.AnswerSheet{question.ID: answers})
	if missing == nil {
		missing = []int{}
	}
	return &UnansweredResponse{
		QuestionID:   question.ID,
		ComponentIDs: missing,
		CanSubmit:    len(missing) == 0,
	}, nil
}

func (s *questionService) Presentation(ctx context.Context, id uint) (*PresentationResponse, error) {
	question, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &PresentationResponse{
		QuestionID: question.ID,
		Orders:     evaluation.PresentationOrder(question, s.shuffler),
	}, nil
}

// ===== HELPERS =====

// load bypasses the cache so writes always start from the stored row.
func (s *questionService) load(ctx context.Context, id uint) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

// checkOwner only applies when both the caller and the author are known.
func (s *questionService) checkOwner(q *models.Question, userID, action string) error {
	if userID == "" || q.CreatedBy == "" || q.CreatedBy == userID {
		return nil
	}
	return NewPermissionError(userID, q.ID, "question", action, "not the author")
}

func (s *questionService) invalidate(ctx context.Context, questionID, quizID uint) {
	if err := s.cache.Delete(ctx, cache.QuestionKey(questionID)); err != nil {
		s.logger.Warn("Failed to invalidate question cache", "question_id", questionID, "error", err)
	}
	if err := s.cache.Delete(ctx, cache.QuizQuestionsKey(quizID)); err != nil {
		s.logger.Warn("Failed to invalidate quiz cache", "quiz_id", quizID, "error", err)
	}
}

func resourceID(q *models.Question) uint {
	if q == nil {
		return 0
	}
	return q.ID
}
