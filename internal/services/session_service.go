package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/evaluation"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/events"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/validator"
)

type sessionService struct {
	repo      repositories.Repository
	questions QuestionService
	publisher events.EventPublisher
	logger    *slog.Logger
	opLogger  *ServiceLogger
	validator *validator.Validator
}

func NewSessionService(repo repositories.Repository, questions QuestionService, publisher events.EventPublisher,
	logger *slog.Logger, validator *validator.Validator) SessionService {
	return &sessionService{
		repo:      repo,
		questions: questions,
		publisher: publisher,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "session"),
		validator: validator,
	}
}

// Submit evaluates the learner's answers and records one attempt. A locked question
// is rejected before anything else; submissions with required components left
// blank are rejected without consuming an attempt.
func (s *sessionService) Submit(ctx context.Context, sessionID string, questionID uint, req *SubmitRequest, learnerID string) (resp *SubmitResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "submit_answer", learnerID)
	defer func() { op.LogResult(questionID, "question", err) }()

	if err := s.validateSessionID(sessionID); err != nil {
		return nil, err
	}

	question, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return nil, err
	}

	verdicts := evaluation.EvaluateQuestion(question, req.Answers)
	correct := evaluation.IsQuestionCorrect(verdicts)

	var recorded models.QuestionProgress
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		// Concurrent first submissions meet on the inserted row and take turns on its lock.
		fresh := evaluation.NewProgress(sessionID, question)
		if err := tx.Progress().CreateIfAbsent(ctx, &fresh); err != nil {
			return fmt.Errorf("failed to create progress: %w", err)
		}
		current, err := tx.Progress().GetForUpdate(ctx, sessionID, questionID)
		if err != nil {
			return fmt.Errorf("failed to get progress: %w", err)
		}
		if current.IsLocked() {
			return ErrQuestionLocked
		}

		if missing := evaluation.UnansweredComponents(question, models.AnswerSheet{question.ID: req.Answers}); len(missing) > 0 {
			return NewBusinessRuleError(RuleUnansweredComponents,
				"required components must be answered before submitting",
				map[string]interface{}{"component_ids": missing})
		}

		next, err := evaluation.RecordSubmission(*current, question.Points, correct)
		if err != nil {
			return err
		}
		if learnerID != "" {
			next.LearnerID = learnerID
		}
		if next.LastVerdicts, err = marshalVerdicts(verdicts); err != nil {
			return err
		}

		if err := tx.Progress().Save(ctx, &next); err != nil {
			if errors.Is(err, repositories.ErrProgressLocked) {
				return ErrQuestionLocked
			}
			return fmt.Errorf("failed to save progress: %w", err)
		}
		recorded = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Recorded submission",
		"session_id", sessionID,
		"question_id", questionID,
		"correct", correct,
		"attempts_used", recorded.AttemptsUsed,
		"state", recorded.State())

	s.publishSubmission(ctx, question, &recorded, verdicts, correct)
	if recorded.IsLocked() {
		s.publishIfFinished(ctx, question.QuizID, sessionID)
	}

	return &SubmitResponse{
		Progress: newProgressResponse(&recorded),
		Verdicts: verdicts,
		Correct:  correct,
	}, nil
}

// GetProgress reports a fresh record for questions the session has not submitted yet.
func (s *sessionService) GetProgress(ctx context.Context, sessionID string, questionID uint) (*ProgressResponse, error) {
	if err := s.validateSessionID(sessionID); err != nil {
		return nil, err
	}

	progress, err := s.repo.Progress().Get(ctx, sessionID, questionID)
	if err == nil {
		return newProgressResponse(progress), nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	question, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return nil, err
	}
	fresh := evaluation.NewProgress(sessionID, question)
	return newProgressResponse(&fresh), nil
}

func (s *sessionService) ListProgress(ctx context.Context, sessionID string) ([]*ProgressResponse, error) {
	if err := s.validateSessionID(sessionID); err != nil {
		return nil, err
	}

	progress, err := s.repo.Progress().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	responses := make([]*ProgressResponse, 0, len(progress))
	for _, p := range progress {
		responses = append(responses, newProgressResponse(p))
	}
	return responses, nil
}

func (s *sessionService) Summary(ctx context.Context, quizID uint, sessionID string) (*models.SessionSummary, error) {
	if err := s.validateSessionID(sessionID); err != nil {
		return nil, err
	}

	questions, err := s.questions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if questions.Total == 0 {
		return nil, ErrQuizNotFound
	}

	progress, err := s.progressByQuestion(ctx, sessionID, questions.Questions)
	if err != nil {
		return nil, err
	}

	summary := evaluation.Summarize(quizID, sessionID, questions.Questions, progress)
	return &summary, nil
}

// ===== HELPERS =====

func (s *sessionService) validateSessionID(sessionID string) error {
	if err := s.validator.ValidateVar(sessionID, "session_id"); err != nil {
		return ValidationErrors{{
			Field:   "session_id",
			Message: "must be 1-64 letters, digits, '-' or '_'",
			Value:   sessionID,
			Rule:    "session_id",
		}}
	}
	return nil
}

func (s *sessionService) progressByQuestion(ctx context.Context, sessionID string, questions []*models.Question) (map[uint]*models.QuestionProgress, error) {
	ids := make([]uint, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}

	rows, err := s.repo.Progress().ListBySessionAndQuestions(ctx, sessionID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	byQuestion := make(map[uint]*models.QuestionProgress, len(rows))
	for _, p := range rows {
		byQuestion[p.QuestionID] = p
	}
	return byQuestion, nil
}

// Publishing is best effort; the recorded attempt stands even when the broker is down.
func (s *sessionService) publishSubmission(ctx context.Context, q *models.Question, p *models.QuestionProgress, verdicts models.VerdictMap, correct bool) {
	event := events.NewQuizEvent(events.QuestionEventType(p.State()), events.QuestionAttemptEvent{
		SessionID:         p.SessionID,
		QuestionID:        q.ID,
		QuizID:            q.QuizID,
		LearnerID:         p.LearnerID,
		Correct:           correct,
		AttemptsUsed:      p.AttemptsUsed,
		RemainingAttempts: p.RemainingAttempts(),
		Score:             p.Score,
		Verdicts:          verdicts,
		SubmittedAt:       time.Now().UTC(),
	})
	s.publish(ctx, event)
}

func (s *sessionService) publishIfFinished(ctx context.Context, quizID uint, sessionID string) {
	summary, err := s.Summary(ctx, quizID, sessionID)
	if err != nil {
		if !errors.Is(err, ErrQuizNotFound) {
			s.logger.Warn("Failed to summarize session", "session_id", sessionID, "quiz_id", quizID, "error", err)
		}
		return
	}
	if !summary.Finished {
		return
	}

	s.publish(ctx, events.NewQuizEvent(events.EventSessionFinished, events.SessionFinishedEvent{
		SessionID:     sessionID,
		QuizID:        quizID,
		EarnedScore:   summary.EarnedScore,
		PossibleScore: summary.PossibleScore,
		FinishedAt:    time.Now().UTC(),
	}))
}

func (s *sessionService) publish(ctx context.Context, event *events.QuizEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishQuizEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish quiz event", "event_type", event.Type, "error", err)
	}
}

func marshalVerdicts(verdicts models.VerdictMap) (datatypes.JSON, error) {
	raw, err := json.Marshal(verdicts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal verdicts: %w", err)
	}
	return datatypes.JSON(raw), nil
}
