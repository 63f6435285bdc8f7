package services

import (
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/cache"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/events"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/validator"
)

// ServiceManager wires every service against one repository, cache and publisher.
type ServiceManager struct {
	question QuestionService
	session  SessionService
	export   ExportService
}

type ManagerConfig struct {
	Repository repositories.Repository
	Cache      cache.CacheService
	CacheTTL   time.Duration
	Publisher  events.EventPublisher
	Logger     *slog.Logger
	Validator  *validator.Validator

	QuestionOptions []QuestionServiceOption
}

func NewServiceManager(cfg ManagerConfig) *ServiceManager {
	if cfg.Validator == nil {
		cfg.Validator = validator.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	question := NewQuestionService(cfg.Repository, cfg.Cache, cfg.CacheTTL, cfg.Logger, cfg.Validator, cfg.QuestionOptions...)
	session := NewSessionService(cfg.Repository, question, cfg.Publisher, cfg.Logger, cfg.Validator)

	return &ServiceManager{
		question: question,
		session:  session,
		export:   NewExportService(session, question, cfg.Logger),
	}
}

func (m *ServiceManager) Question() QuestionService {
	return m.question
}

func (m *ServiceManager) Session() SessionService {
	return m.session
}

func (m *ServiceManager) Export() ExportService {
	return m.export
}
