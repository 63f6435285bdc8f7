package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/services"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/utils"
)

// ServiceProvider is satisfied by services.ServiceManager.
type ServiceProvider interface {
	Question() services.QuestionService
	Session() services.SessionService
	Export() services.ExportService
}

type HandlerManager struct {
	questionHandler *QuestionHandler
	sessionHandler  *SessionHandler
	logger          utils.Logger
	auth            gin.HandlerFunc
}

// NewHandlerManager wires the handlers. A nil auth middleware leaves the API open.
func NewHandlerManager(serviceManager ServiceProvider, logger utils.Logger, auth gin.HandlerFunc) *HandlerManager {
	return &HandlerManager{
		questionHandler: NewQuestionHandler(serviceManager.Question(), logger),
		sessionHandler:  NewSessionHandler(serviceManager.Session(), serviceManager.Export(), logger),
		logger:          logger,
		auth:            auth,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(utils.RequestLogger(hm.logger))

	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if hm.auth != nil {
		v1.Use(hm.auth)
	}
	{
		questions := v1.Group("/questions")
		{
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
			questions.PUT("/:id", hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", hm.questionHandler.DeleteQuestion)

			// Evaluation without recording attempts
			questions.POST("/:id/evaluate", hm.questionHandler.EvaluateQuestion)
			questions.POST("/:id/unanswered", hm.questionHandler.CheckUnanswered)
			questions.GET("/:id/presentation", hm.questionHandler.GetPresentation)
		}

		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("/:quiz_id/questions", hm.questionHandler.ListQuizQuestions)
		}

		sessions := v1.Group("/sessions/:session_id")
		{
			sessions.GET("/progress", hm.sessionHandler.ListSessionProgress)
			sessions.POST("/questions/:id/submit", hm.sessionHandler.SubmitAnswers)
			sessions.GET("/questions/:id/progress", hm.sessionHandler.GetQuestionProgress)
			sessions.GET("/quizzes/:quiz_id/summary", hm.sessionHandler.GetSessionSummary)
			sessions.GET("/quizzes/:quiz_id/export", hm.sessionHandler.ExportSessionResults)
		}
	}
}

// HealthCheck reports liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "quiz-evaluation-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
