package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/services"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	exportService  services.ExportService
}

func NewSessionHandler(sessionService services.SessionService, exportService services.ExportService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		exportService:  exportService,
	}
}

// SubmitAnswers records one attempt for a question in a session
// @Summary Submit answers
// @Tags sessions
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param id path uint true "Question ID"
// @Param answers body services.SubmitRequest true "Answers keyed by component id"
// @Success 200 {object} services.SubmitResponse
// @Failure 409 {object} ErrorResponse "question already completed or exhausted"
// @Failure 422 {object} ErrorResponse "required components unanswered"
// @Router /sessions/{session_id}/questions/{id}/submit [post]
func (h *SessionHandler) SubmitAnswers(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "session_id")
	if sessionID == "" {
		return
	}
	questionID := h.parseIDParam(c, "id")
	if questionID == 0 {
		return
	}

	h.LogRequest(c, "Submitting answers", "session_id", sessionID, "question_id", questionID)

	var req services.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid answers payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.sessionService.Submit(c.Request.Context(), sessionID, questionID, &req, userID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetQuestionProgress returns the tracker state of one question
// @Summary Question progress
// @Tags sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Param id path uint true "Question ID"
// @Success 200 {object} services.ProgressResponse
// @Router /sessions/{session_id}/questions/{id}/progress [get]
func (h *SessionHandler) GetQuestionProgress(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "session_id")
	if sessionID == "" {
		return
	}
	questionID := h.parseIDParam(c, "id")
	if questionID == 0 {
		return
	}

	resp, err := h.sessionService.GetProgress(c.Request.Context(), sessionID, questionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListSessionProgress lists every question the session has submitted
// @Summary Session progress
// @Tags sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {array} services.ProgressResponse
// @Router /sessions/{session_id}/progress [get]
func (h *SessionHandler) ListSessionProgress(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "session_id")
	if sessionID == "" {
		return
	}

	resp, err := h.sessionService.ListProgress(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetSessionSummary aggregates the score of a session over a quiz
// @Summary Session summary
// @Tags sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Param quiz_id path uint true "Quiz ID"
// @Success 200 {object} models.SessionSummary
// @Router /sessions/{session_id}/quizzes/{quiz_id}/summary [get]
func (h *SessionHandler) GetSessionSummary(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "session_id")
	if sessionID == "" {
		return
	}
	quizID := h.parseIDParam(c, "quiz_id")
	if quizID == 0 {
		return
	}

	summary, err := h.sessionService.Summary(c.Request.Context(), quizID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportSessionResults downloads the session results as an Excel workbook
// @Summary Export session results
// @Tags sessions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param session_id path string true "Session ID"
// @Param quiz_id path uint true "Quiz ID"
// @Success 200 {file} file
// @Router /sessions/{session_id}/quizzes/{quiz_id}/export [get]
func (h *SessionHandler) ExportSessionResults(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "session_id")
	if sessionID == "" {
		return
	}
	quizID := h.parseIDParam(c, "quiz_id")
	if quizID == 0 {
		return
	}

	h.LogRequest(c, "Exporting session results", "session_id", sessionID, "quiz_id", quizID)

	data, err := h.exportService.ExportSessionResults(c.Request.Context(), quizID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("quiz-%d-session-%s.xlsx", quizID, sessionID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
