package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/services"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/utils"
)

type MockQuestionService struct {
	mock.Mock
}

func (m *MockQuestionService) Create(ctx context.Context, req *services.CreateQuestionRequest, userID string) (*models.Question, error) {
	args := m.Called(ctx, req, userID)
	q, _ := args.Get(0).(*models.Question)
	return q, args.Error(1)
}

func (m *MockQuestionService) Get(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	q, _ := args.Get(0).(*models.Question)
	return q, args.Error(1)
}

func (m *MockQuestionService) Update(ctx context.Context, id uint, req *services.UpdateQuestionRequest, userID string) (*models.Question, error) {
	args := m.Called(ctx, id, req, userID)
	q, _ := args.Get(0).(*models.Question)
	return q, args.Error(1)
}

func (m *MockQuestionService) Delete(ctx context.Context, id uint, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockQuestionService) ListByQuiz(ctx context.Context, quizID uint) (*services.QuestionListResponse, error) {
	args := m.Called(ctx, quizID)
	r, _ := args.Get(0).(*services.QuestionListResponse)
	return r, args.Error(1)
}

func (m *MockQuestionService) Evaluate(ctx context.Context, id uint, answers models.QuestionAnswers) (*services.EvaluationResponse, error) {
	args := m.Called(ctx, id, answers)
	r, _ := args.Get(0).(*services.EvaluationResponse)
	return r, args.Error(1)
}

func (m *MockQuestionService) CheckUnanswered(ctx context.Context, id uint, answers models.QuestionAnswers) (*services.UnansweredResponse, error) {
	args := m.Called(ctx, id, answers)
	r, _ := args.Get(0).(*services.UnansweredResponse)
	return r, args.Error(1)
}

func (m *MockQuestionService) Presentation(ctx context.Context, id uint) (*services.PresentationResponse, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*services.PresentationResponse)
	return r, args.Error(1)
}

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Submit(ctx context.Context, sessionID string, questionID uint, req *services.SubmitRequest, learnerID string) (*services.SubmitResponse, error) {
	args := m.Called(ctx, sessionID, questionID, req, learnerID)
	r, _ := args.Get(0).(*services.SubmitResponse)
	return r, args.Error(1)
}

func (m *MockSessionService) GetProgress(ctx context.Context, sessionID string, questionID uint) (*services.ProgressResponse, error) {
	args := m.Called(ctx, sessionID, questionID)
	r, _ := args.Get(0).(*services.ProgressResponse)
	return r, args.Error(1)
}

func (m *MockSessionService) ListProgress(ctx context.Context, sessionID string) ([]*services.ProgressResponse, error) {
	args := m.Called(ctx, sessionID)
	r, _ := args.Get(0).([]*services.ProgressResponse)
	return r, args.Error(1)
}

func (m *MockSessionService) Summary(ctx context.Context, quizID uint, sessionID string) (*models.SessionSummary, error) {
	args := m.Called(ctx, quizID, sessionID)
	r, _ := args.Get(0).(*models.SessionSummary)
	return r, args.Error(1)
}

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportSessionResults(ctx context.Context, quizID uint, sessionID string) ([]byte, error) {
	args := m.Called(ctx, quizID, sessionID)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

type mockProvider struct {
	question *MockQuestionService
	session  *MockSessionService
	export   *MockExportService
}

func (p *mockProvider) Question() services.QuestionService { return p.question }
func (p *mockProvider) Session() services.SessionService   { return p.session }
func (p *mockProvider) Export() services.ExportService     { return p.export }

type fakeAuthenticator map[string]*Identity

func (f fakeAuthenticator) Authenticate(token string) (*Identity, error) {
	if identity, ok := f[token]; ok {
		return identity, nil
	}
	return nil, errors.New("signature is invalid")
}

func setupRouter(auth gin.HandlerFunc) (*gin.Engine, *mockProvider) {
	gin.SetMode(gin.TestMode)
	provider := &mockProvider{
		question: new(MockQuestionService),
		session:  new(MockSessionService),
		export:   new(MockExportService),
	}
	logger := utils.NewNopLogger()

	router := gin.New()
	NewHandlerManager(provider, logger, auth).SetupRoutes(router)
	return router, provider
}

func perform(router *gin.Engine, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupRouter(nil)

	w := perform(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCreateQuestion(t *testing.T) {
	router, provider := setupRouter(nil)

	provider.question.On("Create", mock.Anything, mock.MatchedBy(func(req *services.CreateQuestionRequest) bool {
		return req.QuizID == 3 && len(req.Components) == 1 && req.Components[0].Type == models.ComponentTrueFalse
	}), "").Return(&models.Question{ID: 42, QuizID: 3}, nil)

	w := perform(router, http.MethodPost, "/api/v1/questions", map[string]interface{}{
		"quiz_id":    3,
		"components": []map[string]interface{}{{"id": 1, "type": "true_false", "value": true}},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(42), decode(t, w)["id"])
	provider.question.AssertExpectations(t)
}

func TestCreateQuestion_ValidationError(t *testing.T) {
	router, provider := setupRouter(nil)

	provider.question.On("Create", mock.Anything, mock.Anything, "").Return(nil, services.ValidationErrors{
		{Field: "components[0].value", Message: "must be true or false"},
	})

	w := perform(router, http.MethodPost, "/api/v1/questions", map[string]interface{}{"quiz_id": 3})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Validation failed", body["message"])
	details := body["details"].([]interface{})
	assert.Equal(t, "components[0].value", details[0].(map[string]interface{})["field"])
}

func TestGetQuestion(t *testing.T) {
	router, provider := setupRouter(nil)
	provider.question.On("Get", mock.Anything, uint(7)).Return(nil, services.ErrQuestionNotFound)

	w := perform(router, http.MethodGet, "/api/v1/questions/7", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(router, http.MethodGet, "/api/v1/questions/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(router, http.MethodGet, "/api/v1/questions/0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteQuestion_Forbidden(t *testing.T) {
	router, provider := setupRouter(nil)
	provider.question.On("Delete", mock.Anything, uint(7), "").
		Return(services.NewPermissionError("", 7, "question", "delete", "not the author"))

	w := perform(router, http.MethodDelete, "/api/v1/questions/7", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEvaluateQuestion(t *testing.T) {
	router, provider := setupRouter(nil)

	provider.question.On("Evaluate", mock.Anything, uint(7), models.QuestionAnswers{2: true}).
		Return(&services.EvaluationResponse{
			QuestionID: 7,
			Verdicts:   models.VerdictMap{1: models.VerdictNone, 2: models.VerdictCorrect},
			Correct:    true,
		}, nil)

	w := perform(router, http.MethodPost, "/api/v1/questions/7/evaluate", map[string]interface{}{
		"answers": map[string]interface{}{"2": true},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	verdicts := body["verdicts"].(map[string]interface{})
	assert.Nil(t, verdicts["1"])
	assert.Equal(t, "correct", verdicts["2"])
	assert.Equal(t, true, body["correct"])
}

func TestSubmitAnswers_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"locked", services.ErrQuestionLocked, http.StatusConflict},
		{"unanswered", services.NewBusinessRuleError(services.RuleUnansweredComponents, "blank", map[string]interface{}{"component_ids": []int{3}}), http.StatusUnprocessableEntity},
		{"bad session", services.ValidationErrors{{Field: "session_id", Message: "invalid"}}, http.StatusBadRequest},
		{"database", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, provider := setupRouter(nil)
			provider.session.On("Submit", mock.Anything, "s-1", uint(7), mock.Anything, "").Return(nil, tt.err)

			w := perform(router, http.MethodPost, "/api/v1/sessions/s-1/questions/7/submit", map[string]interface{}{
				"answers": map[string]interface{}{"2": true},
			})
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestSubmitAnswers_Success(t *testing.T) {
	router, provider := setupRouter(nil)
	score := 5
	provider.session.On("Submit", mock.Anything, "s-1", uint(7), mock.MatchedBy(func(req *services.SubmitRequest) bool {
		return req.Answers[3] == "Paris"
	}), "").Return(&services.SubmitResponse{
		Progress: &services.ProgressResponse{
			QuestionProgress: &models.QuestionProgress{SessionID: "s-1", QuestionID: 7, AttemptsUsed: 1, MaxAttempts: 2, Score: &score, Locked: true},
			State:            models.ProgressCompleted,
		},
		Verdicts: models.VerdictMap{3: models.VerdictCorrect},
		Correct:  true,
	}, nil)

	w := perform(router, http.MethodPost, "/api/v1/sessions/s-1/questions/7/submit", map[string]interface{}{
		"answers": map[string]interface{}{"3": "Paris"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	progress := decode(t, w)["progress"].(map[string]interface{})
	assert.Equal(t, "completed", progress["state"])
	assert.Equal(t, float64(5), progress["score"])
	assert.Equal(t, "s-1", progress["session_id"])
}

func TestSessionSummaryAndExport(t *testing.T) {
	router, provider := setupRouter(nil)
	provider.session.On("Summary", mock.Anything, uint(3), "s-1").Return(&models.SessionSummary{
		QuizID: 3, SessionID: "s-1", QuestionCount: 2, EarnedScore: 5, PossibleScore: 8,
	}, nil)
	provider.export.On("ExportSessionResults", mock.Anything, uint(3), "s-1").Return([]byte("xlsx-bytes"), nil)

	w := perform(router, http.MethodGet, "/api/v1/sessions/s-1/quizzes/3/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(8), decode(t, w)["possible_score"])

	w = perform(router, http.MethodGet, "/api/v1/sessions/s-1/quizzes/3/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "quiz-3-session-s-1.xlsx")
	assert.Equal(t, "xlsx-bytes", w.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	logger := utils.NewNopLogger()
	auth := AuthMiddleware(fakeAuthenticator{"good-token": {ID: "u-1", Name: "ada"}}, logger)
	router, provider := setupRouter(auth)

	provider.question.On("Delete", mock.Anything, uint(7), "u-1").Return(nil)

	w := perform(router, http.MethodDelete, "/api/v1/questions/7", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(router, http.MethodDelete, "/api/v1/questions/7", nil, "Authorization", "Bearer forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(router, http.MethodDelete, "/api/v1/questions/7", nil, "Authorization", "Bearer good-token")
	assert.Equal(t, http.StatusNoContent, w.Code)
	provider.question.AssertExpectations(t)

	w = perform(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code, "health stays public")
}
