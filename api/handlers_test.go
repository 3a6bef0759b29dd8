package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/healthinsights/health-insights-backend/dto"
	"github.com/healthinsights/health-insights-backend/infra"
	"github.com/healthinsights/health-insights-backend/mocks"
	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/repositories"
	"github.com/healthinsights/health-insights-backend/usecases"
)

type HandlersTestSuite struct {
	suite.Suite
	redis   *miniredis.Miniredis
	client  *repositories.RedisClient
	llm     *mocks.LlmRepository
	prompts *mocks.PromptRepository
	router  *gin.Engine
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.redis = miniredis.RunT(suite.T())

	client, err := repositories.NewRedisClient(infra.RedisConfig{Address: suite.redis.Addr()})
	suite.Require().NoError(err)
	suite.client = client
	suite.T().Cleanup(func() { _ = client.Close() })

	suite.llm = new(mocks.LlmRepository)
	suite.prompts = new(mocks.PromptRepository)
	suite.prompts.On("GetPrompt", mock.Anything).Return(models.PromptConfig{Model: "gpt-4o-mini"}, nil)

	uc, err := usecases.NewUsecases(
		repositories.NewRepositories(client, suite.prompts, suite.llm, nil),
		usecases.WorkflowConfig{
			SessionTtl:      30 * time.Minute,
			LockTtl:         time.Minute,
			MaxUploadSizeMb: 1,
			Location:        time.UTC,
		},
	)
	suite.Require().NoError(err)

	conf := Configuration{
		Env:                "test",
		AppName:            "health-insights-test",
		Host:               "127.0.0.1",
		Port:               "8000",
		RequestTimeout:     10 * time.Second,
		MaxUploadSizeMb:    1,
		RateLimitPerMinute: 0,
		EnablePrometheus:   true,
	}
	suite.router = InitRouterMiddlewares(context.Background(), conf, infra.NoopTelemetry())
	_, err = NewServer(suite.router, conf, *uc)
	suite.Require().NoError(err)
}

func (suite *HandlersTestSuite) expectHealthAnswer(answer string) {
	suite.llm.On("Complete", mock.Anything, mock.MatchedBy(func(r models.LlmRequest) bool {
		return r.Prompt == models.PromptOrchestratorClassification
	})).Return("HEALTH", nil)
	suite.llm.On("Complete", mock.Anything, mock.MatchedBy(func(r models.LlmRequest) bool {
		return r.Prompt == models.PromptQna
	})).Return(answer, nil)
}

type formFile struct {
	name    string
	content []byte
}

func chatRequest(sessionId, message string, file *formFile) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if message != "" {
		_ = writer.WriteField("message", message)
	}
	if file != nil {
		part, _ := writer.CreateFormFile("file", file.name)
		_, _ = part.Write(file.content)
	}
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if sessionId != "" {
		req.Header.Set(dto.SessionIdHeader, sessionId)
	}
	return req
}

func (suite *HandlersTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.serve(httptest.NewRequest(http.MethodGet, "/health", nil))

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"status": "ok", "service": "Health Insights AI"}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestLiveness() {
	w := suite.serve(httptest.NewRequest(http.MethodGet, "/liveness", nil))
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"status": "ok"}`, w.Body.String())

	suite.redis.SetError("ERR simulated outage")
	w = suite.serve(httptest.NewRequest(http.MethodGet, "/liveness", nil))
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *HandlersTestSuite) TestChat_MissingInput() {
	w := suite.serve(chatRequest("", "", nil))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.JSONEq(`{"detail": "Must provide either a message or a file"}`, w.Body.String())
	suite.Empty(w.Header().Get(dto.SessionIdHeader))
}

func (suite *HandlersTestSuite) TestChat_NotMultipart() {
	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	w := suite.serve(req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.JSONEq(`{"detail": "Must provide either a message or a file"}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestChat_InvalidFile() {
	w := suite.serve(chatRequest("", "", &formFile{name: "notes.txt", content: []byte("hello")}))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.JSONEq(`{"detail": "Invalid file type. Allowed types: .pdf"}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestChat_BodyTooLarge() {
	content := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), 3*1024*1024)...)
	w := suite.serve(chatRequest("", "", &formFile{name: "big.pdf", content: content}))

	suite.Equal(http.StatusRequestEntityTooLarge, w.Code)
}

func (suite *HandlersTestSuite) TestChat_SessionRoundTrip() {
	suite.expectHealthAnswer("Drink water.")

	w := suite.serve(chatRequest("", "I feel thirsty all the time", nil))
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"message": "Drink water.", "has_active_analysis": false}`, w.Body.String())
	sessionId := w.Header().Get(dto.SessionIdHeader)
	suite.Regexp(`^sess_[0-9a-f]{32}$`, sessionId)

	w = suite.serve(chatRequest(sessionId, "Is that normal?", nil))
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(sessionId, w.Header().Get(dto.SessionIdHeader))

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.Header.Set(dto.SessionIdHeader, sessionId)
	w = suite.serve(req)
	suite.Require().Equal(http.StatusOK, w.Code)

	var session dto.SessionDto
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &session))
	suite.Equal(sessionId, session.SessionId)
	suite.Equal(2, session.MessageCount)
	suite.Equal(0, session.UploadCount)
	suite.Require().Len(session.ConversationHistory, 2)
	suite.Equal("Is that normal?", session.ConversationHistory[1].InputTextSnippet)
	suite.Equal("Drink water.", session.ConversationHistory[1].ResponseSnippet)
}

func (suite *HandlersTestSuite) TestChat_UnknownSessionGetsANewOne() {
	suite.expectHealthAnswer("Hello.")

	w := suite.serve(chatRequest("sess_ffffffffffffffffffffffffffffffff", "hello", nil))

	suite.Require().Equal(http.StatusOK, w.Code)
	sessionId := w.Header().Get(dto.SessionIdHeader)
	suite.Regexp(`^sess_[0-9a-f]{32}$`, sessionId)
	suite.NotEqual("sess_ffffffffffffffffffffffffffffffff", sessionId)
}

func (suite *HandlersTestSuite) TestSession_MissingHeader() {
	w := suite.serve(httptest.NewRequest(http.MethodGet, "/session", nil))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.JSONEq(`{"detail": "Missing X-Session-ID header"}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestSession_Delete() {
	suite.expectHealthAnswer("Hello.")
	w := suite.serve(chatRequest("", "hello", nil))
	sessionId := w.Header().Get(dto.SessionIdHeader)

	req := httptest.NewRequest(http.MethodDelete, "/session", nil)
	req.Header.Set(dto.SessionIdHeader, sessionId)
	w = suite.serve(req)
	suite.Equal(http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/session", nil)
	req.Header.Set(dto.SessionIdHeader, sessionId)
	w = suite.serve(req)
	suite.Equal(http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/session", nil)
	req.Header.Set(dto.SessionIdHeader, sessionId)
	w = suite.serve(req)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestDocs() {
	w := suite.serve(httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	suite.Require().Equal(http.StatusOK, w.Code)

	var doc map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &doc))
	paths, ok := doc["paths"].(map[string]any)
	suite.Require().True(ok)
	suite.Contains(paths, "/chat")
	suite.Contains(paths, "/session")

	w = suite.serve(httptest.NewRequest(http.MethodGet, "/docs", nil))
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `url: "/openapi.json"`)
}

func (suite *HandlersTestSuite) TestMetrics() {
	w := suite.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	suite.Equal(http.StatusOK, w.Code)
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
