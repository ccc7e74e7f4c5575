package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mathtutor-backend/internal/config"
	"mathtutor-backend/internal/models"
	"mathtutor-backend/internal/prompt"
)

type stubModelClient struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	captured [][]models.Turn
}

func (s *stubModelClient) GenerateReply(ctx context.Context, contents []models.Turn) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.captured = append(s.captured, contents)
	return s.reply, s.err
}

func testConfig() *config.Config {
	return &config.Config{ModelProvider: config.ProviderGemini, GeminiAPIKey: "test-key", GeminiModel: "gemini-test"}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func postTutor(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tutor", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

const singleTurnBody = `{"history": [{"role":"user","parts":[{"text":"什麼是對數？"}]}]}`

func TestTutorHandler_RejectsNonPost(t *testing.T) {
	methods := []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodHead, http.MethodOptions}

	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			client := &stubModelClient{reply: "unused"}
			h := NewTutorHandler(testConfig(), client, quietLogger())

			req := httptest.NewRequest(method, "/api/v1/tutor", strings.NewReader(singleTurnBody))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
			if method != http.MethodHead {
				assert.Equal(t, "Method Not Allowed", strings.TrimSpace(rr.Body.String()))
			}
			assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
			assert.Equal(t, 0, client.calls)
		})
	}
}

func TestTutorHandler_EmptyHistory(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"empty history", `{"history": []}`},
		{"null history", `{"history": null}`},
		{"invalid json", `{"history": [`},
		{"empty body", ``},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &stubModelClient{reply: "unused"}
			h := NewTutorHandler(testConfig(), client, quietLogger())

			rr := postTutor(t, h, tc.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, map[string]string{"error": "對話歷史不可為空"}, decodeBody(t, rr))
			assert.Equal(t, 0, client.calls)
		})
	}
}

func TestTutorHandler_MissingAPIKey(t *testing.T) {
	client := &stubModelClient{reply: "unused"}
	cfg := testConfig()
	cfg.GeminiAPIKey = ""
	h := NewTutorHandler(cfg, client, quietLogger())

	rr := postTutor(t, h, singleTurnBody)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, map[string]string{"error": "無法從 AI 模型獲取回覆"}, decodeBody(t, rr))
	assert.Equal(t, 0, client.calls)
}

func TestTutorHandler_MissingClient(t *testing.T) {
	h := NewTutorHandler(testConfig(), nil, quietLogger())

	rr := postTutor(t, h, singleTurnBody)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, map[string]string{"error": "無法從 AI 模型獲取回覆"}, decodeBody(t, rr))
}

func TestTutorHandler_BuildsInvocation(t *testing.T) {
	client := &stubModelClient{reply: "這是答案"}
	h := NewTutorHandler(testConfig(), client, quietLogger())

	rr := postTutor(t, h, singleTurnBody)
	require.Equal(t, http.StatusOK, rr.Code)

	require.Equal(t, 1, client.calls)
	contents := client.captured[0]
	require.Len(t, contents, 3)

	assert.Equal(t, models.RoleUser, contents[0].Role)
	assert.Equal(t, prompt.SystemPrompt, contents[0].Parts[0].Text)
	assert.Equal(t, models.RoleModel, contents[1].Role)
	assert.Equal(t, prompt.Acknowledgment, contents[1].Parts[0].Text)
	assert.Equal(t, models.TextTurn(models.RoleUser, "什麼是對數？"), contents[2])
}

func TestTutorHandler_PreservesHistoryOrder(t *testing.T) {
	client := &stubModelClient{reply: "好"}
	h := NewTutorHandler(testConfig(), client, quietLogger())

	body := `{"history": [
		{"role":"user","parts":[{"text":"第一句"}]},
		{"role":"model","parts":[{"text":"第二句"}]},
		{"role":"user","parts":[{"text":"第三句"},{"inlineData":{"mimeType":"image/png","data":"cG5n"}}]}
	]}`
	rr := postTutor(t, h, body)
	require.Equal(t, http.StatusOK, rr.Code)

	contents := client.captured[0]
	require.Len(t, contents, 5)
	assert.Equal(t, "第一句", contents[2].Parts[0].Text)
	assert.Equal(t, models.RoleModel, contents[3].Role)
	assert.Equal(t, "第三句", contents[4].Parts[0].Text)
	require.NotNil(t, contents[4].Parts[1].InlineData)
	assert.Equal(t, []byte("png"), contents[4].Parts[1].InlineData.Data)
}

func TestTutorHandler_Success(t *testing.T) {
	client := &stubModelClient{reply: "這是答案"}
	h := NewTutorHandler(testConfig(), client, quietLogger())

	rr := postTutor(t, h, singleTurnBody)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, map[string]string{"answer": "這是答案"}, decodeBody(t, rr))
}

func TestTutorHandler_UpstreamFailure(t *testing.T) {
	client := &stubModelClient{err: errors.New("upstream exploded: key=sk-secret-123")}
	h := NewTutorHandler(testConfig(), client, quietLogger())

	rr := postTutor(t, h, singleTurnBody)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, map[string]string{"error": "無法從 AI 模型獲取回覆"}, decodeBody(t, rr))
	assert.NotContains(t, rr.Body.String(), "upstream exploded")
	assert.NotContains(t, rr.Body.String(), "sk-secret-123")
	assert.Equal(t, 1, client.calls)
}

func TestTutorHandler_UpstreamFailureIsLogged(t *testing.T) {
	var buf strings.Builder
	log := logrus.New()
	log.SetOutput(&buf)

	client := &stubModelClient{err: errors.New("quota exceeded")}
	h := NewTutorHandler(testConfig(), client, log)

	postTutor(t, h, singleTurnBody)

	assert.Contains(t, buf.String(), "quota exceeded")
	assert.Contains(t, buf.String(), "level=error")
}

func TestTutorHandler_NoCaching(t *testing.T) {
	client := &stubModelClient{reply: "這是答案"}
	h := NewTutorHandler(testConfig(), client, quietLogger())

	first := postTutor(t, h, singleTurnBody)
	second := postTutor(t, h, singleTurnBody)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, first.Body.String(), second.Body.String())

	// each invocation gets its own slice
	client.captured[0][2].Role = "tampered"
	assert.Equal(t, models.RoleUser, client.captured[1][2].Role)
}
