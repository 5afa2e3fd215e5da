package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/campus-chat/internal/chatbot/biz"
	"github.com/kart-io/campus-chat/internal/chatbot/handler"
	"github.com/kart-io/campus-chat/internal/chatbot/router"
	"github.com/kart-io/campus-chat/pkg/llm"
	"github.com/kart-io/campus-chat/pkg/middleware"
)

// fakeService is a canned biz.Service for handler tests.
type fakeService struct {
	chatResult *biz.ChatResult
	chatErr    error
	fragments  []string
	streamErr  error
	models     []string
	modelsErr  error
	ragEnabled bool
	docCount   int
	historyLen int

	clearedSession string
	gotSession     string
	gotMessage     string
}

func (f *fakeService) Chat(_ context.Context, sessionID, message string) (*biz.ChatResult, error) {
	f.gotSession, f.gotMessage = sessionID, message
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return f.chatResult, nil
}

func (f *fakeService) ChatStream(_ context.Context, sessionID, message string, h llm.StreamHandler) error {
	f.gotSession, f.gotMessage = sessionID, message
	for _, frag := range f.fragments {
		if err := h(frag); err != nil {
			return err
		}
	}
	return f.streamErr
}

func (f *fakeService) ClearHistory(sessionID string) { f.clearedSession = sessionID }
func (f *fakeService) HistoryLen(string) int         { return f.historyLen }
func (f *fakeService) RAGAvailable() bool            { return f.ragEnabled }
func (f *fakeService) DocumentCount() int            { return f.docCount }
func (f *fakeService) Metrics() map[string]interface{} {
	return map[string]interface{}{"chats": map[string]interface{}{"total": uint64(0)}}
}

func (f *fakeService) ListModels(context.Context) ([]string, error) {
	if f.modelsErr != nil {
		return nil, f.modelsErr
	}
	return f.models, nil
}

var _ biz.Service = (*fakeService)(nil)

func newTestRouter(svc biz.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return router.New(&router.Config{
		ChatHandler:   handler.NewChatHandler(svc),
		HealthHandler: handler.NewHealthHandler(svc, "gemma2:2b", "mxbai-embed-large"),
		CORS:          middleware.DefaultCORSConfig,
	})
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestChatSimple(t *testing.T) {
	svc := &fakeService{
		chatResult: &biz.ChatResult{Response: "hello back", UsedRAG: true, RAGAvailable: true},
	}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/chat/simple", `{"message":"What is SREC?","session_id":"s1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hello back", resp["response"])
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, true, resp["used_rag"])
	assert.Equal(t, true, resp["rag_available"])

	assert.Equal(t, "s1", svc.gotSession)
	assert.Equal(t, "What is SREC?", svc.gotMessage)
}

func TestChatSimpleMissingMessage(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doJSON(t, engine, http.MethodPost, "/chat/simple", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Message is required")
}

func TestChatSimpleBlankMessage(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doJSON(t, engine, http.MethodPost, "/chat/simple", `{"message":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Message cannot be empty")
}

func TestChatSimpleError(t *testing.T) {
	engine := newTestRouter(&fakeService{chatErr: errors.New("model down")})

	w := doJSON(t, engine, http.MethodPost, "/chat/simple", `{"message":"hi"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.NotContains(t, resp["error"], "model down") // internal detail stays server-side
}

func parseFrames(t *testing.T, body string) []map[string]any {
	t.Helper()
	var frames []map[string]any
	for _, chunk := range strings.Split(body, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		require.True(t, strings.HasPrefix(chunk, "data: "), "chunk: %q", chunk)
		var frame map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(chunk, "data: ")), &frame))
		frames = append(frames, frame)
	}
	return frames
}

func TestChatStreaming(t *testing.T) {
	svc := &fakeService{fragments: []string{"Hel", "lo!"}}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/chat", `{"message":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no", w.Header().Get("X-Accel-Buffering"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))

	frames := parseFrames(t, w.Body.String())
	require.Len(t, frames, 3)
	assert.Equal(t, "Hel", frames[0]["content"])
	assert.Equal(t, false, frames[0]["done"])
	assert.Equal(t, "lo!", frames[1]["content"])
	assert.Equal(t, true, frames[2]["done"])
	assert.NotContains(t, frames[2], "error")
}

func TestChatStreamingError(t *testing.T) {
	svc := &fakeService{fragments: []string{"partial"}, streamErr: errors.New("stream broke")}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/chat", `{"message":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)

	frames := parseFrames(t, w.Body.String())
	require.Len(t, frames, 2)
	assert.Equal(t, "partial", frames[0]["content"])
	last := frames[len(frames)-1]
	assert.Equal(t, true, last["done"])
	assert.Contains(t, last["error"], "Sorry, I encountered an error")
}

func TestChatMissingMessage(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doJSON(t, engine, http.MethodPost, "/chat", `{"other":"field"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Message is required")
}

func TestClearHistory(t *testing.T) {
	svc := &fakeService{}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/chat/clear", `{"session_id":"s9"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Conversation history cleared")
	assert.Equal(t, "s9", svc.clearedSession)
}

func TestClearHistoryEmptyBody(t *testing.T) {
	svc := &fakeService{}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/chat/clear", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", svc.clearedSession)
}

func TestHealth(t *testing.T) {
	svc := &fakeService{models: []string{"gemma2:2b", "mxbai-embed-large"}, ragEnabled: true}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "gemma2:2b", resp["model"])
	assert.Equal(t, "mxbai-embed-large", resp["embed_model"])
	assert.Equal(t, float64(2), resp["models_available"])
	assert.Equal(t, "enabled", resp["rag_system"])
}

func TestHealthProviderDown(t *testing.T) {
	svc := &fakeService{modelsErr: errors.New("connection refused")}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodGet, "/", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "unhealthy")
}

func TestAPIHealth(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doJSON(t, engine, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotZero(t, resp["timestamp"])
}

func TestStatus(t *testing.T) {
	svc := &fakeService{
		models:     []string{"gemma2:2b"},
		ragEnabled: true,
		docCount:   42,
		historyLen: 6,
	}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp["status"])
	assert.Equal(t, true, resp["connected"])
	assert.Equal(t, float64(6), resp["conversation_length"])

	ragSystem, ok := resp["rag_system"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, ragSystem["enabled"])
	assert.Equal(t, float64(42), ragSystem["documents_indexed"])

	assert.NotNil(t, resp["metrics"])
}

func TestStatusProviderDown(t *testing.T) {
	svc := &fakeService{modelsErr: errors.New("connection refused")}
	engine := newTestRouter(svc)

	w := doJSON(t, engine, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["connected"])
}

func TestNotFound(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doJSON(t, engine, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Endpoint not found")
}

func TestRequestIDHeader(t *testing.T) {
	engine := newTestRouter(&fakeService{models: []string{}})

	w := doJSON(t, engine, http.MethodGet, "/api/health", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
