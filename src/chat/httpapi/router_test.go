package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elee1766/taskchat/src/apperr"
	"github.com/elee1766/taskchat/src/chat"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeChat struct {
	lastUser   string
	lastLimit  int
	lastOffset int
	sendErr    error
	deleted    []string
}

func (f *fakeChat) SendMessage(ctx context.Context, userID, text, conversationID string) (*chat.Reply, error) {
	f.lastUser = userID
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	if conversationID == "" {
		conversationID = "conv-1"
	}
	return &chat.Reply{ConversationID: conversationID, Response: "echo: " + text}, nil
}

func (f *fakeChat) ListConversations(ctx context.Context, userID string, limit, offset int) ([]chat.ConversationView, error) {
	f.lastUser, f.lastLimit, f.lastOffset = userID, limit, offset
	return []chat.ConversationView{{ID: "conv-1", Title: "hello", MessageCount: 2}}, nil
}

func (f *fakeChat) GetConversation(ctx context.Context, userID, conversationID string) (*chat.Transcript, error) {
	if userID != "alice" || conversationID != "conv-1" {
		return nil, apperr.Ownership("test", "conversation not found")
	}
	return &chat.Transcript{Conversation: chat.ConversationView{ID: conversationID}}, nil
}

func (f *fakeChat) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	if conversationID != "conv-1" {
		return apperr.NotFound("test", "conversation not found")
	}
	f.deleted = append(f.deleted, conversationID)
	return nil
}

func newTestRouter(fc *fakeChat) *gin.Engine {
	return NewRouter(Config{Chat: fc, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func do(r http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(DefaultUserHeader, user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorEnvelope struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Retryable bool   `json:"retryable"`
	} `json:"error"`
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHealthz(t *testing.T) {
	w := do(newTestRouter(&fakeChat{}), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	var report HealthReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.NotEmpty(t, report.Uptime)
	if report.Process != nil {
		assert.Positive(t, report.Process.Goroutines)
	}
}

func TestMissingUserHeader(t *testing.T) {
	w := do(newTestRouter(&fakeChat{}), http.MethodPost, "/api/chat", "", `{"message":"hi"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", decodeErr(t, w).Error.Code)
}

func TestPostChat(t *testing.T) {
	fc := &fakeChat{}
	r := newTestRouter(fc)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"new conversation", `{"message":"hi"}`, http.StatusOK, ""},
		{"existing conversation", `{"message":"hi","conversation_id":"conv-9"}`, http.StatusOK, ""},
		{"missing message", `{}`, http.StatusBadRequest, "validation"},
		{"not json", `hello`, http.StatusBadRequest, "validation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/chat", "alice", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeErr(t, w).Error.Code)
				return
			}
			var reply chat.Reply
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
			assert.NotEmpty(t, reply.ConversationID)
			assert.Equal(t, "echo: hi", reply.Response)
			assert.Equal(t, "alice", fc.lastUser)
		})
	}
}

func TestPostChatErrors(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantCode      string
		wantRetryable bool
	}{
		{"upstream", apperr.Upstream("test", errors.New("dial tcp: refused")), http.StatusBadGateway, "upstream_failure", true},
		{"ownership hidden", apperr.Ownership("test", "conversation not found"), http.StatusNotFound, "not_found", false},
		{"validation", apperr.Validation("test", "message is required"), http.StatusBadRequest, "validation", false},
		{"internal hidden", errors.New("database is locked"), http.StatusInternalServerError, "internal", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newTestRouter(&fakeChat{sendErr: tt.err}), http.MethodPost, "/api/chat", "alice", `{"message":"hi"}`)
			require.Equal(t, tt.wantStatus, w.Code)
			env := decodeErr(t, w)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.Equal(t, tt.wantRetryable, env.Error.Retryable)
			assert.NotContains(t, w.Body.String(), "database is locked")
			assert.NotContains(t, w.Body.String(), "refused")
		})
	}
}

func TestConversationRoutes(t *testing.T) {
	fc := &fakeChat{}
	r := newTestRouter(fc)

	w := do(r, http.MethodGet, "/api/conversations?limit=5&offset=10", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, fc.lastLimit)
	assert.Equal(t, 10, fc.lastOffset)
	assert.Contains(t, w.Body.String(), `"conversations"`)

	w = do(r, http.MethodGet, "/api/conversations?limit=abc", "alice", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/conversations/conv-1", "alice", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/conversations/conv-1", "bob", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeErr(t, w).Error.Code)

	w = do(r, http.MethodDelete, "/api/conversations/conv-1", "alice", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"conv-1"}, fc.deleted)

	w = do(r, http.MethodDelete, "/api/conversations/nope", "alice", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	w := do(newTestRouter(&fakeChat{}), http.MethodGet, "/nope", "alice", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
