package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-academics/internal/auth"
)

func studentIdentity() auth.Identity {
	sid, entry := int64(4), "2023-01-15"
	return auth.Identity{AccountID: 1, Role: auth.RoleStudent, StudentID: &sid, Name: "Ada", Email: "ada@uni.edu", EntryDate: &entry}
}

func TestClientAsk(t *testing.T) {
	var got map[string]any
	agent := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ask", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "You have 3 classes today."})
	}))
	defer agent.Close()

	answer, err := NewClient(agent.URL+"/", time.Second).Ask(context.Background(), "what's on today?", studentIdentity())
	require.NoError(t, err)
	assert.Equal(t, "You have 3 classes today.", answer)

	assert.Equal(t, "what's on today?", got["query"])
	who := got["user_identity"].(map[string]any)
	assert.EqualValues(t, 1, who["userId"])
	assert.EqualValues(t, 4, who["studentId"])
	assert.Nil(t, who["professorId"])
	assert.Equal(t, "2023-01-15", who["entryDate"])
}

func TestClientUpstreamFailure(t *testing.T) {
	agent := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusBadGateway)
	}))
	defer agent.Close()

	_, err := NewClient(agent.URL, time.Second).Ask(context.Background(), "hi", studentIdentity())
	assert.ErrorContains(t, err, "status 502")
}

func TestClientNotConfigured(t *testing.T) {
	_, err := NewClient("", 0).Ask(context.Background(), "hi", studentIdentity())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

type stubAgent struct {
	answer string
	err    error
	who    auth.Identity
}

func (s *stubAgent) Ask(_ context.Context, _ string, who auth.Identity) (string, error) {
	s.who = who
	return s.answer, s.err
}

func post(h http.HandlerFunc, body string, c *auth.Claims) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	if c != nil {
		req = req.WithContext(auth.WithClaims(req.Context(), c))
	}
	res := httptest.NewRecorder()
	h(res, req)
	return res
}

func TestHandlerForwardsIdentity(t *testing.T) {
	agent := &stubAgent{answer: "Hello Ada"}
	h := NewHandler(agent, zap.NewNop().Sugar())

	res := post(h.Post, `{"message":"hello"}`, &auth.Claims{Identity: studentIdentity()})
	require.Equal(t, http.StatusOK, res.Code)
	var reply Reply
	require.NoError(t, json.NewDecoder(res.Body).Decode(&reply))
	assert.Equal(t, "Hello Ada", reply.Reply)
	assert.Equal(t, "ada@uni.edu", agent.who.Email)
}

func TestHandlerRejects(t *testing.T) {
	h := NewHandler(&stubAgent{err: ErrNotConfigured}, zap.NewNop().Sugar())

	assert.Equal(t, http.StatusUnauthorized, post(h.Post, `{"message":"hello"}`, nil).Code)
	assert.Equal(t, http.StatusBadRequest, post(h.Post, `{"message":"  "}`, &auth.Claims{Identity: studentIdentity()}).Code)
	assert.Equal(t, http.StatusInternalServerError, post(h.Post, `{"message":"hello"}`, &auth.Claims{Identity: studentIdentity()}).Code)
}
