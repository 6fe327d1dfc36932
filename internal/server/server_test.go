package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-optimizer/internal/llm"
	"github.com/jonathan/ats-optimizer/internal/session"
)

// fakeLLM answers the analysis and keyword prompts with canned JSON.
type fakeLLM struct {
	err error
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if strings.Contains(prompt, "actionable suggestions") {
		return `{"base_score": 70, "suggestions": [{"type": "structure", "text": "Reorder sections", "impact": "An important fix for automated parsing"}]}`, nil
	}
	return `{"keywords": ["Kubernetes", "leadership"]}`, nil
}

func (f *fakeLLM) Close() error { return nil }

func newTestServerWithLLM(t *testing.T, client llm.Client) *Server {
	t.Helper()
	tokens, err := NewTokenService("test-secret", 1)
	require.NoError(t, err)
	return newServer(session.NewMemoryStore(), nil, client, tokens)
}

func TestHandleCreateSession_GeneratesPass(t *testing.T) {
	s := newTestServerWithLLM(t, &fakeLLM{})

	rec := doJSON(t, s, http.MethodPost, "/sessions", "", CreateSessionRequest{ResumeText: testResumeText})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp CreateSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 70, resp.Session.BaseScore)
	require.Len(t, resp.Session.Suggestions, 1)
	assert.Equal(t, "structure", resp.Session.Suggestions[0].Category)
	assert.Len(t, resp.Session.Keywords, 2)
	assert.NotEmpty(t, resp.Token)
}

func TestHandleCreateSession_ProviderFailure(t *testing.T) {
	s := newTestServerWithLLM(t, &fakeLLM{err: errors.New("quota exceeded")})

	rec := doJSON(t, s, http.MethodPost, "/sessions", "", CreateSessionRequest{ResumeText: testResumeText})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleCreateSession_FromHTML(t *testing.T) {
	s := newTestServer(t)

	req := createPassRequest()
	req.ResumeText = ""
	req.ResumeHTML = `<html><body><h2>Experience</h2><ul><li>Led a team of five</li></ul></body></html>`

	rec := doJSON(t, s, http.MethodPost, "/sessions", "", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp CreateSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Session.Content.Sections, "experience")
	assert.Contains(t, resp.Session.Content.Text, "Led a team of five")
}

func TestWithCORS_Options(t *testing.T) {
	s := newTestServer(t)
	handler := s.withCORS(s.routes())

	req := httptest.NewRequest(http.MethodOptions, "/sessions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
