package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-optimizer/internal/session"
	"github.com/jonathan/ats-optimizer/internal/types"
)

const testResumeText = "Experienced software engineer with a track record of delivering projects on time."

func newTestServer(t *testing.T) *Server {
	t.Helper()
	tokens, err := NewTokenService("test-secret", 1)
	require.NoError(t, err)
	return newServer(session.NewMemoryStore(), nil, nil, tokens)
}

func createPassRequest() CreateSessionRequest {
	return CreateSessionRequest{
		ResumeText: testResumeText,
		Pass: &PassPayload{
			BaseScore: 65,
			Suggestions: []types.RawSuggestion{
				{Type: "skills", Text: "Add a skills section", Impact: "This is a critical improvement"},
			},
			Keywords: []string{"Python"},
		},
	}
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, s *Server) CreateSessionResponse {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/sessions", "", createPassRequest())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp CreateSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Session)
	require.NotEmpty(t, resp.Token)
	return resp
}

func TestHandleCreateSession_WithProvidedPass(t *testing.T) {
	s := newTestServer(t)
	resp := createSession(t, s)

	assert.Equal(t, 65, resp.Session.Breakdown.Base)
	assert.Equal(t, 65, resp.Session.Breakdown.Total)
	assert.Equal(t, 69, resp.Session.Breakdown.Potential)
	require.Len(t, resp.Session.Suggestions, 1)
	assert.False(t, resp.Session.Suggestions[0].IsApplied)
}

func TestHandleCreateSession_InvalidBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCreateSession_MissingResume(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/sessions", "", CreateSessionRequest{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCreateSession_NoPassNoProvider(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/sessions", "", CreateSessionRequest{ResumeText: testResumeText})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no analysis provider")
}

func TestHandleToggleSuggestion_RoundTrip(t *testing.T) {
	s := newTestServer(t)
	resp := createSession(t, s)
	path := fmt.Sprintf("/sessions/%s/suggestions/0/toggle", resp.Session.ID)

	rec := doJSON(t, s, http.MethodPost, path, resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var toggled ToggleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toggled))
	assert.Equal(t, 66, toggled.Breakdown.Total)
	assert.Equal(t, 1, toggled.Breakdown.SuggestionPoints)
	require.NotNil(t, toggled.Suggestion)
	assert.True(t, toggled.Suggestion.IsApplied)

	// Toggling again un-applies and restores the base total.
	rec = doJSON(t, s, http.MethodPost, path, resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toggled))
	assert.Equal(t, 65, toggled.Breakdown.Total)
	assert.False(t, toggled.Suggestion.IsApplied)
}

func TestHandleToggleKeyword(t *testing.T) {
	s := newTestServer(t)
	resp := createSession(t, s)
	path := fmt.Sprintf("/sessions/%s/keywords/0/toggle", resp.Session.ID)

	rec := doJSON(t, s, http.MethodPost, path, resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var toggled ToggleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toggled))
	require.NotNil(t, toggled.Keyword)
	assert.True(t, toggled.Keyword.IsApplied)
	assert.Equal(t, "technical", toggled.Keyword.Category)
	assert.InDelta(t, 1.8, toggled.Keyword.PointImpact, 1e-9)
}

func TestHandleToggleSuggestion_InvalidIndex(t *testing.T) {
	s := newTestServer(t)
	resp := createSession(t, s)

	path := fmt.Sprintf("/sessions/%s/suggestions/5/toggle", resp.Session.ID)
	rec := doJSON(t, s, http.MethodPost, path, resp.Token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	path = fmt.Sprintf("/sessions/%s/suggestions/abc/toggle", resp.Session.ID)
	rec = doJSON(t, s, http.MethodPost, path, resp.Token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Failed toggles leave the stored state untouched.
	rec = doJSON(t, s, http.MethodGet, fmt.Sprintf("/sessions/%s/score", resp.Session.ID), resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var breakdown types.ScoreBreakdown
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &breakdown))
	assert.Equal(t, 65, breakdown.Total)
}

func TestAuthorization(t *testing.T) {
	s := newTestServer(t)
	resp := createSession(t, s)
	path := fmt.Sprintf("/sessions/%s/score", resp.Session.ID)

	t.Run("missing token", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, path, "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token for another session", func(t *testing.T) {
		other, err := s.tokens.Issue(uuid.New())
		require.NoError(t, err)
		rec := doJSON(t, s, http.MethodGet, path, other, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong signing secret", func(t *testing.T) {
		forged, err := NewTokenService("other-secret", 1)
		require.NoError(t, err)
		token, err := forged.Issue(resp.Session.ID)
		require.NoError(t, err)
		rec := doJSON(t, s, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandleGetSession_NotFound(t *testing.T) {
	s := newTestServer(t)
	id := uuid.New()
	token, err := s.tokens.Issue(id)
	require.NoError(t, err)

	rec := doJSON(t, s, http.MethodGet, "/sessions/"+id.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleResetAndApplyAll(t *testing.T) {
	s := newTestServer(t)
	resp := createSession(t, s)
	base := resp.Session.ID.String()

	rec := doJSON(t, s, http.MethodPost, "/sessions/"+base+"/apply-all", resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var breakdown types.ScoreBreakdown
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &breakdown))
	assert.Equal(t, 67, breakdown.Total)
	assert.Equal(t, breakdown.Total, breakdown.Potential)

	rec = doJSON(t, s, http.MethodPost, "/sessions/"+base+"/reset", resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &breakdown))
	assert.Equal(t, 65, breakdown.Total)
	assert.Equal(t, 69, breakdown.Potential)
}

func TestHandleUpdateContent(t *testing.T) {
	s := newTestServer(t)
	resp := createSession(t, s)
	togglePath := fmt.Sprintf("/sessions/%s/keywords/0/toggle", resp.Session.ID)

	rec := doJSON(t, s, http.MethodPost, togglePath, resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Adding the keyword to the resume itself lowers its remaining value.
	body := UpdateContentRequest{ResumeText: testResumeText + " Python."}
	rec = doJSON(t, s, http.MethodPut, fmt.Sprintf("/sessions/%s/content", resp.Session.ID), resp.Token, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sess, err := s.store.Get(context.Background(), resp.Session.ID)
	require.NoError(t, err)
	assert.True(t, sess.Keywords[0].IsApplied)
	assert.InDelta(t, 1.2, sess.Keywords[0].PointImpact, 1e-9)
	assert.Contains(t, sess.Content.Text, "Python")
}

func TestHandleDeleteSession(t *testing.T) {
	s := newTestServer(t)
	resp := createSession(t, s)
	path := "/sessions/" + resp.Session.ID.String()

	rec := doJSON(t, s, http.MethodDelete, path, resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, path, resp.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
