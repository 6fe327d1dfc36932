package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/ats-optimizer/internal/ingestion"
	"github.com/jonathan/ats-optimizer/internal/llm"
	"github.com/jonathan/ats-optimizer/internal/session"
	"github.com/jonathan/ats-optimizer/internal/types"
)

// ---------------------------------------------------------------------
// Session Handlers
// ---------------------------------------------------------------------

// PassPayload is a caller-supplied optimization pass, used instead of the
// LLM when the client already has analysis results.
type PassPayload struct {
	BaseScore   int                   `json:"base_score" validate:"min=0,max=100"`
	Suggestions []types.RawSuggestion `json:"suggestions"`
	Keywords    []string              `json:"keywords"`
}

type CreateSessionRequest struct {
	ResumeText string       `json:"resume_text" validate:"required_without=ResumeHTML"`
	ResumeHTML string       `json:"resume_html"`
	Pass       *PassPayload `json:"pass"`
}

// CreateSessionResponse returns the new session plus the bearer token that
// scopes subsequent requests to it.
type CreateSessionResponse struct {
	Session *session.Session `json:"session"`
	Token   string           `json:"token"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	content, err := buildContent(req.ResumeText, req.ResumeHTML)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var pass types.OptimizationPass
	switch {
	case req.Pass != nil:
		pass = session.FromRaw(req.Pass.BaseScore, req.Pass.Suggestions, req.Pass.Keywords)
	case s.llmClient != nil:
		baseScore, suggestions, keywords, err := llm.GenerateRawPass(r.Context(), s.llmClient, content.Text)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, "Analysis failed: "+err.Error())
			return
		}
		pass = session.FromRaw(baseScore, suggestions, keywords)
	default:
		s.errorResponse(w, http.StatusBadRequest, "No pass provided and no analysis provider configured")
		return
	}

	sess := session.New(pass, content)

	if err := s.store.Save(r.Context(), sess); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save session: "+err.Error())
		return
	}
	s.persistPass(r.Context(), sess)

	token, err := s.tokens.Issue(sess.ID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to issue token: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, CreateSessionResponse{Session: sess, Token: token})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.authorizedSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.authorizedSession(w, r)
	if !ok {
		return
	}

	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete session: "+err.Error())
		return
	}
	if s.db != nil {
		if err := s.db.DeletePass(r.Context(), sess.ID); err != nil {
			log.Printf("Error deleting pass %s: %v", sess.ID, err)
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.authorizedSession(w, r)
	if !ok {
		return
	}
	if s.db == nil {
		s.errorResponse(w, http.StatusNotFound, "Score history requires database persistence")
		return
	}

	snapshots, err := s.db.ListScoreHistory(r.Context(), sess.ID, 0)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.authorizedSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Breakdown)
}

// ToggleResponse carries the recomputed breakdown and the item that changed.
type ToggleResponse struct {
	Breakdown  types.ScoreBreakdown `json:"breakdown"`
	Suggestion *types.Suggestion    `json:"suggestion,omitempty"`
	Keyword    *types.Keyword       `json:"keyword,omitempty"`
}

func (s *Server) handleToggleSuggestion(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.authorizedSession(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid suggestion index")
		return
	}

	breakdown, err := sess.ApplySuggestion(index)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.store.Save(r.Context(), sess); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save session: "+err.Error())
		return
	}
	s.persistAppliedState(r.Context(), sess)

	s.jsonResponse(w, http.StatusOK, ToggleResponse{Breakdown: breakdown, Suggestion: sess.Suggestions[index]})
}

func (s *Server) handleToggleKeyword(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.authorizedSession(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid keyword index")
		return
	}

	breakdown, err := sess.ApplyKeyword(index)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.store.Save(r.Context(), sess); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save session: "+err.Error())
		return
	}
	s.persistAppliedState(r.Context(), sess)

	s.jsonResponse(w, http.StatusOK, ToggleResponse{Breakdown: breakdown, Keyword: sess.Keywords[index]})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.authorizedSession(w, r)
	if !ok {
		return
	}

	breakdown := sess.ResetAll()

	if err := s.store.Save(r.Context(), sess); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save session: "+err.Error())
		return
	}
	s.persistAppliedState(r.Context(), sess)

	s.jsonResponse(w, http.StatusOK, breakdown)
}

func (s *Server) handleApplyAll(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.authorizedSession(w, r)
	if !ok {
		return
	}

	breakdown := sess.ApplyAll()

	if err := s.store.Save(r.Context(), sess); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save session: "+err.Error())
		return
	}
	s.persistAppliedState(r.Context(), sess)

	s.jsonResponse(w, http.StatusOK, breakdown)
}

type UpdateContentRequest struct {
	ResumeText string `json:"resume_text" validate:"required_without=ResumeHTML"`
	ResumeHTML string `json:"resume_html"`
}

func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.authorizedSession(w, r)
	if !ok {
		return
	}

	var req UpdateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	content, err := buildContent(req.ResumeText, req.ResumeHTML)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	breakdown := sess.UpdateResumeContent(content)

	if err := s.store.Save(r.Context(), sess); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save session: "+err.Error())
		return
	}
	s.persistAppliedState(r.Context(), sess)

	s.jsonResponse(w, http.StatusOK, breakdown)
}

// ---------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------

// authorizedSession resolves the {id} path value, checks the bearer token
// against it, and loads the session. On failure it writes the error response
// and returns ok=false.
func (s *Server) authorizedSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID")
		return nil, false
	}

	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		s.errorResponse(w, http.StatusUnauthorized, "Missing bearer token")
		return nil, false
	}
	claims, err := s.tokens.Verify(strings.TrimPrefix(auth, prefix))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return nil, false
	}
	if claims.SessionID != id {
		err := &ErrTokenMismatch{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return nil, false
	}

	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		var notFound *session.ErrNotFound
		if errors.As(err, &notFound) && s.db != nil {
			sess, err = s.rebuildSession(r.Context(), id)
		}
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return nil, false
		}
	}
	return sess, true
}

// rebuildSession restores an expired live session from the persisted pass,
// keeping the stored applied flags, and puts it back in the live store.
func (s *Server) rebuildSession(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	row, err := s.db.GetPass(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, &session.ErrNotFound{ID: id.String()}
	}

	content := ingestion.FromPlainText(row.ResumeText)
	sess := session.Restore(id, row.BaseScore, row.Suggestions, row.Keywords, content)
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	log.Printf("Rebuilt session %s from the persisted pass", id)
	return sess, nil
}

// buildContent turns the caller's resume payload into section-addressable
// content, preferring HTML when both are supplied.
func buildContent(resumeText, resumeHTML string) (types.ResumeContent, error) {
	if resumeHTML != "" {
		return ingestion.ExtractFromHTML(resumeHTML)
	}
	return ingestion.FromPlainText(ingestion.CleanText(resumeText)), nil
}

// persistPass writes the full pass to Postgres. Persistence failures are
// logged, not surfaced; the live session in the store is authoritative.
func (s *Server) persistPass(ctx context.Context, sess *session.Session) {
	if s.db == nil {
		return
	}
	pass := types.OptimizationPass{
		BaseScore:   sess.BaseScore,
		Suggestions: sess.Suggestions,
		Keywords:    sess.Keywords,
	}
	if err := s.db.SavePass(ctx, sess.ID, pass, sess.Content.Text); err != nil {
		log.Printf("Error persisting pass %s: %v", sess.ID, err)
		return
	}
	if err := s.db.SaveScoreSnapshot(ctx, sess.ID, sess.Breakdown); err != nil {
		log.Printf("Error persisting score snapshot for %s: %v", sess.ID, err)
	}
}

// persistAppliedState records the toggle flags and the resulting breakdown.
func (s *Server) persistAppliedState(ctx context.Context, sess *session.Session) {
	if s.db == nil {
		return
	}
	if err := s.db.SaveAppliedState(ctx, sess.ID, sess.Suggestions, sess.Keywords); err != nil {
		log.Printf("Error persisting applied state for %s: %v", sess.ID, err)
		return
	}
	if err := s.db.SaveScoreSnapshot(ctx, sess.ID, sess.Breakdown); err != nil {
		log.Printf("Error persisting score snapshot for %s: %v", sess.ID, err)
	}
}
