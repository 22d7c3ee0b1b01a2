package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/voter-api/internal/application/session"
	"github.com/voter-api/internal/domain"
	"github.com/voter-api/internal/transport/http/middleware"
)

// SessionHandler serves voting-session lifecycle endpoints.
type SessionHandler struct {
	svc session.Service
}

func NewSessionHandler(svc session.Service) *SessionHandler { return &SessionHandler{svc: svc} }

// callerID returns the account id of the authenticated caller, or "".
func callerID(r *http.Request) string {
	if c, ok := middleware.ClaimsFromContext(r.Context()); ok {
		return c.UserID
	}
	return ""
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	sess, err := h.svc.Create(r.Context(), callerID(r), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionCreatedEnvelope{Message: "Session created", Code: sess.Code, Session: sess})
}

func (h *SessionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListMine(r.Context(), callerID(r))
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "code"), callerID(r)); err != nil {
		httpError(w, r, err)
		return
	}
	writeMessage(w, "Session deleted successfully")
}

func (h *SessionHandler) VerifyOwner(w http.ResponseWriter, r *http.Request) {
	owner, err := h.svc.IsOwner(r.Context(), chi.URLParam(r, "code"), callerID(r))
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OwnerEnvelope{IsOwner: owner})
}

func (h *SessionHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req domain.SessionSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	sess, err := h.svc.UpdateSettings(r.Context(), chi.URLParam(r, "code"), callerID(r), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsEnvelope{Message: "Settings updated", PublicResults: sess.PublicResults})
}
