package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/voter-api/internal/domain"
	"github.com/voter-api/internal/pkg/validate"
)

const maxBodyBytes = 1 << 20

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// SignupEnvelope answers POST /auth/signup.
type SignupEnvelope struct {
	Message              string `json:"message"`
	RequiresVerification bool   `json:"requiresVerification"`
}

// TokenEnvelope carries a freshly signed bearer token.
type TokenEnvelope struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// EmailEnvelope answers POST /auth/verify-reset-token.
type EmailEnvelope struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// IdentityEnvelope answers GET /auth/me.
type IdentityEnvelope struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// SessionCreatedEnvelope answers POST /session/create.
type SessionCreatedEnvelope struct {
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Session *domain.Session `json:"session"`
}

// OwnerEnvelope answers GET /session/{code}/verify-owner.
type OwnerEnvelope struct {
	IsOwner bool `json:"isOwner"`
}

// SettingsEnvelope answers PUT /session/{code}/settings/public.
type SettingsEnvelope struct {
	Message       string `json:"message"`
	PublicResults bool   `json:"publicResults"`
}

// CandidateEnvelope answers POST /session/{code}/candidate.
type CandidateEnvelope struct {
	Message   string            `json:"message"`
	Candidate *domain.Candidate `json:"candidate"`
}

// RoleEnvelope answers POST /register.
type RoleEnvelope struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}

// FullNameEnvelope answers GET /user-details.
type FullNameEnvelope struct {
	FullName string `json:"fullName"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: msg})
}

var sentinelStatus = []struct {
	err    error
	status int
}{
	{domain.ErrBadRequest, http.StatusBadRequest},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
}

// httpError maps a service error onto a status code. Domain errors expose their
// message without the sentinel suffix; anything else is logged and hidden.
func httpError(w http.ResponseWriter, r *http.Request, err error) {
	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			writeError(w, s.status, publicMessage(err, s.err))
			return
		}
	}
	slog.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimiddleware.GetReqID(r.Context()),
		"err", err,
	)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func publicMessage(err, sentinel error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

// decodeJSON reads a JSON body into v and runs its validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", domain.ErrBadRequest)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	return nil
}
