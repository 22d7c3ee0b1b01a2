package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/voter-api/internal/application/student"
	"github.com/voter-api/internal/domain"
	"github.com/voter-api/internal/transport/http/middleware"
)

// StudentHandler serves the institutional-ID login, registration and ballot.
type StudentHandler struct {
	svc student.Service
}

func NewStudentHandler(svc student.Service) *StudentHandler { return &StudentHandler{svc: svc} }

func (h *StudentHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.SendLoginCodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	if err := h.svc.SendLoginCode(r.Context(), req.CollegeID.String()); err != nil {
		httpError(w, r, err)
		return
	}
	writeMessage(w, "OTP sent successfully")
}

func (h *StudentHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyLoginCodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	token, err := h.svc.VerifyLoginCode(r.Context(), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenEnvelope{Message: "OTP verified successfully", Token: token})
}

func (h *StudentHandler) UserDetails(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, FullNameEnvelope{FullName: claims.FullName})
}

func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.GetStudent(r.Context(), chi.URLParam(r, "idNo"))
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *StudentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req student.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	reg, err := student.ParseRegistration(req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	if err := h.svc.Register(r.Context(), reg); err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RoleEnvelope{Message: "Registration successful", Role: reg.Role()})
}

func (h *StudentHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListApprovedCandidates(r.Context())
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *StudentHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req domain.StudentVoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	if err := h.svc.CastVote(r.Context(), req); err != nil {
		httpError(w, r, err)
		return
	}
	writeMessage(w, "Vote recorded successfully")
}
