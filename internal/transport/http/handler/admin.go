package handler

import (
	"net/http"

	"github.com/voter-api/internal/application/student"
	"github.com/voter-api/internal/domain"
)

// AdminHandler serves the roster administration endpoints. Routes are gated by
// RequireRole(admin) in the router.
type AdminHandler struct {
	svc student.Service
}

func NewAdminHandler(svc student.Service) *AdminHandler { return &AdminHandler{svc: svc} }

func (h *AdminHandler) Students(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListStudents(r.Context())
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) Votes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.svc.ListVotes(r.Context())
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, votes)
}

func (h *AdminHandler) PendingCandidates(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListPendingCandidates(r.Context())
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) Results(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Results(r.Context())
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AdminHandler) ApproveCandidate(w http.ResponseWriter, r *http.Request) {
	var req domain.ApproveCandidateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	if err := h.svc.ApproveCandidate(r.Context(), req.CollegeID.String()); err != nil {
		httpError(w, r, err)
		return
	}
	writeMessage(w, "Candidate approved successfully")
}
