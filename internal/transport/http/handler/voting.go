package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/voter-api/internal/application/voting"
	"github.com/voter-api/internal/domain"
)

// VotingHandler serves candidate, ballot and tally endpoints under /session/{code}.
type VotingHandler struct {
	svc voting.Service
}

func NewVotingHandler(svc voting.Service) *VotingHandler { return &VotingHandler{svc: svc} }

func (h *VotingHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	var req domain.AddCandidateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	c, err := h.svc.AddCandidate(r.Context(), chi.URLParam(r, "code"), callerID(r), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CandidateEnvelope{Message: "Candidate added", Candidate: c})
}

func (h *VotingHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	err := h.svc.DeleteCandidate(r.Context(), chi.URLParam(r, "code"), chi.URLParam(r, "id"), callerID(r))
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeMessage(w, "Candidate deleted successfully")
}

func (h *VotingHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListCandidates(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req domain.CastVoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	if err := h.svc.CastVote(r.Context(), chi.URLParam(r, "code"), callerID(r), req); err != nil {
		httpError(w, r, err)
		return
	}
	writeMessage(w, "Vote recorded")
}

func (h *VotingHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.svc.ListVotes(r.Context(), chi.URLParam(r, "code"), callerID(r))
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, votes)
}

func (h *VotingHandler) Results(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Results(r.Context(), chi.URLParam(r, "code"), callerID(r))
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
