package voting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/voter-api/internal/application/results"
	"github.com/voter-api/internal/application/session"
	"github.com/voter-api/internal/domain"
	"github.com/voter-api/internal/metrics"
	"github.com/voter-api/internal/pkg/id"
)

const flowSession = "session"

type Service interface {
	AddCandidate(ctx context.Context, code, callerID string, req domain.AddCandidateRequest) (*domain.Candidate, error)
	DeleteCandidate(ctx context.Context, code, candidateID, callerID string) error
	ListCandidates(ctx context.Context, code string) ([]domain.Candidate, error)
	CastVote(ctx context.Context, code, voterID string, req domain.CastVoteRequest) error
	// ListVotes and Results take an empty callerID for anonymous requests.
	ListVotes(ctx context.Context, code, callerID string) ([]domain.Vote, error)
	Results(ctx context.Context, code, callerID string) (*domain.Results, error)
}

type sessionReader interface {
	Get(ctx context.Context, code string) (*domain.Session, error)
}

type candidateStore interface {
	Put(ctx context.Context, c *domain.Candidate) error
	Get(ctx context.Context, sessionCode, candidateID string) (*domain.Candidate, error)
	ListBySession(ctx context.Context, sessionCode string) ([]domain.Candidate, error)
	Delete(ctx context.Context, sessionCode, candidateID string) error
}

type voteStore interface {
	Create(ctx context.Context, v *domain.Vote) error
	ListBySession(ctx context.Context, sessionCode string) ([]domain.Vote, error)
	DeleteByCandidate(ctx context.Context, sessionCode, candidateID string) error
}

type service struct {
	sessions   sessionReader
	candidates candidateStore
	votes      voteStore
}

type ServiceDeps struct {
	SessionRepo   sessionReader
	CandidateRepo candidateStore
	VoteRepo      voteStore
}

func NewService(deps ServiceDeps) Service {
	return &service{
		sessions:   deps.SessionRepo,
		candidates: deps.CandidateRepo,
		votes:      deps.VoteRepo,
	}
}

func (s *service) ownedSession(ctx context.Context, code, callerID, action string) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, session.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if sess.OwnerID != callerID {
		return nil, fmt.Errorf("Only session owner can %s: %w", action, domain.ErrForbidden)
	}
	return sess, nil
}

func (s *service) AddCandidate(ctx context.Context, code, callerID string, req domain.AddCandidateRequest) (*domain.Candidate, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("Candidate name required: %w", domain.ErrBadRequest)
	}
	sess, err := s.ownedSession(ctx, code, callerID, "add candidates")
	if err != nil {
		return nil, err
	}
	c := &domain.Candidate{
		CandidateID: id.New(),
		SessionCode: sess.Code,
		Name:        name,
		Manifesto:   strings.TrimSpace(req.Manifesto),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.candidates.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCandidate removes the candidate and every vote cast for it in the session.
func (s *service) DeleteCandidate(ctx context.Context, code, candidateID, callerID string) error {
	sess, err := s.ownedSession(ctx, code, callerID, "delete candidates")
	if err != nil {
		return err
	}
	if _, err := s.candidate(ctx, sess.Code, candidateID); err != nil {
		return err
	}
	if err := s.candidates.Delete(ctx, sess.Code, candidateID); err != nil {
		return err
	}
	return s.votes.DeleteByCandidate(ctx, sess.Code, candidateID)
}

func (s *service) candidate(ctx context.Context, code, candidateID string) (*domain.Candidate, error) {
	c, err := s.candidates.Get(ctx, code, candidateID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("Candidate not found: %w", domain.ErrNotFound)
	}
	return c, err
}

func (s *service) ListCandidates(ctx context.Context, code string) ([]domain.Candidate, error) {
	list, err := s.candidates.ListBySession(ctx, session.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Candidate{}
	}
	return list, nil
}

func (s *service) CastVote(ctx context.Context, code, voterID string, req domain.CastVoteRequest) error {
	candidateID := strings.TrimSpace(req.CandidateID)
	if candidateID == "" {
		return fmt.Errorf("Candidate ID required: %w", domain.ErrBadRequest)
	}
	sess, err := s.sessions.Get(ctx, session.NormalizeCode(code))
	if err != nil {
		return err
	}
	if _, err := s.candidate(ctx, sess.Code, candidateID); err != nil {
		return err
	}
	err = s.votes.Create(ctx, &domain.Vote{
		SessionCode: sess.Code,
		VoterID:     voterID,
		CandidateID: candidateID,
		VotedAt:     time.Now().UTC(),
	})
	if errors.Is(err, domain.ErrConflict) {
		metrics.DuplicateVotes.WithLabelValues(flowSession).Inc()
		return fmt.Errorf("You have already voted in this session: %w", domain.ErrBadRequest)
	}
	if err != nil {
		return err
	}
	metrics.VotesCast.WithLabelValues(flowSession).Inc()
	return nil
}

// readable applies the results access rule: public sessions are open to anyone,
// private ones only to the owner.
func (s *service) readable(ctx context.Context, code, callerID string) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, session.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if sess.PublicResults {
		return sess, nil
	}
	if callerID == "" {
		return nil, fmt.Errorf("Authentication required: %w", domain.ErrUnauthorized)
	}
	if sess.OwnerID != callerID {
		return nil, fmt.Errorf("Only session owner can view results: %w", domain.ErrForbidden)
	}
	return sess, nil
}

func (s *service) ListVotes(ctx context.Context, code, callerID string) ([]domain.Vote, error) {
	sess, err := s.readable(ctx, code, callerID)
	if err != nil {
		return nil, err
	}
	votes, err := s.votes.ListBySession(ctx, sess.Code)
	if err != nil {
		return nil, err
	}
	if votes == nil {
		votes = []domain.Vote{}
	}
	return votes, nil
}

func (s *service) Results(ctx context.Context, code, callerID string) (*domain.Results, error) {
	sess, err := s.readable(ctx, code, callerID)
	if err != nil {
		return nil, err
	}
	cands, err := s.candidates.ListBySession(ctx, sess.Code)
	if err != nil {
		return nil, err
	}
	votes, err := s.votes.ListBySession(ctx, sess.Code)
	if err != nil {
		return nil, err
	}
	res := results.ForSession(cands, votes)
	return &res, nil
}
