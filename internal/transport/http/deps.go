package http

import (
	"context"
	"time"

	"github.com/voter-api/internal/domain"
)

// UserRepository is the minimal interface the router requires from an account store.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, email string, updates map[string]interface{}, removes ...string) error
	ConsumeResetToken(ctx context.Context, email, token, passwordHash string, now time.Time) error
}

// SessionRepository is the minimal interface the router requires from a voting-session store.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, code string) (*domain.Session, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Session, error)
	SetPublicResults(ctx context.Context, code string, public bool) error
	Delete(ctx context.Context, code string) error
}

// CandidateRepository is the minimal interface the router requires from a candidate store.
type CandidateRepository interface {
	Put(ctx context.Context, c *domain.Candidate) error
	Get(ctx context.Context, sessionCode, candidateID string) (*domain.Candidate, error)
	ListBySession(ctx context.Context, sessionCode string) ([]domain.Candidate, error)
	Delete(ctx context.Context, sessionCode, candidateID string) error
	DeleteBySession(ctx context.Context, sessionCode string) error
}

// VoteRepository is the minimal interface the router requires from a session vote store.
type VoteRepository interface {
	Create(ctx context.Context, v *domain.Vote) error
	ListBySession(ctx context.Context, sessionCode string) ([]domain.Vote, error)
	DeleteByCandidate(ctx context.Context, sessionCode, candidateID string) error
	DeleteBySession(ctx context.Context, sessionCode string) error
}

// StudentRepository is the minimal interface the router requires from the student roster.
type StudentRepository interface {
	Get(ctx context.Context, idNo string) (*domain.Student, error)
	Register(ctx context.Context, idNo, role, manifesto string) error
	Approve(ctx context.Context, idNo string) error
	List(ctx context.Context) ([]domain.Student, error)
	ListCandidates(ctx context.Context, approved bool) ([]domain.Student, error)
}

// StudentVoteRepository is the minimal interface the router requires from the student ballot store.
type StudentVoteRepository interface {
	Create(ctx context.Context, v *domain.StudentVote) error
	List(ctx context.Context) ([]domain.StudentVote, error)
}
