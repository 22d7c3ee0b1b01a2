package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/voter-api/internal/domain"
	"github.com/voter-api/internal/metrics"
	pkgtoken "github.com/voter-api/internal/pkg/token"
)

const (
	codeLength     = 8
	createAttempts = 5
)

type Service interface {
	Create(ctx context.Context, ownerID string, req domain.CreateSessionRequest) (*domain.Session, error)
	Get(ctx context.Context, code string) (*domain.Session, error)
	ListMine(ctx context.Context, ownerID string) ([]domain.Session, error)
	UpdateSettings(ctx context.Context, code, ownerID string, req domain.SessionSettingsRequest) (*domain.Session, error)
	Delete(ctx context.Context, code, ownerID string) error
	IsOwner(ctx context.Context, code, userID string) (bool, error)
}

type sessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, code string) (*domain.Session, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Session, error)
	SetPublicResults(ctx context.Context, code string, public bool) error
	Delete(ctx context.Context, code string) error
}

// sessionChildren is satisfied by both the candidate and vote repositories.
type sessionChildren interface {
	DeleteBySession(ctx context.Context, sessionCode string) error
}

type service struct {
	repo       sessionStore
	candidates sessionChildren
	votes      sessionChildren
	newCode    func() (string, error)
}

type ServiceDeps struct {
	SessionRepo   sessionStore
	CandidateRepo sessionChildren
	VoteRepo      sessionChildren
	// CodeGenerator defaults to 8 random characters over [A-Z0-9].
	CodeGenerator func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	gen := deps.CodeGenerator
	if gen == nil {
		gen = func() (string, error) { return pkgtoken.NewSessionCode(codeLength) }
	}
	return &service{
		repo:       deps.SessionRepo,
		candidates: deps.CandidateRepo,
		votes:      deps.VoteRepo,
		newCode:    gen,
	}
}

// NormalizeCode upper-cases a user-supplied session code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *service) Create(ctx context.Context, ownerID string, req domain.CreateSessionRequest) (*domain.Session, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("Title is required: %w", domain.ErrBadRequest)
	}
	for attempt := 1; attempt <= createAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, err
		}
		sess := &domain.Session{
			Code:      code,
			Title:     title,
			OwnerID:   ownerID,
			CreatedAt: time.Now().UTC(),
		}
		err = s.repo.Create(ctx, sess)
		if err == nil {
			metrics.SessionsCreated.Inc()
			return sess, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		slog.Warn("session code collision, retrying", "attempt", attempt)
	}
	return nil, fmt.Errorf("could not allocate a unique session code after %d attempts", createAttempts)
}

func (s *service) Get(ctx context.Context, code string) (*domain.Session, error) {
	return s.repo.Get(ctx, NormalizeCode(code))
}

func (s *service) ListMine(ctx context.Context, ownerID string) ([]domain.Session, error) {
	list, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Session{}
	}
	return list, nil
}

func (s *service) owned(ctx context.Context, code, ownerID, action string) (*domain.Session, error) {
	sess, err := s.repo.Get(ctx, NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if sess.OwnerID != ownerID {
		return nil, fmt.Errorf("Only session owner can %s: %w", action, domain.ErrForbidden)
	}
	return sess, nil
}

func (s *service) UpdateSettings(ctx context.Context, code, ownerID string, req domain.SessionSettingsRequest) (*domain.Session, error) {
	sess, err := s.owned(ctx, code, ownerID, "change settings")
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetPublicResults(ctx, sess.Code, req.PublicResults); err != nil {
		return nil, err
	}
	sess.PublicResults = req.PublicResults
	return sess, nil
}

// Delete removes the session's votes, then its candidates, then the session
// row. A failed step leaves the session in place so the owner can retry.
func (s *service) Delete(ctx context.Context, code, ownerID string) error {
	sess, err := s.owned(ctx, code, ownerID, "delete the session")
	if err != nil {
		return err
	}
	if err := s.votes.DeleteBySession(ctx, sess.Code); err != nil {
		return fmt.Errorf("delete votes of %s: %w", sess.Code, err)
	}
	if err := s.candidates.DeleteBySession(ctx, sess.Code); err != nil {
		return fmt.Errorf("delete candidates of %s: %w", sess.Code, err)
	}
	return s.repo.Delete(ctx, sess.Code)
}

func (s *service) IsOwner(ctx context.Context, code, userID string) (bool, error) {
	sess, err := s.repo.Get(ctx, NormalizeCode(code))
	if err != nil {
		return false, err
	}
	return sess.OwnerID == userID, nil
}
