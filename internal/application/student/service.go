package student

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/voter-api/internal/application/results"
	"github.com/voter-api/internal/domain"
	"github.com/voter-api/internal/metrics"
	pkgtoken "github.com/voter-api/internal/pkg/token"
)

const (
	flowStudent   = "student"
	mailLoginCode = "login_code"
)

type Service interface {
	SendLoginCode(ctx context.Context, collegeID string) error
	// VerifyLoginCode consumes the code and returns a signed student token.
	VerifyLoginCode(ctx context.Context, req domain.VerifyLoginCodeRequest) (string, error)
	GetStudent(ctx context.Context, idNo string) (*domain.Student, error)
	Register(ctx context.Context, reg Registration) error
	ListApprovedCandidates(ctx context.Context) ([]domain.Student, error)
	CastVote(ctx context.Context, req domain.StudentVoteRequest) error

	ListStudents(ctx context.Context) ([]domain.Student, error)
	ListVotes(ctx context.Context) ([]domain.StudentVote, error)
	ListPendingCandidates(ctx context.Context) ([]domain.Student, error)
	ApproveCandidate(ctx context.Context, collegeID string) error
	Results(ctx context.Context) (*domain.Results, error)
}

type studentStore interface {
	Get(ctx context.Context, idNo string) (*domain.Student, error)
	Register(ctx context.Context, idNo, role, manifesto string) error
	Approve(ctx context.Context, idNo string) error
	List(ctx context.Context) ([]domain.Student, error)
	ListCandidates(ctx context.Context, approved bool) ([]domain.Student, error)
}

type voteStore interface {
	Create(ctx context.Context, v *domain.StudentVote) error
	List(ctx context.Context) ([]domain.StudentVote, error)
}

// CodeStore keeps one pending login code per student. Implemented by the
// DynamoDB TTL table and the embedded badger store.
type CodeStore interface {
	Put(ctx context.Context, collegeID, code string, ttl time.Duration) error
	Get(ctx context.Context, collegeID string) (*domain.LoginCode, error)
	Delete(ctx context.Context, collegeID string) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type jwtSigner interface {
	SignStudent(collegeID, fullName, role string) (string, error)
}

type service struct {
	students    studentStore
	votes       voteStore
	codes       CodeStore
	mailer      mailer
	jwtProvider jwtSigner
	codeTTL     time.Duration
	now         func() time.Time
}

type ServiceDeps struct {
	StudentRepo     studentStore
	StudentVoteRepo voteStore
	CodeStore       CodeStore
	Mailer          mailer
	JWTProvider     jwtSigner
	CodeTTL         time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		students:    deps.StudentRepo,
		votes:       deps.StudentVoteRepo,
		codes:       deps.CodeStore,
		mailer:      deps.Mailer,
		jwtProvider: deps.JWTProvider,
		codeTTL:     deps.CodeTTL,
		now:         now,
	}
}

func (s *service) student(ctx context.Context, idNo string) (*domain.Student, error) {
	st, err := s.students.Get(ctx, idNo)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("Student not found: %w", domain.ErrNotFound)
	}
	return st, err
}

func (s *service) SendLoginCode(ctx context.Context, collegeID string) error {
	collegeID = strings.TrimSpace(collegeID)
	if collegeID == "" {
		return fmt.Errorf("College ID is required: %w", domain.ErrBadRequest)
	}
	st, err := s.student(ctx, collegeID)
	if err != nil {
		return err
	}
	code, err := pkgtoken.NewOTP()
	if err != nil {
		return err
	}
	if err := s.codes.Put(ctx, st.IDNo, code, s.codeTTL); err != nil {
		return err
	}
	body := fmt.Sprintf("Hello %s,\n\nYour OTP is %s. It is valid for %d minutes.", st.FullName, code, int(s.codeTTL.Minutes()))
	err = s.mailer.SendEmail(st.Email, "Your OTP for CR Voting", body)
	metrics.RecordEmail(mailLoginCode, err)
	return err
}

func (s *service) VerifyLoginCode(ctx context.Context, req domain.VerifyLoginCodeRequest) (string, error) {
	collegeID := strings.TrimSpace(req.CollegeID.String())
	if collegeID == "" || strings.TrimSpace(req.OTP) == "" {
		return "", fmt.Errorf("College ID and OTP are required: %w", domain.ErrBadRequest)
	}
	lc, err := s.codes.Get(ctx, collegeID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("OTP not found or expired: %w", domain.ErrBadRequest)
	}
	if err != nil {
		return "", err
	}
	if lc.Expired(s.now()) {
		if err := s.codes.Delete(ctx, collegeID); err != nil {
			slog.Warn("failed to delete expired login code", "college_id", collegeID, "err", err)
		}
		return "", fmt.Errorf("OTP expired: %w", domain.ErrBadRequest)
	}
	if subtle.ConstantTimeCompare([]byte(lc.Code), []byte(strings.TrimSpace(req.OTP))) != 1 {
		return "", fmt.Errorf("Invalid OTP: %w", domain.ErrUnauthorized)
	}
	if err := s.codes.Delete(ctx, collegeID); err != nil {
		return "", err
	}

	st, err := s.student(ctx, collegeID)
	if err != nil {
		return "", err
	}
	role := domain.RoleUser
	if st.Admin {
		role = domain.RoleAdmin
	}
	return s.jwtProvider.SignStudent(st.IDNo, st.FullName, role)
}

func (s *service) GetStudent(ctx context.Context, idNo string) (*domain.Student, error) {
	return s.student(ctx, strings.TrimSpace(idNo))
}

func (s *service) Register(ctx context.Context, reg Registration) error {
	if _, err := s.student(ctx, reg.StudentID()); err != nil {
		return err
	}
	err := s.students.Register(ctx, reg.StudentID(), reg.Role(), reg.manifesto())
	if errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("You have already registered.: %w", domain.ErrBadRequest)
	}
	return err
}

func (s *service) ListApprovedCandidates(ctx context.Context) ([]domain.Student, error) {
	return nonNil(s.students.ListCandidates(ctx, true))
}

func (s *service) CastVote(ctx context.Context, req domain.StudentVoteRequest) error {
	voterID := strings.TrimSpace(req.VoterID.String())
	candidateID := strings.TrimSpace(req.CandidateID.String())
	if voterID == "" || candidateID == "" {
		return fmt.Errorf("Voter ID and Candidate ID are required: %w", domain.ErrBadRequest)
	}
	voter, err := s.students.Get(ctx, voterID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("Voter not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if !voter.Registered || voter.Role != domain.StudentRoleVoter {
		return fmt.Errorf("Only registered voters can vote: %w", domain.ErrForbidden)
	}
	cand, err := s.students.Get(ctx, candidateID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if cand == nil || cand.Role != domain.StudentRoleCandidate || !cand.Approved {
		return fmt.Errorf("Candidate not found or not approved: %w", domain.ErrNotFound)
	}

	err = s.votes.Create(ctx, &domain.StudentVote{
		VoterID:     voterID,
		CandidateID: candidateID,
		VotedAt:     s.now().UTC(),
	})
	if errors.Is(err, domain.ErrConflict) {
		metrics.DuplicateVotes.WithLabelValues(flowStudent).Inc()
		return fmt.Errorf("You have already voted: %w", domain.ErrBadRequest)
	}
	if err != nil {
		return err
	}
	metrics.VotesCast.WithLabelValues(flowStudent).Inc()
	return nil
}

func (s *service) ListStudents(ctx context.Context) ([]domain.Student, error) {
	return nonNil(s.students.List(ctx))
}

func (s *service) ListVotes(ctx context.Context) ([]domain.StudentVote, error) {
	return nonNil(s.votes.List(ctx))
}

func (s *service) ListPendingCandidates(ctx context.Context) ([]domain.Student, error) {
	return nonNil(s.students.ListCandidates(ctx, false))
}

func (s *service) ApproveCandidate(ctx context.Context, collegeID string) error {
	collegeID = strings.TrimSpace(collegeID)
	if collegeID == "" {
		return fmt.Errorf("College ID is required: %w", domain.ErrBadRequest)
	}
	err := s.students.Approve(ctx, collegeID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("Candidate not found or already approved: %w", domain.ErrNotFound)
	}
	return err
}

func (s *service) Results(ctx context.Context) (*domain.Results, error) {
	cands, err := s.students.ListCandidates(ctx, true)
	if err != nil {
		return nil, err
	}
	votes, err := s.votes.List(ctx)
	if err != nil {
		return nil, err
	}
	res := results.ForStudents(cands, votes)
	return &res, nil
}

func nonNil[T any](list []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}
