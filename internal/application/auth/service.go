package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/voter-api/internal/domain"
	"github.com/voter-api/internal/metrics"
	"github.com/voter-api/internal/pkg/id"
	pkgtoken "github.com/voter-api/internal/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldVerified         = "verified"
	fieldOTP              = "otp"
	fieldOTPCreatedAt     = "otp_created_at"
	fieldResetToken       = "reset_token"
	fieldResetTokenExpiry = "reset_token_expiry"
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

const (
	mailVerification  = "verification_otp"
	mailPasswordReset = "password_reset"
)

type Service interface {
	// Signup creates an account and reports whether email verification is still pending.
	Signup(ctx context.Context, req domain.SignupRequest) (bool, error)
	VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) error
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, req domain.LoginRequest) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	// VerifyResetToken returns the email the token was issued for.
	VerifyResetToken(ctx context.Context, token string) (string, error)
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, email string, updates map[string]interface{}, removes ...string) error
	ConsumeResetToken(ctx context.Context, email, token, passwordHash string, now time.Time) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type jwtSigner interface {
	SignUser(userID, email string) (string, error)
}

type service struct {
	repo                  userStore
	mailer                mailer
	jwtProvider           jwtSigner
	otpTTL                time.Duration
	resetTTL              time.Duration
	frontendURL           string
	allowSkipVerification bool
	now                   func() time.Time
}

type ServiceDeps struct {
	UserRepo              userStore
	Mailer                mailer
	JWTProvider           jwtSigner
	OTPTTL                time.Duration
	ResetTokenTTL         time.Duration
	FrontendURL           string
	AllowSkipVerification bool
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:                  deps.UserRepo,
		mailer:                deps.Mailer,
		jwtProvider:           deps.JWTProvider,
		otpTTL:                deps.OTPTTL,
		resetTTL:              deps.ResetTokenTTL,
		frontendURL:           strings.TrimRight(deps.FrontendURL, "/"),
		allowSkipVerification: deps.AllowSkipVerification,
		now:                   now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// hashPassword rejects passwords bcrypt cannot hash. bcrypt's limit is in
// bytes, while the request validator counts runes.
func hashPassword(pw string) (string, error) {
	if len(pw) > maxPasswordBytes {
		return "", fmt.Errorf("Password must be at most %d bytes: %w", maxPasswordBytes, domain.ErrBadRequest)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *service) Signup(ctx context.Context, req domain.SignupRequest) (bool, error) {
	hash, err := hashPassword(req.Password)
	if err != nil {
		return false, err
	}
	now := s.now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	skip := req.SkipVerification && s.allowSkipVerification
	var otp string
	if skip {
		u.Verified = true
	} else {
		otp, err = pkgtoken.NewOTP()
		if err != nil {
			return false, err
		}
		u.OTP = otp
		u.OTPCreatedAt = &now
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return false, err
	}
	if skip {
		return false, nil
	}
	if err := s.sendOTP(u.Email, otp); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) error {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return err
	}
	if u.Verified {
		return fmt.Errorf("User already verified: %w", domain.ErrBadRequest)
	}
	if !s.otpValid(u, req.OTP) {
		return fmt.Errorf("Invalid or expired OTP: %w", domain.ErrBadRequest)
	}
	return s.repo.Update(ctx, u.Email, map[string]interface{}{fieldVerified: true}, fieldOTP, fieldOTPCreatedAt)
}

func (s *service) otpValid(u *domain.User, otp string) bool {
	if u.OTP == "" || u.OTPCreatedAt == nil {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(u.OTP), []byte(strings.TrimSpace(otp))) != 1 {
		return false
	}
	return s.now().Sub(*u.OTPCreatedAt) <= s.otpTTL
}

func (s *service) ResendOTP(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if u.Verified {
		return fmt.Errorf("User already verified: %w", domain.ErrBadRequest)
	}
	otp, err := pkgtoken.NewOTP()
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, u.Email, map[string]interface{}{
		fieldOTP:          otp,
		fieldOTPCreatedAt: s.now().UTC(),
	}); err != nil {
		return err
	}
	return s.sendOTP(u.Email, otp)
}

func (s *service) sendOTP(email, otp string) error {
	body := fmt.Sprintf("Your VoteR verification code is %s. It expires in %d minutes.", otp, int(s.otpTTL.Minutes()))
	err := s.mailer.SendEmail(email, "Verify your VoteR account", body)
	metrics.RecordEmail(mailVerification, err)
	return err
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("Invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return "", fmt.Errorf("Invalid credentials: %w", domain.ErrUnauthorized)
	}
	if !u.Verified {
		return "", fmt.Errorf("Please verify your email before logging in: %w", domain.ErrForbidden)
	}
	return s.jwtProvider.SignUser(u.UserID, u.Email)
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	tok, err := pkgtoken.NewResetToken()
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, u.Email, map[string]interface{}{
		fieldResetToken:       tok,
		fieldResetTokenExpiry: s.now().Add(s.resetTTL).Unix(),
	}); err != nil {
		return err
	}

	link := s.frontendURL + "/reset-password/" + tok
	body := fmt.Sprintf("Click the link below to reset your VoteR password. It expires in %d minutes.\n\n%s", int(s.resetTTL.Minutes()), link)
	err = s.mailer.SendEmail(u.Email, "Reset your VoteR password", body)
	metrics.RecordEmail(mailPasswordReset, err)
	if err != nil {
		slog.Error("failed to send password reset email", "user_id", u.UserID, "err", err)
	}
	return nil
}

func (s *service) VerifyResetToken(ctx context.Context, token string) (string, error) {
	u, err := s.userByResetToken(ctx, token)
	if err != nil {
		return "", err
	}
	return u.Email, nil
}

func (s *service) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	u, err := s.userByResetToken(ctx, req.Token)
	if err != nil {
		return err
	}
	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	err = s.repo.ConsumeResetToken(ctx, u.Email, req.Token, hash, s.now())
	if errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("Invalid or expired reset token: %w", domain.ErrBadRequest)
	}
	return err
}

func (s *service) userByResetToken(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("Invalid or expired reset token: %w", domain.ErrBadRequest)
	}
	u, err := s.repo.GetByResetToken(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("Invalid or expired reset token: %w", domain.ErrBadRequest)
	}
	if err != nil {
		return nil, err
	}
	if u.ResetTokenExpiry <= s.now().Unix() {
		return nil, fmt.Errorf("Reset token has expired: %w", domain.ErrBadRequest)
	}
	return u, nil
}
