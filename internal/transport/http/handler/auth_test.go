package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/voter-api/internal/domain"
)

// --- mock ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Signup(ctx context.Context, req domain.SignupRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}
func (m *mockAuthSvc) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockAuthSvc) ResendOTP(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *mockAuthSvc) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
func (m *mockAuthSvc) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *mockAuthSvc) VerifyResetToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}
func (m *mockAuthSvc) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

// --- signup ---

func TestSignup_InvalidBody(t *testing.T) {
	rr := httptest.NewRecorder()
	NewAuthHandler(&mockAuthSvc{}).Signup(rr, jsonReq(t, http.MethodPost, "/auth/signup", "not-json"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, rr.Body.String())
}

func TestSignup_ValidationFailure(t *testing.T) {
	svc := &mockAuthSvc{}
	rr := httptest.NewRecorder()
	NewAuthHandler(svc).Signup(rr, jsonReq(t, http.MethodPost, "/auth/signup", map[string]string{
		"email": "not-an-email", "password": "123",
	}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var env MessageEnvelope
	decodeBody(t, rr, &env)
	assert.Contains(t, env.Error, "email must be a valid email address")
	assert.Contains(t, env.Error, "password must be at least 6 characters")
	svc.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
}

func TestSignup_Conflict(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Signup", mock.Anything, mock.Anything).Return(false, fmt.Errorf("email already registered: %w", domain.ErrConflict))

	rr := httptest.NewRecorder()
	NewAuthHandler(svc).Signup(rr, jsonReq(t, http.MethodPost, "/auth/signup", domain.SignupRequest{
		Email: "alice@example.com", Password: "secret1",
	}))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"error":"email already registered"}`, rr.Body.String())
}

func TestSignup_HappyPath(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Signup", mock.Anything, domain.SignupRequest{Email: "alice@example.com", Password: "secret1"}).Return(true, nil)

	rr := httptest.NewRecorder()
	NewAuthHandler(svc).Signup(rr, jsonReq(t, http.MethodPost, "/auth/signup", domain.SignupRequest{
		Email: "alice@example.com", Password: "secret1",
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	var env SignupEnvelope
	decodeBody(t, rr, &env)
	assert.True(t, env.RequiresVerification)
	assert.Equal(t, "Signup successful. Please verify your email.", env.Message)
	svc.AssertExpectations(t)
}

func TestSignup_InternalErrorIsHidden(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Signup", mock.Anything, mock.Anything).Return(false, errors.New("dial tcp: smtp unreachable"))

	rr := httptest.NewRecorder()
	NewAuthHandler(svc).Signup(rr, jsonReq(t, http.MethodPost, "/auth/signup", domain.SignupRequest{
		Email: "alice@example.com", Password: "secret1",
	}))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
}

// --- login ---

func TestLogin_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"bad credentials", fmt.Errorf("Invalid credentials: %w", domain.ErrUnauthorized), http.StatusUnauthorized, "Invalid credentials"},
		{"unverified", fmt.Errorf("Please verify your email before logging in: %w", domain.ErrForbidden), http.StatusForbidden, "Please verify your email before logging in"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockAuthSvc{}
			svc.On("Login", mock.Anything, mock.Anything).Return("", tc.err)

			rr := httptest.NewRecorder()
			NewAuthHandler(svc).Login(rr, jsonReq(t, http.MethodPost, "/auth/login", domain.LoginRequest{
				Email: "alice@example.com", Password: "secret1",
			}))

			assert.Equal(t, tc.code, rr.Code)
			var env MessageEnvelope
			decodeBody(t, rr, &env)
			assert.Equal(t, tc.msg, env.Error)
		})
	}
}

func TestLogin_HappyPath(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, mock.Anything).Return("signed-token", nil)

	rr := httptest.NewRecorder()
	NewAuthHandler(svc).Login(rr, jsonReq(t, http.MethodPost, "/auth/login", domain.LoginRequest{
		Email: "alice@example.com", Password: "secret1",
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Login successful","token":"signed-token"}`, rr.Body.String())
}

// --- me ---

func TestMe_ReturnsTokenIdentity(t *testing.T) {
	p := newTestJWTProvider(t)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(NewAuthHandler(&mockAuthSvc{}).Me), rr, bearerReq(t, p, http.MethodGet, "/auth/me", "u1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"userId":"u1","email":"u1@example.com"}`, rr.Body.String())
}

func TestMe_NoToken(t *testing.T) {
	p := newTestJWTProvider(t)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(NewAuthHandler(&mockAuthSvc{}).Me), rr, jsonReq(t, http.MethodGet, "/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

// --- password reset ---

func TestForgotPassword_SameMessageRegardless(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("ForgotPassword", mock.Anything, mock.Anything).Return(nil)
	h := NewAuthHandler(svc)

	bodies := make([]string, 0, 2)
	for _, email := range []string{"alice@example.com", "ghost@example.com"} {
		rr := httptest.NewRecorder()
		h.ForgotPassword(rr, jsonReq(t, http.MethodPost, "/auth/forgot-password", domain.EmailRequest{Email: email}))
		assert.Equal(t, http.StatusOK, rr.Code)
		bodies = append(bodies, rr.Body.String())
	}

	assert.Equal(t, bodies[0], bodies[1])
	assert.JSONEq(t, `{"message":"`+forgotPasswordMessage+`"}`, bodies[0])
}

func TestVerifyResetToken_HappyPath(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyResetToken", mock.Anything, "tok").Return("alice@example.com", nil)

	rr := httptest.NewRecorder()
	NewAuthHandler(svc).VerifyResetToken(rr, jsonReq(t, http.MethodPost, "/auth/verify-reset-token", domain.ResetTokenRequest{Token: "tok"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Token is valid","email":"alice@example.com"}`, rr.Body.String())
}

func TestResetPassword_Expired(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("ResetPassword", mock.Anything, mock.Anything).Return(fmt.Errorf("Reset token has expired: %w", domain.ErrBadRequest))

	rr := httptest.NewRecorder()
	NewAuthHandler(svc).ResetPassword(rr, jsonReq(t, http.MethodPost, "/auth/reset-password", domain.ResetPasswordRequest{
		Token: "tok", NewPassword: "newpass1",
	}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Reset token has expired"}`, rr.Body.String())
}
