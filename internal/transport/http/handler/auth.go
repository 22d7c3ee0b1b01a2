package handler

import (
	"net/http"

	"github.com/voter-api/internal/application/auth"
	"github.com/voter-api/internal/domain"
	"github.com/voter-api/internal/transport/http/middleware"
)

const forgotPasswordMessage = "If the email exists, a password reset link has been sent."

// AuthHandler serves the email/password account endpoints under /auth.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	pending, err := h.svc.Signup(r.Context(), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	msg := "Signup successful. Please verify your email."
	if !pending {
		msg = "Signup successful. You can now log in."
	}
	writeJSON(w, http.StatusOK, SignupEnvelope{Message: msg, RequiresVerification: pending})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	if err := h.svc.VerifyOTP(r.Context(), req); err != nil {
		httpError(w, r, err)
		return
	}
	writeMessage(w, "Email verified successfully")
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.EmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	if err := h.svc.ResendOTP(r.Context(), req.Email); err != nil {
		httpError(w, r, err)
		return
	}
	writeMessage(w, "OTP resent successfully")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenEnvelope{Message: "Login successful", Token: token})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, IdentityEnvelope{UserID: claims.UserID, Email: claims.Email})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.EmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		httpError(w, r, err)
		return
	}
	writeMessage(w, forgotPasswordMessage)
}

func (h *AuthHandler) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	email, err := h.svc.VerifyResetToken(r.Context(), req.Token)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, EmailEnvelope{Message: "Token is valid", Email: email})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	if err := h.svc.ResetPassword(r.Context(), req); err != nil {
		httpError(w, r, err)
		return
	}
	writeMessage(w, "Password reset successful")
}
