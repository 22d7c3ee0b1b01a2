package domain

import "time"

// User is an email/password account. The email is stored trimmed and lower-cased
// and doubles as the table's partition key.
type User struct {
	UserID           string     `json:"userId" dynamodbav:"user_id"`
	Email            string     `json:"email" dynamodbav:"email"`
	PasswordHash     string     `json:"-" dynamodbav:"password_hash"`
	Verified         bool       `json:"verified" dynamodbav:"verified"`
	OTP              string     `json:"-" dynamodbav:"otp,omitempty"`
	OTPCreatedAt     *time.Time `json:"-" dynamodbav:"otp_created_at,omitempty"`
	ResetToken       string     `json:"-" dynamodbav:"reset_token,omitempty"`
	ResetTokenExpiry int64      `json:"-" dynamodbav:"reset_token_expiry,omitempty"` // Unix seconds
	CreatedAt        time.Time  `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" dynamodbav:"updated_at"`
}

type SignupRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6,max=72"`
	SkipVerification bool   `json:"skipVerification"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}
