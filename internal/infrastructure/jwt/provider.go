package jwtinfra

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/voter-api/internal/config"
	"github.com/voter-api/internal/domain"
)

// Claims holds the JWT payload fields. Account tokens carry UserID and Email;
// student tokens carry CollegeID, FullName and Role.
type Claims struct {
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	CollegeID string `json:"collegeId,omitempty"`
	FullName  string `json:"fullName,omitempty"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Provider signs and verifies RS256 JWTs.
type Provider struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	userTTL    time.Duration
	studentTTL time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	privBytes, err := os.ReadFile(cfg.JWTPrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privBytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	pubBytes, err := os.ReadFile(cfg.JWTPublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubBytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	return &Provider{
		privateKey: privKey,
		publicKey:  pubKey,
		userTTL:    cfg.UserTokenTTL,
		studentTTL: cfg.StudentTokenTTL,
	}, nil
}

// SignUser issues an account token.
func (p *Provider) SignUser(userID, email string) (string, error) {
	return p.sign(Claims{UserID: userID, Email: email, Role: domain.RoleUser}, p.userTTL)
}

// SignStudent issues a token for the institutional-ID flow.
func (p *Provider) SignStudent(collegeID, fullName, role string) (string, error) {
	return p.sign(Claims{CollegeID: collegeID, FullName: fullName, Role: role}, p.studentTTL)
}

func (p *Provider) sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(p.privateKey)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.publicKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
