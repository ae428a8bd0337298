package fakebank

import (
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/utils"
	"github.com/google/uuid"
)

// Auth issues and validates the fake backend's tokens. Access tokens are
// HS256 JWTs; refresh tokens are opaque and never expire.
type Auth struct {
	signKey  string
	issuer   string
	duration time.Duration

	mu            sync.Mutex
	refreshTokens map[string]string
}

func NewAuth(signKey, issuer string, duration time.Duration) *Auth {
	return &Auth{
		signKey:       signKey,
		issuer:        issuer,
		duration:      duration,
		refreshTokens: make(map[string]string),
	}
}

// IssuePair returns a new access token and refresh token for subject.
func (a *Auth) IssuePair(subject string) (access, refresh string, err error) {
	access, err = a.issue(subject, a.duration)
	if err != nil {
		return "", "", err
	}

	refresh = uuid.NewString()
	a.mu.Lock()
	a.refreshTokens[refresh] = subject
	a.mu.Unlock()

	return access, refresh, nil
}

// IssueExpired returns an access token that is already expired.
func (a *Auth) IssueExpired(subject string) (string, error) {
	return a.issue(subject, -time.Minute)
}

// Refresh returns a new access token for the subject refreshToken was
// issued to.
func (a *Auth) Refresh(refreshToken string) (string, error) {
	a.mu.Lock()
	subject, ok := a.refreshTokens[refreshToken]
	a.mu.Unlock()
	if !ok {
		return "", ErrInvalidRefreshToken
	}
	return a.issue(subject, a.duration)
}

// Revoke invalidates refreshToken.
func (a *Auth) Revoke(refreshToken string) {
	a.mu.Lock()
	delete(a.refreshTokens, refreshToken)
	a.mu.Unlock()
}

// Validate returns the subject of a valid access token.
func (a *Auth) Validate(access string) (string, error) {
	return utils.ValidateJWTToken(access, a.signKey, a.issuer)
}

func (a *Auth) issue(subject string, d time.Duration) (string, error) {
	token, err := utils.GenerateJWTToken(a.issuer, subject, d, a.signKey)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return token, nil
}
