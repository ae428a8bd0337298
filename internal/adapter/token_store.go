package adapter

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/internal/utils"
	"golang.org/x/sync/singleflight"
)

// refreshTimeout bounds a shared refresh, which outlives the caller that
// started it.
const refreshTimeout = 30 * time.Second

// RefreshFunc exchanges a refresh token for a new access token.
type RefreshFunc func(ctx context.Context, refreshToken string) (string, error)

// TokenStore is the single writer of the bearer token. Reads are cheap and
// concurrent; Refresh calls that overlap share one backend round trip.
type TokenStore struct {
	mu           sync.RWMutex
	token        string
	refreshToken string

	refresh RefreshFunc
	group   singleflight.Group

	logger *logger.Logger
}

// NewTokenStore returns a store seeded with the configured tokens. refresh
// may be nil until [TokenStore.SetRefreshFunc] is called.
func NewTokenStore(token, refreshToken string, refresh RefreshFunc, log *logger.Logger) *TokenStore {
	if log == nil {
		log = logger.Nop()
	}
	return &TokenStore{
		token:        strings.TrimSpace(token),
		refreshToken: strings.TrimSpace(refreshToken),
		refresh:      refresh,
		logger:       log,
	}
}

// SetRefreshFunc installs the routine used by Refresh.
func (s *TokenStore) SetRefreshFunc(fn RefreshFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = fn
}

// Token returns the current bearer token, or "" when none is known.
func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CanRefresh reports whether a refresh token and a refresh routine are set.
func (s *TokenStore) CanRefresh() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken != "" && s.refresh != nil
}

// ExpiresWithin reports whether the current token is a JWT that expires in
// less than d. Opaque tokens never report expiry.
func (s *TokenStore) ExpiresWithin(d time.Duration) bool {
	token := s.Token()
	if token == "" {
		return false
	}
	exp, ok, err := utils.TokenExpiry(token)
	if err != nil || !ok {
		return false
	}
	return time.Until(exp) < d
}

// Refresh obtains a new access token and stores it. Concurrent callers wait
// for the same in-flight refresh and receive its outcome. The refresh runs
// detached from ctx, so a caller that gives up only stops its own wait.
func (s *TokenStore) Refresh(ctx context.Context) (string, error) {
	s.mu.RLock()
	refreshToken, fn := s.refreshToken, s.refresh
	s.mu.RUnlock()

	if refreshToken == "" || fn == nil {
		return "", ErrNoRefreshToken
	}

	ch := s.group.DoChan("refresh", func() (any, error) {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		token, err := fn(refreshCtx, refreshToken)
		if err != nil {
			return "", err
		}

		s.mu.Lock()
		s.token = strings.TrimSpace(token)
		s.mu.Unlock()

		if exp, ok, expErr := utils.TokenExpiry(token); expErr == nil && ok {
			s.logger.Debug().Time("expires_at", exp).Msg("access token refreshed")
		} else {
			s.logger.Debug().Msg("access token refreshed")
		}
		return token, nil
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("refresh access token: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", fmt.Errorf("refresh access token: %w", res.Err)
		}
		if res.Shared {
			s.logger.Debug().Msg("joined in-flight token refresh")
		}
		return res.Val.(string), nil
	}
}
