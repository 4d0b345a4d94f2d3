package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Service wraps the repository with refresh-token lifecycle logic.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// CreateSession stores a new refresh session and returns the opaque refresh
// token. providerToken may be empty.
func (s *Service) CreateSession(ctx context.Context, sub, providerToken string, ttl time.Duration) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	refresh := hex.EncodeToString(b)
	sess := &Session{
		RefreshToken:  refresh,
		Sub:           sub,
		ProviderToken: providerToken,
		ExpiresAt:     time.Now().UTC().Add(ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", err
	}
	return refresh, nil
}

// ValidateRefresh returns the session behind a refresh token, or nil when the
// token is unknown or expired. Expired sessions are removed.
func (s *Service) ValidateRefresh(ctx context.Context, refresh string) (*Session, error) {
	sess, err := s.repo.GetByRefresh(ctx, refresh)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		_ = s.repo.DeleteByRefresh(ctx, refresh)
		return nil, nil
	}
	return sess, nil
}

// Rotate invalidates the old refresh token and issues a new one for the same
// sub. Each refresh token is single-use.
func (s *Service) Rotate(ctx context.Context, old *Session, ttl time.Duration) (string, error) {
	if err := s.repo.DeleteByRefresh(ctx, old.RefreshToken); err != nil {
		return "", err
	}
	return s.CreateSession(ctx, old.Sub, old.ProviderToken, ttl)
}

// DeleteRefresh revokes one refresh token.
func (s *Service) DeleteRefresh(ctx context.Context, refresh string) error {
	return s.repo.DeleteByRefresh(ctx, refresh)
}

// RevokeAll removes every refresh session of the given sub.
func (s *Service) RevokeAll(ctx context.Context, sub string) error {
	return s.repo.DeleteBySub(ctx, sub)
}
