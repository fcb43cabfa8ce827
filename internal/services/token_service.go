package services

import (
	"context"
	"fmt"
	"time"

	"pethaul/internal/models"
	"pethaul/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// TokenService issues long-lived client tokens bound to an origin host.
type TokenService struct {
	auth    *AuthService
	users   repositories.UserRepository
	domains repositories.DomainRepository
	ttl     time.Duration
}

func NewTokenService(auth *AuthService, users repositories.UserRepository, domains repositories.DomainRepository, ttl time.Duration) *TokenService {
	return &TokenService{auth: auth, users: users, domains: domains, ttl: ttl}
}

func (s *TokenService) sign(ctx context.Context, principal models.Principal) (string, error) {
	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		return "", err
	}
	// The nonce keeps two tokens issued within the same second distinct.
	return s.auth.SignToken(user, s.ttl, jwt.MapClaims{"typ": "client", "nonce": uuid.NewString()})
}

// Issue creates a client token for host, replacing any previous one.
func (s *TokenService) Issue(ctx context.Context, principal models.Principal, host string) (string, error) {
	if host == "" {
		return "", fmt.Errorf("missing origin: %w", ErrInvalidRequest)
	}
	token, err := s.sign(ctx, principal)
	if err != nil {
		return "", err
	}
	if err := s.domains.Upsert(ctx, principal.UserID, host, token); err != nil {
		return "", err
	}
	return token, nil
}

// Read returns the stored client token for host.
func (s *TokenService) Read(ctx context.Context, principal models.Principal, host string) (string, error) {
	d, err := s.domains.Find(ctx, principal.UserID, host)
	if err != nil {
		return "", err
	}
	return d.ClientToken, nil
}

// Refresh reissues the client token for host. It fails with ErrNotFound when
// no token was issued before.
func (s *TokenService) Refresh(ctx context.Context, principal models.Principal, host string) (string, error) {
	d, err := s.domains.Find(ctx, principal.UserID, host)
	if err != nil {
		return "", err
	}
	token, err := s.sign(ctx, principal)
	if err != nil {
		return "", err
	}
	if err := s.domains.UpdateToken(ctx, d.ID, token); err != nil {
		return "", err
	}
	return token, nil
}
