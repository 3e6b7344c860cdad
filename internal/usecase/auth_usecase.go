package usecase

import (
	"context"
	"strings"

	"github.com/triazov/torcalc/internal/domain"
)

// RemoteAuthenticator authenticates against the host user table.
type RemoteAuthenticator interface {
	Login(ctx context.Context, username, password string) (domain.User, error)
}

// LocalAccount is a standalone-mode credential. The check is a stub equality
// comparison for test accounts, not a security mechanism.
type LocalAccount struct {
	Password string
	Status   string
}

// AuthService routes login through the bridge when one is present and falls
// back to the configured local accounts otherwise.
type AuthService struct {
	detector Detector
	remote   RemoteAuthenticator
	accounts map[string]LocalAccount
}

// NewAuthService creates an AuthService. accounts may be nil, in which case
// standalone logins always fail.
func NewAuthService(detector Detector, remote RemoteAuthenticator, accounts map[string]LocalAccount) *AuthService {
	return &AuthService{
		detector: detector,
		remote:   remote,
		accounts: accounts,
	}
}

// Login validates the credentials against whichever side is authoritative.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return domain.User{}, domain.ErrEmptyCredentials
	}

	if s.detector.Available() {
		return s.remote.Login(ctx, username, password)
	}

	account, ok := s.accounts[username]
	if !ok || account.Password != password {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return domain.User{Username: username, Status: account.Status}, nil
}
