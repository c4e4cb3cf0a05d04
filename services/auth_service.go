package services

import (
	"chat-hub/auth"
	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/repositories"
	"log/slog"
)

type IAuthService interface {
	Authenticate(username, secret string) (domain.Account, error)
}

// AuthService verifies credentials against the account store. It is
// read-only: authentication never mutates an account. Unknown username
// and secret mismatch stay distinct errors here; the HTTP layer decides
// how much of that distinction to reveal.
type AuthService struct {
	accountRepository repositories.IAccountRepository
	log               *slog.Logger
}

func NewAuthService(repo repositories.IAccountRepository, log *slog.Logger) IAuthService {
	return &AuthService{accountRepository: repo, log: log}
}

// Authenticate returns the account when the stored hash matches the
// candidate secret exactly. The NotFound / InvalidCredentials
// distinction is kept internally for logging only.
func (s *AuthService) Authenticate(username, secret string) (domain.Account, error) {
	account, err := s.accountRepository.GetByUsername(username)
	if err != nil {
		s.log.Debug("authentication failed: unknown username", "username", username)
		return domain.Account{}, err
	}

	match, err := auth.CompareSecret(secret, account.SecretHash)
	if err != nil || !match {
		s.log.Debug("authentication failed: secret mismatch", "username", username)
		return domain.Account{}, errors.ErrInvalidCredentials
	}

	return account, nil
}
