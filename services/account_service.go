package services

import (
	"chat-hub/auth"
	"chat-hub/domain"
	"chat-hub/repositories"
	"fmt"
	"time"
)

type IAccountService interface {
	Register(username, secret string) (domain.SafeAccount, error)
	Authenticate(username, secret string) (domain.SafeAccount, error)
	Lookup(username string) (domain.SafeAccount, error)
	Remove(username string) (domain.SafeAccount, error)
	ResetSecret(username, newSecret string) (domain.SafeAccount, error)
}

// AccountService orchestrates the account store and the authentication
// service. Every account leaving this service is sanitized first: there
// is no code path through which a secret hash crosses the boundary.
type AccountService struct {
	accountRepository repositories.IAccountRepository
	authService       IAuthService
}

func NewAccountService(repo repositories.IAccountRepository, authService IAuthService) IAccountService {
	return &AccountService{accountRepository: repo, authService: authService}
}

// Register creates a new account after validating and hashing the
// secret. A taken username propagates as ErrUserAlreadyExists.
func (s *AccountService) Register(username, secret string) (domain.SafeAccount, error) {
	valReq := auth.SignupRequest{
		Username: username,
		Secret:   secret,
	}
	// Validate before any expensive cryptographic operation
	if err := auth.ValidateSignup(valReq); err != nil {
		return domain.SafeAccount{}, err
	}

	// Hashing happens here so the repository never sees a plain secret
	secretHash, err := auth.HashSecret(secret)
	if err != nil {
		return domain.SafeAccount{}, fmt.Errorf("hashing failed: %w", err)
	}

	account, err := s.accountRepository.CreateAccount(username, secretHash, time.Now().UTC())
	if err != nil {
		return domain.SafeAccount{}, err
	}

	return account.Sanitize(), nil
}

func (s *AccountService) Authenticate(username, secret string) (domain.SafeAccount, error) {
	account, err := s.authService.Authenticate(username, secret)
	if err != nil {
		return domain.SafeAccount{}, err
	}
	return account.Sanitize(), nil
}

func (s *AccountService) Lookup(username string) (domain.SafeAccount, error) {
	account, err := s.accountRepository.GetByUsername(username)
	if err != nil {
		return domain.SafeAccount{}, err
	}
	return account.Sanitize(), nil
}

func (s *AccountService) Remove(username string) (domain.SafeAccount, error) {
	account, err := s.accountRepository.DeleteByUsername(username)
	if err != nil {
		return domain.SafeAccount{}, err
	}
	return account.Sanitize(), nil
}

// ResetSecret rehashes and stores a new secret for an existing account.
// A missing account propagates as ErrNotFound, never a silent success.
func (s *AccountService) ResetSecret(username, newSecret string) (domain.SafeAccount, error) {
	valReq := auth.SignupRequest{
		Username: username,
		Secret:   newSecret,
	}
	if err := auth.ValidateSignup(valReq); err != nil {
		return domain.SafeAccount{}, err
	}

	secretHash, err := auth.HashSecret(newSecret)
	if err != nil {
		return domain.SafeAccount{}, fmt.Errorf("hashing failed: %w", err)
	}

	account, err := s.accountRepository.UpdateSecret(username, secretHash)
	if err != nil {
		return domain.SafeAccount{}, err
	}

	return account.Sanitize(), nil
}
