//go:generate go run go.uber.org/mock/mockgen -source=account.go -destination=../mocks/mock_account_repository.go -package=mocks
package repositories

import (
	"chat-hub/domain"
	"chat-hub/errors"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IAccountRepository interface {
	CreateAccount(username, secretHash string, joinedAt time.Time) (domain.Account, error)
	GetByUsername(username string) (domain.Account, error)
	UpdateSecret(username, secretHash string) (domain.Account, error)
	DeleteByUsername(username string) (domain.Account, error)
}

type AccountRepository struct {
	db *badger.DB
}

func NewAccountRepository(db *badger.DB) IAccountRepository {
	return &AccountRepository{db: db}
}

// diskAccount is the storage representation of an account. Kept separate
// from domain.Account so the stored JSON shape can evolve independently.
type diskAccount struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	SecretHash string    `json:"secret_hash"`
	JoinedAt   time.Time `json:"joined_at"`
}

func accountKey(username string) []byte {
	return []byte("account:" + username)
}

// CreateAccount persists a new account under its username key.
// The existence check and the insert run inside a single Badger
// transaction; Badger's SSI makes two racing inserts for the same key
// fail one of them with ErrConflict at commit, which we surface as
// ErrUserAlreadyExists. Exactly one concurrent signup wins.
func (r AccountRepository) CreateAccount(username, secretHash string, joinedAt time.Time) (domain.Account, error) {
	stored := diskAccount{
		ID:         uuid.NewString(),
		Username:   username,
		SecretHash: secretHash,
		JoinedAt:   joinedAt.UTC(),
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return domain.Account{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(accountKey(username)); err == nil {
			return errors.ErrUserAlreadyExists
		}
		return txn.Set(accountKey(username), data)
	})
	if err == badger.ErrConflict || err == errors.ErrUserAlreadyExists {
		return domain.Account{}, errors.ErrUserAlreadyExists
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
	}

	return toAccount(stored), nil
}

// GetByUsername retrieves an account or reports ErrNotFound.
func (r AccountRepository) GetByUsername(username string) (domain.Account, error) {
	var stored diskAccount

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(username))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Account{}, errors.ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
	}

	return toAccount(stored), nil
}

// UpdateSecret replaces the credential hash of an existing account.
// ID, username and JoinedAt are preserved: accounts are never partially
// rewritten into a different identity.
func (r AccountRepository) UpdateSecret(username, secretHash string) (domain.Account, error) {
	var stored diskAccount

	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(username))
		if err != nil {
			return err
		}
		if err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		}); err != nil {
			return err
		}
		stored.SecretHash = secretHash
		data, err := json.Marshal(stored)
		if err != nil {
			return err
		}
		return txn.Set(accountKey(username), data)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Account{}, errors.ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
	}

	return toAccount(stored), nil
}

// DeleteByUsername removes the account and returns the removed record,
// or ErrNotFound when no such account exists. Never a silent no-op.
func (r AccountRepository) DeleteByUsername(username string) (domain.Account, error) {
	var stored diskAccount

	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(username))
		if err != nil {
			return err
		}
		if err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		}); err != nil {
			return err
		}
		return txn.Delete(accountKey(username))
	})
	if err == badger.ErrKeyNotFound {
		return domain.Account{}, errors.ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
	}

	return toAccount(stored), nil
}

func toAccount(stored diskAccount) domain.Account {
	return domain.Account{
		ID:         stored.ID,
		Username:   stored.Username,
		SecretHash: stored.SecretHash,
		JoinedAt:   stored.JoinedAt.UTC(),
	}
}
