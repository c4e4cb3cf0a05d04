//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-hub/domain"
	"chat-hub/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const messagePrefix = "msg:"

type IMessageRepository interface {
	StoreMessage(message domain.Message) (domain.Message, error)
	GetAllMessages() ([]domain.Message, error)
	Close() error
}

type MessageRepository struct {
	db  *badger.DB
	seq *badger.Sequence
	log *slog.Logger
}

// NewMessageRepository reserves a monotonic sequence used to keep
// insertion order stable for messages sharing a timestamp.
func NewMessageRepository(db *badger.DB, log *slog.Logger) (*MessageRepository, error) {
	seq, err := db.GetSequence([]byte("seq:message"), 128)
	if err != nil {
		return nil, fmt.Errorf("sequence init: %w", err)
	}
	return &MessageRepository{db: db, seq: seq, log: log}, nil
}

// Close releases the unused part of the reserved sequence lease.
func (m *MessageRepository) Close() error {
	return m.seq.Release()
}

type diskMessage struct {
	ID     string    `json:"id"`
	Body   string    `json:"body"`
	Sender string    `json:"sender"`
	SentAt time.Time `json:"sent_at"`
}

// StoreMessage persists a message in BadgerDB and returns the stored copy.
// The key is "msg:{timestamp_padded}:{seq_padded}" so that:
//  1. Lexicographical key order equals ascending SentAt (19-digit zero
//     padding of UnixNano).
//  2. Two messages with the same timestamp keep their append order via
//     the monotonic sequence segment. The sort is stable by construction.
//
// SentAt is assigned here when the caller left it zero; once stored, the
// message is never rewritten.
func (m *MessageRepository) StoreMessage(message domain.Message) (domain.Message, error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.SentAt.IsZero() {
		message.SentAt = time.Now().UTC()
	}
	message.SentAt = message.SentAt.UTC()

	order, err := m.seq.Next()
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
	}

	key := fmt.Sprintf("%s%019d:%012d", messagePrefix, message.SentAt.UnixNano(), order)
	data, err := json.Marshal(fromMessage(message))
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
	}

	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
	}

	return message, nil
}

// GetAllMessages returns the full log, ascending by SentAt with ties in
// append order. Ordering comes for free from the key layout, so this is
// a single forward prefix scan.
func (m *MessageRepository) GetAllMessages() ([]domain.Message, error) {
	var rawMessages [][]byte

	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(messagePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				rawMessages = append(rawMessages, append([]byte(nil), val...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
	}

	messages := make([]domain.Message, 0, len(rawMessages))
	for _, raw := range rawMessages {
		var stored diskMessage
		if err = json.Unmarshal(raw, &stored); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
		}
		message, err := toMessage(stored)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrStoreFailure, err)
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func fromMessage(message domain.Message) diskMessage {
	return diskMessage{
		ID:     message.ID.String(),
		Body:   message.Body,
		Sender: message.Sender,
		SentAt: message.SentAt,
	}
}

func toMessage(stored diskMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(stored.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:     parsedID,
		Body:   stored.Body,
		Sender: stored.Sender,
		SentAt: stored.SentAt.UTC(),
	}, nil
}
