package services

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/repositories"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
)

var validateMessage = validator.New()

type IMessageService interface {
	SubmitMessage(body, sender string) (domain.Message, error)
	ListMessages() []domain.Message
}

// PostMessageRequest carries a message submission. Body and sender only
// need to be non-empty; sender is a free label, not an account lookup.
type PostMessageRequest struct {
	Body   string `validate:"required"`
	Sender string `validate:"required"`
}

// MessageService appends messages to the durable log and fans them out
// to live subscribers. Publication happens only after a successful
// append, and always with the stored message (final id and timestamp),
// so subscribers and later readers see the same event.
type MessageService struct {
	messageRepository repositories.IMessageRepository
	publisher         contract.IPublisher
	log               *slog.Logger
}

func NewMessageService(repo repositories.IMessageRepository, publisher contract.IPublisher, log *slog.Logger) IMessageService {
	return &MessageService{messageRepository: repo, publisher: publisher, log: log}
}

func (s *MessageService) SubmitMessage(body, sender string) (domain.Message, error) {
	req := PostMessageRequest{Body: body, Sender: sender}
	if err := validateMessage.Struct(req); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}

	stored, err := s.messageRepository.StoreMessage(domain.Message{
		Body:   body,
		Sender: sender,
	})
	if err != nil {
		// Nothing was persisted, so nothing is broadcast
		return domain.Message{}, err
	}

	s.publisher.Publish(stored)
	return stored, nil
}

// ListMessages returns the full ordered log. A store failure is absorbed
// here and degraded to an empty list: this read path has no side effects
// and its callers must always get a list back.
func (s *MessageService) ListMessages() []domain.Message {
	messages, err := s.messageRepository.GetAllMessages()
	if err != nil {
		s.log.Error("message log read failed, degrading to empty list", "error", err)
		return []domain.Message{}
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages
}
