package httpapi

import (
	"chat-hub/domain"
	"chat-hub/errors"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/samber/lo"
)

type addMessageRequest struct {
	Body   string `json:"body"`
	Sender string `json:"sender"`
}

type messageResponse struct {
	ID     string    `json:"id"`
	Body   string    `json:"body"`
	Sender string    `json:"sender"`
	SentAt time.Time `json:"sentAt"`
}

func toMessageResponse(message domain.Message) messageResponse {
	return messageResponse{
		ID:     message.ID.String(),
		Body:   message.Body,
		Sender: message.Sender,
		SentAt: message.SentAt,
	}
}

func (s *Server) addMessage(w http.ResponseWriter, r *http.Request) {
	var req addMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, fmt.Errorf("%w: malformed body", errors.ErrValidation))
		return
	}

	message, err := s.messageService.SubmitMessage(req.Body, req.Sender)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, toMessageResponse(message))
}

// getMessages never fails outward: a store failure was already degraded
// to an empty list by the service.
func (s *Server) getMessages(w http.ResponseWriter, _ *http.Request) {
	messages := s.messageService.ListMessages()
	s.respondJSON(w, http.StatusOK, lo.Map(messages, func(item domain.Message, _ int) messageResponse {
		return toMessageResponse(item)
	}))
}
