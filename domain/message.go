package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event. Once stored it keeps its
// ID and SentAt forever. Sender is a free label, not a reference to an
// Account.
type Message struct {
	ID     uuid.UUID `json:"id"`
	Body   string    `json:"body"`
	Sender string    `json:"sender"`
	SentAt time.Time `json:"sentAt"`
}
