// Package domain contains core concepts of the chat system.
// Accounts are the durable identities behind signup/login; messages
// are immutable chat events. Both are validated at the service layer.
package domain

import "time"

// Account is a registered user's identity record, including the
// credential hash. It must never cross the service boundary as-is.
type Account struct {
	ID         string
	Username   string
	SecretHash string
	JoinedAt   time.Time
}

// SafeAccount is the only account shape exposed outward.
type SafeAccount struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Sanitize strips the credential hash. Every service exit point goes
// through here, unconditionally.
func (a Account) Sanitize() SafeAccount {
	return SafeAccount{
		ID:       a.ID,
		Username: a.Username,
		JoinedAt: a.JoinedAt,
	}
}
