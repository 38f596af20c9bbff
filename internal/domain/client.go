package domain

import "time"

// ClientIdentity is a registered caller allowed to request tokens.
type ClientIdentity struct {
	ClientID   string
	SecretHash string
	CreatedAt  time.Time
}
