package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTokenIssued         EventType = "token_issued"
	EventTokenValidated      EventType = "token_validated"
	EventTokenRejected       EventType = "token_rejected"
	EventCredentialsRejected EventType = "credentials_rejected"
	EventClientRegistered    EventType = "client_registered"
	EventDemoClientSeeded    EventType = "demo_client_seeded"
	EventTokensSwept         EventType = "tokens_swept"
	EventRecordStored        EventType = "record_stored"
)

// Event represents an auth or ingestion event emitted by services.
type Event struct {
	Type      EventType   `json:"type"`
	ClientID  string      `json:"client_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TokenIssuedPayload payload.
type TokenIssuedPayload struct {
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
}

// TokenValidatedPayload payload.
type TokenValidatedPayload struct {
	Renewed   bool      `json:"renewed"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenRejectedPayload payload. Reason is "missing" or "invalid".
type TokenRejectedPayload struct {
	Reason string `json:"reason"`
}

// CredentialsRejectedPayload payload. KnownClient is for logs only and is never returned to callers.
type CredentialsRejectedPayload struct {
	KnownClient bool `json:"known_client"`
}

// DemoClientSeededPayload payload.
type DemoClientSeededPayload struct {
	Created bool `json:"created"`
}

// TokensSweptPayload payload.
type TokensSweptPayload struct {
	Deleted int64 `json:"deleted"`
}

// RecordStoredPayload payload.
type RecordStoredPayload struct {
	Kind      string `json:"kind"`
	RecordID  string `json:"record_id"`
	SessionID string `json:"session_id"`
}
