package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/auth"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/domain"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/events"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/repository"
	apperrors "github.com/ThiccTapeman/statistic.alexanderhellsten.se/pkg/util"
)

// CredentialService owns client identities and secret verification.
type CredentialService struct {
	clients      repository.ClientRepository
	hasher       *auth.SecretHasher
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	storeTimeout time.Duration
	now          func() time.Time
}

// CredentialDependencies bundles collaborators for the credential service.
type CredentialDependencies struct {
	ClientRepo   repository.ClientRepository
	Hasher       *auth.SecretHasher
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	StoreTimeout time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// NewCredentialService constructs the service.
func NewCredentialService(deps CredentialDependencies) *CredentialService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &CredentialService{
		clients:      deps.ClientRepo,
		hasher:       deps.Hasher,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		storeTimeout: deps.StoreTimeout,
		now:          now,
	}
}

// Verify checks a client id/secret pair. Unknown clients and wrong secrets
// produce the same error after the same amount of hashing work.
func (s *CredentialService) Verify(ctx context.Context, clientID, secret string) error {
	storeCtx, cancel := storeContext(ctx, s.storeTimeout)
	client, err := s.clients.FindByClientID(storeCtx, clientID)
	cancel()

	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.hasher.CompareDummy(secret)
		s.reject(ctx, clientID, false)
		return apperrors.NewInvalidCredentials()
	case err != nil:
		return storeFailure("find client", err)
	}

	if !s.hasher.Compare(client.SecretHash, secret) {
		s.reject(ctx, clientID, true)
		return apperrors.NewInvalidCredentials()
	}
	return nil
}

func (s *CredentialService) reject(ctx context.Context, clientID string, known bool) {
	_ = events.Publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventCredentialsRejected,
		ClientID:  clientID,
		Timestamp: s.now(),
		Payload:   events.CredentialsRejectedPayload{KnownClient: known},
	})
}

// Register creates a new client identity with a hashed secret.
func (s *CredentialService) Register(ctx context.Context, clientID, secret string) (*domain.ClientIdentity, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" || secret == "" {
		return nil, apperrors.NewInvalidRequest("clientId and clientSecret are required", nil)
	}

	hash, err := s.hashSecret(secret)
	if err != nil {
		return nil, err
	}

	client := &domain.ClientIdentity{ClientID: clientID, SecretHash: hash}
	storeCtx, cancel := storeContext(ctx, s.storeTimeout)
	err = s.clients.Create(storeCtx, client)
	cancel()
	if errors.Is(err, repository.ErrDuplicateClient) {
		return nil, apperrors.NewConflict("client already registered", map[string]any{"clientId": clientID})
	}
	if err != nil {
		return nil, storeFailure("create client", err)
	}

	_ = events.Publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventClientRegistered,
		ClientID:  clientID,
		Timestamp: s.now(),
	})
	return client, nil
}

func (s *CredentialService) hashSecret(secret string) (string, error) {
	hash, err := s.hasher.Hash(secret)
	if errors.Is(err, auth.ErrSecretTooLong) {
		return "", apperrors.NewInvalidRequest("clientSecret is too long", map[string]any{
			"maxBytes": auth.MaxSecretBytes,
		})
	}
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return hash, nil
}

// SeedDemoIdentity inserts the demo client when absent and reports whether it
// created it. Losing a concurrent first-run race counts as success. An empty
// clientID disables seeding.
func (s *CredentialService) SeedDemoIdentity(ctx context.Context, clientID, secret string) (bool, error) {
	if clientID == "" {
		return false, nil
	}

	storeCtx, cancel := storeContext(ctx, s.storeTimeout)
	_, err := s.clients.FindByClientID(storeCtx, clientID)
	cancel()
	if err == nil {
		s.seeded(ctx, clientID, false)
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, storeFailure("find demo client", err)
	}

	hash, err := s.hashSecret(secret)
	if err != nil {
		return false, err
	}

	storeCtx, cancel = storeContext(ctx, s.storeTimeout)
	err = s.clients.Create(storeCtx, &domain.ClientIdentity{ClientID: clientID, SecretHash: hash})
	cancel()
	if errors.Is(err, repository.ErrDuplicateClient) {
		s.seeded(ctx, clientID, false)
		return false, nil
	}
	if err != nil {
		return false, storeFailure("create demo client", err)
	}

	s.seeded(ctx, clientID, true)
	return true, nil
}

func (s *CredentialService) seeded(ctx context.Context, clientID string, created bool) {
	_ = events.Publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventDemoClientSeeded,
		ClientID:  clientID,
		Timestamp: s.now(),
		Payload:   events.DemoClientSeededPayload{Created: created},
	})
}
