package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/auth"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/domain"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/events"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/repository"
	apperrors "github.com/ThiccTapeman/statistic.alexanderhellsten.se/pkg/util"
)

// maxIssueAttempts bounds regeneration after a token value collision.
const maxIssueAttempts = 3

// AccessToken is the issuance result returned to clients.
type AccessToken struct {
	Token     string
	TokenType string
	ExpiresIn int
	ExpiresAt time.Time
}

// TokenService issues and validates bearer tokens.
type TokenService struct {
	credentials    *CredentialService
	tokens         repository.TokenRepository
	dispatcher     events.Dispatcher
	logger         *zap.Logger
	ttl            time.Duration
	slidingRenewal bool
	storeTimeout   time.Duration
	now            func() time.Time
	generate       auth.TokenGenerator
}

// TokenDependencies bundles collaborators for the token service.
type TokenDependencies struct {
	Credentials    *CredentialService
	TokenRepo      repository.TokenRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	TTL            time.Duration
	SlidingRenewal bool
	StoreTimeout   time.Duration
	// Clock and Generator default to time.Now and auth.GenerateToken.
	Clock     func() time.Time
	Generator auth.TokenGenerator
}

// NewTokenService constructs the service.
func NewTokenService(deps TokenDependencies) *TokenService {
	s := &TokenService{
		credentials:    deps.Credentials,
		tokens:         deps.TokenRepo,
		dispatcher:     deps.Dispatcher,
		logger:         deps.Logger,
		ttl:            deps.TTL,
		slidingRenewal: deps.SlidingRenewal,
		storeTimeout:   deps.StoreTimeout,
		now:            deps.Clock,
		generate:       deps.Generator,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.generate == nil {
		s.generate = auth.GenerateToken
	}
	return s
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue verifies the client credentials and stores a fresh token for them.
func (s *TokenService) Issue(ctx context.Context, clientID, clientSecret string) (*AccessToken, error) {
	if strings.TrimSpace(clientID) == "" || clientSecret == "" {
		return nil, apperrors.NewInvalidRequest("clientId and clientSecret are required", nil)
	}

	if err := s.credentials.Verify(ctx, clientID, clientSecret); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		value, err := s.generate()
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}

		token := &domain.IssuedToken{
			Token:     value,
			ClientID:  clientID,
			ExpiresAt: s.now().Add(s.ttl),
		}

		storeCtx, cancel := storeContext(ctx, s.storeTimeout)
		err = s.tokens.Insert(storeCtx, token)
		cancel()
		if errors.Is(err, repository.ErrDuplicateToken) {
			s.logger.Warn("token value collision, regenerating", zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, storeFailure("insert token", err)
		}

		_ = events.Publish(ctx, s.dispatcher, events.Event{
			Type:      events.EventTokenIssued,
			ClientID:  clientID,
			Timestamp: s.now(),
			Payload:   events.TokenIssuedPayload{ExpiresAt: token.ExpiresAt, Attempts: attempt},
		})
		return &AccessToken{
			Token:     token.Token,
			TokenType: domain.TokenTypeBearer,
			ExpiresIn: int(s.ttl / time.Second),
			ExpiresAt: token.ExpiresAt,
		}, nil
	}

	return nil, apperrors.NewInternalError(fmt.Errorf("token collision after %d attempts", maxIssueAttempts))
}

// Validate resolves token to its client id, sliding the expiry forward when
// renewal is enabled.
func (s *TokenService) Validate(ctx context.Context, token string) (string, error) {
	return s.validate(ctx, token, s.slidingRenewal)
}

// Introspect resolves token like Validate but never extends it.
func (s *TokenService) Introspect(ctx context.Context, token string) (string, error) {
	return s.validate(ctx, token, false)
}

func (s *TokenService) validate(ctx context.Context, token string, slide bool) (string, error) {
	if token == "" {
		s.rejected(ctx, "missing")
		return "", apperrors.NewMissingToken("missing access token")
	}

	now := s.now()
	storeCtx, cancel := storeContext(ctx, s.storeTimeout)
	issued, err := s.tokens.FindValid(storeCtx, token, now)
	cancel()
	if errors.Is(err, repository.ErrNotFound) {
		s.rejected(ctx, "invalid")
		return "", apperrors.NewInvalidToken()
	}
	if err != nil {
		return "", storeFailure("find token", err)
	}

	renewed := false
	expiresAt := issued.ExpiresAt
	if slide {
		next := now.Add(s.ttl)
		storeCtx, cancel := storeContext(ctx, s.storeTimeout)
		err := s.tokens.ExtendExpiry(storeCtx, token, next)
		cancel()
		if err != nil {
			s.logger.Warn("sliding renewal failed", zap.String("client_id", issued.ClientID), zap.Error(err))
		} else {
			renewed = true
			if next.After(expiresAt) {
				expiresAt = next
			}
		}
	}

	_ = events.Publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventTokenValidated,
		ClientID:  issued.ClientID,
		Timestamp: now,
		Payload:   events.TokenValidatedPayload{Renewed: renewed, ExpiresAt: expiresAt},
	})
	return issued.ClientID, nil
}

func (s *TokenService) rejected(ctx context.Context, reason string) {
	_ = events.Publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventTokenRejected,
		Timestamp: s.now(),
		Payload:   events.TokenRejectedPayload{Reason: reason},
	})
}
