package service

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/domain"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/repository"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/repository/mocks"
	apperrors "github.com/ThiccTapeman/statistic.alexanderhellsten.se/pkg/util"
)

func TestTokenService_DemoClientScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, true)

	created, err := s.credentials.SeedDemoIdentity(ctx, "demo-client", "demo-secret")
	require.NoError(t, err)
	require.True(t, created)

	issued, err := s.tokenSvc.Issue(ctx, "demo-client", "demo-secret")
	require.NoError(t, err)
	assert.Len(t, issued.Token, 64)
	_, err = hex.DecodeString(issued.Token)
	assert.NoError(t, err)
	assert.Equal(t, "Bearer", issued.TokenType)
	assert.Equal(t, 300, issued.ExpiresIn)

	clientID, err := s.tokenSvc.Validate(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "demo-client", clientID)

	_, err = s.tokenSvc.Issue(ctx, "demo-client", "wrong")
	requireCode(t, err, apperrors.CodeInvalidCredentials)
	assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)
}

func TestTokenService_IssueRejectsEmptyInput(t *testing.T) {
	s := newTestServices(t, false)
	for _, tc := range []struct{ id, secret string }{{"", "x"}, {"x", ""}, {"  ", "x"}, {"", ""}} {
		_, err := s.tokenSvc.Issue(context.Background(), tc.id, tc.secret)
		requireCode(t, err, apperrors.CodeInvalidRequest)
	}
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, false)
	_, err := s.credentials.Register(ctx, "site", "secret")
	require.NoError(t, err)

	start := s.clock.Now()
	issued, err := s.tokenSvc.Issue(ctx, "site", "secret")
	require.NoError(t, err)
	assert.True(t, issued.ExpiresAt.Equal(start.Add(testTTL)))

	s.clock.Set(issued.ExpiresAt.Add(-time.Second))
	_, err = s.tokenSvc.Validate(ctx, issued.Token)
	require.NoError(t, err)

	s.clock.Set(issued.ExpiresAt)
	_, err = s.tokenSvc.Validate(ctx, issued.Token)
	requireCode(t, err, apperrors.CodeInvalidToken)

	s.clock.Set(issued.ExpiresAt.Add(time.Second))
	_, err = s.tokenSvc.Validate(ctx, issued.Token)
	requireCode(t, err, apperrors.CodeInvalidToken)
}

func TestTokenService_SlidingRenewal(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, true)
	_, err := s.credentials.Register(ctx, "site", "secret")
	require.NoError(t, err)

	issued, err := s.tokenSvc.Issue(ctx, "site", "secret")
	require.NoError(t, err)

	// Used one second before expiry, the token is pushed out by a full ttl.
	s.clock.Set(issued.ExpiresAt.Add(-time.Second))
	_, err = s.tokenSvc.Validate(ctx, issued.Token)
	require.NoError(t, err)

	s.clock.Set(issued.ExpiresAt.Add(time.Second))
	clientID, err := s.tokenSvc.Validate(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "site", clientID)

	// Idle for longer than a ttl, the token dies.
	s.clock.Set(s.clock.Now().Add(testTTL))
	_, err = s.tokenSvc.Validate(ctx, issued.Token)
	requireCode(t, err, apperrors.CodeInvalidToken)
}

func TestTokenService_IntrospectDoesNotSlide(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, true)
	_, err := s.credentials.Register(ctx, "site", "secret")
	require.NoError(t, err)
	issued, err := s.tokenSvc.Issue(ctx, "site", "secret")
	require.NoError(t, err)

	s.clock.Set(issued.ExpiresAt.Add(-time.Second))
	clientID, err := s.tokenSvc.Introspect(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "site", clientID)

	s.clock.Set(issued.ExpiresAt)
	_, err = s.tokenSvc.Introspect(ctx, issued.Token)
	requireCode(t, err, apperrors.CodeInvalidToken)
}

func TestTokenService_EnumerationResistance(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, false)
	_, err := s.credentials.Register(ctx, "known", "secret")
	require.NoError(t, err)

	_, unknownErr := s.tokenSvc.Issue(ctx, "unknown", "secret")
	_, wrongErr := s.tokenSvc.Issue(ctx, "known", "not-the-secret")

	unknown := apperrors.ToDomainError(unknownErr)
	wrong := apperrors.ToDomainError(wrongErr)
	require.NotNil(t, unknown)
	require.NotNil(t, wrong)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, unknown.HTTPStatus, wrong.HTTPStatus)
	assert.Equal(t, unknown.Message, wrong.Message)
}

func TestTokenService_ValidateEmptySkipsStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokens := mocks.NewMockTokenRepository(ctrl)
	svc := NewTokenService(TokenDependencies{TokenRepo: tokens, TTL: testTTL, SlidingRenewal: true})

	_, err := svc.Validate(context.Background(), "")
	requireCode(t, err, apperrors.CodeMissingToken)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestTokenService_IssueRetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	clients := repository.NewMemoryClientRepository()
	credentials := NewCredentialService(CredentialDependencies{ClientRepo: clients, Hasher: newTestHasher(t)})
	_, err := credentials.Register(ctx, "site", "secret")
	require.NoError(t, err)

	tokens := mocks.NewMockTokenRepository(ctrl)
	values := []string{"a", "b", "c"}
	generated := 0
	svc := NewTokenService(TokenDependencies{
		Credentials: credentials,
		TokenRepo:   tokens,
		TTL:         testTTL,
		Generator: func() (string, error) {
			v := values[generated]
			generated++
			return v, nil
		},
	})

	gomock.InOrder(
		tokens.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(repository.ErrDuplicateToken),
		tokens.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(repository.ErrDuplicateToken),
		tokens.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, token *domain.IssuedToken) error {
				assert.Equal(t, "c", token.Token)
				assert.Equal(t, "site", token.ClientID)
				return nil
			}),
	)

	issued, err := svc.Issue(ctx, "site", "secret")
	require.NoError(t, err)
	assert.Equal(t, "c", issued.Token)
	assert.Equal(t, 3, generated)
}

func TestTokenService_IssueGivesUpAfterThreeCollisions(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	clients := repository.NewMemoryClientRepository()
	credentials := NewCredentialService(CredentialDependencies{ClientRepo: clients, Hasher: newTestHasher(t)})
	_, err := credentials.Register(ctx, "site", "secret")
	require.NoError(t, err)

	tokens := mocks.NewMockTokenRepository(ctrl)
	tokens.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(repository.ErrDuplicateToken).Times(maxIssueAttempts)

	svc := NewTokenService(TokenDependencies{
		Credentials: credentials,
		TokenRepo:   tokens,
		TTL:         testTTL,
		Generator:   func() (string, error) { return "same", nil },
	})

	_, err = svc.Issue(ctx, "site", "secret")
	requireCode(t, err, apperrors.CodeInternal)
}

func TestTokenService_StoreTimeoutIsServerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokens := mocks.NewMockTokenRepository(ctrl)
	tokens.EXPECT().FindValid(gomock.Any(), "slow", gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ time.Time) (*domain.IssuedToken, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	svc := NewTokenService(TokenDependencies{TokenRepo: tokens, TTL: testTTL, StoreTimeout: 10 * time.Millisecond})

	_, err := svc.Validate(context.Background(), "slow")
	requireCode(t, err, apperrors.CodeInternal)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "internal server error", apperrors.ToDomainError(err).Message)
}

func TestTokenService_RenewalFailureIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := newFakeClock()
	tokens := mocks.NewMockTokenRepository(ctrl)
	tokens.EXPECT().FindValid(gomock.Any(), "tok", clock.Now()).
		Return(&domain.IssuedToken{Token: "tok", ClientID: "site", ExpiresAt: clock.Now().Add(time.Minute)}, nil)
	tokens.EXPECT().ExtendExpiry(gomock.Any(), "tok", clock.Now().Add(testTTL)).
		Return(errors.New("connection reset"))

	svc := NewTokenService(TokenDependencies{
		TokenRepo:      tokens,
		TTL:            testTTL,
		SlidingRenewal: true,
		Clock:          clock.Now,
	})

	clientID, err := svc.Validate(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "site", clientID)
}

func TestTokenService_NoRenewalWhenDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokens := mocks.NewMockTokenRepository(ctrl)
	tokens.EXPECT().FindValid(gomock.Any(), "tok", gomock.Any()).
		Return(&domain.IssuedToken{Token: "tok", ClientID: "site", ExpiresAt: time.Now().Add(time.Hour)}, nil)

	svc := NewTokenService(TokenDependencies{TokenRepo: tokens, TTL: testTTL})

	_, err := svc.Validate(context.Background(), "tok")
	require.NoError(t, err)
}
