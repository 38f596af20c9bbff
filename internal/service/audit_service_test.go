package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/events"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/observability"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/repository"
)

func TestAuditService_LogsAuthFlow(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	NewAuditService(dispatcher, zap.New(core), observability.NewMetrics()).RegisterHandlers()

	credentials := NewCredentialService(CredentialDependencies{
		ClientRepo: repository.NewMemoryClientRepository(),
		Hasher:     newTestHasher(t),
		Dispatcher: dispatcher,
	})
	tokens := NewTokenService(TokenDependencies{
		Credentials: credentials,
		TokenRepo:   repository.NewMemoryTokenRepository(),
		Dispatcher:  dispatcher,
		TTL:         time.Minute,
	})

	_, err := credentials.SeedDemoIdentity(ctx, "demo-client", "demo-secret")
	require.NoError(t, err)
	_, err = tokens.Issue(ctx, "demo-client", "demo-secret")
	require.NoError(t, err)
	_, err = tokens.Issue(ctx, "demo-client", "bad")
	require.Error(t, err)

	assert.Equal(t, 1, logs.FilterMessage("DemoClientSeeded").Len())
	assert.Equal(t, 1, logs.FilterMessage("TokenIssued").Len())
	rejected := logs.FilterMessage("CredentialsRejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, true, rejected[0].ContextMap()["known_client"])
}

func TestAuditService_NilDispatcher(t *testing.T) {
	assert.NotPanics(t, func() {
		NewAuditService(nil, zap.NewNop(), nil).RegisterHandlers()
	})
}
