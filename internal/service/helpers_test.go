package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/auth"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/repository"
	apperrors "github.com/ThiccTapeman/statistic.alexanderhellsten.se/pkg/util"
)

const testTTL = 300 * time.Second

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newTestHasher(t *testing.T) *auth.SecretHasher {
	t.Helper()
	hasher, err := auth.NewSecretHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return hasher
}

type testServices struct {
	clients     repository.ClientRepository
	tokens      repository.TokenRepository
	credentials *CredentialService
	tokenSvc    *TokenService
	clock       *fakeClock
}

func newTestServices(t *testing.T, sliding bool) *testServices {
	t.Helper()
	clients := repository.NewMemoryClientRepository()
	tokens := repository.NewMemoryTokenRepository()
	clock := newFakeClock()

	credentials := NewCredentialService(CredentialDependencies{
		ClientRepo: clients,
		Hasher:     newTestHasher(t),
		Clock:      clock.Now,
	})
	tokenSvc := NewTokenService(TokenDependencies{
		Credentials:    credentials,
		TokenRepo:      tokens,
		TTL:            testTTL,
		SlidingRenewal: sliding,
		Clock:          clock.Now,
	})
	return &testServices{
		clients:     clients,
		tokens:      tokens,
		credentials: credentials,
		tokenSvc:    tokenSvc,
		clock:       clock,
	}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperrors.HasCode(err, code), "want %s, got %v", code, err)
}
