package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/domain"
)

// tokenRepositoryContract runs the behaviour every TokenRepository must share.
func tokenRepositoryContract(t *testing.T, newRepo func(t *testing.T) TokenRepository) {
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	t.Run("insert and find", func(t *testing.T) {
		repo := newRepo(t)
		tok := &domain.IssuedToken{Token: "tok-find", ClientID: "client-a", ExpiresAt: now.Add(5 * time.Minute)}
		require.NoError(t, repo.Insert(ctx, tok))

		got, err := repo.FindValid(ctx, "tok-find", now)
		require.NoError(t, err)
		assert.Equal(t, "client-a", got.ClientID)
		assert.True(t, got.ExpiresAt.Equal(tok.ExpiresAt))
	})

	t.Run("duplicate token", func(t *testing.T) {
		repo := newRepo(t)
		tok := &domain.IssuedToken{Token: "tok-dup", ClientID: "client-a", ExpiresAt: now.Add(time.Minute)}
		require.NoError(t, repo.Insert(ctx, tok))

		err := repo.Insert(ctx, &domain.IssuedToken{Token: "tok-dup", ClientID: "client-b", ExpiresAt: now.Add(time.Minute)})
		assert.ErrorIs(t, err, ErrDuplicateToken)
	})

	t.Run("unknown token", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindValid(ctx, "nope", now)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("logical expiry", func(t *testing.T) {
		repo := newRepo(t)
		expires := now.Add(2 * time.Minute)
		require.NoError(t, repo.Insert(ctx, &domain.IssuedToken{Token: "tok-exp", ClientID: "c", ExpiresAt: expires}))

		_, err := repo.FindValid(ctx, "tok-exp", expires.Add(-time.Second))
		require.NoError(t, err)

		_, err = repo.FindValid(ctx, "tok-exp", expires)
		assert.ErrorIs(t, err, ErrNotFound, "token must be invalid at its expiry instant")

		_, err = repo.FindValid(ctx, "tok-exp", expires.Add(time.Second))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("extend expiry", func(t *testing.T) {
		repo := newRepo(t)
		expires := now.Add(time.Minute)
		require.NoError(t, repo.Insert(ctx, &domain.IssuedToken{Token: "tok-ext", ClientID: "c", ExpiresAt: expires}))

		later := now.Add(10 * time.Minute)
		require.NoError(t, repo.ExtendExpiry(ctx, "tok-ext", later))

		got, err := repo.FindValid(ctx, "tok-ext", expires.Add(time.Second))
		require.NoError(t, err)
		assert.True(t, got.ExpiresAt.Equal(later))
	})

	t.Run("extend never shortens", func(t *testing.T) {
		repo := newRepo(t)
		expires := now.Add(10 * time.Minute)
		require.NoError(t, repo.Insert(ctx, &domain.IssuedToken{Token: "tok-short", ClientID: "c", ExpiresAt: expires}))

		require.NoError(t, repo.ExtendExpiry(ctx, "tok-short", now.Add(time.Minute)))

		got, err := repo.FindValid(ctx, "tok-short", now.Add(5*time.Minute))
		require.NoError(t, err)
		assert.True(t, got.ExpiresAt.Equal(expires))
	})

	t.Run("extend missing token is a no-op", func(t *testing.T) {
		repo := newRepo(t)
		assert.NoError(t, repo.ExtendExpiry(ctx, "ghost", now.Add(time.Hour)))

		_, err := repo.FindValid(ctx, "ghost", now)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("concurrent extends only move forward", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, &domain.IssuedToken{Token: "tok-race", ClientID: "c", ExpiresAt: now.Add(time.Minute)}))

		var wg sync.WaitGroup
		for i := 1; i <= 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = repo.ExtendExpiry(ctx, "tok-race", now.Add(time.Duration(i)*time.Minute))
			}(i)
		}
		wg.Wait()

		got, err := repo.FindValid(ctx, "tok-race", now)
		require.NoError(t, err)
		assert.True(t, got.ExpiresAt.Equal(now.Add(20*time.Minute)))
	})
}

func TestMemoryTokenRepository(t *testing.T) {
	tokenRepositoryContract(t, func(*testing.T) TokenRepository {
		return NewMemoryTokenRepository()
	})
}

func TestMemoryTokenRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTokenRepository()
	now := time.Now()

	require.NoError(t, repo.Insert(ctx, &domain.IssuedToken{Token: "old-1", ClientID: "c", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.Insert(ctx, &domain.IssuedToken{Token: "old-2", ClientID: "c", ExpiresAt: now}))
	require.NoError(t, repo.Insert(ctx, &domain.IssuedToken{Token: "live", ClientID: "c", ExpiresAt: now.Add(time.Minute)}))

	deleted, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = repo.FindValid(ctx, "live", now)
	assert.NoError(t, err)

	// The expired ones are gone for good, so re-inserting the same value works.
	assert.NoError(t, repo.Insert(ctx, &domain.IssuedToken{Token: "old-1", ClientID: "c", ExpiresAt: now.Add(time.Minute)}))
}

func TestMemoryTokenRepository_ExtendKeepsStoredKey(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	repo := NewMemoryTokenRepository()
	require.NoError(t, repo.Insert(ctx, &domain.IssuedToken{Token: "tok-key", ClientID: "a", ExpiresAt: now.Add(time.Minute)}))

	buf := []byte("tok-key")
	require.NoError(t, repo.ExtendExpiry(ctx, aliasedString(buf), now.Add(time.Hour)))
	overwrite(buf)

	got, err := repo.FindValid(ctx, "tok-key", now)
	require.NoError(t, err)
	assert.True(t, got.ExpiresAt.Equal(now.Add(time.Hour)))
}
