package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/domain"
)

type memoryTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]domain.IssuedToken
}

// NewMemoryTokenRepository returns an in-process TokenRepository. Tokens are lost
// on restart.
func NewMemoryTokenRepository() TokenRepository {
	return &memoryTokenRepository{tokens: make(map[string]domain.IssuedToken)}
}

func (r *memoryTokenRepository) Insert(_ context.Context, token *domain.IssuedToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[token.Token]; exists {
		return ErrDuplicateToken
	}
	token.CreatedAt = time.Now()
	stored := *token
	stored.Token = strings.Clone(token.Token)
	stored.ClientID = strings.Clone(token.ClientID)
	r.tokens[stored.Token] = stored
	return nil
}

func (r *memoryTokenRepository) FindValid(_ context.Context, tokenStr string, now time.Time) (*domain.IssuedToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	token, ok := r.tokens[tokenStr]
	if !ok || token.ExpiredAt(now) {
		return nil, ErrNotFound
	}
	return &token, nil
}

func (r *memoryTokenRepository) ExtendExpiry(_ context.Context, tokenStr string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[tokenStr]
	if !ok || !expiresAt.After(token.ExpiresAt) {
		return nil
	}
	token.ExpiresAt = expiresAt
	// Keyed by the stored copy; assigning with tokenStr would replace the key.
	r.tokens[token.Token] = token
	return nil
}

func (r *memoryTokenRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for k, token := range r.tokens {
		if token.ExpiredAt(now) {
			delete(r.tokens, k)
			deleted++
		}
	}
	return deleted, nil
}
