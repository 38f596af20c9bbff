package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/domain"
)

type memoryClientRepository struct {
	mu      sync.RWMutex
	clients map[string]domain.ClientIdentity
}

// NewMemoryClientRepository returns an in-process ClientRepository used when no
// database is configured and in tests.
func NewMemoryClientRepository() ClientRepository {
	return &memoryClientRepository{clients: make(map[string]domain.ClientIdentity)}
}

func (r *memoryClientRepository) Create(_ context.Context, client *domain.ClientIdentity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[client.ClientID]; exists {
		return ErrDuplicateClient
	}
	client.CreatedAt = time.Now()
	stored := *client
	stored.ClientID = strings.Clone(client.ClientID)
	stored.SecretHash = strings.Clone(client.SecretHash)
	r.clients[stored.ClientID] = stored
	return nil
}

func (r *memoryClientRepository) FindByClientID(_ context.Context, clientID string) (*domain.ClientIdentity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[clientID]
	if !ok {
		return nil, ErrNotFound
	}
	return &client, nil
}
