package repository

//go:generate mockgen -source=client_repository.go -destination=mocks/mock_client_repository.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/domain"
)

// ClientRepository defines persistence access for registered clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.ClientIdentity) error
	FindByClientID(ctx context.Context, clientID string) (*domain.ClientIdentity, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository returns a Postgres-backed implementation.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.ClientIdentity) error {
	const query = `
        INSERT INTO clients (client_id, secret_hash)
        VALUES ($1, $2)
        RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		client.ClientID,
		client.SecretHash,
	).Scan(&client.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateClient
	}
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *clientRepository) FindByClientID(ctx context.Context, clientID string) (*domain.ClientIdentity, error) {
	const query = `
        SELECT client_id, secret_hash, created_at
        FROM clients WHERE client_id=$1`

	var client domain.ClientIdentity
	if err := r.pool.QueryRow(ctx, query, clientID).Scan(
		&client.ClientID,
		&client.SecretHash,
		&client.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select client: %w", err)
	}
	return &client, nil
}
