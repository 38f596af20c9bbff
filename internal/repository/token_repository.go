package repository

//go:generate mockgen -source=token_repository.go -destination=mocks/mock_token_repository.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/domain"
)

// TokenRepository manages issued bearer tokens.
//
// FindValid must apply the expiry check itself: background deletion of expired
// rows is a storage optimisation and may lag behind the clock.
type TokenRepository interface {
	Insert(ctx context.Context, token *domain.IssuedToken) error
	FindValid(ctx context.Context, token string, now time.Time) (*domain.IssuedToken, error)
	// ExtendExpiry moves the expiry forward. A missing token is not an error
	// and an earlier expiry never replaces a later one.
	ExtendExpiry(ctx context.Context, token string, expiresAt time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type tokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository constructs repository.
func NewTokenRepository(pool *pgxpool.Pool) TokenRepository {
	return &tokenRepository{pool: pool}
}

func (r *tokenRepository) Insert(ctx context.Context, token *domain.IssuedToken) error {
	const query = `
        INSERT INTO auth_tokens (token, client_id, expires_at)
        VALUES ($1,$2,$3)
        RETURNING created_at`
	err := r.pool.QueryRow(ctx, query,
		token.Token,
		token.ClientID,
		token.ExpiresAt,
	).Scan(&token.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateToken
	}
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (r *tokenRepository) FindValid(ctx context.Context, tokenStr string, now time.Time) (*domain.IssuedToken, error) {
	const query = `
        SELECT token, client_id, expires_at, created_at
        FROM auth_tokens WHERE token=$1 AND expires_at > $2`
	var token domain.IssuedToken
	if err := r.pool.QueryRow(ctx, query, tokenStr, now).Scan(
		&token.Token,
		&token.ClientID,
		&token.ExpiresAt,
		&token.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select token: %w", err)
	}
	return &token, nil
}

func (r *tokenRepository) ExtendExpiry(ctx context.Context, tokenStr string, expiresAt time.Time) error {
	const query = `
        UPDATE auth_tokens SET expires_at=GREATEST(expires_at, $2)
        WHERE token=$1`
	if _, err := r.pool.Exec(ctx, query, tokenStr, expiresAt); err != nil {
		return fmt.Errorf("extend token: %w", err)
	}
	return nil
}

func (r *tokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM auth_tokens WHERE expires_at <= $1`
	cmd, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return cmd.RowsAffected(), nil
}
