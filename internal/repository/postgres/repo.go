package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo — единая точка доступа к PostgreSQL для консоли.
// Методы разнесены по файлам: document_repo, risk_repo, audit_repo, user_repo.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo создает пул соединений и новый экземпляр репозитория
func NewRepo(ctx context.Context, connString string, maxConns, minConns int32) (*Repo, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid conn string: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = minConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}
	return &Repo{pool: pool}, nil
}

// Ping проверяет доступность базы при старте
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close освобождает пул при остановке сервиса
func (r *Repo) Close() {
	r.pool.Close()
}
