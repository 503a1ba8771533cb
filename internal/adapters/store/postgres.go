package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"ratebot/internal/core/domain"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	connectTimeout = 10 * time.Second
	maxOpenConns   = 5

	createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    user_id    BIGINT PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

	upsertUser = `
INSERT INTO users (user_id, name)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()`
)

type Postgres struct {
	db *sqlx.DB
}

// NewPostgres opens the database, checks the connection and creates the users table when missing.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: database url", domain.ErrMissingConfig)
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Postgres{db: db}
	if err := p.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Msg("connected to postgres user store")
	return p, nil
}

func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func (p *Postgres) AddOrUpdateUser(ctx context.Context, id int64, name string) error {
	if _, err := p.db.ExecContext(ctx, upsertUser, id, name); err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", id, err)
	}
	return nil
}

func (p *Postgres) GetUserName(ctx context.Context, id int64) (string, error) {
	var name string
	err := p.db.GetContext(ctx, &name, `SELECT name FROM users WHERE user_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user %d: %w", id, err)
	}

	return name, nil
}

func (p *Postgres) ListUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := p.db.SelectContext(ctx, &ids, `SELECT user_id FROM users ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return ids, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
