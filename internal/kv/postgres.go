package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/ezcart/internal/db"
	"github.com/nikolayk812/ezcart/internal/migrations"
	"github.com/nikolayk812/ezcart/internal/port"
)

// Postgres stores values as JSONB rows of the kv_items table.
// Values must therefore be valid JSON documents.
type Postgres struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

var _ port.BatchKV = (*Postgres)(nil)

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewPostgresWithTx(tx pgx.Tx) *Postgres {
	return &Postgres{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

// EnsureSchema applies the embedded migrations. They are idempotent.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if p.pool == nil {
		return fmt.Errorf("pool is nil")
	}

	files, err := fs.Glob(migrations.FS, "*.up.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob: %w", err)
	}

	for _, name := range files {
		script, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("fs.ReadFile[%s]: %w", name, err)
		}

		if _, err := p.pool.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("migration[%s]: %w", name, err)
		}
	}

	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, fmt.Errorf("key is empty")
	}

	value, err := p.q.GetItem(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("q.GetItem: %w", err)
	}

	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	err := p.q.SetItem(ctx, db.SetItemParams{
		Key:   key,
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("q.SetItem: %w", err)
	}

	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := p.q.DeleteItem(ctx, key); err != nil {
		return fmt.Errorf("q.DeleteItem: %w", err)
	}

	return nil
}

func (p *Postgres) SetBatch(ctx context.Context, entries []port.KVEntry) error {
	for _, e := range entries {
		if e.Key == "" {
			return fmt.Errorf("key is empty")
		}
	}

	_, err := withTx(ctx, p.pool, p.q, func(q *db.Queries) (struct{}, error) {
		for _, e := range entries {
			err := q.SetItem(ctx, db.SetItemParams{
				Key:   e.Key,
				Value: e.Value,
			})
			if err != nil {
				return struct{}{}, fmt.Errorf("q.SetItem[%s]: %w", e.Key, err)
			}
		}

		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}
