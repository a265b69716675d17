package database

import (
	"context"
	"fmt"
	"time"

	"go-jobwatch-automation/internal/models"
	"go-jobwatch-automation/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS listings (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	position      BIGSERIAL,
	first_seen_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Repository is the PostgreSQL flavour of the listing store.
type Repository struct {
	db *pgxpool.Pool
}

var _ store.Store = (*Repository)(nil)

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// Poolers in transaction mode (PgBouncer, Supabase) break prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create listings table: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// Load returns all listings in discovery order
func (r *Repository) Load(ctx context.Context) ([]models.Listing, error) {
	return loadListings(ctx, r.db)
}

// Merge inserts unseen listings in pass order inside one transaction
func (r *Repository) Merge(ctx context.Context, pass []models.Listing) ([]models.Listing, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin merge: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialise merges from concurrent processes sharing the table
	if _, err := tx.Exec(ctx, "LOCK TABLE listings IN SHARE ROW EXCLUSIVE MODE"); err != nil {
		return nil, fmt.Errorf("failed to lock listings: %w", err)
	}

	existing, err := loadListings(ctx, tx)
	if err != nil {
		return nil, err
	}

	fresh := store.NewEntries(existing, pass)
	if len(fresh) == 0 {
		return nil, nil
	}

	batch := &pgx.Batch{}
	for _, l := range fresh {
		// in-pass duplicates keep the first title
		batch.Queue("INSERT INTO listings (id, title) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING", l.ID, l.Title)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("failed to insert listings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit merge: %w", err)
	}
	return fresh, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadListings(ctx context.Context, q querier) ([]models.Listing, error) {
	rows, err := q.Query(ctx, "SELECT title, id FROM listings ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	listings, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Listing])
	if err != nil {
		return nil, fmt.Errorf("failed to scan listings: %w", err)
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	return listings, nil
}
