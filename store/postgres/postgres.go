// Package postgres implements the store on PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cvhariharan/actordir/models"
	"github.com/cvhariharan/actordir/store"
)

type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// Open connects, pings and applies pending migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return New(pool), nil
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CreateActor(ctx context.Context, rec *models.ActorRecord) error {
	const query = `INSERT INTO actors (username, domain, display_name, summary, public_key, private_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (username) DO NOTHING`
	tag, err := s.pool.Exec(ctx, query, rec.Username, rec.Domain, rec.DisplayName, rec.Summary, rec.PublicKey, rec.PrivateKey, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert actor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrExists
	}
	return nil
}

func (s *Store) GetActor(ctx context.Context, username string) (*models.ActorRecord, error) {
	const query = `SELECT username, domain, display_name, summary, public_key, private_key, created_at
		FROM actors WHERE username = $1`
	var rec models.ActorRecord
	err := s.pool.QueryRow(ctx, query, username).Scan(
		&rec.Username, &rec.Domain, &rec.DisplayName, &rec.Summary, &rec.PublicKey, &rec.PrivateKey, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("select actor: %w", err)
	}
	return &rec, nil
}

func (s *Store) AppendSample(ctx context.Context, sample models.LatencySample) error {
	const query = `INSERT INTO latency_samples (sample_key, id, ts_ms, value_ms)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sample_key) DO UPDATE SET value_ms = EXCLUDED.value_ms`
	if _, err := s.pool.Exec(ctx, query, sample.Key(), sample.ID, sample.TimestampMs, sample.ValueMs); err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

func (s *Store) PruneSamples(ctx context.Context, beforeMs int64) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM latency_samples WHERE ts_ms < $1`, beforeMs)
	if err != nil {
		return 0, fmt.Errorf("prune samples: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) ListSamples(ctx context.Context) ([]models.LatencySample, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, ts_ms, value_ms FROM latency_samples ORDER BY sample_key`)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()

	var out []models.LatencySample
	for rows.Next() {
		var sample models.LatencySample
		if err := rows.Scan(&sample.ID, &sample.TimestampMs, &sample.ValueMs); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		out = append(out, sample)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
