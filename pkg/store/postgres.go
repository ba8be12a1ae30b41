package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"logistics_router/pkg/obs"
)

// Open connects to Postgres through the pgx database/sql driver and
// verifies the connection.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         UUID PRIMARY KEY,
	seed       BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	config     JSONB NOT NULL,
	build      JSONB NOT NULL,
	summary    JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at_idx ON runs (created_at DESC);
`

// PostgresRunStore keeps runs in a Postgres table with JSONB payloads.
type PostgresRunStore struct {
	DB *sql.DB
}

func NewPostgresRunStore(db *sql.DB) *PostgresRunStore {
	return &PostgresRunStore{DB: db}
}

// InitSchema creates the runs table if it does not exist.
func (s *PostgresRunStore) InitSchema(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: create runs table: %w", err)
	}
	return nil
}

func (s *PostgresRunStore) SaveRun(ctx context.Context, rec *RunRecord) (err error) {
	defer obs.Time(ctx, "store.SaveRun")(&err)

	if s.DB == nil {
		return errors.New("save run: db is nil")
	}
	if _, err := uuid.Parse(rec.ID); err != nil {
		return fmt.Errorf("save run: invalid id %q: %w", rec.ID, err)
	}

	cfg, err := json.Marshal(rec.Config)
	if err != nil {
		return fmt.Errorf("save run: encode config: %w", err)
	}
	build, err := json.Marshal(rec.Build)
	if err != nil {
		return fmt.Errorf("save run: encode build stats: %w", err)
	}
	summary, err := json.Marshal(rec.Summary)
	if err != nil {
		return fmt.Errorf("save run: encode summary: %w", err)
	}

	q := `
	INSERT INTO runs (id, seed, created_at, config, build, summary)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		seed = EXCLUDED.seed,
		created_at = EXCLUDED.created_at,
		config = EXCLUDED.config,
		build = EXCLUDED.build,
		summary = EXCLUDED.summary;
	`
	if _, err := s.DB.ExecContext(ctx, q, rec.ID, rec.Seed, rec.CreatedAt, cfg, build, summary); err != nil {
		return fmt.Errorf("save run: insert runs row: %w", err)
	}
	return nil
}

func (s *PostgresRunStore) GetRun(ctx context.Context, id string) (_ *RunRecord, err error) {
	defer obs.Time(ctx, "store.GetRun")(&err)

	if s.DB == nil {
		return nil, errors.New("get run: db is nil")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrRunNotFound
	}

	q := `SELECT id, seed, created_at, config, build, summary FROM runs WHERE id = $1;`
	rec, err := scanRun(s.DB.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return rec, nil
}

func (s *PostgresRunStore) ListRuns(ctx context.Context, limit int) (_ []*RunRecord, err error) {
	defer obs.Time(ctx, "store.ListRuns")(&err)

	if s.DB == nil {
		return nil, errors.New("list runs: db is nil")
	}
	if limit <= 0 {
		limit = 100
	}

	q := `
	SELECT id, seed, created_at, config, build, summary
	FROM runs
	ORDER BY created_at DESC, id
	LIMIT $1;
	`
	rows, err := s.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: query runs table: %w", err)
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: iterate rows: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var rec RunRecord
	var cfg, build, summary []byte
	if err := row.Scan(&rec.ID, &rec.Seed, &rec.CreatedAt, &cfg, &build, &summary); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cfg, &rec.Config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := json.Unmarshal(build, &rec.Build); err != nil {
		return nil, fmt.Errorf("decode build stats: %w", err)
	}
	if err := json.Unmarshal(summary, &rec.Summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return &rec, nil
}
