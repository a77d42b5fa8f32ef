package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roadside-plus/backend/internal/models"
)

// payload is json rather than jsonb so records come back with their keys in
// the order they were written.
const schema = `
CREATE TABLE IF NOT EXISTS dashboard_records (
	id         BIGSERIAL PRIMARY KEY,
	kind       TEXT        NOT NULL,
	payload    JSON        NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_dashboard_records_kind_created ON dashboard_records (kind, created_at DESC);
`

var filterKey = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var ErrInvalidFilter = errors.New("invalid filter field")

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListRecords returns the newest records of one kind. Each filter matches a
// top-level payload field by its text value.
func (s *Store) ListRecords(ctx context.Context, kind models.DatasetKind, filters map[string]string, limit int) ([]models.Record, error) {
	query, args, err := buildListQuery(kind, filters, limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	payloads, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, err
	}

	out := make([]models.Record, 0, len(payloads))
	for _, p := range payloads {
		var rec models.Record
		if err := json.Unmarshal(p, &rec); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", kind, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func buildListQuery(kind models.DatasetKind, filters map[string]string, limit int) (string, []any, error) {
	if limit <= 0 {
		limit = 100
	}

	args := []any{string(kind)}
	wheres := []string{"kind = $1"}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !filterKey.MatchString(k) {
			return "", nil, fmt.Errorf("%w %q", ErrInvalidFilter, k)
		}
		args = append(args, k, filters[k])
		wheres = append(wheres, fmt.Sprintf("payload->>$%d::text = $%d", len(args)-1, len(args)))
	}

	query := `SELECT payload FROM dashboard_records WHERE ` + strings.Join(wheres, " AND ")
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))
	return query, args, nil
}

func (s *Store) InsertRecords(ctx context.Context, kind models.DatasetKind, records []models.Record) (int64, error) {
	rows, err := encodeRows(kind, records)
	if err != nil {
		return 0, err
	}
	return s.Pool.CopyFrom(ctx, pgx.Identifier{"dashboard_records"}, []string{"kind", "payload"}, pgx.CopyFromRows(rows))
}

// ReplaceRecords swaps every stored record of kind for records in one transaction.
func (s *Store) ReplaceRecords(ctx context.Context, kind models.DatasetKind, records []models.Record) (int64, error) {
	var inserted int64
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM dashboard_records WHERE kind = $1`, string(kind)); err != nil {
			return err
		}
		rows, err := encodeRows(kind, records)
		if err != nil {
			return err
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"dashboard_records"}, []string{"kind", "payload"}, pgx.CopyFromRows(rows))
		inserted = n
		return err
	})
	return inserted, err
}

func encodeRows(kind models.DatasetKind, records []models.Record) ([][]any, error) {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encode %s record: %w", kind, err)
		}
		rows = append(rows, []any{string(kind), string(b)})
	}
	return rows, nil
}
