package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/example/webstore/internal/model"
)

// PostgresLookupStore serves every catalog dimension table. The kind is
// validated before it is used as a table name.
type PostgresLookupStore struct {
	*Postgres
}

func NewPostgresLookupStore(pg *Postgres) *PostgresLookupStore {
	return &PostgresLookupStore{Postgres: pg}
}

func table(kind LookupKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("unknown lookup kind %q", kind)
	}
	return string(kind), nil
}

func (s *PostgresLookupStore) List(ctx context.Context, kind LookupKind) ([]model.Lookup, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.query(ctx, s.sb.Select("id", "name").From(t).OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t, err)
	}
	defer rows.Close()

	var out []model.Lookup
	for rows.Next() {
		var l model.Lookup
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *PostgresLookupStore) Get(ctx context.Context, kind LookupKind, id int) (*model.Lookup, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}
	row, err := s.queryRow(ctx, s.sb.Select("id", "name").From(t).Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	var l model.Lookup
	if err := row.Scan(&l.ID, &l.Name); err != nil {
		return nil, mapPQError(err)
	}
	return &l, nil
}

func (s *PostgresLookupStore) Create(ctx context.Context, kind LookupKind, name string) (*model.Lookup, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}
	row, err := s.queryRow(ctx, s.sb.Insert(t).Columns("name").Values(name).Suffix("RETURNING id"))
	if err != nil {
		return nil, err
	}
	l := model.Lookup{Name: name}
	if err := row.Scan(&l.ID); err != nil {
		return nil, fmt.Errorf("insert %s: %w", t, mapPQError(err))
	}
	return &l, nil
}

func (s *PostgresLookupStore) Update(ctx context.Context, kind LookupKind, id int, name string) error {
	t, err := table(kind)
	if err != nil {
		return err
	}
	return s.execOne(ctx, s.sb.Update(t).Set("name", name).Where(sq.Eq{"id": id}))
}

func (s *PostgresLookupStore) Delete(ctx context.Context, kind LookupKind, id int) error {
	t, err := table(kind)
	if err != nil {
		return err
	}
	return s.execOne(ctx, s.sb.Delete(t).Where(sq.Eq{"id": id}))
}
