package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/example/webstore/internal/model"
)

type PostgresClientStore struct {
	*Postgres
}

func NewPostgresClientStore(pg *Postgres) *PostgresClientStore {
	return &PostgresClientStore{Postgres: pg}
}

func (s *PostgresClientStore) List(ctx context.Context) ([]model.Client, error) {
	rows, err := s.query(ctx, s.sb.Select("id", "full_name", "email").From("clients").OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.FullName, &c.Email); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *PostgresClientStore) Get(ctx context.Context, id int) (*model.Client, error) {
	row, err := s.queryRow(ctx, s.sb.Select("id", "full_name", "email").From("clients").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	var c model.Client
	if err := row.Scan(&c.ID, &c.FullName, &c.Email); err != nil {
		return nil, mapPQError(err)
	}
	return &c, nil
}

func (s *PostgresClientStore) Create(ctx context.Context, c *model.Client) error {
	row, err := s.queryRow(ctx, s.sb.
		Insert("clients").
		Columns("full_name", "email").
		Values(c.FullName, c.Email).
		Suffix("RETURNING id"))
	if err != nil {
		return err
	}
	if err := row.Scan(&c.ID); err != nil {
		return fmt.Errorf("insert client: %w", mapPQError(err))
	}
	return nil
}

func (s *PostgresClientStore) Update(ctx context.Context, c *model.Client) error {
	return s.execOne(ctx, s.sb.
		Update("clients").
		Set("full_name", c.FullName).
		Set("email", c.Email).
		Where(sq.Eq{"id": c.ID}))
}

func (s *PostgresClientStore) Delete(ctx context.Context, id int) error {
	return s.execOne(ctx, s.sb.Delete("clients").Where(sq.Eq{"id": id}))
}
