package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/example/webstore/internal/model"
)

type PostgresUserStore struct {
	*Postgres
}

func NewPostgresUserStore(pg *Postgres) *PostgresUserStore {
	return &PostgresUserStore{Postgres: pg}
}

func (s *PostgresUserStore) selectUsers() sq.SelectBuilder {
	return s.sb.
		Select("u.id", "u.username", "u.password_hash", "r.name", "u.client_id").
		From("users u").
		Join("roles r ON r.id = u.role_id")
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	var clientID sql.NullInt64
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &clientID); err != nil {
		return nil, mapPQError(err)
	}
	u.ClientID = nullableInt(clientID)
	return &u, nil
}

func (s *PostgresUserStore) List(ctx context.Context) ([]model.User, error) {
	rows, err := s.query(ctx, s.selectUsers().OrderBy("u.id"))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *PostgresUserStore) Get(ctx context.Context, id int) (*model.User, error) {
	row, err := s.queryRow(ctx, s.selectUsers().Where(sq.Eq{"u.id": id}))
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	row, err := s.queryRow(ctx, s.selectUsers().Where(sq.Eq{"u.username": username}))
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (s *PostgresUserStore) roleID(ctx context.Context, role string) (int, error) {
	row, err := s.queryRow(ctx, s.sb.Select("id").From("roles").Where(sq.Eq{"name": role}))
	if err != nil {
		return 0, err
	}
	var id int
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("role %q: %w", role, mapPQError(err))
	}
	return id, nil
}

func (s *PostgresUserStore) Create(ctx context.Context, u *model.User) error {
	roleID, err := s.roleID(ctx, u.Role)
	if err != nil {
		return err
	}
	row, err := s.queryRow(ctx, s.sb.
		Insert("users").
		Columns("username", "password_hash", "role_id", "client_id").
		Values(u.Username, u.PasswordHash, roleID, u.ClientID).
		Suffix("RETURNING id"))
	if err != nil {
		return err
	}
	if err := row.Scan(&u.ID); err != nil {
		return fmt.Errorf("insert user: %w", mapPQError(err))
	}
	return nil
}

func (s *PostgresUserStore) UpdateRole(ctx context.Context, id int, role string, clientID *int) error {
	roleID, err := s.roleID(ctx, role)
	if err != nil {
		return err
	}
	return s.execOne(ctx, s.sb.
		Update("users").
		Set("role_id", roleID).
		Set("client_id", clientID).
		Where(sq.Eq{"id": id}))
}

func (s *PostgresUserStore) Delete(ctx context.Context, id int) error {
	return s.execOne(ctx, s.sb.Delete("users").Where(sq.Eq{"id": id}))
}

func (s *PostgresUserStore) CountByRole(ctx context.Context, role string) (int, error) {
	row, err := s.queryRow(ctx, s.sb.
		Select("COUNT(*)").
		From("users u").
		Join("roles r ON r.id = u.role_id").
		Where(sq.Eq{"r.name": role}))
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
