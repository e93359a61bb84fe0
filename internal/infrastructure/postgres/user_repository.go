package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios del backend local sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// FindByUsername devuelve nil si el usuario no existe.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*repository.UserCredentials, error) {
	var u repository.UserCredentials
	err := r.q.QueryRow(ctx, `SELECT username, role, password_hash FROM users WHERE username = $1`, username).
		Scan(&u.Username, &u.Role, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Create inserta el usuario. Username duplicado → domain.ErrInvalidInput.
func (r *UserRepo) Create(ctx context.Context, u *repository.UserCredentials) error {
	_, err := r.q.Exec(ctx, `INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3)`,
		u.Username, u.PasswordHash, u.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("usuario %q ya existe: %w", u.Username, domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Count número de usuarios registrados.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
