package repository

import (
	"context"

	"github.com/jhoicas/depot-stock/internal/domain/entity"
)

// UserCredentials usuario con su hash de contraseña (solo backend local).
type UserCredentials struct {
	entity.User
	PasswordHash string
}

// UserRepository define el puerto de persistencia de usuarios del backend local.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*UserCredentials, error)
	Create(ctx context.Context, user *UserCredentials) error
	Count(ctx context.Context) (int, error)
}
