package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/depot-stock/internal/application/auth"
	"github.com/jhoicas/depot-stock/internal/application/dto"
	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/pkg/jwt"
)

type fakeIdentity struct {
	users map[string]entity.User
}

func (f fakeIdentity) Login(_ context.Context, username, password string) (*entity.User, error) {
	u, ok := f.users[username]
	if !ok || password != "secreto" {
		return nil, domain.ErrUnauthorized
	}
	return &u, nil
}

const secret = "test-secret"

func newUC() *auth.AuthUseCase {
	return auth.NewAuthUseCase(fakeIdentity{users: map[string]entity.User{
		"lea":   {Username: "lea", Role: entity.RoleVendeuse},
		"intru": {Username: "intru", Role: "invitado"},
	}}, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "depot-stock-test"})
}

func TestLogin_EmiteTokenConRol(t *testing.T) {
	out, err := newUC().Login(t.Context(), dto.LoginRequest{Username: " lea ", Password: "secreto"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendeuse, out.Role)
	assert.True(t, out.Capabilities.CanExit)
	assert.False(t, out.Capabilities.CanSeeReceptions)

	username, role, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "lea", username)
	assert.Equal(t, entity.RoleVendeuse, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	_, err := newUC().Login(t.Context(), dto.LoginRequest{Username: "lea", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_RolDesconocidoProhibido(t *testing.T) {
	_, err := newUC().Login(t.Context(), dto.LoginRequest{Username: "intru", Password: "secreto"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
