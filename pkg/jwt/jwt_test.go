package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/depot-stock/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse_ConRol(t *testing.T) {
	tok, err := jwt.Generate(secret, "paul", "responsable", "depot-stock-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	username, role, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "paul", username)
	assert.Equal(t, "responsable", role)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "paul", "admin", "depot-stock-test", 60)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := jwt.Generate(secret, "paul", "admin", "depot-stock-test", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse(secret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := jwt.Generate(secret, "paul", "admin", "depot-stock-test", 60)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}
