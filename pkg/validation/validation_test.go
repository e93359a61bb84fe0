package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/depot-stock/pkg/validation"
)

type sample struct {
	Name     string `validate:"required,max=5"`
	Quantity int    `validate:"gt=0"`
}

func TestStruct_Valido(t *testing.T) {
	assert.NoError(t, validation.Struct(sample{Name: "abc", Quantity: 1}))
}

func TestStruct_MensajePorCampo(t *testing.T) {
	err := validation.Struct(sample{Name: "", Quantity: 0})
	require.Error(t, err)
	assert.Equal(t, "name: required; quantity: gt", err.Error())
}
