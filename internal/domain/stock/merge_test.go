package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/domain/stock"
)

func TestMergeDelta_IncrementaSKUExistente(t *testing.T) {
	in := sampleLines()
	out := stock.MergeDelta(in, "A1", "Shirt", 2)

	l, ok := stock.FindSKU(out, "A1")
	require.True(t, ok)
	assert.Equal(t, 5, l.Quantity)
	assert.Len(t, out, len(in))
	assert.Equal(t, 3, in[0].Quantity, "la entrada no debe mutarse")
}

func TestMergeDelta_AgregaSKUAusente(t *testing.T) {
	out := stock.MergeDelta(nil, "Z9", "Pull", 4)
	assert.Equal(t, []entity.StockLine{{SKU: "Z9", ProductName: "Pull", Quantity: 4}}, out)
}

func TestMergeDelta_PermiteNegativo(t *testing.T) {
	out := stock.MergeDelta(sampleLines(), "A1", "Shirt", -5)
	l, _ := stock.FindSKU(out, "A1")
	assert.Equal(t, -2, l.Quantity)
}

func TestSearchByName_IgnoraMayusculasYAcentos(t *testing.T) {
	got := stock.SearchByName(sampleLines(), "ECHARPE")
	require.Len(t, got, 1)
	assert.Equal(t, "B2", got[0].SKU)

	got = stock.SearchByName(sampleLines(), "c3")
	require.Len(t, got, 1)
	assert.Equal(t, "Bonnet", got[0].ProductName)

	assert.Len(t, stock.SearchByName(sampleLines(), ""), 3)
	assert.Empty(t, stock.SearchByName(sampleLines(), "pantalon"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "abime", stock.Fold(" Abimé "))
	assert.Equal(t, "reception", stock.Fold("Réception"))
}
