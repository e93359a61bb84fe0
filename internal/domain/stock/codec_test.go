package stock_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/domain/stock"
)

func sampleLines() []entity.StockLine {
	return []entity.StockLine{
		{SKU: "A1", ProductName: "Shirt", Quantity: 3},
		{SKU: "B2", ProductName: "Écharpe", Quantity: 0},
		{SKU: "C3", ProductName: "Bonnet", Quantity: -2},
	}
}

func TestEncodeDecode_RoundTripConservaTriples(t *testing.T) {
	in := sampleLines()
	raw, err := stock.EncodeLines(in)
	require.NoError(t, err)

	out, err := stock.DecodeLines(raw)
	require.NoError(t, err)

	assert.ElementsMatch(t, in, out, "el blob debe reproducir los mismos {sku, nombre, cantidad}")
}

func TestEncodeLines_UsaNombresDelBackendLocal(t *testing.T) {
	raw, err := stock.EncodeLines([]entity.StockLine{{SKU: "A1", ProductName: "Shirt", Quantity: 3}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"sku":"A1","nom_produit":"Shirt","quantite":3}]`, string(raw))
}

func TestEncodeLines_NilEsArregloVacio(t *testing.T) {
	raw, err := stock.EncodeLines(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestDecodeLines_StringYDobleString(t *testing.T) {
	arr, err := stock.EncodeLines(sampleLines())
	require.NoError(t, err)

	once, err := json.Marshal(string(arr))
	require.NoError(t, err)
	twice, err := json.Marshal(string(once))
	require.NoError(t, err)

	for name, raw := range map[string][]byte{"string": once, "doble": twice} {
		out, err := stock.DecodeLines(raw)
		require.NoError(t, err, name)
		assert.ElementsMatch(t, sampleLines(), out, name)
	}
}

func TestDecodeLines_VacioONullEsListaVacia(t *testing.T) {
	for _, raw := range []string{"", "null", `""`, "  "} {
		out, err := stock.DecodeLines([]byte(raw))
		require.NoError(t, err, raw)
		assert.Empty(t, out, raw)
		assert.NotNil(t, out, raw)
	}
}

func TestDecodeLines_CantidadComoString(t *testing.T) {
	out, err := stock.DecodeLines([]byte(`[{"sku":"A1","nom_produit":"Shirt","quantite":"4"}]`))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 4, out[0].Quantity)
}

func TestDecodeLines_FormatoInvalido(t *testing.T) {
	_, err := stock.DecodeLines([]byte(`{"sku":"A1"}`))
	assert.Error(t, err)

	_, err = stock.DecodeLines([]byte(`[{"sku":"A1","quantite":"muchos"}]`))
	assert.Error(t, err)
}

func TestDecodeLines_CantidadNoFinitaFraccionOFueraDeRango(t *testing.T) {
	for _, q := range []string{`"NaN"`, `"Inf"`, `"-Inf"`, `1e300`, `"1e300"`, `"3.9"`, `3.9`, `-0.5`} {
		_, err := stock.DecodeLines([]byte(`[{"sku":"A1","nom_produit":"Shirt","quantite":` + q + `}]`))
		assert.Error(t, err, q)
	}
}

func TestDecodeLines_CantidadEnteraConDecimalesCero(t *testing.T) {
	out, err := stock.DecodeLines([]byte(`[{"sku":"A1","quantite":"4.0"},{"sku":"B2","quantite":-2}]`))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 4, out[0].Quantity)
	assert.Equal(t, -2, out[1].Quantity)
}
