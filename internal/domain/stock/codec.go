// Package stock reúne las reglas puras sobre el blob de stock de un dépôt local:
// codificación tolerante, fusión de deltas y búsqueda por nombre.
package stock

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/depot-stock/internal/domain/entity"
)

// maxStringDepth límite de niveles de JSON "stringificado" que se desenvuelven.
const maxStringDepth = 3

// maxQuantity cota absoluta de una cantidad decodificada.
var maxQuantity = decimal.NewFromInt(math.MaxInt32)

type wireLine struct {
	SKU         string          `json:"sku"`
	ProductName string          `json:"nom_produit"`
	Quantity    json.RawMessage `json:"quantite"`
}

// DecodeLines decodifica el blob de stock. Acepta un arreglo JSON, un string que contiene
// el arreglo o el arreglo doblemente stringificado. Vacío o null devuelve lista vacía.
func DecodeLines(raw []byte) ([]entity.StockLine, error) {
	return decodeLines(raw, 0)
}

func decodeLines(raw []byte, depth int) ([]entity.StockLine, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []entity.StockLine{}, nil
	}
	switch raw[0] {
	case '"':
		if depth >= maxStringDepth {
			return nil, fmt.Errorf("stock: demasiados niveles de stringificación")
		}
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("stock: string inválido: %w", err)
		}
		return decodeLines([]byte(inner), depth+1)
	case '[':
		var wire []wireLine
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("stock: arreglo inválido: %w", err)
		}
		out := make([]entity.StockLine, 0, len(wire))
		for _, w := range wire {
			q, err := parseQuantity(w.Quantity)
			if err != nil {
				return nil, fmt.Errorf("stock: sku %q: %w", w.SKU, err)
			}
			out = append(out, entity.StockLine{SKU: w.SKU, ProductName: w.ProductName, Quantity: q})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("stock: formato no reconocido")
	}
}

// parseQuantity acepta número JSON o string numérico. Rechaza NaN, infinitos,
// fracciones y valores fuera de rango.
func parseQuantity(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		raw = []byte(strings.TrimSpace(s))
		if len(raw) == 0 {
			return 0, nil
		}
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return 0, fmt.Errorf("cantidad inválida %q", string(raw))
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("cantidad no entera %q", string(raw))
	}
	if d.GreaterThan(maxQuantity) || d.LessThan(maxQuantity.Neg()) {
		return 0, fmt.Errorf("cantidad fuera de rango %q", string(raw))
	}
	return int(d.IntPart()), nil
}

// EncodeLines serializa las líneas como un único arreglo JSON.
func EncodeLines(lines []entity.StockLine) ([]byte, error) {
	if lines == nil {
		lines = []entity.StockLine{}
	}
	return json.Marshal(lines)
}
