package stock

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/depot-stock/internal/domain/entity"
)

// MergeDelta aplica un delta firmado sobre las líneas: incrementa si el SKU existe,
// agrega la línea si no. La cantidad resultante puede ser negativa: la discrepancia
// queda visible en lugar de ocultarse. Devuelve un slice nuevo.
func MergeDelta(lines []entity.StockLine, sku, name string, delta int) []entity.StockLine {
	out := make([]entity.StockLine, len(lines), len(lines)+1)
	copy(out, lines)
	for i := range out {
		if out[i].SKU == sku {
			out[i].Quantity += delta
			if out[i].ProductName == "" {
				out[i].ProductName = name
			}
			return out
		}
	}
	return append(out, entity.StockLine{SKU: sku, ProductName: name, Quantity: delta})
}

// FindSKU busca una línea por SKU.
func FindSKU(lines []entity.StockLine, sku string) (entity.StockLine, bool) {
	for _, l := range lines {
		if l.SKU == sku {
			return l, true
		}
	}
	return entity.StockLine{}, false
}

// SearchByName filtra por nombre de producto o SKU, sin distinguir mayúsculas ni acentos.
// Una consulta vacía devuelve todas las líneas.
func SearchByName(lines []entity.StockLine, query string) []entity.StockLine {
	q := Fold(query)
	if q == "" {
		return lines
	}
	out := make([]entity.StockLine, 0)
	for _, l := range lines {
		if strings.Contains(Fold(l.ProductName), q) || strings.Contains(Fold(l.SKU), q) {
			out = append(out, l)
		}
	}
	return out
}

// Fold normaliza un texto para comparación: minúsculas y sin diacríticos ("Abimé" → "abime").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
