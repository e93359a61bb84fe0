// Package xlsx exporta listas de stock a hojas de cálculo con excelize.
package xlsx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/depot-stock/internal/application/ports"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
)

var _ ports.StockExporter = (*ExcelizeExporter)(nil)

const sheetName = "Stock"

// ExcelizeExporter implementa ports.StockExporter.
type ExcelizeExporter struct{}

// NewExcelizeExporter construye el exportador.
func NewExcelizeExporter() *ExcelizeExporter { return &ExcelizeExporter{} }

// ExportStock escribe una hoja con el nombre del dépôt como título, la cabecera
// (SKU, Produit, Quantité) y una fila por línea.
func (e *ExcelizeExporter) ExportStock(_ context.Context, depotName string, lines []entity.StockLine) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	cells := map[string]any{
		"A1": depotName,
		"A3": "SKU",
		"B3": "Produit",
		"C3": "Quantité",
	}
	for cell, v := range cells {
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return nil, fmt.Errorf("xlsx: celda %s: %w", cell, err)
		}
	}
	if err := f.SetCellStyle(sheetName, "A1", "C3", bold); err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}

	for i, l := range lines {
		row := i + 4
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", row), &[]any{l.SKU, l.ProductName, l.Quantity}); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", row, err)
		}
	}
	_ = f.SetColWidth(sheetName, "A", "A", 18)
	_ = f.SetColWidth(sheetName, "B", "B", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
