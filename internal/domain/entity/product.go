package entity

// ProductRef referencia a una variación del catálogo externo.
// Escribir stock exige ambos ids (producto padre + variación).
type ProductRef struct {
	ID            int64
	ParentID      int64
	SKU           string
	Name          string
	StockQuantity int
}

// Writable indica si la referencia tiene los dos ids necesarios para escribir stock.
func (p *ProductRef) Writable() bool {
	return p != nil && p.ID > 0 && p.ParentID > 0
}
