package entity

import "strings"

// Operation tipo de movimiento de stock.
type Operation string

// Tipos de movimiento soportados.
const (
	OpReception Operation = "reception" // entrada en el dépôt destino
	OpExit      Operation = "exit"      // salida del dépôt objetivo
	OpReturn    Operation = "return"    // retorno al dépôt objetivo
	OpTransfer  Operation = "transfer"  // salida en origen + entrada en destino
)

// Motivos de salida.
const (
	ReasonSale  = "Vente"
	ReasonGift  = "Offert"
	ReasonError = "Erreur"
	ReasonLoss  = "Perte"
)

// Motivos de retorno (ReasonError también aplica).
const (
	ReasonRefund  = "Remboursement"
	ReasonDamaged = "Abimé"
)

// Motivos constantes de las operaciones sin selección.
const (
	ReasonReception = "Réception"
	ReasonTransfer  = "Transfert"
)

var actionLabels = map[Operation]string{
	OpReception: "Réception de stock",
	OpExit:      "Sortie de stock",
	OpReturn:    "Retour de stock",
	OpTransfer:  "Transfert de stock",
}

var reasonSets = map[Operation][]string{
	OpExit:   {ReasonSale, ReasonGift, ReasonError, ReasonLoss},
	OpReturn: {ReasonError, ReasonRefund, ReasonDamaged},
}

var fixedReasons = map[Operation]string{
	OpReception: ReasonReception,
	OpTransfer:  ReasonTransfer,
}

// ParseOperation convierte el segmento de ruta en Operation.
func ParseOperation(s string) (Operation, bool) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	_, ok := actionLabels[op]
	return op, ok
}

// ActionLabel etiqueta de acción registrada en el diario.
func (o Operation) ActionLabel() string { return actionLabels[o] }

// RequiresReason indica si el usuario debe escoger un motivo antes de confirmar.
func (o Operation) RequiresReason() bool {
	_, ok := reasonSets[o]
	return ok
}

// Reasons motivos seleccionables; vacío para operaciones con motivo constante.
func (o Operation) Reasons() []string {
	out := make([]string, len(reasonSets[o]))
	copy(out, reasonSets[o])
	return out
}

// FixedReason motivo constante de la operación, si lo tiene.
func (o Operation) FixedReason() string { return fixedReasons[o] }

// ValidReason verifica que reason pertenezca al conjunto de la operación.
func (o Operation) ValidReason(reason string) bool {
	if !o.RequiresReason() {
		return reason == "" || reason == o.FixedReason()
	}
	for _, r := range reasonSets[o] {
		if r == reason {
			return true
		}
	}
	return false
}

// Draft borrador de movimiento acumulado antes de confirmar. Los SKU son únicos.
type Draft struct {
	Operation   Operation
	DepotID     int64 // objetivo (Exit/Return), origen (Transfer) o destino (Reception)
	DestDepotID int64 // solo Transfer
	Reason      string
	Lines       []DraftLine
}

// DraftLine línea del borrador. Available es la última cantidad observada en el backend
// al momento de la búsqueda (advertencia, no autoritativa).
type DraftLine struct {
	SKU       string
	Name      string
	Quantity  int
	Available int
}

// Find devuelve el índice de la línea con ese SKU o -1.
func (d *Draft) Find(sku string) int {
	for i := range d.Lines {
		if d.Lines[i].SKU == sku {
			return i
		}
	}
	return -1
}

// StockLines copia las líneas tal como fueron ingresadas.
func (d *Draft) StockLines() []StockLine {
	out := make([]StockLine, 0, len(d.Lines))
	for _, l := range d.Lines {
		out = append(out, StockLine{SKU: l.SKU, ProductName: l.Name, Quantity: l.Quantity})
	}
	return out
}

// Clone copia profunda del borrador.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	c := *d
	c.Lines = make([]DraftLine, len(d.Lines))
	copy(c.Lines, d.Lines)
	return &c
}
