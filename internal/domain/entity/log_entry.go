package entity

import "time"

// LogEntry entrada del diario de movimientos. Se escribe una vez por operación confirmada
// y nunca se modifica.
type LogEntry struct {
	ID      int64
	Action  string
	Reason  string
	DepotID int64
	Content []StockLine
	Date    time.Time
}
