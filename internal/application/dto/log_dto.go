package dto

import "time"

// LogQuery filtro de GET /api/logs.
type LogQuery struct {
	DepotID int64 `query:"depot_id" validate:"min=0"`
}

// LogEntryResponse entrada del diario.
type LogEntryResponse struct {
	ID      int64               `json:"id"`
	Action  string              `json:"action"`
	Reason  string              `json:"reason"`
	DepotID int64               `json:"depot_id"`
	Content []StockLineResponse `json:"content"`
	Date    time.Time           `json:"date"`
}
