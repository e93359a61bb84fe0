package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/domain/repository"
	"github.com/jhoicas/depot-stock/internal/domain/stock"
)

var _ repository.LogRepository = (*LogRepo)(nil)

// LogRepo diario de movimientos sobre PostgreSQL. Solo INSERT y SELECT.
type LogRepo struct {
	q Querier
}

// NewLogRepository construye el adaptador del diario.
func NewLogRepository(q Querier) *LogRepo {
	return &LogRepo{q: q}
}

// Create inserta la entrada y asigna ID y fecha.
func (r *LogRepo) Create(ctx context.Context, e *entity.LogEntry) error {
	content, err := stock.EncodeLines(e.Content)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO logs (action_log, nom_log, depot_id, contenu_log, date_log)
		VALUES ($1, $2, $3, $4::jsonb, $5)
		RETURNING id, date_log`
	if err := r.q.QueryRow(ctx, query, e.Action, e.Reason, e.DepotID, string(content), e.Date).Scan(&e.ID, &e.Date); err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

// List devuelve todas las entradas, la más reciente primero.
func (r *LogRepo) List(ctx context.Context) ([]*entity.LogEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, action_log, nom_log, depot_id, contenu_log, date_log
		FROM logs ORDER BY date_log DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()
	list := []*entity.LogEntry{}
	for rows.Next() {
		var (
			e    entity.LogEntry
			blob []byte
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.Reason, &e.DepotID, &blob, &e.Date); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		if e.Content, err = stock.DecodeLines(blob); err != nil {
			return nil, fmt.Errorf("log %d: %w", e.ID, err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
