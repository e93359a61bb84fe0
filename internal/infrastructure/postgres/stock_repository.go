package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/domain/repository"
	"github.com/jhoicas/depot-stock/internal/domain/stock"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// ListByDepot devuelve los registros de stock del dépôt (cero o uno).
func (r *StockRepo) ListByDepot(ctx context.Context, depotID int64) ([]*entity.StockRecord, error) {
	rows, err := r.q.Query(ctx, `SELECT id, depot_id, stock FROM stock_by_depot WHERE depot_id = $1`, depotID)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	list := []*entity.StockRecord{}
	for rows.Next() {
		rec, err := scanStockRecord(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// Create inserta el blob inicial del dépôt y asigna su ID.
func (r *StockRepo) Create(ctx context.Context, rec *entity.StockRecord) error {
	blob, err := stock.EncodeLines(rec.Lines)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO stock_by_depot (depot_id, stock, updated_at)
		VALUES ($1, $2::jsonb, now())
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, rec.DepotID, string(blob)).Scan(&rec.ID); err != nil {
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// GetForUpdate obtiene el blob y bloquea la fila (SELECT FOR UPDATE); nil si no existe.
func (r *StockRepo) GetForUpdate(ctx context.Context, depotID int64) (*entity.StockRecord, error) {
	row := r.q.QueryRow(ctx, `SELECT id, depot_id, stock FROM stock_by_depot WHERE depot_id = $1 FOR UPDATE`, depotID)
	rec, err := scanStockRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// Save reescribe el blob completo del registro.
func (r *StockRepo) Save(ctx context.Context, rec *entity.StockRecord) error {
	blob, err := stock.EncodeLines(rec.Lines)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `UPDATE stock_by_depot SET stock = $2::jsonb, updated_at = now() WHERE id = $1`, rec.ID, string(blob))
	if err != nil {
		return fmt.Errorf("save stock: %w", err)
	}
	return nil
}

func scanStockRecord(row pgx.Row) (*entity.StockRecord, error) {
	var (
		rec  entity.StockRecord
		blob []byte
	)
	if err := row.Scan(&rec.ID, &rec.DepotID, &blob); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan stock: %w", err)
	}
	lines, err := stock.DecodeLines(blob)
	if err != nil {
		return nil, fmt.Errorf("stock del dépôt %d: %w", rec.DepotID, err)
	}
	rec.Lines = lines
	return &rec, nil
}
