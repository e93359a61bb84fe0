package repository

import (
	"context"

	"github.com/jhoicas/depot-stock/internal/domain/entity"
)

// StockRepository define el puerto para el blob de stock por dépôt.
// Usado dentro de transacciones para fusionar deltas sin perder actualizaciones.
type StockRepository interface {
	ListByDepot(ctx context.Context, depotID int64) ([]*entity.StockRecord, error)
	Create(ctx context.Context, record *entity.StockRecord) error
	// GetForUpdate bloquea el registro del dépôt (SELECT FOR UPDATE); nil si no existe.
	GetForUpdate(ctx context.Context, depotID int64) (*entity.StockRecord, error)
	Save(ctx context.Context, record *entity.StockRecord) error
}
