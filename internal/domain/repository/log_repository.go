package repository

import (
	"context"

	"github.com/jhoicas/depot-stock/internal/domain/entity"
)

// LogRepository diario de movimientos: solo inserción y lectura.
type LogRepository interface {
	Create(ctx context.Context, entry *entity.LogEntry) error
	List(ctx context.Context) ([]*entity.LogEntry, error)
}
