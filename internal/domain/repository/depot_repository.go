package repository

import (
	"context"

	"github.com/jhoicas/depot-stock/internal/domain/entity"
)

// DepotRepository define el puerto de persistencia para Depot (DIP).
type DepotRepository interface {
	Create(ctx context.Context, depot *entity.Depot) error
	GetByID(ctx context.Context, id int64) (*entity.Depot, error)
	Update(ctx context.Context, depot *entity.Depot) error
	List(ctx context.Context) ([]*entity.Depot, error)
	Delete(ctx context.Context, id int64) error
}
