package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/domain/repository"
)

var _ repository.DepotRepository = (*DepotRepo)(nil)

// DepotRepo implementación del puerto DepotRepository sobre PostgreSQL.
type DepotRepo struct {
	q Querier
}

// NewDepotRepository construye el adaptador de persistencia para dépôts.
func NewDepotRepository(q Querier) *DepotRepo {
	return &DepotRepo{q: q}
}

const depotColumns = `id, name, localisation, username_associe, notif`

// Create persiste un nuevo dépôt y asigna su ID.
func (r *DepotRepo) Create(ctx context.Context, d *entity.Depot) error {
	query := `
		INSERT INTO depots (name, localisation, username_associe, notif)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, d.Name, d.Location, d.AssignedUser, d.PendingNotification).Scan(&d.ID); err != nil {
		return fmt.Errorf("insert depot: %w", err)
	}
	return nil
}

// GetByID obtiene un dépôt por ID; nil si no existe.
func (r *DepotRepo) GetByID(ctx context.Context, id int64) (*entity.Depot, error) {
	d, err := scanDepot(r.q.QueryRow(ctx, `SELECT `+depotColumns+` FROM depots WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get depot: %w", err)
	}
	return d, nil
}

// Update actualiza todos los campos editables del dépôt.
func (r *DepotRepo) Update(ctx context.Context, d *entity.Depot) error {
	query := `
		UPDATE depots SET name = $2, localisation = $3, username_associe = $4, notif = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, d.ID, d.Name, d.Location, d.AssignedUser, d.PendingNotification)
	if err != nil {
		return fmt.Errorf("update depot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista todos los dépôts por ID.
func (r *DepotRepo) List(ctx context.Context) ([]*entity.Depot, error) {
	rows, err := r.q.Query(ctx, `SELECT `+depotColumns+` FROM depots ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list depots: %w", err)
	}
	defer rows.Close()
	list := []*entity.Depot{}
	for rows.Next() {
		d, err := scanDepot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan depot: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Delete elimina un dépôt (y su blob de stock por cascada).
func (r *DepotRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM depots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete depot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanDepot(row pgx.Row) (*entity.Depot, error) {
	var d entity.Depot
	if err := row.Scan(&d.ID, &d.Name, &d.Location, &d.AssignedUser, &d.PendingNotification); err != nil {
		return nil, err
	}
	return &d, nil
}
