package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/depot-stock/internal/application/dto"
	"github.com/jhoicas/depot-stock/internal/application/movement"
	"github.com/jhoicas/depot-stock/internal/application/ports"
	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/domain/stock"
)

// DepotUseCase consulta y administración de dépôts y de su stock.
type DepotUseCase struct {
	depots   ports.DepotDirectory
	local    ports.LocalStock
	router   *movement.Router
	exporter ports.StockExporter
	log      zerolog.Logger
}

// NewDepotUseCase construye el caso de uso.
func NewDepotUseCase(
	depots ports.DepotDirectory,
	local ports.LocalStock,
	router *movement.Router,
	exporter ports.StockExporter,
	log zerolog.Logger,
) *DepotUseCase {
	return &DepotUseCase{depots: depots, local: local, router: router, exporter: exporter, log: log}
}

// List devuelve los dépôts visibles para la sesión: todos, o solo los asociados al usuario.
func (uc *DepotUseCase) List(ctx context.Context, session entity.Session) ([]dto.DepotResponse, error) {
	list, err := uc.depots.ListDepots(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DepotResponse, 0, len(list))
	for _, d := range list {
		if session.CanUseDepot(d) {
			out = append(out, uc.toResponse(d))
		}
	}
	return out, nil
}

// Create crea un dépôt (solo administración).
func (uc *DepotUseCase) Create(ctx context.Context, session entity.Session, in dto.CreateDepotRequest) (*dto.DepotResponse, error) {
	if !session.Capabilities.CanManageDepots {
		return nil, domain.ErrForbidden
	}
	d, err := uc.depots.CreateDepot(ctx, &entity.Depot{
		Name:         strings.TrimSpace(in.Name),
		Location:     strings.TrimSpace(in.Location),
		AssignedUser: strings.TrimSpace(in.AssignedUser),
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("depot_id", d.ID).Str("by", session.Username).Msg("dépôt creado")
	out := uc.toResponse(d)
	return &out, nil
}

// Update aplica los campos presentes (solo administración).
func (uc *DepotUseCase) Update(ctx context.Context, session entity.Session, id int64, in dto.UpdateDepotRequest) (*dto.DepotResponse, error) {
	if !session.Capabilities.CanManageDepots {
		return nil, domain.ErrForbidden
	}
	d, err := uc.depots.GetDepot(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		d.Name = strings.TrimSpace(*in.Name)
	}
	if in.Location != nil {
		d.Location = strings.TrimSpace(*in.Location)
	}
	if in.AssignedUser != nil {
		d.AssignedUser = strings.TrimSpace(*in.AssignedUser)
	}
	if err := uc.depots.UpdateDepot(ctx, d); err != nil {
		return nil, err
	}
	out := uc.toResponse(d)
	return &out, nil
}

// Delete elimina un dépôt (solo administración). Saint-Cannat no se puede eliminar.
func (uc *DepotUseCase) Delete(ctx context.Context, session entity.Session, id int64) error {
	if !session.Capabilities.CanManageDepots {
		return domain.ErrForbidden
	}
	if uc.router.Route(id) == movement.BackendCatalog {
		return fmt.Errorf("el dépôt del catálogo no se puede eliminar: %w", domain.ErrInvalidInput)
	}
	if err := uc.depots.DeleteDepot(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Int64("depot_id", id).Str("by", session.Username).Msg("dépôt eliminado")
	return nil
}

// Stock devuelve el stock del dépôt. Con sku busca un único producto en el backend
// autoritativo (también Saint-Cannat); con q filtra por nombre sin distinguir
// mayúsculas ni acentos. Saint-Cannat solo admite búsqueda por SKU.
func (uc *DepotUseCase) Stock(ctx context.Context, session entity.Session, id int64, q dto.StockQuery) (*dto.StockResponse, error) {
	if _, err := uc.usableDepot(ctx, session, id); err != nil {
		return nil, err
	}
	out := &dto.StockResponse{DepotID: id, Items: []dto.StockLineResponse{}}

	if sku := strings.TrimSpace(q.SKU); sku != "" {
		info, err := uc.router.Lookup(ctx, id, sku)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, dto.StockLineResponse{SKU: info.SKU, ProductName: info.Name, Quantity: info.Available})
		return out, nil
	}
	if uc.router.Route(id) == movement.BackendCatalog {
		return nil, fmt.Errorf("el stock del catálogo solo se consulta por sku: %w", domain.ErrInvalidInput)
	}
	lines, err := uc.local.ReadStock(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, l := range stock.SearchByName(lines, q.Q) {
		out.Items = append(out.Items, toStockLineResponse(l))
	}
	return out, nil
}

// Export genera la hoja de cálculo con el stock de un dépôt local.
// Devuelve el contenido y el nombre de archivo sugerido.
func (uc *DepotUseCase) Export(ctx context.Context, session entity.Session, id int64) ([]byte, string, error) {
	d, err := uc.usableDepot(ctx, session, id)
	if err != nil {
		return nil, "", err
	}
	if uc.router.Route(id) == movement.BackendCatalog {
		return nil, "", fmt.Errorf("el stock del catálogo no se exporta: %w", domain.ErrInvalidInput)
	}
	lines, err := uc.local.ReadStock(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.exporter.ExportStock(ctx, d.Name, lines)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("stock_%s.xlsx", slug(d.Name, fmt.Sprintf("depot-%d", id))), nil
}

// Acknowledge marca como vista la notificación de stock pendiente del dépôt.
func (uc *DepotUseCase) Acknowledge(ctx context.Context, session entity.Session, id int64) error {
	if !session.Capabilities.CanAcknowledge {
		return domain.ErrForbidden
	}
	if _, err := uc.usableDepot(ctx, session, id); err != nil {
		return err
	}
	return uc.depots.SetNotification(ctx, id, false)
}

func (uc *DepotUseCase) usableDepot(ctx context.Context, session entity.Session, id int64) (*entity.Depot, error) {
	d, err := uc.depots.GetDepot(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.CanUseDepot(d) {
		return nil, domain.ErrForbidden
	}
	return d, nil
}

func (uc *DepotUseCase) toResponse(d *entity.Depot) dto.DepotResponse {
	return dto.DepotResponse{
		ID:                  d.ID,
		Name:                d.Name,
		Location:            d.Location,
		AssignedUser:        d.AssignedUser,
		PendingNotification: d.PendingNotification,
		Catalog:             uc.router.Route(d.ID) == movement.BackendCatalog,
	}
}

func toStockLineResponse(l entity.StockLine) dto.StockLineResponse {
	return dto.StockLineResponse{SKU: l.SKU, ProductName: l.ProductName, Quantity: l.Quantity}
}

// slug nombre apto para archivo: minúsculas, sin acentos, separado por guiones.
func slug(s, fallback string) string {
	var b strings.Builder
	dash := false
	for _, r := range stock.Fold(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return fallback
	}
	return out
}
