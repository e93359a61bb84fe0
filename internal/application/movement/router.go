package movement

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/depot-stock/internal/application/ports"
	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/domain/stock"
)

// Backend almacén autoritativo de un dépôt.
type Backend int

const (
	BackendLocal Backend = iota
	BackendCatalog
)

func (b Backend) String() string {
	if b == BackendCatalog {
		return "catalog"
	}
	return "local"
}

// Leg ajuste firmado sobre un dépôt. Un Transfer produce dos.
type Leg struct {
	DepotID int64
	Sign    int
	Backend Backend
}

// Router decide, dépôt por dépôt, qué adaptador maneja el cambio de cantidad.
type Router struct {
	SaintCannatID int64
	catalog       ports.CatalogBackend
	local         ports.LocalStock
}

// NewRouter construye el router con el id especial y los dos adaptadores.
func NewRouter(saintCannatID int64, catalog ports.CatalogBackend, local ports.LocalStock) *Router {
	if saintCannatID == 0 {
		saintCannatID = entity.DefaultSaintCannatID
	}
	return &Router{SaintCannatID: saintCannatID, catalog: catalog, local: local}
}

// Route aplica la regla: id == Saint-Cannat → catálogo; cualquier otro → backend local.
func (r *Router) Route(depotID int64) Backend {
	if depotID == r.SaintCannatID {
		return BackendCatalog
	}
	return BackendLocal
}

// Legs traduce la operación en ajustes firmados según la convención de signos.
func (r *Router) Legs(op entity.Operation, depotID, destDepotID int64) []Leg {
	switch op {
	case entity.OpReception, entity.OpReturn:
		return []Leg{{DepotID: depotID, Sign: +1, Backend: r.Route(depotID)}}
	case entity.OpExit:
		return []Leg{{DepotID: depotID, Sign: -1, Backend: r.Route(depotID)}}
	case entity.OpTransfer:
		return []Leg{
			{DepotID: depotID, Sign: -1, Backend: r.Route(depotID)},
			{DepotID: destDepotID, Sign: +1, Backend: r.Route(destDepotID)},
		}
	}
	return nil
}

// Apply ejecuta un ajuste sobre el adaptador correspondiente.
func (r *Router) Apply(ctx context.Context, leg Leg, line entity.StockLine) error {
	delta := leg.Sign * line.Quantity
	if leg.Backend == BackendCatalog {
		ref, err := r.catalog.FindBySKU(ctx, line.SKU)
		if err != nil {
			return err
		}
		_, err = r.catalog.ApplyDelta(ctx, ref, delta)
		return err
	}
	return r.local.ApplyDelta(ctx, leg.DepotID, line.SKU, line.ProductName, delta)
}

// ProductInfo resultado de buscar un SKU en el backend autoritativo de un dépôt.
type ProductInfo struct {
	SKU       string
	Name      string
	Available int
}

// Lookup busca un SKU en el backend autoritativo del dépôt.
func (r *Router) Lookup(ctx context.Context, depotID int64, sku string) (*ProductInfo, error) {
	if r.Route(depotID) == BackendCatalog {
		return r.lookupCatalog(ctx, sku)
	}
	lines, err := r.local.ReadStock(ctx, depotID)
	if err != nil {
		return nil, err
	}
	l, ok := stock.FindSKU(lines, sku)
	if !ok {
		return nil, fmt.Errorf("sku %q en dépôt %d: %w", sku, depotID, domain.ErrNotFound)
	}
	return &ProductInfo{SKU: l.SKU, Name: l.ProductName, Available: l.Quantity}, nil
}

// LookupForReception como Lookup, pero si el dépôt local no tiene el SKU toma la
// identidad del producto desde el catálogo: una recepción puede traer SKUs nuevos.
func (r *Router) LookupForReception(ctx context.Context, depotID int64, sku string) (*ProductInfo, error) {
	info, err := r.Lookup(ctx, depotID, sku)
	if err == nil || r.Route(depotID) == BackendCatalog || !errors.Is(err, domain.ErrNotFound) {
		return info, err
	}
	info, err = r.lookupCatalog(ctx, sku)
	if err != nil {
		return nil, err
	}
	info.Available = 0
	return info, nil
}

func (r *Router) lookupCatalog(ctx context.Context, sku string) (*ProductInfo, error) {
	ref, err := r.catalog.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	return &ProductInfo{SKU: ref.SKU, Name: ref.Name, Available: ref.StockQuantity}, nil
}
