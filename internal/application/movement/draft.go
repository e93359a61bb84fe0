package movement

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/depot-stock/internal/application/ports"
	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
)

// DraftUseCase acumula los SKU escaneados o tecleados en el borrador de la sesión.
type DraftUseCase struct {
	router *Router
	depots ports.DepotDirectory
	store  ports.DraftStore
}

// NewDraftUseCase construye el acumulador.
func NewDraftUseCase(router *Router, depots ports.DepotDirectory, store ports.DraftStore) *DraftUseCase {
	return &DraftUseCase{router: router, depots: depots, store: store}
}

// StartInput selección de dépôt(s) al abrir un borrador.
type StartInput struct {
	DepotID     int64
	DestDepotID int64
}

// Start abre un borrador vacío para la operación, reemplazando el anterior.
// Para Transfer, DepotID es el origen y DestDepotID el destino.
func (uc *DraftUseCase) Start(ctx context.Context, session entity.Session, op entity.Operation, in StartInput) (*entity.Draft, error) {
	if !session.Capabilities.Allows(op) {
		return nil, domain.ErrForbidden
	}
	if in.DepotID <= 0 {
		return nil, fmt.Errorf("%w: dépôt requerido", domain.ErrInvalidInput)
	}
	if err := checkDepotAccess(ctx, uc.depots, session, in.DepotID); err != nil {
		return nil, err
	}
	draft := &entity.Draft{Operation: op, DepotID: in.DepotID, Reason: op.FixedReason()}
	if op == entity.OpTransfer {
		if in.DestDepotID <= 0 || in.DestDepotID == in.DepotID {
			return nil, fmt.Errorf("%w: destino requerido y distinto del origen", domain.ErrInvalidInput)
		}
		if _, err := uc.depots.GetDepot(ctx, in.DestDepotID); err != nil {
			return nil, err
		}
		draft.DestDepotID = in.DestDepotID
	}
	uc.store.Put(keyFor(session, op), draft)
	return draft.Clone(), nil
}

// Get devuelve el borrador actual o domain.ErrNotFound.
func (uc *DraftUseCase) Get(session entity.Session, op entity.Operation) (*entity.Draft, error) {
	d, ok := uc.store.Get(keyFor(session, op))
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// AddBySKU busca el SKU en el backend autoritativo del dépôt del borrador y lo fusiona:
// incrementa la línea existente en 1 o agrega una nueva con cantidad 1.
// Si no se encuentra, el borrador no cambia.
func (uc *DraftUseCase) AddBySKU(ctx context.Context, session entity.Session, op entity.Operation, sku string) (*entity.Draft, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, fmt.Errorf("%w: sku vacío", domain.ErrInvalidInput)
	}
	current, err := uc.Get(session, op)
	if err != nil {
		return nil, err
	}

	var info *ProductInfo
	if op == entity.OpReception {
		info, err = uc.router.LookupForReception(ctx, current.DepotID, sku)
	} else {
		info, err = uc.router.Lookup(ctx, current.DepotID, sku)
	}
	if err != nil {
		return nil, err
	}

	return uc.store.Update(keyFor(session, op), func(d *entity.Draft) error {
		idx := d.Find(sku)
		if idx < 0 {
			if err := checkAdvisory(op, 1, info.Available); err != nil {
				return err
			}
			name := info.Name
			if name == "" {
				name = sku
			}
			d.Lines = append(d.Lines, entity.DraftLine{SKU: sku, Name: name, Quantity: 1, Available: info.Available})
			return nil
		}
		line := &d.Lines[idx]
		if err := checkAdvisory(op, line.Quantity+1, info.Available); err != nil {
			return err
		}
		line.Quantity++
		line.Available = info.Available
		return nil
	})
}

// SetQuantity sobrescribe la cantidad de una línea. No revalida contra el stock vivo;
// solo aplica la advertencia de salida con la última cantidad observada.
func (uc *DraftUseCase) SetQuantity(session entity.Session, op entity.Operation, sku string, quantity int) (*entity.Draft, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	return uc.store.Update(keyFor(session, op), func(d *entity.Draft) error {
		idx := d.Find(sku)
		if idx < 0 {
			return fmt.Errorf("sku %q: %w", sku, domain.ErrNotFound)
		}
		if err := checkAdvisory(op, quantity, d.Lines[idx].Available); err != nil {
			return err
		}
		d.Lines[idx].Quantity = quantity
		return nil
	})
}

// Remove elimina una línea del borrador.
func (uc *DraftUseCase) Remove(session entity.Session, op entity.Operation, sku string) (*entity.Draft, error) {
	return uc.store.Update(keyFor(session, op), func(d *entity.Draft) error {
		idx := d.Find(sku)
		if idx < 0 {
			return fmt.Errorf("sku %q: %w", sku, domain.ErrNotFound)
		}
		d.Lines = append(d.Lines[:idx], d.Lines[idx+1:]...)
		return nil
	})
}

// SetReason fija el motivo; debe pertenecer al conjunto de la operación.
func (uc *DraftUseCase) SetReason(session entity.Session, op entity.Operation, reason string) (*entity.Draft, error) {
	if !op.RequiresReason() {
		return nil, fmt.Errorf("%w: la operación usa motivo fijo", domain.ErrInvalidInput)
	}
	if !op.ValidReason(reason) {
		return nil, fmt.Errorf("%w: motivo %q no válido", domain.ErrInvalidInput, reason)
	}
	return uc.store.Update(keyFor(session, op), func(d *entity.Draft) error {
		d.Reason = reason
		return nil
	})
}

// Clear descarta el borrador.
func (uc *DraftUseCase) Clear(session entity.Session, op entity.Operation) {
	uc.store.Delete(keyFor(session, op))
}

func keyFor(session entity.Session, op entity.Operation) ports.DraftKey {
	return ports.DraftKey{Username: session.Username, Operation: op}
}

// checkAdvisory aplica la regla de salida: la cantidad acumulada no puede superar la
// última disponibilidad observada. Es solo una advertencia del lado cliente.
func checkAdvisory(op entity.Operation, requested, available int) error {
	if op == entity.OpExit && requested > available {
		return fmt.Errorf("%w: pedido %d, disponible %d", domain.ErrExceedsAvailable, requested, available)
	}
	return nil
}

// checkDepotAccess verifica que el dépôt exista y que la sesión pueda usarlo.
func checkDepotAccess(ctx context.Context, depots ports.DepotDirectory, session entity.Session, depotID int64) error {
	depot, err := depots.GetDepot(ctx, depotID)
	if err != nil {
		return err
	}
	if !session.CanUseDepot(depot) {
		return domain.ErrForbidden
	}
	return nil
}
