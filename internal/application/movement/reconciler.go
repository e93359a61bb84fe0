package movement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/depot-stock/internal/application/ports"
	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
)

// LineFailure ajuste que falló dentro de una operación.
type LineFailure struct {
	SKU     string `json:"sku"`
	DepotID int64  `json:"depot_id"`
	Delta   int    `json:"delta"`
	Backend string `json:"backend"`
	Error   string `json:"error"`
}

// Report resultado de confirmar un movimiento. Lines son las líneas tal como se
// ingresaron, no netas de fallos.
type Report struct {
	OperationID string             `json:"operation_id"`
	Operation   entity.Operation   `json:"operation"`
	Action      string             `json:"action"`
	Reason      string             `json:"reason"`
	DepotID     int64              `json:"depot_id"`
	DestDepotID int64              `json:"dest_depot_id,omitempty"`
	Lines       []entity.StockLine `json:"lines"`
	Failures    []LineFailure      `json:"failures"`
	LogEntryID  int64              `json:"log_entry_id,omitempty"`
	LogError    string             `json:"log_error,omitempty"`
}

// Partial indica que al menos un ajuste o el diario fallaron.
func (r *Report) Partial() bool {
	return len(r.Failures) > 0 || r.LogError != ""
}

// Reconciler confirma borradores: aplica cada línea en el backend autoritativo de cada
// dépôt y escribe una única entrada de diario. Sin atomicidad ni rollback: cada ajuste
// es independiente y un fallo no impide intentar los demás.
type Reconciler struct {
	router *Router
	depots ports.DepotDirectory
	logs   ports.MovementLog
	store  ports.DraftStore
	log    zerolog.Logger
	now    func() time.Time
}

// NewReconciler construye el reconciliador.
func NewReconciler(
	router *Router,
	depots ports.DepotDirectory,
	logs ports.MovementLog,
	store ports.DraftStore,
	log zerolog.Logger,
) *Reconciler {
	return &Reconciler{router: router, depots: depots, logs: logs, store: store, log: log, now: time.Now}
}

// Confirm valida el borrador de la sesión y ejecuta la operación.
// Los errores de validación (motivo, líneas, permisos, advertencia de salida) se
// devuelven antes de tocar ningún backend; a partir de ahí el error va en el Report.
func (r *Reconciler) Confirm(ctx context.Context, session entity.Session, op entity.Operation) (*Report, error) {
	key := keyFor(session, op)
	draft, ok := r.store.Get(key)
	if !ok || len(draft.Lines) == 0 {
		return nil, fmt.Errorf("%w: borrador sin líneas", domain.ErrValidationGate)
	}
	if err := r.validate(ctx, session, draft); err != nil {
		return nil, err
	}

	// Una vez iniciada, la confirmación no se puede abortar desde el cliente.
	report := r.execute(context.WithoutCancel(ctx), session, draft)
	r.store.Delete(key)
	return report, nil
}

func (r *Reconciler) validate(ctx context.Context, session entity.Session, draft *entity.Draft) error {
	op := draft.Operation
	if !session.Capabilities.Allows(op) {
		return domain.ErrForbidden
	}
	if op.RequiresReason() && !op.ValidReason(draft.Reason) {
		return fmt.Errorf("%w: motivo requerido", domain.ErrValidationGate)
	}
	if op == entity.OpTransfer && (draft.DestDepotID <= 0 || draft.DestDepotID == draft.DepotID) {
		return fmt.Errorf("%w: destino inválido", domain.ErrInvalidInput)
	}
	for _, l := range draft.Lines {
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: sku %q con cantidad %d", domain.ErrInvalidInput, l.SKU, l.Quantity)
		}
		if err := checkAdvisory(op, l.Quantity, l.Available); err != nil {
			return fmt.Errorf("sku %q: %w", l.SKU, err)
		}
	}
	return checkDepotAccess(ctx, r.depots, session, draft.DepotID)
}

func (r *Reconciler) execute(ctx context.Context, session entity.Session, draft *entity.Draft) *Report {
	op := draft.Operation
	reason := draft.Reason
	if reason == "" {
		reason = op.FixedReason()
	}
	lines := draft.StockLines()
	report := &Report{
		OperationID: uuid.New().String(),
		Operation:   op,
		Action:      op.ActionLabel(),
		Reason:      reason,
		DepotID:     draft.DepotID,
		DestDepotID: draft.DestDepotID,
		Lines:       lines,
		Failures:    []LineFailure{},
	}
	logger := r.log.With().
		Str("op_id", report.OperationID).
		Str("operation", string(op)).
		Str("user", session.Username).
		Logger()

	legs := r.router.Legs(op, draft.DepotID, draft.DestDepotID)
	for _, line := range lines {
		for _, leg := range legs {
			if err := r.router.Apply(ctx, leg, line); err != nil {
				delta := leg.Sign * line.Quantity
				logger.Error().Err(err).
					Str("sku", line.SKU).
					Int64("depot_id", leg.DepotID).
					Int("delta", delta).
					Str("backend", leg.Backend.String()).
					Msg("ajuste de stock fallido")
				report.Failures = append(report.Failures, LineFailure{
					SKU: line.SKU, DepotID: leg.DepotID, Delta: delta,
					Backend: leg.Backend.String(), Error: err.Error(),
				})
			}
		}
	}

	if op == entity.OpTransfer && r.router.Route(draft.DestDepotID) == BackendLocal {
		if err := r.depots.SetNotification(ctx, draft.DestDepotID, true); err != nil {
			logger.Warn().Err(err).Int64("depot_id", draft.DestDepotID).Msg("no se pudo marcar la notificación")
		}
	}

	entry, err := r.logs.CreateLog(ctx, &entity.LogEntry{
		Action:  report.Action,
		Reason:  reason,
		DepotID: draft.DepotID,
		Content: lines,
		Date:    r.now(),
	})
	if err != nil {
		logger.Error().Err(err).Msg("registro de diario fallido")
		report.LogError = err.Error()
	} else if entry != nil {
		report.LogEntryID = entry.ID
	}

	logger.Info().
		Int("lines", len(lines)).
		Int("failures", len(report.Failures)).
		Msg("movimiento confirmado")
	return report
}
