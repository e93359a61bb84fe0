package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/jhoicas/depot-stock/internal/application/dto"
	"github.com/jhoicas/depot-stock/internal/application/ports"
	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
)

// receiptDateLayout formato de fecha del comprobante.
const receiptDateLayout = "02/01/2006 15:04"

// LogUseCase consulta del diario de movimientos y comprobantes PDF.
type LogUseCase struct {
	logs     ports.MovementLog
	depots   ports.DepotDirectory
	receipts ports.ReceiptGenerator
	log      zerolog.Logger
}

// NewLogUseCase construye el caso de uso.
func NewLogUseCase(logs ports.MovementLog, depots ports.DepotDirectory, receipts ports.ReceiptGenerator, log zerolog.Logger) *LogUseCase {
	return &LogUseCase{logs: logs, depots: depots, receipts: receipts, log: log}
}

// List entradas del diario, la más reciente primero. depotID > 0 filtra por dépôt.
func (uc *LogUseCase) List(ctx context.Context, session entity.Session, depotID int64) ([]dto.LogEntryResponse, error) {
	if !session.Capabilities.CanSeeLogs {
		return nil, domain.ErrForbidden
	}
	entries, err := uc.logs.ListLogs(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date.Equal(entries[j].Date) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].Date.After(entries[j].Date)
	})
	out := make([]dto.LogEntryResponse, 0, len(entries))
	for _, e := range entries {
		if depotID > 0 && e.DepotID != depotID {
			continue
		}
		out = append(out, toLogEntryResponse(e))
	}
	return out, nil
}

// Receipt genera el PDF de una entrada del diario. Puede pedirlo quien ve el diario o
// quien puede operar sobre el dépôt de la entrada. El nombre de archivo se deriva del motivo.
func (uc *LogUseCase) Receipt(ctx context.Context, session entity.Session, logID int64) ([]byte, string, error) {
	entry, err := uc.find(ctx, logID)
	if err != nil {
		return nil, "", err
	}

	depotName := fmt.Sprintf("#%d", entry.DepotID)
	depot, err := uc.depots.GetDepot(ctx, entry.DepotID)
	switch {
	case err == nil:
		depotName = depot.Name
	case errors.Is(err, domain.ErrNotFound):
		uc.log.Warn().Int64("log_id", logID).Int64("depot_id", entry.DepotID).Msg("comprobante de un dépôt eliminado")
		depot = nil
	default:
		return nil, "", err
	}
	if !session.Capabilities.CanSeeLogs && !session.CanUseDepot(depot) {
		return nil, "", domain.ErrForbidden
	}

	date := ""
	if !entry.Date.IsZero() {
		date = entry.Date.Local().Format(receiptDateLayout)
	}
	data, err := uc.receipts.GenerateReceipt(ctx, ports.Receipt{
		Action:    entry.Action,
		Reason:    entry.Reason,
		DepotName: depotName,
		LogID:     entry.ID,
		Date:      date,
		Lines:     entry.Content,
	})
	if err != nil {
		return nil, "", err
	}
	return data, ReceiptFilename(entry.Reason, entry.ID), nil
}

// ReceiptFilename nombre del comprobante: <motivo>_<id>.pdf ("Abimé" → "abime_12.pdf").
func ReceiptFilename(reason string, logID int64) string {
	return fmt.Sprintf("%s_%d.pdf", slug(reason, "mouvement"), logID)
}

func (uc *LogUseCase) find(ctx context.Context, logID int64) (*entity.LogEntry, error) {
	entries, err := uc.logs.ListLogs(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.ID == logID {
			return e, nil
		}
	}
	return nil, fmt.Errorf("log %d: %w", logID, domain.ErrNotFound)
}

func toLogEntryResponse(e *entity.LogEntry) dto.LogEntryResponse {
	content := make([]dto.StockLineResponse, 0, len(e.Content))
	for _, l := range e.Content {
		content = append(content, toStockLineResponse(l))
	}
	return dto.LogEntryResponse{
		ID:      e.ID,
		Action:  e.Action,
		Reason:  e.Reason,
		DepotID: e.DepotID,
		Content: content,
		Date:    e.Date,
	}
}
