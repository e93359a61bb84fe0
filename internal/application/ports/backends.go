package ports

import (
	"context"

	"github.com/jhoicas/depot-stock/internal/domain/entity"
)

// CatalogBackend puerto hacia la API REST del catálogo e-commerce, autoritativa
// solo para Saint-Cannat.
type CatalogBackend interface {
	// FindBySKU devuelve domain.ErrNotFound si hay cero o varios resultados.
	FindBySKU(ctx context.Context, sku string) (*entity.ProductRef, error)
	// ApplyDelta relee la cantidad actual, suma delta y escribe el valor absoluto.
	// No es atómico: dos llamadas concurrentes sobre el mismo SKU pueden perder una.
	ApplyDelta(ctx context.Context, ref *entity.ProductRef, delta int) (int, error)
}

// DepotDirectory lectura y administración de dépôts en el backend local.
type DepotDirectory interface {
	ListDepots(ctx context.Context) ([]*entity.Depot, error)
	GetDepot(ctx context.Context, id int64) (*entity.Depot, error)
	CreateDepot(ctx context.Context, depot *entity.Depot) (*entity.Depot, error)
	UpdateDepot(ctx context.Context, depot *entity.Depot) error
	DeleteDepot(ctx context.Context, id int64) error
	SetNotification(ctx context.Context, depotID int64, pending bool) error
}

// LocalStock stock de los dépôts no especiales. Solo envía deltas firmados.
type LocalStock interface {
	ReadStock(ctx context.Context, depotID int64) ([]entity.StockLine, error)
	ApplyDelta(ctx context.Context, depotID int64, sku, productName string, delta int) error
}

// MovementLog diario de movimientos (append-only).
type MovementLog interface {
	CreateLog(ctx context.Context, entry *entity.LogEntry) (*entity.LogEntry, error)
	ListLogs(ctx context.Context) ([]*entity.LogEntry, error)
}

// IdentityProvider verifica credenciales y devuelve el rol del usuario.
type IdentityProvider interface {
	Login(ctx context.Context, username, password string) (*entity.User, error)
}

// DraftKey identifica el borrador de una sesión para una operación.
type DraftKey struct {
	Username  string
	Operation entity.Operation
}

// DraftStore almacén de borradores efímeros. Update aplica fn de forma atómica sobre
// una copia; si fn devuelve error el borrador queda intacto.
type DraftStore interface {
	Get(key DraftKey) (*entity.Draft, bool)
	Put(key DraftKey, draft *entity.Draft)
	Update(key DraftKey, fn func(d *entity.Draft) error) (*entity.Draft, error)
	Delete(key DraftKey)
}

// Receipt datos del comprobante imprimible de un movimiento.
type Receipt struct {
	Action    string
	Reason    string
	DepotName string
	LogID     int64
	Date      string
	Lines     []entity.StockLine
}

// ReceiptGenerator renderiza el comprobante en PDF.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, receipt Receipt) ([]byte, error)
}

// StockExporter exporta la lista de stock de un dépôt a hoja de cálculo.
type StockExporter interface {
	ExportStock(ctx context.Context, depotName string, lines []entity.StockLine) ([]byte, error)
}
