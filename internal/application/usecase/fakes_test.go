package usecase_test

import (
	"context"
	"fmt"

	"github.com/jhoicas/depot-stock/internal/application/ports"
	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/domain/stock"
)

// fakeBackend implementa DepotDirectory, LocalStock y MovementLog en memoria.
type fakeBackend struct {
	depots        map[int64]*entity.Depot
	stocks        map[int64][]entity.StockLine
	logs          []*entity.LogEntry
	notifications map[int64]bool
	deleted       []int64
}

func newFakeBackend(depots ...*entity.Depot) *fakeBackend {
	f := &fakeBackend{
		depots:        map[int64]*entity.Depot{},
		stocks:        map[int64][]entity.StockLine{},
		notifications: map[int64]bool{},
	}
	for _, d := range depots {
		f.depots[d.ID] = d
	}
	return f
}

func (f *fakeBackend) ListDepots(context.Context) ([]*entity.Depot, error) {
	out := []*entity.Depot{}
	for id := int64(1); id <= int64(len(f.depots)+10); id++ {
		if d, ok := f.depots[id]; ok {
			c := *d
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeBackend) GetDepot(_ context.Context, id int64) (*entity.Depot, error) {
	d, ok := f.depots[id]
	if !ok {
		return nil, fmt.Errorf("dépôt %d: %w", id, domain.ErrNotFound)
	}
	c := *d
	return &c, nil
}

func (f *fakeBackend) CreateDepot(_ context.Context, d *entity.Depot) (*entity.Depot, error) {
	d.ID = int64(len(f.depots) + 100)
	f.depots[d.ID] = d
	return d, nil
}

func (f *fakeBackend) UpdateDepot(_ context.Context, d *entity.Depot) error {
	f.depots[d.ID] = d
	return nil
}

func (f *fakeBackend) DeleteDepot(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	delete(f.depots, id)
	return nil
}

func (f *fakeBackend) SetNotification(_ context.Context, id int64, pending bool) error {
	f.notifications[id] = pending
	return nil
}

func (f *fakeBackend) ReadStock(_ context.Context, depotID int64) ([]entity.StockLine, error) {
	return f.stocks[depotID], nil
}

func (f *fakeBackend) ApplyDelta(_ context.Context, depotID int64, sku, name string, delta int) error {
	f.stocks[depotID] = stock.MergeDelta(f.stocks[depotID], sku, name, delta)
	return nil
}

func (f *fakeBackend) CreateLog(_ context.Context, e *entity.LogEntry) (*entity.LogEntry, error) {
	c := *e
	c.ID = int64(len(f.logs) + 1)
	f.logs = append(f.logs, &c)
	return &c, nil
}

func (f *fakeBackend) ListLogs(context.Context) ([]*entity.LogEntry, error) {
	return f.logs, nil
}

type fakeCatalog map[string]*entity.ProductRef

func (c fakeCatalog) FindBySKU(_ context.Context, sku string) (*entity.ProductRef, error) {
	ref, ok := c[sku]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ref
	return &cp, nil
}

func (c fakeCatalog) ApplyDelta(_ context.Context, ref *entity.ProductRef, delta int) (int, error) {
	c[ref.SKU].StockQuantity += delta
	return c[ref.SKU].StockQuantity, nil
}

// fakeReceipts registra el último comprobante pedido.
type fakeReceipts struct{ last ports.Receipt }

func (r *fakeReceipts) GenerateReceipt(_ context.Context, rc ports.Receipt) ([]byte, error) {
	r.last = rc
	return []byte("%PDF-fake"), nil
}

type fakeExporter struct {
	depotName string
	lines     []entity.StockLine
}

func (e *fakeExporter) ExportStock(_ context.Context, depotName string, lines []entity.StockLine) ([]byte, error) {
	e.depotName, e.lines = depotName, lines
	return []byte("xlsx"), nil
}
