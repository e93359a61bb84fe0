package movement_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/domain/stock"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de los backends
// ──────────────────────────────────────────────────────────────────────────────

type catalogWrite struct {
	ParentID, ID int64
	Previous     int
	NewQty       int
}

type fakeCatalog struct {
	products map[string]*entity.ProductRef
	writes   []catalogWrite
	failSKU  map[string]bool
}

func newFakeCatalog(refs ...*entity.ProductRef) *fakeCatalog {
	c := &fakeCatalog{products: map[string]*entity.ProductRef{}, failSKU: map[string]bool{}}
	for _, r := range refs {
		c.products[r.SKU] = r
	}
	return c
}

func (c *fakeCatalog) FindBySKU(_ context.Context, sku string) (*entity.ProductRef, error) {
	p, ok := c.products[sku]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (c *fakeCatalog) ApplyDelta(_ context.Context, ref *entity.ProductRef, delta int) (int, error) {
	if c.failSKU[ref.SKU] {
		return 0, fmt.Errorf("HTTP 500: %w", domain.ErrBackendUnavailable)
	}
	p := c.products[ref.SKU]
	prev := p.StockQuantity
	p.StockQuantity = prev + delta
	c.writes = append(c.writes, catalogWrite{ParentID: ref.ParentID, ID: ref.ID, Previous: prev, NewQty: p.StockQuantity})
	return p.StockQuantity, nil
}

type localDelta struct {
	DepotID int64
	SKU     string
	Name    string
	Delta   int
}

type fakeLocal struct {
	depots        map[int64]*entity.Depot
	stocks        map[int64][]entity.StockLine
	deltas        []localDelta
	attempts      []localDelta
	failSKU       map[string]bool
	logs          []*entity.LogEntry
	logErr        error
	notifications map[int64]bool
}

func newFakeLocal(depots ...*entity.Depot) *fakeLocal {
	l := &fakeLocal{
		depots:        map[int64]*entity.Depot{},
		stocks:        map[int64][]entity.StockLine{},
		failSKU:       map[string]bool{},
		notifications: map[int64]bool{},
	}
	for _, d := range depots {
		l.depots[d.ID] = d
	}
	return l
}

func (l *fakeLocal) ListDepots(context.Context) ([]*entity.Depot, error) {
	out := make([]*entity.Depot, 0, len(l.depots))
	for _, d := range l.depots {
		out = append(out, d)
	}
	return out, nil
}

func (l *fakeLocal) GetDepot(_ context.Context, id int64) (*entity.Depot, error) {
	d, ok := l.depots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (l *fakeLocal) CreateDepot(_ context.Context, d *entity.Depot) (*entity.Depot, error) {
	d.ID = int64(len(l.depots) + 100)
	l.depots[d.ID] = d
	return d, nil
}

func (l *fakeLocal) UpdateDepot(_ context.Context, d *entity.Depot) error {
	l.depots[d.ID] = d
	return nil
}

func (l *fakeLocal) DeleteDepot(_ context.Context, id int64) error {
	delete(l.depots, id)
	return nil
}

func (l *fakeLocal) SetNotification(_ context.Context, id int64, pending bool) error {
	l.notifications[id] = pending
	return nil
}

func (l *fakeLocal) ReadStock(_ context.Context, depotID int64) ([]entity.StockLine, error) {
	return l.stocks[depotID], nil
}

func (l *fakeLocal) ApplyDelta(_ context.Context, depotID int64, sku, name string, delta int) error {
	d := localDelta{DepotID: depotID, SKU: sku, Name: name, Delta: delta}
	l.attempts = append(l.attempts, d)
	if l.failSKU[sku] {
		return fmt.Errorf("HTTP 503: %w", domain.ErrBackendUnavailable)
	}
	l.deltas = append(l.deltas, d)
	l.stocks[depotID] = stock.MergeDelta(l.stocks[depotID], sku, name, delta)
	return nil
}

func (l *fakeLocal) CreateLog(_ context.Context, e *entity.LogEntry) (*entity.LogEntry, error) {
	if l.logErr != nil {
		return nil, l.logErr
	}
	cp := *e
	cp.ID = int64(len(l.logs) + 1)
	l.logs = append(l.logs, &cp)
	return &cp, nil
}

func (l *fakeLocal) ListLogs(context.Context) ([]*entity.LogEntry, error) {
	return l.logs, nil
}

var errLogDown = errors.New("logs caído")
