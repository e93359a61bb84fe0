package stockdapi_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/domain/repository"
)

// store repos en memoria; un solo mutex hace de transacción.
type store struct {
	mu      sync.Mutex
	depots  map[int64]*entity.Depot
	records map[int64]*entity.StockRecord
	logs    []*entity.LogEntry
	users   map[string]*repository.UserCredentials
	nextID  int64
}

func newStore() *store {
	return &store{
		depots:  map[int64]*entity.Depot{},
		records: map[int64]*entity.StockRecord{},
		users:   map[string]*repository.UserCredentials{},
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

type depotRepo struct{ s *store }

func (r depotRepo) Create(_ context.Context, d *entity.Depot) error {
	d.ID = r.s.id()
	c := *d
	r.s.depots[d.ID] = &c
	return nil
}

func (r depotRepo) GetByID(_ context.Context, id int64) (*entity.Depot, error) {
	d, ok := r.s.depots[id]
	if !ok {
		return nil, nil
	}
	c := *d
	return &c, nil
}

func (r depotRepo) Update(_ context.Context, d *entity.Depot) error {
	if _, ok := r.s.depots[d.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *d
	r.s.depots[d.ID] = &c
	return nil
}

func (r depotRepo) List(context.Context) ([]*entity.Depot, error) {
	out := []*entity.Depot{}
	for _, d := range r.s.depots {
		c := *d
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r depotRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.depots[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.depots, id)
	delete(r.s.records, id)
	return nil
}

type stockRepo struct{ s *store }

func (r stockRepo) ListByDepot(_ context.Context, depotID int64) ([]*entity.StockRecord, error) {
	rec, ok := r.s.records[depotID]
	if !ok {
		return []*entity.StockRecord{}, nil
	}
	c := *rec
	c.Lines = append([]entity.StockLine(nil), rec.Lines...)
	return []*entity.StockRecord{&c}, nil
}

func (r stockRepo) Create(_ context.Context, rec *entity.StockRecord) error {
	rec.ID = r.s.id()
	c := *rec
	r.s.records[rec.DepotID] = &c
	return nil
}

func (r stockRepo) GetForUpdate(ctx context.Context, depotID int64) (*entity.StockRecord, error) {
	list, _ := r.ListByDepot(ctx, depotID)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r stockRepo) Save(_ context.Context, rec *entity.StockRecord) error {
	c := *rec
	r.s.records[rec.DepotID] = &c
	return nil
}

type logRepo struct{ s *store }

func (r logRepo) Create(_ context.Context, e *entity.LogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	c := *e
	r.s.logs = append(r.s.logs, &c)
	return nil
}

func (r logRepo) List(context.Context) ([]*entity.LogEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.LogEntry, len(r.s.logs))
	copy(out, r.s.logs)
	return out, nil
}

type userRepo struct{ s *store }

func (r userRepo) FindByUsername(_ context.Context, username string) (*repository.UserCredentials, error) {
	return r.s.users[username], nil
}

func (r userRepo) Create(_ context.Context, u *repository.UserCredentials) error {
	r.s.users[u.Username] = u
	return nil
}

func (r userRepo) Count(context.Context) (int, error) { return len(r.s.users), nil }

type txRunner struct{ s *store }

func (t txRunner) Run(_ context.Context, fn func(depots repository.DepotRepository, stocks repository.StockRepository) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return fn(depotRepo(t), stockRepo(t))
}
