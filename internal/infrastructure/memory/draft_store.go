// Package memory implementa almacenes en memoria del proceso.
package memory

import (
	"sync"

	"github.com/jhoicas/depot-stock/internal/application/ports"
	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
)

var _ ports.DraftStore = (*DraftStore)(nil)

// DraftStore borradores por sesión y operación. Nunca se persisten.
type DraftStore struct {
	mu     sync.Mutex
	drafts map[ports.DraftKey]*entity.Draft
}

// NewDraftStore construye el almacén vacío.
func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[ports.DraftKey]*entity.Draft)}
}

// Get devuelve una copia del borrador.
func (s *DraftStore) Get(key ports.DraftKey) (*entity.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[key]
	if !ok {
		return nil, false
	}
	return d.Clone(), true
}

// Put reemplaza el borrador.
func (s *DraftStore) Put(key ports.DraftKey, draft *entity.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[key] = draft.Clone()
}

// Update aplica fn sobre una copia y solo la guarda si fn no devuelve error.
func (s *DraftStore) Update(key ports.DraftKey, fn func(d *entity.Draft) error) (*entity.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := d.Clone()
	if err := fn(c); err != nil {
		return nil, err
	}
	s.drafts[key] = c
	return c.Clone(), nil
}

// Delete descarta el borrador.
func (s *DraftStore) Delete(key ports.DraftKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, key)
}
