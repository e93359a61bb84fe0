package memory_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/depot-stock/internal/application/ports"
	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/infrastructure/memory"
)

var key = ports.DraftKey{Username: "marie", Operation: entity.OpExit}

func TestDraftStore_UpdateConErrorNoModifica(t *testing.T) {
	s := memory.NewDraftStore()
	s.Put(key, &entity.Draft{Operation: entity.OpExit, Lines: []entity.DraftLine{{SKU: "A1", Quantity: 1}}})

	_, err := s.Update(key, func(d *entity.Draft) error {
		d.Lines[0].Quantity = 50
		return errors.New("rechazado")
	})
	require.Error(t, err)

	d, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, 1, d.Lines[0].Quantity)
}

func TestDraftStore_UpdateSinBorrador(t *testing.T) {
	s := memory.NewDraftStore()
	_, err := s.Update(key, func(*entity.Draft) error { return nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDraftStore_GetDevuelveCopia(t *testing.T) {
	s := memory.NewDraftStore()
	s.Put(key, &entity.Draft{Lines: []entity.DraftLine{{SKU: "A1", Quantity: 1}}})
	d, _ := s.Get(key)
	d.Lines[0].Quantity = 7

	again, _ := s.Get(key)
	assert.Equal(t, 1, again.Lines[0].Quantity)

	s.Delete(key)
	_, ok := s.Get(key)
	assert.False(t, ok)
}

func TestDraftStore_UpdatesConcurrentes(t *testing.T) {
	s := memory.NewDraftStore()
	s.Put(key, &entity.Draft{Lines: []entity.DraftLine{{SKU: "A1"}}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(key, func(d *entity.Draft) error {
				d.Lines[0].Quantity++
				return nil
			})
		}()
	}
	wg.Wait()

	d, _ := s.Get(key)
	assert.Equal(t, 50, d.Lines[0].Quantity)
}
