package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/infrastructure/catalog"
)

// fakeShop simula la API del catálogo con una sola variación.
type fakeShop struct {
	mu       sync.Mutex
	qty      int
	puts     []map[string]int
	putPaths []string
	results  int
	failPut  bool
	user     string
}

func (f *fakeShop) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.user, _, _ = r.BasicAuth()
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "/products", r.URL.Path)
			list := []map[string]any{}
			for i := 0; i < f.results; i++ {
				list = append(list, map[string]any{
					"id": 501, "parent_id": 50, "name": "Robe", "sku": r.URL.Query().Get("sku"), "stock_quantity": f.qty,
				})
			}
			_ = json.NewEncoder(w).Encode(list)
		case http.MethodPut:
			if f.failPut {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`{"code":"down"}`))
				return
			}
			var body map[string]int
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.puts = append(f.puts, body)
			f.putPaths = append(f.putPaths, r.URL.Path)
			f.qty = body["stock_quantity"]
			_, _ = w.Write([]byte(`{}`))
		}
	})
}

func newClient(t *testing.T, shop *fakeShop) *catalog.Client {
	srv := httptest.NewServer(shop.handler(t))
	t.Cleanup(srv.Close)
	return catalog.NewClient(catalog.Config{BaseURL: srv.URL + "/", ConsumerKey: "ck_test", ConsumerSecret: "cs_test"})
}

func TestFindBySKU_UnResultado(t *testing.T) {
	shop := &fakeShop{qty: 10, results: 1}
	c := newClient(t, shop)

	ref, err := c.FindBySKU(t.Context(), "SC-1")
	require.NoError(t, err)
	assert.Equal(t, &entity.ProductRef{ID: 501, ParentID: 50, SKU: "SC-1", Name: "Robe", StockQuantity: 10}, ref)
	assert.Equal(t, "ck_test", shop.user, "usa las credenciales del catálogo")
}

func TestFindBySKU_CeroOVariosEsNotFound(t *testing.T) {
	for _, n := range []int{0, 2} {
		c := newClient(t, &fakeShop{results: n})
		_, err := c.FindBySKU(t.Context(), "SC-1")
		assert.ErrorIs(t, err, domain.ErrNotFound, "resultados=%d", n)
	}
}

func TestApplyDelta_LeeYEscribeValorAbsoluto(t *testing.T) {
	shop := &fakeShop{qty: 10, results: 1}
	c := newClient(t, shop)

	ref, err := c.FindBySKU(t.Context(), "SC-1")
	require.NoError(t, err)

	// Otro proceso modificó el stock entre la búsqueda y el ajuste: se usa el valor actual.
	shop.mu.Lock()
	shop.qty = 8
	shop.mu.Unlock()

	n, err := c.ApplyDelta(t.Context(), ref, -3)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []map[string]int{{"stock_quantity": 5}}, shop.puts)
	assert.Equal(t, []string{"/products/50/variations/501"}, shop.putPaths)
}

func TestApplyDelta_RequiereAmbosIDs(t *testing.T) {
	c := newClient(t, &fakeShop{results: 1})
	_, err := c.ApplyDelta(t.Context(), &entity.ProductRef{ID: 501, SKU: "SC-1"}, 1)
	assert.ErrorIs(t, err, domain.ErrIncompleteProductRef)
}

func TestApplyDelta_Non2xxEsBackendUnavailable(t *testing.T) {
	shop := &fakeShop{qty: 1, results: 1, failPut: true}
	c := newClient(t, shop)
	_, err := c.ApplyDelta(t.Context(), &entity.ProductRef{ID: 501, ParentID: 50, SKU: "SC-1"}, 1)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
	assert.Contains(t, err.Error(), "502")
}

func TestFindBySKU_ExtractoDelCuerpoEsUTF8Valido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "x"+strings.Repeat("é", 300), http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	c := catalog.NewClient(catalog.Config{BaseURL: srv.URL + "/", ConsumerKey: "ck_test", ConsumerSecret: "cs_test"})

	_, err := c.FindBySKU(t.Context(), "SC-1")
	require.ErrorIs(t, err, domain.ErrBackendUnavailable)
	assert.True(t, utf8.ValidString(err.Error()), "el mensaje no debe partir caracteres")
	assert.Contains(t, err.Error(), "…")
}
