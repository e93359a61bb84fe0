package localstock_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/infrastructure/localstock"
)

// call petición registrada por el backend falso.
type call struct {
	Method string
	Path   string
	Body   map[string]any
}

type fakeBackend struct {
	mu     sync.Mutex
	calls  []call
	stocks map[string]string // depotId → respuesta de /stock_by_depot/select
	logs   string
}

func (f *fakeBackend) record(r *http.Request) map[string]any {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: r.Method, Path: r.URL.Path, Body: body})
	f.mu.Unlock()
	return body
}

func (f *fakeBackend) writes() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.Method != http.MethodGet {
			out = append(out, c)
		}
	}
	return out
}

func newFake(t *testing.T) (*fakeBackend, *localstock.Client) {
	f := &fakeBackend{stocks: map[string]string{}, logs: "[]"}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /depots/select", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_, _ = w.Write([]byte(`[
			{"id":1,"name":"Saint-Cannat","localisation":"Saint-Cannat","notif":"0"},
			{"id":2,"name":"Aix","localisation":"Aix","username_associe":"lea","notif":1}
		]`))
	})
	mux.HandleFunc("GET /stock_by_depot/select/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		body, ok := f.stocks[r.PathValue("id")]
		if !ok {
			body = "[]"
		}
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("GET /logs/select", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_, _ = w.Write([]byte(f.logs))
	})
	mux.HandleFunc("POST /logs/create", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42,"date_log":"2026-03-01T10:00:00Z"}`))
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		if f.record(r)["password"] != "secreto" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"username":"lea","role":"vendeuse"}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_, _ = w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, localstock.NewClient(srv.URL, 5*time.Second)
}

// ── Dépôts ────────────────────────────────────────────────────────────────────

func TestListDepots_CamposDeCable(t *testing.T) {
	_, c := newFake(t)
	list, err := c.ListDepots(t.Context())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, &entity.Depot{ID: 2, Name: "Aix", Location: "Aix", AssignedUser: "lea", PendingNotification: true}, list[1])
	assert.False(t, list[0].PendingNotification)
}

func TestGetDepot_NoExiste(t *testing.T) {
	_, c := newFake(t)
	_, err := c.GetDepot(t.Context(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetNotification_EnviaNotifComoString(t *testing.T) {
	f, c := newFake(t)
	require.NoError(t, c.SetNotification(t.Context(), 2, false))
	require.Len(t, f.writes(), 1)
	assert.Equal(t, call{Method: http.MethodPut, Path: "/depots/update/2", Body: map[string]any{"notif": "0"}}, f.writes()[0])
}

// ── Stock ─────────────────────────────────────────────────────────────────────

func TestReadStock_BlobStringificado(t *testing.T) {
	f, c := newFake(t)
	f.stocks["2"] = `[{"id":7,"depot_id":2,"stock":"[{\"sku\":\"A1\",\"nom_produit\":\"Shirt\",\"quantite\":\"4\"}]"}]`

	lines, err := c.ReadStock(t.Context(), 2)
	require.NoError(t, err)
	assert.Equal(t, []entity.StockLine{{SKU: "A1", ProductName: "Shirt", Quantity: 4}}, lines)
}

func TestReadStock_CantidadCorruptaEsBackendUnavailable(t *testing.T) {
	f, c := newFake(t)
	f.stocks["2"] = `[{"id":7,"depot_id":2,"stock":[{"sku":"A1","nom_produit":"Shirt","quantite":"NaN"}]}]`

	_, err := c.ReadStock(t.Context(), 2)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestReadStock_SinRegistroEsListaVacia(t *testing.T) {
	_, c := newFake(t)
	lines, err := c.ReadStock(t.Context(), 3)
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestApplyDelta_DepotVacioCreaRegistro(t *testing.T) {
	f, c := newFake(t)
	require.NoError(t, c.ApplyDelta(t.Context(), 3, "A1", "Shirt", 3))

	writes := f.writes()
	require.Len(t, writes, 1)
	assert.Equal(t, "/stock_by_depot/create", writes[0].Path)
	assert.EqualValues(t, 3, writes[0].Body["depot_id"])
	assert.Equal(t, []any{map[string]any{"sku": "A1", "nom_produit": "Shirt", "quantite": float64(3)}}, writes[0].Body["stock"])
}

func TestApplyDelta_DepotConRegistroEnviaDelta(t *testing.T) {
	f, c := newFake(t)
	f.stocks["2"] = `[{"id":7,"depot_id":2,"stock":[{"sku":"A1","nom_produit":"Shirt","quantite":4}]}]`

	require.NoError(t, c.ApplyDelta(t.Context(), 2, "A1", "Shirt", -3))
	writes := f.writes()
	require.Len(t, writes, 1)
	assert.Equal(t, call{
		Method: http.MethodPut,
		Path:   "/stock_by_depot/update/2",
		Body:   map[string]any{"sku": "A1", "quantite": float64(-3), "nom_produit": "Shirt"},
	}, writes[0])
}

// ── Diario ────────────────────────────────────────────────────────────────────

func TestCreateLog_ContenidoComoArreglo(t *testing.T) {
	f, c := newFake(t)
	entry := &entity.LogEntry{
		Action:  entity.OpReception.ActionLabel(),
		Reason:  entity.ReasonReception,
		DepotID: 3,
		Content: []entity.StockLine{{SKU: "A1", ProductName: "Shirt", Quantity: 3}},
	}
	created, err := c.CreateLog(t.Context(), entry)
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), created.Date.UTC())

	writes := f.writes()
	require.Len(t, writes, 1)
	assert.Equal(t, "Réception de stock", writes[0].Body["action_log"])
	assert.Equal(t, "Réception", writes[0].Body["nom_log"])
	assert.EqualValues(t, 3, writes[0].Body["depot_id"])
	assert.Equal(t, []any{map[string]any{"sku": "A1", "nom_produit": "Shirt", "quantite": float64(3)}}, writes[0].Body["contenu_log"])
}

func TestListLogs_AceptaFormasHeredadas(t *testing.T) {
	f, c := newFake(t)
	f.logs = `[
		{"id":1,"action_log":"Sortie de stock","nom_log":"Vente","depot_id":2,"contenu_log":[{"sku":"A1","nom_produit":"Shirt","quantite":1}]},
		{"id":2,"action_log":"Sortie de stock","nom_log":"Perte","depot_id":2,"contenu_log":"\"[{\\\"sku\\\":\\\"B2\\\",\\\"nom_produit\\\":\\\"Robe\\\",\\\"quantite\\\":2}]\""}
	]`
	logs, err := c.ListLogs(t.Context())
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, []entity.StockLine{{SKU: "A1", ProductName: "Shirt", Quantity: 1}}, logs[0].Content)
	assert.Equal(t, []entity.StockLine{{SKU: "B2", ProductName: "Robe", Quantity: 2}}, logs[1].Content)
}

// ── Identidad y errores ───────────────────────────────────────────────────────

func TestLogin(t *testing.T) {
	_, c := newFake(t)
	u, err := c.Login(t.Context(), "lea", "secreto")
	require.NoError(t, err)
	assert.Equal(t, &entity.User{Username: "lea", Role: entity.RoleVendeuse}, u)

	_, err = c.Login(t.Context(), "lea", "otra")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestBackendCaido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := localstock.NewClient(srv.URL, time.Second)

	_, err := c.ListDepots(t.Context())
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
	assert.ErrorIs(t, c.ApplyDelta(t.Context(), 2, "A1", "Shirt", 1), domain.ErrBackendUnavailable)
}

func TestBackendCaido_ExtractoDelCuerpoEsUTF8Valido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "x"+strings.Repeat("é", 300), http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := localstock.NewClient(srv.URL, time.Second)

	_, err := c.ListDepots(t.Context())
	require.ErrorIs(t, err, domain.ErrBackendUnavailable)
	assert.True(t, utf8.ValidString(err.Error()), "el mensaje no debe partir caracteres")
	assert.Contains(t, err.Error(), "…")
}
