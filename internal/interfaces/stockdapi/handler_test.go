package stockdapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/depot-stock/internal/application/stockd"
	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/infrastructure/localstock"
	"github.com/jhoicas/depot-stock/internal/interfaces/stockdapi"
)

// newServer levanta stockd sobre repos en memoria y devuelve su URL base.
func newServer(t *testing.T) (string, *store, *stockd.Service) {
	t.Helper()
	s := newStore()
	svc := stockd.NewService(depotRepo{s}, stockRepo{s}, logRepo{s}, userRepo{s}, txRunner{s}, zerolog.Nop())
	app := fiber.New()
	stockdapi.Register(app, stockdapi.NewHandler(svc, zerolog.Nop()))
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return srv.URL, s, svc
}

func send(t *testing.T, method, url string, body string) (int, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req, err := http.NewRequestWithContext(t.Context(), method, url, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

// ── Formato de cable ──────────────────────────────────────────────────────────

func TestDepots_FormatoDeCable(t *testing.T) {
	base, _, _ := newServer(t)

	code, body := send(t, http.MethodPost, base+"/depots/create", `{"name":"Aix","localisation":"Cours Mirabeau","username_associe":"lea"}`)
	require.Equal(t, http.StatusCreated, code, string(body))

	code, body = send(t, http.MethodPut, base+"/depots/update/1", `{"notif":"1"}`)
	require.Equal(t, http.StatusOK, code, string(body))

	code, body = send(t, http.MethodGet, base+"/depots/select", "")
	require.Equal(t, http.StatusOK, code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Cours Mirabeau", list[0]["localisation"])
	assert.Equal(t, "lea", list[0]["username_associe"])
	assert.Equal(t, "1", list[0]["notif"], "notif viaja como string")

	code, _ = send(t, http.MethodPost, base+"/depots/create", `{"localisation":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code, "nombre requerido")

	code, _ = send(t, http.MethodDelete, base+"/depots/delete/99", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStock_SelectDevuelveBlobComoString(t *testing.T) {
	base, _, _ := newServer(t)
	send(t, http.MethodPost, base+"/depots/create", `{"name":"Aix"}`)

	code, body := send(t, http.MethodGet, base+"/stock_by_depot/select/1", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body))

	code, body = send(t, http.MethodPost, base+"/stock_by_depot/create", `{"depot_id":1,"stock":[{"sku":"A1","nom_produit":"Chemise","quantite":3}]}`)
	require.Equal(t, http.StatusCreated, code, string(body))

	code, body = send(t, http.MethodPut, base+"/stock_by_depot/update/1", `{"sku":"A1","quantite":-1,"nom_produit":"Chemise"}`)
	require.Equal(t, http.StatusOK, code, string(body))

	_, body = send(t, http.MethodGet, base+"/stock_by_depot/select/1", "")
	var recs []struct {
		DepotID int64  `json:"depot_id"`
		Stock   string `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(body, &recs))
	require.Len(t, recs, 1)
	assert.JSONEq(t, `[{"sku":"A1","nom_produit":"Chemise","quantite":2}]`, recs[0].Stock)
}

func TestStock_DeltaEnDepotInexistente(t *testing.T) {
	base, _, _ := newServer(t)

	code, body := send(t, http.MethodPut, base+"/stock_by_depot/update/7", `{"sku":"A1","quantite":1}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, string(body), "NOT_FOUND")

	code, _ = send(t, http.MethodPut, base+"/stock_by_depot/update/7", `{"quantite":1}`)
	assert.Equal(t, http.StatusBadRequest, code, "sku requerido")
}

func TestStockYLogs_CantidadNoEnteraEs400(t *testing.T) {
	base, _, _ := newServer(t)

	code, body := send(t, http.MethodPost, base+"/stock_by_depot/create", `{"depot_id":1,"stock":[{"sku":"A1","nom_produit":"Chemise","quantite":"NaN"}]}`)
	assert.Equal(t, http.StatusBadRequest, code, string(body))

	code, body = send(t, http.MethodPost, base+"/logs/create", `{"action_log":"Sortie de stock","nom_log":"Vente","depot_id":2,"contenu_log":[{"sku":"A1","quantite":3.9}]}`)
	assert.Equal(t, http.StatusBadRequest, code, string(body))
}

func TestLogs_AceptaContenidoHeredadoYDevuelveArreglo(t *testing.T) {
	base, _, _ := newServer(t)

	legacy := `{"action_log":"Sortie de stock","nom_log":"Vente","depot_id":2,"contenu_log":"[{\"sku\":\"A1\",\"nom_produit\":\"Chemise\",\"quantite\":1}]"}`
	code, body := send(t, http.MethodPost, base+"/logs/create", legacy)
	require.Equal(t, http.StatusCreated, code, string(body))

	_, body = send(t, http.MethodGet, base+"/logs/select", "")
	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	content, ok := list[0]["contenu_log"].([]any)
	require.True(t, ok, "contenu_log se expone como arreglo")
	assert.Len(t, content, 1)
	assert.NotEmpty(t, list[0]["date_log"])
}

// ── Cliente del panel contra stockd ───────────────────────────────────────────

func TestClienteLocal_RecorridoCompleto(t *testing.T) {
	base, _, svc := newServer(t)
	require.NoError(t, svc.CreateUser(t.Context(), "lea", "motdepasse", entity.RoleVendeuse))
	client := localstock.NewClient(base, 5*time.Second)
	ctx := t.Context()

	d, err := client.CreateDepot(ctx, &entity.Depot{Name: "Aix", Location: "Centre", AssignedUser: "lea"})
	require.NoError(t, err)
	require.Positive(t, d.ID)

	require.NoError(t, client.ApplyDelta(ctx, d.ID, "A1", "Chemise", 3), "crea el registro")
	require.NoError(t, client.ApplyDelta(ctx, d.ID, "A1", "Chemise", 2), "fusiona el delta")
	require.NoError(t, client.ApplyDelta(ctx, d.ID, "B2", "Robe", -1))

	lines, err := client.ReadStock(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, entity.StockLine{SKU: "A1", ProductName: "Chemise", Quantity: 5}, lines[0])
	assert.Equal(t, -1, lines[1].Quantity)

	require.NoError(t, client.SetNotification(ctx, d.ID, true))
	got, err := client.GetDepot(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, got.PendingNotification)
	assert.Equal(t, "lea", got.AssignedUser)

	entry, err := client.CreateLog(ctx, &entity.LogEntry{
		Action: "Sortie de stock", Reason: entity.ReasonSale, DepotID: d.ID,
		Content: []entity.StockLine{{SKU: "A1", ProductName: "Chemise", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Positive(t, entry.ID)
	assert.False(t, entry.Date.IsZero())

	logs, err := client.ListLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ReasonSale, logs[0].Reason)

	u, err := client.Login(ctx, "lea", "motdepasse")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendeuse, u.Role)

	_, err = client.Login(ctx, "lea", "mauvais")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, client.DeleteDepot(ctx, d.ID))
	_, err = client.GetDepot(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	logs, err = client.ListLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, 1, "el diario sobrevive al dépôt")
}
