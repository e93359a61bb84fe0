// Package localstock adapta la API REST del backend local de stock (dépôts, blobs de
// stock por dépôt, diario de movimientos e identidad).
package localstock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/depot-stock/internal/application/dto"
	"github.com/jhoicas/depot-stock/internal/application/ports"
	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/domain/stock"
)

// Verificar en tiempo de compilación que Client implementa los puertos del backend local.
var (
	_ ports.DepotDirectory   = (*Client)(nil)
	_ ports.LocalStock       = (*Client)(nil)
	_ ports.MovementLog      = (*Client)(nil)
	_ ports.IdentityProvider = (*Client)(nil)
)

const maxBody = 4 << 20

// Client adaptador REST del backend local.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el adaptador. Timeout cero usa 15 s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Dépôts ────────────────────────────────────────────────────────────────────

// ListDepots GET /depots/select.
func (c *Client) ListDepots(ctx context.Context) ([]*entity.Depot, error) {
	var wire []dto.DepotWire
	if err := c.do(ctx, http.MethodGet, "/depots/select", nil, &wire); err != nil {
		return nil, err
	}
	out := make([]*entity.Depot, 0, len(wire))
	for _, w := range wire {
		out = append(out, depotFromWire(w))
	}
	return out, nil
}

// GetDepot busca el dépôt en el listado; el backend no expone lectura individual.
func (c *Client) GetDepot(ctx context.Context, id int64) (*entity.Depot, error) {
	list, err := c.ListDepots(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range list {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, fmt.Errorf("localstock: dépôt %d: %w", id, domain.ErrNotFound)
}

// CreateDepot POST /depots/create.
func (c *Client) CreateDepot(ctx context.Context, d *entity.Depot) (*entity.Depot, error) {
	in := dto.DepotWire{
		Name:            d.Name,
		Localisation:    d.Location,
		UsernameAssocie: d.AssignedUser,
		Notif:           dto.NotifFlag(d.PendingNotification),
	}
	var out dto.DepotWire
	if err := c.do(ctx, http.MethodPost, "/depots/create", in, &out); err != nil {
		return nil, err
	}
	return depotFromWire(out), nil
}

// UpdateDepot PUT /depots/update/{id} con nombre, localización y usuario asociado.
func (c *Client) UpdateDepot(ctx context.Context, d *entity.Depot) error {
	in := dto.DepotUpdateWire{
		Name:            &d.Name,
		Localisation:    &d.Location,
		UsernameAssocie: &d.AssignedUser,
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/depots/update/%d", d.ID), in, nil)
}

// DeleteDepot DELETE /depots/delete/{id}.
func (c *Client) DeleteDepot(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/depots/delete/%d", id), nil, nil)
}

// SetNotification PUT /depots/update/{id} {"notif": "0"|"1"}.
func (c *Client) SetNotification(ctx context.Context, depotID int64, pending bool) error {
	flag := dto.NotifFlag(pending)
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/depots/update/%d", depotID), dto.DepotUpdateWire{Notif: &flag}, nil)
}

// ── Stock ─────────────────────────────────────────────────────────────────────

// ReadStock GET /stock_by_depot/select/{depotId}. Sin registro → lista vacía.
func (c *Client) ReadStock(ctx context.Context, depotID int64) ([]entity.StockLine, error) {
	rec, err := c.stockRecord(ctx, depotID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return []entity.StockLine{}, nil
	}
	lines, err := stock.DecodeLines(rec.Stock)
	if err != nil {
		return nil, fmt.Errorf("localstock: dépôt %d: %v: %w", depotID, err, domain.ErrBackendUnavailable)
	}
	return lines, nil
}

// ApplyDelta crea el registro del dépôt sembrado con la línea si no existe; si existe
// envía el delta firmado y el backend lo fusiona en el blob.
func (c *Client) ApplyDelta(ctx context.Context, depotID int64, sku, productName string, delta int) error {
	rec, err := c.stockRecord(ctx, depotID)
	if err != nil {
		return err
	}
	if rec == nil {
		blob, err := stock.EncodeLines([]entity.StockLine{{SKU: sku, ProductName: productName, Quantity: delta}})
		if err != nil {
			return err
		}
		return c.do(ctx, http.MethodPost, "/stock_by_depot/create", dto.StockCreateWire{DepotID: depotID, Stock: blob}, nil)
	}
	in := dto.StockUpdateWire{SKU: sku, Quantite: delta, NomProduit: productName}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/stock_by_depot/update/%d", depotID), in, nil)
}

func (c *Client) stockRecord(ctx context.Context, depotID int64) (*dto.StockRecordWire, error) {
	var recs []dto.StockRecordWire
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/stock_by_depot/select/%d", depotID), nil, &recs); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

// ── Diario ────────────────────────────────────────────────────────────────────

// CreateLog POST /logs/create. contenu_log viaja como arreglo, sin doble codificación.
func (c *Client) CreateLog(ctx context.Context, entry *entity.LogEntry) (*entity.LogEntry, error) {
	content, err := stock.EncodeLines(entry.Content)
	if err != nil {
		return nil, err
	}
	in := dto.LogCreateWire{
		ActionLog:  entry.Action,
		NomLog:     entry.Reason,
		DepotID:    entry.DepotID,
		ContenuLog: content,
	}
	var out dto.LogWire
	if err := c.do(ctx, http.MethodPost, "/logs/create", in, &out); err != nil {
		return nil, err
	}
	created := *entry
	created.ID = out.ID
	if !out.DateLog.IsZero() {
		created.Date = out.DateLog
	}
	return &created, nil
}

// ListLogs GET /logs/select. Acepta contenu_log en forma de arreglo o de string heredado.
func (c *Client) ListLogs(ctx context.Context) ([]*entity.LogEntry, error) {
	var wire []dto.LogWire
	if err := c.do(ctx, http.MethodGet, "/logs/select", nil, &wire); err != nil {
		return nil, err
	}
	out := make([]*entity.LogEntry, 0, len(wire))
	for _, w := range wire {
		lines, err := stock.DecodeLines(w.ContenuLog)
		if err != nil {
			return nil, fmt.Errorf("localstock: log %d: %v: %w", w.ID, err, domain.ErrBackendUnavailable)
		}
		out = append(out, &entity.LogEntry{
			ID:      w.ID,
			Action:  w.ActionLog,
			Reason:  w.NomLog,
			DepotID: w.DepotID,
			Content: lines,
			Date:    w.DateLog,
		})
	}
	return out, nil
}

// ── Identidad ─────────────────────────────────────────────────────────────────

// Login POST /auth/login. Credenciales inválidas → domain.ErrUnauthorized.
func (c *Client) Login(ctx context.Context, username, password string) (*entity.User, error) {
	var out dto.UserWire
	in := dto.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &entity.User{Username: out.Username, Role: out.Role}, nil
}

// ── HTTP ──────────────────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("localstock: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("localstock: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("localstock: %s %s: %v: %w", method, path, err, domain.ErrBackendUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("localstock: leer respuesta: %v: %w", err, domain.ErrBackendUnavailable)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("localstock: %s %s: %w", method, path, domain.ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("localstock: %s %s: %w", method, path, domain.ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("localstock: %s %s: HTTP %d: %s: %w",
			method, path, resp.StatusCode, excerpt(raw), domain.ErrBackendUnavailable)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("localstock: deserializar respuesta: %w", err)
	}
	return nil
}

func depotFromWire(w dto.DepotWire) *entity.Depot {
	return &entity.Depot{
		ID:                  w.ID,
		Name:                w.Name,
		Location:            w.Localisation,
		AssignedUser:        w.UsernameAssocie,
		PendingNotification: bool(w.Notif),
	}
}

// excerpt recorta el cuerpo a 200 runas sin partir caracteres multibyte.
func excerpt(b []byte) string {
	s := strings.ToValidUTF8(strings.TrimSpace(string(b)), "\uFFFD")
	if utf8.RuneCountInString(s) <= 200 {
		return s
	}
	return string([]rune(s)[:200]) + "…"
}
