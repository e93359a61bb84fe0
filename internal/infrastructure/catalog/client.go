// Package catalog adapta la API REST del catálogo e-commerce (estilo WooCommerce),
// autoritativa para el stock de Saint-Cannat.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/depot-stock/internal/application/ports"
	"github.com/jhoicas/depot-stock/internal/domain"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa CatalogBackend.
var _ ports.CatalogBackend = (*Client)(nil)

// maxBody límite de lectura de respuestas del catálogo.
const maxBody = 1 << 20

// Config credenciales y destino del catálogo.
type Config struct {
	BaseURL        string // ej. https://boutique.example/wp-json/wc/v3
	ConsumerKey    string
	ConsumerSecret string
	Timeout        time.Duration
}

// Client adaptador REST del catálogo.
type Client struct {
	baseURL    string
	key        string
	secret     string
	httpClient *http.Client
}

// NewClient construye el adaptador. Timeout cero usa 15 s.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		key:        cfg.ConsumerKey,
		secret:     cfg.ConsumerSecret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// product forma de un producto/variación en la API del catálogo.
type product struct {
	ID            int64  `json:"id"`
	ParentID      int64  `json:"parent_id"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	StockQuantity *int   `json:"stock_quantity"`
}

type stockUpdate struct {
	StockQuantity int `json:"stock_quantity"`
}

// FindBySKU consulta GET /products?sku=. Cero o varios resultados → domain.ErrNotFound.
func (c *Client) FindBySKU(ctx context.Context, sku string) (*entity.ProductRef, error) {
	if strings.TrimSpace(sku) == "" {
		return nil, fmt.Errorf("catalog: sku vacío: %w", domain.ErrInvalidInput)
	}
	var list []product
	if err := c.do(ctx, http.MethodGet, "/products?sku="+url.QueryEscape(sku), nil, &list); err != nil {
		return nil, err
	}
	if len(list) != 1 {
		return nil, fmt.Errorf("catalog: sku %q (%d resultados): %w", sku, len(list), domain.ErrNotFound)
	}
	p := list[0]
	ref := &entity.ProductRef{ID: p.ID, ParentID: p.ParentID, SKU: p.SKU, Name: p.Name}
	if ref.SKU == "" {
		ref.SKU = sku
	}
	if p.StockQuantity != nil {
		ref.StockQuantity = *p.StockQuantity
	}
	return ref, nil
}

// ApplyDelta relee stock_quantity, calcula actual+delta y escribe el valor absoluto con
// PUT /products/{parent_id}/variations/{id}. El catálogo no ofrece incremento ni
// compare-and-swap: dos ajustes concurrentes del mismo SKU pueden perder uno.
func (c *Client) ApplyDelta(ctx context.Context, ref *entity.ProductRef, delta int) (int, error) {
	if !ref.Writable() {
		return 0, domain.ErrIncompleteProductRef
	}
	current, err := c.FindBySKU(ctx, ref.SKU)
	if err != nil {
		return 0, err
	}
	newQty := current.StockQuantity + delta
	path := fmt.Sprintf("/products/%d/variations/%d", ref.ParentID, ref.ID)
	if err := c.do(ctx, http.MethodPut, path, stockUpdate{StockQuantity: newQty}, nil); err != nil {
		return 0, err
	}
	return newQty, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("catalog: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("catalog: crear HTTP request: %w", err)
	}
	if c.key != "" {
		req.SetBasicAuth(c.key, c.secret)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog: %s %s: %v: %w", method, path, err, domain.ErrBackendUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("catalog: leer respuesta: %v: %w", err, domain.ErrBackendUnavailable)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("catalog: %s %s: HTTP %d: %s: %w",
			method, path, resp.StatusCode, excerpt(raw), domain.ErrBackendUnavailable)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("catalog: deserializar respuesta: %w", err)
	}
	return nil
}

// excerpt recorta el cuerpo a 200 runas sin partir caracteres multibyte.
func excerpt(b []byte) string {
	s := strings.ToValidUTF8(strings.TrimSpace(string(b)), "\uFFFD")
	if utf8.RuneCountInString(s) <= 200 {
		return s
	}
	return string([]rune(s)[:200]) + "…"
}
