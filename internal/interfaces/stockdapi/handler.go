// Package stockdapi expone el backend local de stock por REST con el formato de
// cable que consume el panel (localisation, notif "0"/"1", contenu_log...).
package stockdapi

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/depot-stock/internal/application/dto"
	"github.com/jhoicas/depot-stock/internal/application/stockd"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
	"github.com/jhoicas/depot-stock/internal/domain/stock"
	"github.com/jhoicas/depot-stock/pkg/validation"
)

// Handler endpoints de stockd.
type Handler struct {
	svc *stockd.Service
	log zerolog.Logger
}

// NewHandler construye el handler.
func NewHandler(svc *stockd.Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register registra las rutas en app.
func Register(app *fiber.App, h *Handler) {
	app.Get("/depots/select", h.ListDepots)
	app.Post("/depots/create", h.CreateDepot)
	app.Put("/depots/update/:id", h.UpdateDepot)
	app.Delete("/depots/delete/:id", h.DeleteDepot)

	app.Get("/stock_by_depot/select/:depotId", h.SelectStock)
	app.Post("/stock_by_depot/create", h.CreateStock)
	app.Put("/stock_by_depot/update/:depotId", h.UpdateStock)

	app.Get("/logs/select", h.ListLogs)
	app.Post("/logs/create", h.CreateLog)

	app.Post("/auth/login", h.Login)
}

// ── Dépôts ────────────────────────────────────────────────────────────────────

// ListDepots GET /depots/select
func (h *Handler) ListDepots(c *fiber.Ctx) error {
	list, err := h.svc.ListDepots(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.DepotWire, 0, len(list))
	for _, d := range list {
		out = append(out, toDepotWire(d))
	}
	return c.JSON(out)
}

// CreateDepot POST /depots/create
func (h *Handler) CreateDepot(c *fiber.Ctx) error {
	var in dto.DepotWire
	if ok, err := bind(c, &in); !ok {
		return err
	}
	d, err := h.svc.CreateDepot(c.UserContext(), &entity.Depot{
		Name:                in.Name,
		Location:            in.Localisation,
		AssignedUser:        in.UsernameAssocie,
		PendingNotification: bool(in.Notif),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toDepotWire(d))
}

// UpdateDepot PUT /depots/update/:id
func (h *Handler) UpdateDepot(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var in dto.DepotUpdateWire
	if ok, err := bind(c, &in); !ok {
		return err
	}
	patch := stockd.DepotPatch{Name: in.Name, Location: in.Localisation, AssignedUser: in.UsernameAssocie}
	if in.Notif != nil {
		notif := bool(*in.Notif)
		patch.Notif = &notif
	}
	d, err := h.svc.UpdateDepot(c.UserContext(), id, patch)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toDepotWire(d))
}

// DeleteDepot DELETE /depots/delete/:id
func (h *Handler) DeleteDepot(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if err := h.svc.DeleteDepot(c.UserContext(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "dépôt eliminado"})
}

// ── Stock ─────────────────────────────────────────────────────────────────────

// SelectStock GET /stock_by_depot/select/:depotId. Devuelve cero o un registro; el
// blob viaja como string JSON, igual que los clientes existentes esperan.
func (h *Handler) SelectStock(c *fiber.Ctx) error {
	depotID, ok := paramID(c, "depotId")
	if !ok {
		return invalidID(c)
	}
	recs, err := h.svc.ListStock(c.UserContext(), depotID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.StockRecordWire, 0, len(recs))
	for _, r := range recs {
		w, err := toStockRecordWire(r, true)
		if err != nil {
			return writeError(c, h.log, err)
		}
		out = append(out, w)
	}
	return c.JSON(out)
}

// CreateStock POST /stock_by_depot/create
func (h *Handler) CreateStock(c *fiber.Ctx) error {
	var in dto.StockCreateWire
	if ok, err := bind(c, &in); !ok {
		return err
	}
	lines, err := stock.DecodeLines(in.Stock)
	if err != nil {
		return invalidBody(c, "stock inválido")
	}
	rec, err := h.svc.CreateStock(c.UserContext(), in.DepotID, lines)
	if err != nil {
		return writeError(c, h.log, err)
	}
	w, err := toStockRecordWire(rec, false)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(w)
}

// UpdateStock PUT /stock_by_depot/update/:depotId. quantite es un delta firmado que
// se fusiona en el blob del dépôt.
func (h *Handler) UpdateStock(c *fiber.Ctx) error {
	depotID, ok := paramID(c, "depotId")
	if !ok {
		return invalidID(c)
	}
	var in dto.StockUpdateWire
	if ok, err := bind(c, &in); !ok {
		return err
	}
	rec, err := h.svc.ApplyDelta(c.UserContext(), depotID, in.SKU, in.NomProduit, in.Quantite)
	if err != nil {
		return writeError(c, h.log, err)
	}
	w, err := toStockRecordWire(rec, false)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(w)
}

// ── Diario ────────────────────────────────────────────────────────────────────

// ListLogs GET /logs/select
func (h *Handler) ListLogs(c *fiber.Ctx) error {
	list, err := h.svc.ListLogs(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.LogWire, 0, len(list))
	for _, e := range list {
		w, err := toLogWire(e)
		if err != nil {
			return writeError(c, h.log, err)
		}
		out = append(out, w)
	}
	return c.JSON(out)
}

// CreateLog POST /logs/create. contenu_log se acepta como arreglo o como string JSON.
func (h *Handler) CreateLog(c *fiber.Ctx) error {
	var in dto.LogCreateWire
	if ok, err := bind(c, &in); !ok {
		return err
	}
	content, err := stock.DecodeLines(in.ContenuLog)
	if err != nil {
		return invalidBody(c, "contenu_log inválido")
	}
	e, err := h.svc.CreateLog(c.UserContext(), &entity.LogEntry{
		Action:  in.ActionLog,
		Reason:  in.NomLog,
		DepotID: in.DepotID,
		Content: content,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	w, err := toLogWire(e)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(w)
}

// ── Identidad ─────────────────────────────────────────────────────────────────

// Login POST /auth/login
func (h *Handler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	u, err := h.svc.Login(c.UserContext(), in.Username, in.Password)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.UserWire{Username: u.Username, Role: u.Role})
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// bind parsea y valida el cuerpo. Si devuelve false ya escribió la respuesta 400.
func bind(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, invalidBody(c, "cuerpo inválido")
	}
	if err := validation.Struct(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return true, nil
}

func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func toDepotWire(d *entity.Depot) dto.DepotWire {
	return dto.DepotWire{
		ID:              d.ID,
		Name:            d.Name,
		Localisation:    d.Location,
		UsernameAssocie: d.AssignedUser,
		Notif:           dto.NotifFlag(d.PendingNotification),
	}
}

func toStockRecordWire(r *entity.StockRecord, asString bool) (dto.StockRecordWire, error) {
	blob, err := stock.EncodeLines(r.Lines)
	if err != nil {
		return dto.StockRecordWire{}, err
	}
	if asString {
		if blob, err = json.Marshal(string(blob)); err != nil {
			return dto.StockRecordWire{}, err
		}
	}
	return dto.StockRecordWire{ID: r.ID, DepotID: r.DepotID, Stock: blob}, nil
}

func toLogWire(e *entity.LogEntry) (dto.LogWire, error) {
	content, err := stock.EncodeLines(e.Content)
	if err != nil {
		return dto.LogWire{}, err
	}
	return dto.LogWire{
		ID:         e.ID,
		ActionLog:  e.Action,
		NomLog:     e.Reason,
		DepotID:    e.DepotID,
		ContenuLog: content,
		DateLog:    e.Date,
	}, nil
}
